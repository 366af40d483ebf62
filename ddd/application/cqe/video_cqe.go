package cqe

import "reel-service/pkg/errno"

// IngestVideoCqe 视频接收CQE（别名）
type IngestVideoCqe = IngestVideoReq

// IngestVideoReq 接收视频进入流水线的请求
type IngestVideoReq struct {
	UserUUID      string `json:"user_uuid"`                        // 用户UUID，缺省时取请求头
	VideoUUID     string `json:"video_uuid"`                       // 可选，外部指定的视频UUID
	Title         string `json:"title"`                            // 视频标题
	SourceLocator string `json:"source_locator" binding:"required"` // 源视频对象定位符
}

func (req *IngestVideoReq) Validate() error {
	if req.UserUUID == "" {
		return errno.ErrUserUUIDRequired
	}
	if req.SourceLocator == "" {
		return errno.ErrSourceLocatorMissing
	}
	return nil
}

// QueryVideoReq 查询视频请求
type QueryVideoReq struct {
	VideoUUID string `uri:"video_uuid" binding:"required"`
}

func (req *QueryVideoReq) Validate() error {
	if req.VideoUUID == "" {
		return errno.ErrVideoUUIDRequired
	}
	return nil
}

// CancelVideoReq 取消处理请求
type CancelVideoReq struct {
	VideoUUID string `uri:"video_uuid" binding:"required"`
	Reason    string `json:"reason"`
}

func (req *CancelVideoReq) Validate() error {
	if req.VideoUUID == "" {
		return errno.ErrVideoUUIDRequired
	}
	return nil
}

// ListVideosReq 列表视频请求
type ListVideosReq struct {
	UserUUID string `header:"X-User-UUID"`
	Page     int    `form:"page"`
	Size     int    `form:"size"`
}

func (req *ListVideosReq) Validate() error {
	if req.UserUUID == "" {
		return errno.ErrUserUUIDRequired
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Size <= 0 || req.Size > 100 {
		req.Size = 10
	}
	return nil
}
