package repo

import (
	"context"

	"reel-service/ddd/domain/entity"
	"reel-service/ddd/domain/vo"
)

// VideoRepository 视频仓储接口
type VideoRepository interface {
	// CreateVideo 创建视频记录
	CreateVideo(ctx context.Context, video *entity.VideoEntity) error

	// GetVideoByUUID 根据UUID获取视频
	GetVideoByUUID(ctx context.Context, videoUUID string) (*entity.VideoEntity, error)

	// GetVideosByUserUUID 根据用户UUID分页获取视频列表
	GetVideosByUserUUID(ctx context.Context, userUUID string, limit, offset int) ([]*entity.VideoEntity, error)

	// UpdateVideoStatus 更新视频状态
	UpdateVideoStatus(ctx context.Context, videoUUID string, status vo.VideoStatus) error

	// UpdateVideoDuration 更新视频时长
	UpdateVideoDuration(ctx context.Context, videoUUID string, durationSeconds float64) error
}
