package http

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/gin-gonic/gin"

	"reel-service/ddd/application/app"
	"reel-service/ddd/application/cqe"
	"reel-service/ddd/domain/gateway"
	"reel-service/pkg/assert"
	"reel-service/pkg/errno"
	"reel-service/pkg/logger"
	"reel-service/pkg/manager"
	"reel-service/pkg/middleware"
	"reel-service/pkg/restapi"
)

var (
	videoControllerOnce      sync.Once
	singletonVideoController *VideoController
)

// VideoControllerPlugin 视频控制器插件
type VideoControllerPlugin struct{}

func (p *VideoControllerPlugin) Name() string {
	return "videoControllerPlugin"
}

func (p *VideoControllerPlugin) MustCreateController(deps *manager.Dependencies) manager.Controller {
	assert.NotCircular()
	videoControllerOnce.Do(func() {
		pipelineApp, _ := deps.PipelineAppService.(app.PipelineApp)
		if pipelineApp == nil {
			pipelineApp = app.DefaultPipelineApp()
		}
		singletonVideoController = &VideoController{pipelineApp: pipelineApp}
	})
	assert.NotNil(singletonVideoController)
	return singletonVideoController
}

// VideoController 视频流水线控制器
type VideoController struct {
	pipelineApp app.PipelineApp
}

// RegisterRoutes 注册路由
func (c *VideoController) RegisterRoutes(engine *gin.Engine) {
	v1 := engine.Group("/api/v1")
	{
		videos := v1.Group("/videos")
		{
			videos.POST("", c.IngestVideo)                         // 接收视频进入流水线
			videos.GET("", c.ListVideos)                           // 用户视频列表
			videos.GET("/:video_uuid", c.GetVideo)                 // 视频详情
			videos.GET("/:video_uuid/status", c.GetStatus)         // 处理状态快照
			videos.GET("/:video_uuid/status/stream", c.StreamStatus) // 状态SSE流
			videos.GET("/:video_uuid/reels", c.ListReels)          // Reel列表
			videos.GET("/:video_uuid/transcript", c.GetTranscript) // 完整转写
			videos.POST("/:video_uuid/cancel", c.CancelVideo)      // 取消处理
		}
	}
}

// IngestVideo 接收视频进入流水线
func (c *VideoController) IngestVideo(ctx *gin.Context) {
	var req cqe.IngestVideoCqe
	if err := ctx.ShouldBindJSON(&req); err != nil {
		restapi.Failed(ctx, err)
		return
	}
	if req.UserUUID == "" {
		req.UserUUID = middleware.UserUUID(ctx)
	}

	resp, err := c.pipelineApp.IngestVideo(ctx.Request.Context(), &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// GetVideo 视频详情
func (c *VideoController) GetVideo(ctx *gin.Context) {
	req := cqe.QueryVideoReq{VideoUUID: ctx.Param("video_uuid")}
	if err := req.Validate(); err != nil {
		restapi.Failed(ctx, err)
		return
	}

	resp, err := c.pipelineApp.GetVideo(ctx.Request.Context(), req.VideoUUID)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	// JWT主体存在时只允许访问自己的视频
	if userUUID := middleware.UserUUID(ctx); userUUID != "" && resp.UserUUID != userUUID {
		restapi.Failed(ctx, errno.ErrVideoNotFound)
		return
	}
	restapi.Success(ctx, resp)
}

// authorizeVideo JWT主体存在时校验视频归属，非本人按不存在处理
func (c *VideoController) authorizeVideo(ctx *gin.Context, videoUUID string) bool {
	userUUID := middleware.UserUUID(ctx)
	if userUUID == "" {
		return true
	}
	video, err := c.pipelineApp.GetVideo(ctx.Request.Context(), videoUUID)
	if err != nil {
		restapi.Failed(ctx, err)
		return false
	}
	if video.UserUUID != userUUID {
		restapi.Failed(ctx, errno.ErrVideoNotFound)
		return false
	}
	return true
}

// ListVideos 用户视频列表
func (c *VideoController) ListVideos(ctx *gin.Context) {
	req := cqe.ListVideosReq{UserUUID: middleware.UserUUID(ctx)}
	if err := ctx.ShouldBindQuery(&req); err != nil {
		restapi.Failed(ctx, err)
		return
	}
	if req.UserUUID == "" {
		req.UserUUID = middleware.UserUUID(ctx)
	}

	resp, err := c.pipelineApp.ListVideos(ctx.Request.Context(), &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// GetStatus 处理状态快照
func (c *VideoController) GetStatus(ctx *gin.Context) {
	req := cqe.QueryVideoReq{VideoUUID: ctx.Param("video_uuid")}
	if err := req.Validate(); err != nil {
		restapi.Failed(ctx, err)
		return
	}

	if !c.authorizeVideo(ctx, req.VideoUUID) {
		return
	}

	resp, err := c.pipelineApp.GetStatus(ctx.Request.Context(), req.VideoUUID)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// StreamStatus 通过SSE推送状态变化，先发当前快照再发后续更新
func (c *VideoController) StreamStatus(ctx *gin.Context) {
	req := cqe.QueryVideoReq{VideoUUID: ctx.Param("video_uuid")}
	if err := req.Validate(); err != nil {
		restapi.Failed(ctx, err)
		return
	}

	if !c.authorizeVideo(ctx, req.VideoUUID) {
		return
	}

	sub, current, err := c.pipelineApp.WatchStatus(ctx.Request.Context(), req.VideoUUID)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	defer func() {
		if err := sub.Close(); err != nil {
			logger.Warnf("failed to close status subscription video_uuid=%s error=%v", req.VideoUUID, err)
		}
	}()

	ctx.Header("Content-Type", "text/event-stream")
	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")

	writeEvent := func(update *gateway.StatusUpdate) bool {
		data, err := json.Marshal(update)
		if err != nil {
			return false
		}
		ctx.SSEvent("status", string(data))
		ctx.Writer.Flush()
		return true
	}

	// 首发快照和后续广播共用同一种事件结构
	initial := &gateway.StatusUpdate{
		VideoUUID: current.VideoUUID,
		Stage:     current.CurrentStage,
		Progress:  current.Progress,
		Message:   current.Message,
		Timestamp: current.UpdatedAt.Unix(),
	}
	if !writeEvent(initial) {
		return
	}
	// 已处于终态则没有后续更新
	if initial.Stage == "completed" || initial.Stage == "failed" {
		return
	}

	ctx.Stream(func(w io.Writer) bool {
		select {
		case update, ok := <-sub.Updates():
			if !ok {
				return false
			}
			if !writeEvent(update) {
				return true
			}
			if update.Stage == "completed" || update.Stage == "failed" {
				return false
			}
			return true
		case <-ctx.Request.Context().Done():
			return false
		}
	})
}

// ListReels Reel列表
func (c *VideoController) ListReels(ctx *gin.Context) {
	req := cqe.QueryVideoReq{VideoUUID: ctx.Param("video_uuid")}
	if err := req.Validate(); err != nil {
		restapi.Failed(ctx, err)
		return
	}

	if !c.authorizeVideo(ctx, req.VideoUUID) {
		return
	}

	resp, err := c.pipelineApp.ListReels(ctx.Request.Context(), req.VideoUUID)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// GetTranscript 完整转写
func (c *VideoController) GetTranscript(ctx *gin.Context) {
	req := cqe.QueryVideoReq{VideoUUID: ctx.Param("video_uuid")}
	if err := req.Validate(); err != nil {
		restapi.Failed(ctx, err)
		return
	}

	if !c.authorizeVideo(ctx, req.VideoUUID) {
		return
	}

	resp, err := c.pipelineApp.GetTranscript(ctx.Request.Context(), req.VideoUUID)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// CancelVideo 取消处理
func (c *VideoController) CancelVideo(ctx *gin.Context) {
	req := cqe.CancelVideoReq{VideoUUID: ctx.Param("video_uuid")}
	if err := ctx.ShouldBindJSON(&req); err != nil && err != io.EOF {
		restapi.Failed(ctx, err)
		return
	}
	req.VideoUUID = ctx.Param("video_uuid")
	if err := req.Validate(); err != nil {
		restapi.Failed(ctx, err)
		return
	}

	if !c.authorizeVideo(ctx, req.VideoUUID) {
		return
	}

	if err := c.pipelineApp.CancelVideo(ctx.Request.Context(), &req); err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, gin.H{"message": "video canceled"})
}
