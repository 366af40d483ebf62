package app

import (
	"context"
	"fmt"
	"sync"

	"reel-service/ddd/application/cqe"
	"reel-service/ddd/application/dto"
	"reel-service/ddd/domain/entity"
	"reel-service/ddd/domain/gateway"
	"reel-service/ddd/domain/repo"
	"reel-service/ddd/domain/service"
	"reel-service/ddd/infrastructure/database/persistence"
	"reel-service/ddd/infrastructure/notify"
	"reel-service/ddd/infrastructure/queue"
	"reel-service/pkg/assert"
	"reel-service/pkg/errno"
	"reel-service/pkg/logger"
)

var (
	singlePipelineApp PipelineApp
	oncePipelineApp   sync.Once
)

// PipelineApp 流水线应用服务
type PipelineApp interface {
	// IngestVideo 接收视频进入流水线，按视频UUID幂等
	IngestVideo(ctx context.Context, req *cqe.IngestVideoCqe) (*dto.VideoDto, error)
	// GetVideo 获取视频详情
	GetVideo(ctx context.Context, videoUUID string) (*dto.VideoDto, error)
	// ListVideos 分页获取用户视频列表
	ListVideos(ctx context.Context, req *cqe.ListVideosReq) (*dto.VideoListDto, error)
	// GetStatus 获取处理状态快照
	GetStatus(ctx context.Context, videoUUID string) (*dto.ProcessingStatusDto, error)
	// WatchStatus 订阅状态流，返回订阅句柄和当前快照
	WatchStatus(ctx context.Context, videoUUID string) (gateway.Subscription, *dto.ProcessingStatusDto, error)
	// ListReels 列出视频的全部Reel
	ListReels(ctx context.Context, videoUUID string) (*dto.ReelListDto, error)
	// GetTranscript 获取完整转写
	GetTranscript(ctx context.Context, videoUUID string) (*dto.TranscriptDto, error)
	// CancelVideo 取消处理
	CancelVideo(ctx context.Context, req *cqe.CancelVideoReq) error
}

type pipelineAppImpl struct {
	videoRepo    repo.VideoRepository
	pipelineRepo repo.PipelineRepository
	reelRepo     repo.ReelRepository
	notifier     gateway.StatusNotifier
	dispatcher   service.Dispatcher
	orchestrator service.OrchestratorService
}

// DefaultPipelineApp 获取流水线应用服务单例
func DefaultPipelineApp() PipelineApp {
	assert.NotCircular()
	oncePipelineApp.Do(func() {
		singlePipelineApp = NewPipelineAppWith(
			persistence.NewVideoRepository(),
			persistence.NewPipelineRepository(),
			persistence.NewReelRepository(),
			notify.DefaultStatusNotifier(),
			queue.DefaultDispatchQueue(),
			service.DefaultOrchestratorService(),
		)
	})
	assert.NotNil(singlePipelineApp)
	return singlePipelineApp
}

// NewPipelineAppWith 注入依赖创建流水线应用服务，测试用
func NewPipelineAppWith(
	videoRepo repo.VideoRepository,
	pipelineRepo repo.PipelineRepository,
	reelRepo repo.ReelRepository,
	notifier gateway.StatusNotifier,
	dispatcher service.Dispatcher,
	orchestrator service.OrchestratorService,
) PipelineApp {
	return &pipelineAppImpl{
		videoRepo:    videoRepo,
		pipelineRepo: pipelineRepo,
		reelRepo:     reelRepo,
		notifier:     notifier,
		dispatcher:   dispatcher,
		orchestrator: orchestrator,
	}
}

// IngestVideo 接收视频进入流水线，按视频UUID幂等
func (a *pipelineAppImpl) IngestVideo(ctx context.Context, req *cqe.IngestVideoCqe) (*dto.VideoDto, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 幂等：同一视频UUID重复接收直接返回已有记录
	if req.VideoUUID != "" {
		existing, err := a.videoRepo.GetVideoByUUID(ctx, req.VideoUUID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return dto.NewVideoDto(existing), nil
		}
	}

	video := entity.NewVideoEntity(req.VideoUUID, req.UserUUID, req.Title, req.SourceLocator)
	if err := a.videoRepo.CreateVideo(ctx, video); err != nil {
		return nil, err
	}

	status := entity.NewProcessingStatusEntity(video.VideoUUID())
	if err := a.pipelineRepo.CreateStatus(ctx, status); err != nil {
		return nil, err
	}

	if err := a.dispatcher.Dispatch(ctx, video.VideoUUID()); err != nil {
		// 投递失败不回滚视频记录，启动恢复扫描会兜底
		logger.Warnf("failed to dispatch ingested video video_uuid=%s error=%v", video.VideoUUID(), err)
	}

	logger.Infof("video ingested video_uuid=%s user_uuid=%s source=%s",
		video.VideoUUID(), video.UserUUID(), video.SourceLocator())
	return dto.NewVideoDto(video), nil
}

// GetVideo 获取视频详情
func (a *pipelineAppImpl) GetVideo(ctx context.Context, videoUUID string) (*dto.VideoDto, error) {
	video, err := a.videoRepo.GetVideoByUUID(ctx, videoUUID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, errno.NewBizError(errno.ErrVideoNotFound, fmt.Errorf("video %s not found", videoUUID))
	}
	return dto.NewVideoDto(video), nil
}

// ListVideos 分页获取用户视频列表
func (a *pipelineAppImpl) ListVideos(ctx context.Context, req *cqe.ListVideosReq) (*dto.VideoListDto, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	offset := (req.Page - 1) * req.Size
	videos, err := a.videoRepo.GetVideosByUserUUID(ctx, req.UserUUID, req.Size, offset)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.VideoDto, 0, len(videos))
	for _, video := range videos {
		items = append(items, dto.NewVideoDto(video))
	}
	return &dto.VideoListDto{Videos: items, Page: req.Page, Size: req.Size}, nil
}

// GetStatus 获取处理状态快照
func (a *pipelineAppImpl) GetStatus(ctx context.Context, videoUUID string) (*dto.ProcessingStatusDto, error) {
	status, err := a.pipelineRepo.GetStatus(ctx, videoUUID)
	if err != nil {
		return nil, err
	}
	if status == nil {
		return nil, errno.NewBizError(errno.ErrStatusNotFound, fmt.Errorf("status for video %s not found", videoUUID))
	}
	return dto.NewProcessingStatusDto(status), nil
}

// WatchStatus 先订阅再读当前快照，保证订阅建立后的更新不漏
func (a *pipelineAppImpl) WatchStatus(ctx context.Context, videoUUID string) (gateway.Subscription, *dto.ProcessingStatusDto, error) {
	status, err := a.pipelineRepo.GetStatus(ctx, videoUUID)
	if err != nil {
		return nil, nil, err
	}
	if status == nil {
		return nil, nil, errno.NewBizError(errno.ErrStatusNotFound, fmt.Errorf("status for video %s not found", videoUUID))
	}

	sub, err := a.notifier.Subscribe(ctx, videoUUID)
	if err != nil {
		return nil, nil, err
	}

	// 订阅建立后重读快照，弥合订阅前一瞬的更新空窗
	current, err := a.pipelineRepo.GetStatus(ctx, videoUUID)
	if err != nil {
		_ = sub.Close()
		return nil, nil, err
	}
	return sub, dto.NewProcessingStatusDto(current), nil
}

// ListReels 列出视频的全部Reel
func (a *pipelineAppImpl) ListReels(ctx context.Context, videoUUID string) (*dto.ReelListDto, error) {
	video, err := a.videoRepo.GetVideoByUUID(ctx, videoUUID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, errno.NewBizError(errno.ErrVideoNotFound, fmt.Errorf("video %s not found", videoUUID))
	}

	reels, err := a.reelRepo.ListReelsByVideoUUID(ctx, videoUUID)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.ReelDto, 0, len(reels))
	for _, reel := range reels {
		items = append(items, dto.NewReelDto(reel))
	}
	return &dto.ReelListDto{VideoUUID: videoUUID, Reels: items, Total: len(items)}, nil
}

// GetTranscript 获取完整转写
func (a *pipelineAppImpl) GetTranscript(ctx context.Context, videoUUID string) (*dto.TranscriptDto, error) {
	transcript, err := a.pipelineRepo.GetTranscript(ctx, videoUUID)
	if err != nil {
		return nil, err
	}
	if transcript == nil {
		return nil, errno.NewBizError(errno.ErrTranscriptNotFound, fmt.Errorf("transcript for video %s not found", videoUUID))
	}
	return dto.NewTranscriptDto(transcript), nil
}

// CancelVideo 取消处理
func (a *pipelineAppImpl) CancelVideo(ctx context.Context, req *cqe.CancelVideoReq) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return a.orchestrator.CancelVideo(ctx, req.VideoUUID, req.Reason)
}
