package service

import (
	"context"
	"fmt"
	"sync"

	"reel-service/ddd/domain/gateway"
	"reel-service/ddd/domain/repo"
	"reel-service/ddd/domain/vo"
	"reel-service/pkg/errno"
	"reel-service/pkg/logger"
)

// Dispatcher 视频处理任务投递接口，由内存队列实现
type Dispatcher interface {
	// Dispatch 将视频投入处理队列
	Dispatch(ctx context.Context, videoUUID string) error
}

// OrchestratorService 流水线编排领域服务，唯一的阶段推进和失败写入方
type OrchestratorService interface {
	// ProcessVideo 驱动一个视频走完全部剩余阶段
	ProcessVideo(ctx context.Context, videoUUID string) error

	// CancelVideo 取消处理，视频进入失败终态
	CancelVideo(ctx context.Context, videoUUID string, reason string) error

	// ResumePending 启动时扫描非终态视频并重新投递
	ResumePending(ctx context.Context) (int, error)
}

type orchestratorServiceImpl struct {
	videoRepo    repo.VideoRepository
	pipelineRepo repo.PipelineRepository
	stageService StageService
	notifier     gateway.StatusNotifier
	dispatcher   Dispatcher

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewOrchestratorService 创建编排领域服务
func NewOrchestratorService(
	videoRepo repo.VideoRepository,
	pipelineRepo repo.PipelineRepository,
	stageService StageService,
	notifier gateway.StatusNotifier,
) *orchestratorServiceImpl {
	return &orchestratorServiceImpl{
		videoRepo:    videoRepo,
		pipelineRepo: pipelineRepo,
		stageService: stageService,
		notifier:     notifier,
		locks:        make(map[string]*sync.Mutex),
	}
}

// SetDispatcher 注入任务投递实现，启动恢复扫描用
func (s *orchestratorServiceImpl) SetDispatcher(d Dispatcher) {
	s.dispatcher = d
}

// videoLock 同一视频的处理串行化
func (s *orchestratorServiceImpl) videoLock(videoUUID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[videoUUID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[videoUUID] = lock
	}
	return lock
}

// releaseLockIfTerminal 终态视频不会再被处理，回收锁表项防止长期运行下膨胀
func (s *orchestratorServiceImpl) releaseLockIfTerminal(ctx context.Context, videoUUID string) {
	status, err := s.pipelineRepo.GetStatus(ctx, videoUUID)
	if err != nil || status == nil || !status.IsTerminal() {
		return
	}
	s.mu.Lock()
	delete(s.locks, videoUUID)
	s.mu.Unlock()
}

// ProcessVideo 驱动一个视频走完全部剩余阶段
func (s *orchestratorServiceImpl) ProcessVideo(ctx context.Context, videoUUID string) error {
	lock := s.videoLock(videoUUID)
	lock.Lock()
	defer func() {
		lock.Unlock()
		s.releaseLockIfTerminal(ctx, videoUUID)
	}()

	video, err := s.videoRepo.GetVideoByUUID(ctx, videoUUID)
	if err != nil {
		return err
	}
	if video == nil {
		return errno.NewBizError(errno.ErrVideoNotFound, fmt.Errorf("video %s not found", videoUUID))
	}

	status, err := s.pipelineRepo.GetStatus(ctx, videoUUID)
	if err != nil {
		return err
	}
	if status == nil {
		return errno.NewBizError(errno.ErrStatusNotFound, fmt.Errorf("status for video %s not found", videoUUID))
	}
	if status.IsTerminal() {
		logger.Infof("video already terminal, nothing to do video_uuid=%s stage=%s", videoUUID, status.CurrentStage())
		return nil
	}

	if video.Status() != vo.VideoStatusProcessing {
		if err := s.videoRepo.UpdateVideoStatus(ctx, videoUUID, vo.VideoStatusProcessing); err != nil {
			return err
		}
		video.SetStatus(vo.VideoStatusProcessing)
	}

	// upload 是等待阶段，没有工作要做，直接进入音频提取
	if status.CurrentStage() == vo.StageUpload {
		next, _ := status.CurrentStage().Next()
		if err := s.advance(ctx, videoUUID, next, nil); err != nil {
			return err
		}
		status, err = s.pipelineRepo.GetStatus(ctx, videoUUID)
		if err != nil {
			return err
		}
	}

	for !status.IsTerminal() && status.CurrentStage() != vo.StageCompleted {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		stage := status.CurrentStage()
		outputs, execErr := s.stageService.ExecuteStage(ctx, video, status, stage)

		// 执行期间可能被取消，取消后丢弃在途结果
		latest, err := s.pipelineRepo.GetStatus(ctx, videoUUID)
		if err != nil {
			return err
		}
		if latest.IsTerminal() {
			logger.Infof("discarding in-flight stage result, video turned terminal video_uuid=%s stage=%s", videoUUID, stage)
			return nil
		}

		if execErr != nil {
			return s.failVideo(ctx, videoUUID, stage, execErr)
		}

		next, ok := stage.Next()
		if !ok {
			return errno.NewBizError(errno.ErrInvalidStage, fmt.Errorf("stage %s has no successor", stage))
		}
		if err := s.advance(ctx, videoUUID, next, outputs); err != nil {
			return err
		}

		if outputs != nil && outputs.VideoDuration > 0 {
			video.SetDurationSeconds(outputs.VideoDuration)
		}

		status, err = s.pipelineRepo.GetStatus(ctx, videoUUID)
		if err != nil {
			return err
		}
	}

	if status.CurrentStage() == vo.StageCompleted {
		if err := s.videoRepo.UpdateVideoStatus(ctx, videoUUID, vo.VideoStatusCompleted); err != nil {
			return err
		}
		logger.Infof("pipeline completed video_uuid=%s", videoUUID)
	}
	return nil
}

// advance 推进阶段并广播新状态
func (s *orchestratorServiceImpl) advance(ctx context.Context, videoUUID string, next vo.PipelineStage, outputs *repo.StageOutputs) error {
	if err := s.pipelineRepo.AdvanceStage(ctx, videoUUID, next, "", outputs); err != nil {
		return err
	}
	s.publishCurrent(ctx, videoUUID)
	return nil
}

// failVideo 统一的失败终态写入，进度冻结在失败时的值
func (s *orchestratorServiceImpl) failVideo(ctx context.Context, videoUUID string, stage vo.PipelineStage, cause error) error {
	message := fmt.Sprintf("stage %s failed: %v", stage, cause)
	logger.Errorf("pipeline failed video_uuid=%s stage=%s error=%v", videoUUID, stage, cause)

	if err := s.pipelineRepo.MarkFailed(ctx, videoUUID, message); err != nil {
		logger.Errorf("failed to persist failed state video_uuid=%s error=%v", videoUUID, err)
		return err
	}
	if err := s.videoRepo.UpdateVideoStatus(ctx, videoUUID, vo.VideoStatusFailed); err != nil {
		logger.Errorf("failed to persist video failed status video_uuid=%s error=%v", videoUUID, err)
	}
	s.publishCurrent(ctx, videoUUID)
	return cause
}

// CancelVideo 取消处理，视频进入失败终态；在途阶段结果之后会被丢弃
func (s *orchestratorServiceImpl) CancelVideo(ctx context.Context, videoUUID string, reason string) error {
	status, err := s.pipelineRepo.GetStatus(ctx, videoUUID)
	if err != nil {
		return err
	}
	if status == nil {
		return errno.NewBizError(errno.ErrStatusNotFound, fmt.Errorf("status for video %s not found", videoUUID))
	}
	if status.IsTerminal() {
		return errno.NewBizError(errno.ErrVideoTerminal, fmt.Errorf("video %s already terminal", videoUUID))
	}

	if reason == "" {
		reason = "canceled by user"
	}
	if err := s.pipelineRepo.MarkFailed(ctx, videoUUID, reason); err != nil {
		return err
	}
	if err := s.videoRepo.UpdateVideoStatus(ctx, videoUUID, vo.VideoStatusFailed); err != nil {
		logger.Errorf("failed to persist video failed status video_uuid=%s error=%v", videoUUID, err)
	}
	s.publishCurrent(ctx, videoUUID)
	logger.Infof("video canceled video_uuid=%s reason=%s", videoUUID, reason)
	return nil
}

// ResumePending 启动时扫描非终态视频并重新投递，返回投递数量
func (s *orchestratorServiceImpl) ResumePending(ctx context.Context) (int, error) {
	if s.dispatcher == nil {
		return 0, fmt.Errorf("dispatcher not configured")
	}

	pending := []vo.PipelineStage{
		vo.StageUpload,
		vo.StageAudioExtraction,
		vo.StageTranscription,
		vo.StageAnalysis,
		vo.StageReelGeneration,
	}
	statuses, err := s.pipelineRepo.ListByStages(ctx, pending)
	if err != nil {
		return 0, err
	}

	dispatched := 0
	for _, st := range statuses {
		if err := s.dispatcher.Dispatch(ctx, st.VideoUUID()); err != nil {
			logger.Warnf("failed to redispatch pending video video_uuid=%s error=%v", st.VideoUUID(), err)
			continue
		}
		dispatched++
	}
	if dispatched > 0 {
		logger.Infof("resumed pending videos count=%d", dispatched)
	}
	return dispatched, nil
}

// publishCurrent 读取当前状态快照并广播
func (s *orchestratorServiceImpl) publishCurrent(ctx context.Context, videoUUID string) {
	if s.notifier == nil {
		return
	}
	status, err := s.pipelineRepo.GetStatus(ctx, videoUUID)
	if err != nil || status == nil {
		return
	}
	if err := s.notifier.Publish(ctx, gateway.NewStatusUpdate(status)); err != nil {
		logger.Warnf("failed to publish status update video_uuid=%s error=%v", videoUUID, err)
	}
}

var _ OrchestratorService = (*orchestratorServiceImpl)(nil)
