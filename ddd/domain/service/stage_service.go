package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"reel-service/ddd/domain/entity"
	"reel-service/ddd/domain/gateway"
	"reel-service/ddd/domain/repo"
	"reel-service/ddd/domain/vo"
	"reel-service/pkg/config"
	"reel-service/pkg/errno"
	"reel-service/pkg/logger"
)

// StageService 阶段执行领域服务，负责单个流水线阶段的实际工作
type StageService interface {
	// ExecuteStage 执行一个阶段，返回需要随阶段推进落库的产出
	ExecuteStage(ctx context.Context, video *entity.VideoEntity, status *entity.ProcessingStatusEntity, stage vo.PipelineStage) (*repo.StageOutputs, error)
}

type stageServiceImpl struct {
	pipelineRepo repo.PipelineRepository
	reelRepo     repo.ReelRepository
	transform    gateway.MediaTransform
	storage      gateway.StorageGateway
	cfg          *config.Config
}

// NewStageService 创建阶段执行领域服务
func NewStageService(
	pipelineRepo repo.PipelineRepository,
	reelRepo repo.ReelRepository,
	transform gateway.MediaTransform,
	storage gateway.StorageGateway,
	cfg *config.Config,
) StageService {
	return &stageServiceImpl{
		pipelineRepo: pipelineRepo,
		reelRepo:     reelRepo,
		transform:    transform,
		storage:      storage,
		cfg:          cfg,
	}
}

// ExecuteStage 执行一个阶段，瞬时失败按配置退避重试
func (s *stageServiceImpl) ExecuteStage(ctx context.Context, video *entity.VideoEntity, status *entity.ProcessingStatusEntity, stage vo.PipelineStage) (*repo.StageOutputs, error) {
	if s.cfg == nil {
		s.cfg = config.GetGlobalConfig()
	}

	var outputs *repo.StageOutputs
	err := s.withRetry(ctx, video.VideoUUID(), stage, func() error {
		var execErr error
		switch stage {
		case vo.StageAudioExtraction:
			outputs, execErr = s.executeAudioExtraction(ctx, video)
		case vo.StageTranscription:
			outputs, execErr = s.executeTranscription(ctx, video, status)
		case vo.StageAnalysis:
			outputs, execErr = s.executeAnalysis(ctx, video)
		case vo.StageReelGeneration:
			outputs, execErr = s.executeReelGeneration(ctx, video)
		default:
			return errno.NewBizError(errno.ErrInvalidStage, fmt.Errorf("stage %s is not executable", stage))
		}
		return execErr
	})
	if err != nil {
		return nil, err
	}
	return outputs, nil
}

// withRetry 瞬时错误按指数退避重试，永久错误立即放弃
func (s *stageServiceImpl) withRetry(ctx context.Context, videoUUID string, stage vo.PipelineStage, fn func() error) error {
	return s.retryTransient(ctx, fmt.Sprintf("stage %s video_uuid=%s", stage, videoUUID), fn)
}

// retryTransient 有界指数退避重试，整阶段和单个Reel共用同一套策略
func (s *stageServiceImpl) retryTransient(ctx context.Context, label string, fn func() error) error {
	maxRetries := s.cfg.Pipeline.MaxRetries
	backoff := s.cfg.Pipeline.RetryBackoff

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			wait := backoff * time.Duration(1<<(attempt-1))
			logger.Warnf("retrying %s attempt=%d wait=%s error=%v", label, attempt, wait, lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, context.Canceled) || errors.Is(lastErr, context.DeadlineExceeded) {
			return lastErr
		}
		if !vo.IsTransient(lastErr) {
			return lastErr
		}
	}
	return fmt.Errorf("%s exhausted %d retries: %w", label, maxRetries, lastErr)
}

// executeAudioExtraction 下载源视频，提取音轨并上传，产出时长与音频定位符
func (s *stageServiceImpl) executeAudioExtraction(ctx context.Context, video *entity.VideoEntity) (*repo.StageOutputs, error) {
	localVideo, cleanup, err := s.downloadToTemp(ctx, video.SourceLocator(), "source")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	result, err := s.transform.ExtractAudio(ctx, localVideo)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := os.Remove(result.AudioPath); err != nil {
			logger.Warnf("failed to clean local audio file path=%s error=%s", result.AudioPath, err.Error())
		}
	}()

	audioKey := fmt.Sprintf("audio/%s.wav", video.VideoUUID())
	locator, err := s.storage.Upload(ctx, result.AudioPath, audioKey, "audio/wav")
	if err != nil {
		return nil, vo.NewTransientError("upload_audio", err)
	}

	logger.Infof("audio extracted video_uuid=%s duration=%.2f audio_locator=%s",
		video.VideoUUID(), result.VideoDuration, locator)

	return &repo.StageOutputs{
		VideoDuration: result.VideoDuration,
		AudioLocator:  locator,
	}, nil
}

// executeTranscription 下载已持久化的音频并转写，产出完整转写
func (s *stageServiceImpl) executeTranscription(ctx context.Context, video *entity.VideoEntity, status *entity.ProcessingStatusEntity) (*repo.StageOutputs, error) {
	if status.AudioLocator() == "" {
		return nil, errno.NewBizError(errno.ErrStageOutputMissing,
			fmt.Errorf("video %s has no audio locator for transcription", video.VideoUUID()))
	}

	localAudio, cleanup, err := s.downloadToTemp(ctx, status.AudioLocator(), "audio")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	result, err := s.transform.Transcribe(ctx, localAudio)
	if err != nil {
		return nil, err
	}

	transcript := entity.NewTranscriptEntity(video.VideoUUID(), result.FullText, result.Language, result.Segments)
	if err := transcript.Validate(); err != nil {
		return nil, vo.NewPermanentError("validate_transcript", err)
	}

	logger.Infof("transcription finished video_uuid=%s language=%s segments=%d",
		video.VideoUUID(), result.Language, len(result.Segments))

	return &repo.StageOutputs{
		Transcript:        transcript,
		ClearAudioLocator: true,
	}, nil
}

// executeAnalysis 对转写分段评分并选出Top-N重要片段
func (s *stageServiceImpl) executeAnalysis(ctx context.Context, video *entity.VideoEntity) (*repo.StageOutputs, error) {
	transcript, err := s.pipelineRepo.GetTranscript(ctx, video.VideoUUID())
	if err != nil {
		return nil, err
	}
	if transcript == nil {
		return nil, errno.NewBizError(errno.ErrStageOutputMissing,
			fmt.Errorf("video %s has no transcript for analysis", video.VideoUUID()))
	}

	segments := transcript.Segments()
	if len(segments) == 0 {
		// 空转写不是错误，后续阶段产出零个Reel
		logger.Infof("transcript has no segments, skipping scoring video_uuid=%s", video.VideoUUID())
		return &repo.StageOutputs{}, nil
	}

	scored, err := s.transform.ScoreSegments(ctx, segments)
	if err != nil {
		return nil, err
	}

	selected := selectTopSegments(scored, s.cfg.Pipeline.ReelCount, video.DurationSeconds())

	important := make([]*entity.ImportantSegmentEntity, 0, len(selected))
	for i, seg := range selected {
		important = append(important, entity.NewImportantSegmentEntity(
			video.VideoUUID(), seg.StartTime, seg.EndTime, seg.Score, seg.Reason, seg.Text, i))
	}

	logger.Infof("analysis finished video_uuid=%s scored=%d selected=%d",
		video.VideoUUID(), len(scored), len(important))

	return &repo.StageOutputs{Segments: important}, nil
}

// selectTopSegments 按评分降序取前N个并修剪到视频范围内
func selectTopSegments(scored []*gateway.ScoredSegment, limit int, videoDuration float64) []*gateway.ScoredSegment {
	valid := make([]*gateway.ScoredSegment, 0, len(scored))
	for _, seg := range scored {
		if seg == nil {
			continue
		}
		start, end := seg.StartTime, seg.EndTime
		if videoDuration > 0 {
			if start < 0 {
				start = 0
			}
			if end > videoDuration {
				end = videoDuration
			}
		}
		if end <= start {
			continue
		}
		copySeg := *seg
		copySeg.StartTime = start
		copySeg.EndTime = end
		valid = append(valid, &copySeg)
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].Score > valid[j].Score
	})

	if limit > 0 && len(valid) > limit {
		valid = valid[:limit]
	}
	return valid
}

// executeReelGeneration 为每个重要片段剪出一个Reel，片段间并行、有界
func (s *stageServiceImpl) executeReelGeneration(ctx context.Context, video *entity.VideoEntity) (*repo.StageOutputs, error) {
	segments, err := s.pipelineRepo.ListImportantSegments(ctx, video.VideoUUID())
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		// 分析阶段可能合法地选不出片段
		logger.Infof("no important segments, generating zero reels video_uuid=%s", video.VideoUUID())
		return &repo.StageOutputs{}, nil
	}

	localVideo, cleanup, err := s.downloadToTemp(ctx, video.SourceLocator(), "source")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	parallelism := s.cfg.Pipeline.ReelParallelism
	if parallelism <= 0 {
		parallelism = 1
	}
	sem := make(chan struct{}, parallelism)

	var wg sync.WaitGroup
	results := make([]error, len(segments))
	for i, seg := range segments {
		// 幂等重跑：该片段已有终态Reel则跳过
		existing, err := s.reelRepo.GetReelBySegmentID(ctx, seg.ID())
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.Status().IsTerminal() {
			if existing.Status() == vo.ReelStatusFailed {
				// 终态失败的Reel已经用完行内重试，不再恢复
				results[i] = vo.NewPermanentError("reel_generation", errors.New(existing.FailureReason()))
			}
			continue
		}

		wg.Add(1)
		go func(idx int, seg *entity.ImportantSegmentEntity) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[idx] = s.generateReel(ctx, video, seg, localVideo, idx)
		}(i, seg)
	}
	wg.Wait()

	failures := 0
	for _, err := range results {
		if err != nil {
			failures++
		}
	}
	if failures == len(segments) {
		aggErr := fmt.Errorf("all %d reels failed for video %s", len(segments), video.VideoUUID())
		for _, resErr := range results {
			if resErr != nil && vo.IsTransient(resErr) {
				return nil, vo.NewTransientError("reel_generation", aggErr)
			}
		}
		return nil, vo.NewPermanentError("reel_generation", aggErr)
	}

	logger.Infof("reel generation finished video_uuid=%s total=%d failed=%d",
		video.VideoUUID(), len(segments), failures)

	return &repo.StageOutputs{}, nil
}

// generateReel 为单个重要片段剪辑并上传一个Reel
func (s *stageServiceImpl) generateReel(ctx context.Context, video *entity.VideoEntity, seg *entity.ImportantSegmentEntity, localVideo string, idx int) error {
	start, end := expandClipWindow(seg.StartTime(), seg.EndTime(),
		float64(s.cfg.Pipeline.ReelPadding), float64(s.cfg.Pipeline.ReelDuration), video.DurationSeconds())

	title := reelTitle(video.Title(), seg.Text(), idx)
	reel := entity.NewReelEntity(video.VideoUUID(), seg.ID(), title, start, end)
	if err := s.reelRepo.CreateReel(ctx, reel); err != nil {
		// 建行失败视为结构性错误，整个阶段失败
		return err
	}

	outputPath := filepath.Join(s.cfg.Transform.FFmpeg.TempDir, fmt.Sprintf("%s.mp4", reel.ReelUUID()))
	defer func() {
		if err := os.Remove(outputPath); err != nil && !os.IsNotExist(err) {
			logger.Warnf("failed to clean local reel file path=%s error=%s", outputPath, err.Error())
		}
	}()

	// 剪辑和上传的瞬时失败在行内重试，重试耗尽才把Reel打成失败终态
	err := s.retryTransient(ctx, fmt.Sprintf("reel %s video_uuid=%s", reel.ReelUUID(), video.VideoUUID()), func() error {
		if cutErr := s.transform.CutClip(ctx, &gateway.CutClipRequest{
			SourcePath: localVideo,
			OutputPath: outputPath,
			StartTime:  start,
			EndTime:    end,
		}); cutErr != nil {
			return cutErr
		}
		objectKey := fmt.Sprintf("reels/%s/%s.mp4", video.VideoUUID(), reel.ReelUUID())
		locator, upErr := s.storage.Upload(ctx, outputPath, objectKey, "video/mp4")
		if upErr != nil {
			return vo.NewTransientError("upload_reel", upErr)
		}
		reel.MarkCompleted(locator)
		return nil
	})
	if err == nil {
		if updateErr := s.reelRepo.UpdateReel(ctx, reel); updateErr != nil {
			logger.Errorf("failed to persist completed reel reel_uuid=%s error=%v", reel.ReelUUID(), updateErr)
			// 行不能停在generating，落库失败也要推进到终态
			reel.MarkFailed(fmt.Sprintf("persist completed reel: %v", updateErr))
			if failErr := s.reelRepo.UpdateReel(ctx, reel); failErr != nil {
				logger.Errorf("failed to persist failed reel reel_uuid=%s error=%v", reel.ReelUUID(), failErr)
			}
			return updateErr
		}
		return nil
	}

	reel.MarkFailed(err.Error())
	if updateErr := s.reelRepo.UpdateReel(ctx, reel); updateErr != nil {
		logger.Errorf("failed to persist failed reel reel_uuid=%s error=%v", reel.ReelUUID(), updateErr)
	}
	logger.Warnf("reel generation failed reel_uuid=%s video_uuid=%s error=%v", reel.ReelUUID(), video.VideoUUID(), err)
	return err
}

// reelTitle 优先用片段文本做标题，过长截断，空文本回退到视频标题加序号
func reelTitle(videoTitle, segmentText string, idx int) string {
	text := strings.TrimSpace(segmentText)
	if text == "" {
		return fmt.Sprintf("%s - Reel %d", videoTitle, idx+1)
	}
	runes := []rune(text)
	if len(runes) > 60 {
		return string(runes[:60]) + "..."
	}
	return text
}

// expandClipWindow 前后各扩padding秒，修剪到视频范围并限制最大时长
func expandClipWindow(start, end, padding, maxDuration, videoDuration float64) (float64, float64) {
	start -= padding
	end += padding
	if start < 0 {
		start = 0
	}
	if videoDuration > 0 && end > videoDuration {
		end = videoDuration
	}
	if maxDuration > 0 && end-start > maxDuration {
		end = start + maxDuration
	}
	return start, end
}

// downloadToTemp 下载对象到临时目录，返回本地路径与清理函数
func (s *stageServiceImpl) downloadToTemp(ctx context.Context, objectKey, prefix string) (string, func(), error) {
	tempDir := s.cfg.Transform.FFmpeg.TempDir
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return "", nil, vo.NewTransientError("mkdir_temp", err)
	}
	localPath := filepath.Join(tempDir, fmt.Sprintf("%s_%d%s", prefix, time.Now().UnixNano(), filepath.Ext(objectKey)))
	if err := s.storage.Download(ctx, objectKey, localPath); err != nil {
		return "", nil, vo.NewTransientError("download_object", err)
	}
	cleanup := func() {
		if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
			logger.Warnf("failed to clean temp file path=%s error=%s", localPath, err.Error())
		}
	}
	return localPath, cleanup, nil
}
