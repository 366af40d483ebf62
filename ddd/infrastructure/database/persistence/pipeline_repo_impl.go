package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"reel-service/ddd/domain/entity"
	"reel-service/ddd/domain/repo"
	"reel-service/ddd/domain/vo"
	"reel-service/ddd/infrastructure/database/convertor"
	"reel-service/ddd/infrastructure/database/dao"
	"reel-service/ddd/infrastructure/database/po"
)

type pipelineRepositoryImpl struct {
	pipelineDao *dao.PipelineDAO
	convertor   *convertor.PipelineConvertor
}

func NewPipelineRepository() repo.PipelineRepository {
	return &pipelineRepositoryImpl{
		pipelineDao: dao.NewPipelineDAO(),
		convertor:   convertor.NewPipelineConvertor(),
	}
}

func (r *pipelineRepositoryImpl) CreateStatus(ctx context.Context, status *entity.ProcessingStatusEntity) error {
	poStatus := r.convertor.StatusToPO(status)
	if err := r.pipelineDao.CreateStatus(ctx, poStatus); err != nil {
		return err
	}
	status.SetID(poStatus.ID)
	return nil
}

func (r *pipelineRepositoryImpl) GetStatus(ctx context.Context, videoUUID string) (*entity.ProcessingStatusEntity, error) {
	poStatus, err := r.pipelineDao.FindStatusByVideoUUID(ctx, videoUUID)
	if err != nil {
		return nil, err
	}
	return r.convertor.StatusToEntity(poStatus), nil
}

// AdvanceStage 在单个事务内推进阶段并落库阶段产出，保证崩溃一致性
func (r *pipelineRepositoryImpl) AdvanceStage(ctx context.Context, videoUUID string, next vo.PipelineStage, message string, outputs *repo.StageOutputs) error {
	return r.pipelineDao.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var poStatus po.ProcessingStatus
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("video_uuid = ?", videoUUID).First(&poStatus).Error; err != nil {
			return err
		}

		status := r.convertor.StatusToEntity(&poStatus)
		if err := status.AdvanceTo(next, message); err != nil {
			return err
		}

		fields := map[string]interface{}{
			"current_stage": status.CurrentStage().String(),
			"progress":      status.Progress(),
			"message":       status.Message(),
		}
		if outputs != nil {
			if outputs.AudioLocator != "" {
				fields["audio_locator"] = outputs.AudioLocator
			}
			if outputs.ClearAudioLocator {
				fields["audio_locator"] = ""
			}
		}
		if err := tx.Model(&po.ProcessingStatus{}).Where("video_uuid = ?", videoUUID).Updates(fields).Error; err != nil {
			return err
		}

		if outputs == nil {
			return nil
		}

		if outputs.VideoDuration > 0 {
			if err := tx.Model(&po.Video{}).Where("video_uuid = ?", videoUUID).
				Update("duration_seconds", outputs.VideoDuration).Error; err != nil {
				return err
			}
		}

		if outputs.Transcript != nil {
			poTranscript, poSegments := r.convertor.TranscriptToPO(outputs.Transcript)
			if err := tx.Model(&po.Transcript{}).Create(poTranscript).Error; err != nil {
				return err
			}
			for _, seg := range poSegments {
				seg.TranscriptID = poTranscript.ID
			}
			if len(poSegments) > 0 {
				if err := tx.Model(&po.TranscriptSegment{}).Create(poSegments).Error; err != nil {
					return err
				}
			}
			outputs.Transcript.SetID(poTranscript.ID)
		}

		if len(outputs.Segments) > 0 {
			poSegments := make([]*po.ImportantSegment, 0, len(outputs.Segments))
			for _, seg := range outputs.Segments {
				poSegments = append(poSegments, r.convertor.ImportantSegmentToPO(seg))
			}
			if err := tx.Model(&po.ImportantSegment{}).Create(poSegments).Error; err != nil {
				return err
			}
			for i, poSeg := range poSegments {
				outputs.Segments[i].SetID(poSeg.ID)
			}
		}

		return nil
	})
}

func (r *pipelineRepositoryImpl) MarkFailed(ctx context.Context, videoUUID string, message string) error {
	poStatus, err := r.pipelineDao.FindStatusByVideoUUID(ctx, videoUUID)
	if err != nil {
		return err
	}
	if poStatus == nil {
		return fmt.Errorf("processing status not found for video %s", videoUUID)
	}

	status := r.convertor.StatusToEntity(poStatus)
	if err := status.MarkFailed(message); err != nil {
		return err
	}

	return r.pipelineDao.UpdateStatusFields(ctx, videoUUID, map[string]interface{}{
		"current_stage": status.CurrentStage().String(),
		"message":       status.Message(),
	})
}

func (r *pipelineRepositoryImpl) UpdateProgress(ctx context.Context, videoUUID string, progress int, message string) error {
	poStatus, err := r.pipelineDao.FindStatusByVideoUUID(ctx, videoUUID)
	if err != nil {
		return err
	}
	if poStatus == nil {
		return fmt.Errorf("processing status not found for video %s", videoUUID)
	}

	status := r.convertor.StatusToEntity(poStatus)
	status.UpdateProgress(progress, message)

	return r.pipelineDao.UpdateStatusFields(ctx, videoUUID, map[string]interface{}{
		"progress": status.Progress(),
		"message":  status.Message(),
	})
}

func (r *pipelineRepositoryImpl) ListByStages(ctx context.Context, stages []vo.PipelineStage) ([]*entity.ProcessingStatusEntity, error) {
	names := make([]string, 0, len(stages))
	for _, stage := range stages {
		names = append(names, stage.String())
	}
	poStatuses, err := r.pipelineDao.FindStatusesByStages(ctx, names)
	if err != nil {
		return nil, err
	}
	statuses := make([]*entity.ProcessingStatusEntity, 0, len(poStatuses))
	for _, poStatus := range poStatuses {
		statuses = append(statuses, r.convertor.StatusToEntity(poStatus))
	}
	return statuses, nil
}

func (r *pipelineRepositoryImpl) GetTranscript(ctx context.Context, videoUUID string) (*entity.TranscriptEntity, error) {
	poTranscript, err := r.pipelineDao.FindTranscriptByVideoUUID(ctx, videoUUID)
	if err != nil {
		return nil, err
	}
	if poTranscript == nil {
		return nil, nil
	}
	poSegments, err := r.pipelineDao.FindTranscriptSegments(ctx, videoUUID)
	if err != nil {
		return nil, err
	}
	return r.convertor.TranscriptToEntity(poTranscript, poSegments), nil
}

func (r *pipelineRepositoryImpl) ListImportantSegments(ctx context.Context, videoUUID string) ([]*entity.ImportantSegmentEntity, error) {
	poSegments, err := r.pipelineDao.FindImportantSegments(ctx, videoUUID)
	if err != nil {
		return nil, err
	}
	segments := make([]*entity.ImportantSegmentEntity, 0, len(poSegments))
	for _, poSeg := range poSegments {
		segments = append(segments, r.convertor.ImportantSegmentToEntity(poSeg))
	}
	return segments, nil
}
