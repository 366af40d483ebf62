package convertor

import (
	"reel-service/ddd/domain/entity"
	"reel-service/ddd/domain/vo"
	"reel-service/ddd/infrastructure/database/po"
)

type PipelineConvertor struct{}

func NewPipelineConvertor() *PipelineConvertor { return &PipelineConvertor{} }

func (c *PipelineConvertor) StatusToEntity(poStatus *po.ProcessingStatus) *entity.ProcessingStatusEntity {
	if poStatus == nil {
		return nil
	}
	return entity.NewProcessingStatusEntityWithDetails(
		poStatus.ID,
		poStatus.VideoUUID,
		vo.PipelineStage(poStatus.CurrentStage),
		poStatus.Progress,
		poStatus.Message,
		poStatus.AudioLocator,
		poStatus.CreatedAt,
		poStatus.UpdatedAt,
	)
}

func (c *PipelineConvertor) StatusToPO(e *entity.ProcessingStatusEntity) *po.ProcessingStatus {
	if e == nil {
		return nil
	}
	return &po.ProcessingStatus{
		BaseModel: po.BaseModel{
			ID:        e.ID(),
			CreatedAt: e.CreatedAt(),
			UpdatedAt: e.UpdatedAt(),
		},
		VideoUUID:    e.VideoUUID(),
		CurrentStage: e.CurrentStage().String(),
		Progress:     e.Progress(),
		Message:      e.Message(),
		AudioLocator: e.AudioLocator(),
	}
}

func (c *PipelineConvertor) TranscriptToEntity(poTranscript *po.Transcript, poSegments []*po.TranscriptSegment) *entity.TranscriptEntity {
	if poTranscript == nil {
		return nil
	}
	segments := make([]vo.TranscriptSegment, 0, len(poSegments))
	for _, seg := range poSegments {
		segments = append(segments, vo.TranscriptSegment{
			Start:      seg.StartTime,
			End:        seg.EndTime,
			Text:       seg.Text,
			Confidence: seg.Confidence,
		})
	}
	return entity.NewTranscriptEntityWithDetails(
		poTranscript.ID,
		poTranscript.VideoUUID,
		poTranscript.FullText,
		poTranscript.Language,
		segments,
		poTranscript.CreatedAt,
	)
}

func (c *PipelineConvertor) TranscriptToPO(e *entity.TranscriptEntity) (*po.Transcript, []*po.TranscriptSegment) {
	if e == nil {
		return nil, nil
	}
	poTranscript := &po.Transcript{
		VideoUUID: e.VideoUUID(),
		FullText:  e.FullText(),
		Language:  e.Language(),
	}
	poSegments := make([]*po.TranscriptSegment, 0, len(e.Segments()))
	for i, seg := range e.Segments() {
		poSegments = append(poSegments, &po.TranscriptSegment{
			VideoUUID:  e.VideoUUID(),
			StartTime:  seg.Start,
			EndTime:    seg.End,
			Text:       seg.Text,
			Confidence: seg.Confidence,
			OrderIndex: i,
		})
	}
	return poTranscript, poSegments
}

func (c *PipelineConvertor) ImportantSegmentToEntity(poSeg *po.ImportantSegment) *entity.ImportantSegmentEntity {
	if poSeg == nil {
		return nil
	}
	return entity.NewImportantSegmentEntityWithDetails(
		poSeg.ID,
		poSeg.VideoUUID,
		poSeg.StartTime,
		poSeg.EndTime,
		poSeg.Score,
		poSeg.Reason,
		poSeg.Text,
		poSeg.OrderIndex,
		poSeg.CreatedAt,
	)
}

func (c *PipelineConvertor) ImportantSegmentToPO(e *entity.ImportantSegmentEntity) *po.ImportantSegment {
	if e == nil {
		return nil
	}
	return &po.ImportantSegment{
		BaseModel: po.BaseModel{
			ID:        e.ID(),
			CreatedAt: e.CreatedAt(),
		},
		VideoUUID:  e.VideoUUID(),
		StartTime:  e.StartTime(),
		EndTime:    e.EndTime(),
		Score:      e.Score(),
		Reason:     e.Reason(),
		Text:       e.Text(),
		OrderIndex: e.OrderIndex(),
	}
}
