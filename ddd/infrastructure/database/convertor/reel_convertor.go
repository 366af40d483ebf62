package convertor

import (
	"reel-service/ddd/domain/entity"
	"reel-service/ddd/domain/vo"
	"reel-service/ddd/infrastructure/database/po"
)

type ReelConvertor struct{}

func NewReelConvertor() *ReelConvertor { return &ReelConvertor{} }

func (c *ReelConvertor) ToEntity(poReel *po.Reel) *entity.ReelEntity {
	if poReel == nil {
		return nil
	}
	return entity.NewReelEntityWithDetails(
		poReel.ID,
		poReel.ReelUUID,
		poReel.VideoUUID,
		poReel.SegmentID,
		poReel.Title,
		poReel.OutputLocator,
		poReel.StartTime,
		poReel.EndTime,
		vo.ReelStatus(poReel.Status),
		poReel.FailureReason,
		poReel.CreatedAt,
		poReel.UpdatedAt,
	)
}

func (c *ReelConvertor) ToPO(e *entity.ReelEntity) *po.Reel {
	if e == nil {
		return nil
	}
	return &po.Reel{
		BaseModel: po.BaseModel{
			ID:        e.ID(),
			CreatedAt: e.CreatedAt(),
			UpdatedAt: e.UpdatedAt(),
		},
		ReelUUID:      e.ReelUUID(),
		VideoUUID:     e.VideoUUID(),
		SegmentID:     e.SegmentID(),
		Title:         e.Title(),
		OutputLocator: e.OutputLocator(),
		StartTime:     e.StartTime(),
		EndTime:       e.EndTime(),
		Status:        e.Status().String(),
		FailureReason: e.FailureReason(),
	}
}
