package convertor

import (
	"reel-service/ddd/domain/entity"
	"reel-service/ddd/domain/vo"
	"reel-service/ddd/infrastructure/database/po"
)

type VideoConvertor struct{}

func NewVideoConvertor() *VideoConvertor { return &VideoConvertor{} }

func (c *VideoConvertor) ToEntity(poVideo *po.Video) *entity.VideoEntity {
	if poVideo == nil {
		return nil
	}
	return entity.NewVideoEntityWithDetails(
		poVideo.ID,
		poVideo.VideoUUID,
		poVideo.UserUUID,
		poVideo.Title,
		poVideo.SourceLocator,
		poVideo.DurationSeconds,
		vo.VideoStatus(poVideo.Status),
		poVideo.CreatedAt,
		poVideo.UpdatedAt,
	)
}

func (c *VideoConvertor) ToPO(e *entity.VideoEntity) *po.Video {
	if e == nil {
		return nil
	}
	return &po.Video{
		BaseModel: po.BaseModel{
			ID:        e.ID(),
			CreatedAt: e.CreatedAt(),
			UpdatedAt: e.UpdatedAt(),
		},
		VideoUUID:       e.VideoUUID(),
		UserUUID:        e.UserUUID(),
		Title:           e.Title(),
		SourceLocator:   e.SourceLocator(),
		DurationSeconds: e.DurationSeconds(),
		Status:          e.Status().String(),
	}
}
