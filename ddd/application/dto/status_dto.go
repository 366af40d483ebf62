package dto

import (
	"time"

	"reel-service/ddd/domain/entity"
)

// ProcessingStatusDto 处理状态数据传输对象
type ProcessingStatusDto struct {
	VideoUUID    string    `json:"video_uuid"`
	CurrentStage string    `json:"current_stage"`
	Progress     int       `json:"progress"`
	Message      string    `json:"message"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewProcessingStatusDto 从实体创建DTO
func NewProcessingStatusDto(e *entity.ProcessingStatusEntity) *ProcessingStatusDto {
	if e == nil {
		return nil
	}
	return &ProcessingStatusDto{
		VideoUUID:    e.VideoUUID(),
		CurrentStage: e.CurrentStage().String(),
		Progress:     e.Progress(),
		Message:      e.Message(),
		UpdatedAt:    e.UpdatedAt(),
	}
}
