package dto

import (
	"time"

	"reel-service/ddd/domain/entity"
)

// ReelDto Reel数据传输对象
type ReelDto struct {
	ReelUUID      string    `json:"reel_uuid"`
	VideoUUID     string    `json:"video_uuid"`
	Title         string    `json:"title"`
	OutputLocator string    `json:"output_locator,omitempty"`
	StartTime     float64   `json:"start_time"`
	EndTime       float64   `json:"end_time"`
	Status        string    `json:"status"`
	FailureReason string    `json:"failure_reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewReelDto 从实体创建DTO
func NewReelDto(e *entity.ReelEntity) *ReelDto {
	if e == nil {
		return nil
	}
	return &ReelDto{
		ReelUUID:      e.ReelUUID(),
		VideoUUID:     e.VideoUUID(),
		Title:         e.Title(),
		OutputLocator: e.OutputLocator(),
		StartTime:     e.StartTime(),
		EndTime:       e.EndTime(),
		Status:        e.Status().String(),
		FailureReason: e.FailureReason(),
		CreatedAt:     e.CreatedAt(),
	}
}

// ReelListDto Reel列表数据传输对象
type ReelListDto struct {
	VideoUUID string     `json:"video_uuid"`
	Reels     []*ReelDto `json:"reels"`
	Total     int        `json:"total"`
}
