package dto

import (
	"time"

	"reel-service/ddd/domain/entity"
)

// VideoDto 视频数据传输对象
type VideoDto struct {
	VideoUUID       string    `json:"video_uuid"`
	UserUUID        string    `json:"user_uuid"`
	Title           string    `json:"title"`
	SourceLocator   string    `json:"source_locator"`
	DurationSeconds float64   `json:"duration_seconds"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewVideoDto 从实体创建DTO
func NewVideoDto(e *entity.VideoEntity) *VideoDto {
	if e == nil {
		return nil
	}
	return &VideoDto{
		VideoUUID:       e.VideoUUID(),
		UserUUID:        e.UserUUID(),
		Title:           e.Title(),
		SourceLocator:   e.SourceLocator(),
		DurationSeconds: e.DurationSeconds(),
		Status:          e.Status().String(),
		CreatedAt:       e.CreatedAt(),
		UpdatedAt:       e.UpdatedAt(),
	}
}

// VideoListDto 视频列表数据传输对象
type VideoListDto struct {
	Videos []*VideoDto `json:"videos"`
	Page   int         `json:"page"`
	Size   int         `json:"size"`
}
