package entity

import (
	"time"

	"github.com/google/uuid"

	"reel-service/ddd/domain/vo"
)

// VideoEntity 视频实体
type VideoEntity struct {
	id              uint64 // 数据库主键ID
	videoUUID       string
	userUUID        string
	title           string
	sourceLocator   string
	durationSeconds float64 // 音频提取完成前为0
	status          vo.VideoStatus
	createdAt       time.Time
	updatedAt       time.Time
}

// NewVideoEntity 创建视频实体
func NewVideoEntity(videoUUID, userUUID, title, sourceLocator string) *VideoEntity {
	if videoUUID == "" {
		videoUUID = uuid.New().String()
	}
	now := time.Now()
	return &VideoEntity{
		videoUUID:     videoUUID,
		userUUID:      userUUID,
		title:         title,
		sourceLocator: sourceLocator,
		status:        vo.VideoStatusUploading,
		createdAt:     now,
		updatedAt:     now,
	}
}

// NewVideoEntityWithDetails 创建带详细信息的视频实体（持久化还原用）
func NewVideoEntityWithDetails(
	id uint64,
	videoUUID, userUUID, title, sourceLocator string,
	durationSeconds float64, status vo.VideoStatus,
	createdAt, updatedAt time.Time,
) *VideoEntity {
	return &VideoEntity{
		id:              id,
		videoUUID:       videoUUID,
		userUUID:        userUUID,
		title:           title,
		sourceLocator:   sourceLocator,
		durationSeconds: durationSeconds,
		status:          status,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// ID 获取数据库主键ID
func (v *VideoEntity) ID() uint64 {
	return v.id
}

// SetID 设置数据库主键ID
func (v *VideoEntity) SetID(id uint64) {
	v.id = id
}

// VideoUUID 获取视频UUID
func (v *VideoEntity) VideoUUID() string {
	return v.videoUUID
}

// UserUUID 获取所有者UUID
func (v *VideoEntity) UserUUID() string {
	return v.userUUID
}

// Title 获取标题
func (v *VideoEntity) Title() string {
	return v.title
}

// SourceLocator 获取源文件定位符
func (v *VideoEntity) SourceLocator() string {
	return v.sourceLocator
}

// DurationSeconds 获取时长（秒）
func (v *VideoEntity) DurationSeconds() float64 {
	return v.durationSeconds
}

// SetDurationSeconds 设置时长（秒），音频提取成功后填入
func (v *VideoEntity) SetDurationSeconds(d float64) {
	v.durationSeconds = d
	v.updatedAt = time.Now()
}

// Status 获取状态
func (v *VideoEntity) Status() vo.VideoStatus {
	return v.status
}

// SetStatus 设置状态
func (v *VideoEntity) SetStatus(status vo.VideoStatus) {
	v.status = status
	v.updatedAt = time.Now()
}

// CreatedAt 获取创建时间
func (v *VideoEntity) CreatedAt() time.Time {
	return v.createdAt
}

// UpdatedAt 获取更新时间
func (v *VideoEntity) UpdatedAt() time.Time {
	return v.updatedAt
}

// SetTimestamps 设置创建和更新时间（持久化还原用）
func (v *VideoEntity) SetTimestamps(createdAt, updatedAt time.Time) {
	v.createdAt = createdAt
	v.updatedAt = updatedAt
}

// IsTerminal 检查视频是否处于终态
func (v *VideoEntity) IsTerminal() bool {
	return v.status.IsTerminal()
}
