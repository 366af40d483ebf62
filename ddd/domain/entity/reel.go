package entity

import (
	"time"

	"github.com/google/uuid"

	"reel-service/ddd/domain/vo"
)

// ReelEntity Reel实体，由重要片段剪辑出的短视频
type ReelEntity struct {
	id            uint64
	reelUUID      string
	videoUUID     string
	segmentID     uint64 // 关联的重要片段主键
	title         string
	outputLocator string
	startTime     float64 // 含前后扩展后的实际剪辑区间
	endTime       float64
	status        vo.ReelStatus
	failureReason string
	createdAt     time.Time
	updatedAt     time.Time
}

// NewReelEntity 创建Reel实体，初始状态为generating
func NewReelEntity(videoUUID string, segmentID uint64, title string, startTime, endTime float64) *ReelEntity {
	now := time.Now()
	return &ReelEntity{
		reelUUID:  uuid.New().String(),
		videoUUID: videoUUID,
		segmentID: segmentID,
		title:     title,
		startTime: startTime,
		endTime:   endTime,
		status:    vo.ReelStatusGenerating,
		createdAt: now,
		updatedAt: now,
	}
}

// NewReelEntityWithDetails 创建带详细信息的Reel实体（持久化还原用）
func NewReelEntityWithDetails(
	id uint64,
	reelUUID, videoUUID string,
	segmentID uint64,
	title, outputLocator string,
	startTime, endTime float64,
	status vo.ReelStatus,
	failureReason string,
	createdAt, updatedAt time.Time,
) *ReelEntity {
	return &ReelEntity{
		id:            id,
		reelUUID:      reelUUID,
		videoUUID:     videoUUID,
		segmentID:     segmentID,
		title:         title,
		outputLocator: outputLocator,
		startTime:     startTime,
		endTime:       endTime,
		status:        status,
		failureReason: failureReason,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// ID 获取数据库主键ID
func (r *ReelEntity) ID() uint64 {
	return r.id
}

// SetID 设置数据库主键ID
func (r *ReelEntity) SetID(id uint64) {
	r.id = id
}

// ReelUUID 获取Reel UUID
func (r *ReelEntity) ReelUUID() string {
	return r.reelUUID
}

// VideoUUID 获取视频UUID
func (r *ReelEntity) VideoUUID() string {
	return r.videoUUID
}

// SegmentID 获取关联的重要片段主键
func (r *ReelEntity) SegmentID() uint64 {
	return r.segmentID
}

// Title 获取标题
func (r *ReelEntity) Title() string {
	return r.title
}

// OutputLocator 获取输出文件定位符
func (r *ReelEntity) OutputLocator() string {
	return r.outputLocator
}

// StartTime 获取剪辑起始时间（秒）
func (r *ReelEntity) StartTime() float64 {
	return r.startTime
}

// EndTime 获取剪辑结束时间（秒）
func (r *ReelEntity) EndTime() float64 {
	return r.endTime
}

// Status 获取状态
func (r *ReelEntity) Status() vo.ReelStatus {
	return r.status
}

// FailureReason 获取失败原因
func (r *ReelEntity) FailureReason() string {
	return r.failureReason
}

// CreatedAt 获取创建时间
func (r *ReelEntity) CreatedAt() time.Time {
	return r.createdAt
}

// UpdatedAt 获取更新时间
func (r *ReelEntity) UpdatedAt() time.Time {
	return r.updatedAt
}

// MarkCompleted 标记剪辑完成并记录输出位置
func (r *ReelEntity) MarkCompleted(outputLocator string) {
	r.status = vo.ReelStatusCompleted
	r.outputLocator = outputLocator
	r.failureReason = ""
	r.updatedAt = time.Now()
}

// MarkFailed 标记剪辑失败并记录原因
func (r *ReelEntity) MarkFailed(reason string) {
	r.status = vo.ReelStatusFailed
	r.failureReason = reason
	r.updatedAt = time.Now()
}

// Duration 获取剪辑时长（秒）
func (r *ReelEntity) Duration() float64 {
	return r.endTime - r.startTime
}
