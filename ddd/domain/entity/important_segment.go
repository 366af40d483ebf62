package entity

import "time"

// ImportantSegmentEntity 重要片段实体，分析阶段选出的高价值时间区间
type ImportantSegmentEntity struct {
	id         uint64
	videoUUID  string
	startTime  float64
	endTime    float64
	score      float64 // 重要性评分，取值[0,1]
	reason     string  // 选中理由
	text       string  // 对应的转写文本
	orderIndex int     // 按评分排序后的序号，从0开始
	createdAt  time.Time
}

// NewImportantSegmentEntity 创建重要片段实体
func NewImportantSegmentEntity(videoUUID string, startTime, endTime, score float64, reason, text string, orderIndex int) *ImportantSegmentEntity {
	return &ImportantSegmentEntity{
		videoUUID:  videoUUID,
		startTime:  startTime,
		endTime:    endTime,
		score:      score,
		reason:     reason,
		text:       text,
		orderIndex: orderIndex,
		createdAt:  time.Now(),
	}
}

// NewImportantSegmentEntityWithDetails 创建带详细信息的重要片段实体（持久化还原用）
func NewImportantSegmentEntityWithDetails(
	id uint64,
	videoUUID string,
	startTime, endTime, score float64,
	reason, text string,
	orderIndex int,
	createdAt time.Time,
) *ImportantSegmentEntity {
	return &ImportantSegmentEntity{
		id:         id,
		videoUUID:  videoUUID,
		startTime:  startTime,
		endTime:    endTime,
		score:      score,
		reason:     reason,
		text:       text,
		orderIndex: orderIndex,
		createdAt:  createdAt,
	}
}

// ID 获取数据库主键ID
func (s *ImportantSegmentEntity) ID() uint64 {
	return s.id
}

// SetID 设置数据库主键ID
func (s *ImportantSegmentEntity) SetID(id uint64) {
	s.id = id
}

// VideoUUID 获取视频UUID
func (s *ImportantSegmentEntity) VideoUUID() string {
	return s.videoUUID
}

// StartTime 获取片段起始时间（秒）
func (s *ImportantSegmentEntity) StartTime() float64 {
	return s.startTime
}

// EndTime 获取片段结束时间（秒）
func (s *ImportantSegmentEntity) EndTime() float64 {
	return s.endTime
}

// Score 获取重要性评分
func (s *ImportantSegmentEntity) Score() float64 {
	return s.score
}

// Reason 获取选中理由
func (s *ImportantSegmentEntity) Reason() string {
	return s.reason
}

// Text 获取对应的转写文本
func (s *ImportantSegmentEntity) Text() string {
	return s.text
}

// OrderIndex 获取排序序号
func (s *ImportantSegmentEntity) OrderIndex() int {
	return s.orderIndex
}

// CreatedAt 获取创建时间
func (s *ImportantSegmentEntity) CreatedAt() time.Time {
	return s.createdAt
}

// Duration 获取片段时长（秒）
func (s *ImportantSegmentEntity) Duration() float64 {
	return s.endTime - s.startTime
}
