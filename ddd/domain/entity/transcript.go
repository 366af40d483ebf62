package entity

import (
	"time"

	"reel-service/ddd/domain/vo"
)

// TranscriptEntity 转写文本实体，每个视频至多一份
type TranscriptEntity struct {
	id        uint64
	videoUUID string
	fullText  string
	language  string
	segments  []vo.TranscriptSegment
	createdAt time.Time
}

// NewTranscriptEntity 创建转写实体
func NewTranscriptEntity(videoUUID, fullText, language string, segments []vo.TranscriptSegment) *TranscriptEntity {
	return &TranscriptEntity{
		videoUUID: videoUUID,
		fullText:  fullText,
		language:  language,
		segments:  segments,
		createdAt: time.Now(),
	}
}

// NewTranscriptEntityWithDetails 创建带详细信息的转写实体（持久化还原用）
func NewTranscriptEntityWithDetails(
	id uint64,
	videoUUID, fullText, language string,
	segments []vo.TranscriptSegment,
	createdAt time.Time,
) *TranscriptEntity {
	return &TranscriptEntity{
		id:        id,
		videoUUID: videoUUID,
		fullText:  fullText,
		language:  language,
		segments:  segments,
		createdAt: createdAt,
	}
}

// ID 获取数据库主键ID
func (t *TranscriptEntity) ID() uint64 {
	return t.id
}

// SetID 设置数据库主键ID
func (t *TranscriptEntity) SetID(id uint64) {
	t.id = id
}

// VideoUUID 获取视频UUID
func (t *TranscriptEntity) VideoUUID() string {
	return t.videoUUID
}

// FullText 获取完整文本
func (t *TranscriptEntity) FullText() string {
	return t.fullText
}

// Language 获取识别出的语言
func (t *TranscriptEntity) Language() string {
	return t.language
}

// Segments 获取带时间戳的分段
func (t *TranscriptEntity) Segments() []vo.TranscriptSegment {
	return t.segments
}

// CreatedAt 获取创建时间
func (t *TranscriptEntity) CreatedAt() time.Time {
	return t.createdAt
}

// Validate 校验所有分段的时间戳与置信度
func (t *TranscriptEntity) Validate() error {
	for i := range t.segments {
		if err := t.segments[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}
