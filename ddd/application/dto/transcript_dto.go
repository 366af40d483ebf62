package dto

import (
	"reel-service/ddd/domain/entity"
)

// TranscriptSegmentDto 转写分段数据传输对象
type TranscriptSegmentDto struct {
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// TranscriptDto 转写数据传输对象
type TranscriptDto struct {
	VideoUUID string                  `json:"video_uuid"`
	FullText  string                  `json:"full_text"`
	Language  string                  `json:"language"`
	Segments  []*TranscriptSegmentDto `json:"segments"`
}

// NewTranscriptDto 从实体创建DTO
func NewTranscriptDto(e *entity.TranscriptEntity) *TranscriptDto {
	if e == nil {
		return nil
	}
	segments := make([]*TranscriptSegmentDto, 0, len(e.Segments()))
	for _, seg := range e.Segments() {
		segments = append(segments, &TranscriptSegmentDto{
			Start:      seg.Start,
			End:        seg.End,
			Text:       seg.Text,
			Confidence: seg.Confidence,
		})
	}
	return &TranscriptDto{
		VideoUUID: e.VideoUUID(),
		FullText:  e.FullText(),
		Language:  e.Language(),
		Segments:  segments,
	}
}
