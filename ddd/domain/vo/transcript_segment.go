package vo

import "fmt"

// TranscriptSegment 转写片段（按开始时间排序，允许重叠）
type TranscriptSegment struct {
	Start      float64 // 开始时间（秒）
	End        float64 // 结束时间（秒）
	Text       string
	Confidence float64 // [0,1]
}

// Validate 校验片段的时间与置信度
func (s TranscriptSegment) Validate() error {
	if s.Start < 0 {
		return fmt.Errorf("segment start must be non-negative, got %f", s.Start)
	}
	if s.End < s.Start {
		return fmt.Errorf("segment end %f precedes start %f", s.End, s.Start)
	}
	if s.Confidence < 0 || s.Confidence > 1 {
		return fmt.Errorf("segment confidence must be in [0,1], got %f", s.Confidence)
	}
	return nil
}

// Duration 返回片段时长（秒）
func (s TranscriptSegment) Duration() float64 {
	return s.End - s.Start
}
