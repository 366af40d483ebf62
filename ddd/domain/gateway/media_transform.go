package gateway

import (
	"context"

	"reel-service/ddd/domain/vo"
)

// ExtractAudioResult 音频提取结果
type ExtractAudioResult struct {
	// AudioPath 提取出的音频文件本地路径
	AudioPath string `json:"audio_path"`
	// VideoDuration 探测出的视频时长（秒）
	VideoDuration float64 `json:"video_duration"`
}

// TranscribeResult 转写结果
type TranscribeResult struct {
	FullText string                 `json:"full_text"`
	Language string                 `json:"language"`
	Segments []vo.TranscriptSegment `json:"segments"`
}

// ScoredSegment 评分后的片段
type ScoredSegment struct {
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Score     float64 `json:"score"`
	Reason    string  `json:"reason"`
	Text      string  `json:"text"`
}

// CutClipRequest 剪辑请求
type CutClipRequest struct {
	SourcePath string  `json:"source_path"`
	OutputPath string  `json:"output_path"`
	StartTime  float64 `json:"start_time"`
	EndTime    float64 `json:"end_time"`
}

// MediaTransform 媒体变换网关，覆盖流水线四个处理阶段的外部依赖
type MediaTransform interface {
	// ExtractAudio 从视频提取单声道16kHz音轨
	ExtractAudio(ctx context.Context, videoPath string) (*ExtractAudioResult, error)

	// Transcribe 语音转写，返回带时间戳的分段
	Transcribe(ctx context.Context, audioPath string) (*TranscribeResult, error)

	// ScoreSegments 对转写分段做重要性评分
	ScoreSegments(ctx context.Context, segments []vo.TranscriptSegment) ([]*ScoredSegment, error)

	// CutClip 按时间区间剪出一个短视频
	CutClip(ctx context.Context, request *CutClipRequest) error
}
