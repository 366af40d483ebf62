package vo

import "fmt"

// PipelineStage 流水线阶段
type PipelineStage string

const (
	// StageUpload 上传接收
	StageUpload PipelineStage = "upload"
	// StageAudioExtraction 音频提取
	StageAudioExtraction PipelineStage = "audio_extraction"
	// StageTranscription 语音转写
	StageTranscription PipelineStage = "transcription"
	// StageAnalysis 重要性分析
	StageAnalysis PipelineStage = "analysis"
	// StageReelGeneration Reel生成
	StageReelGeneration PipelineStage = "reel_generation"
	// StageCompleted 已完成
	StageCompleted PipelineStage = "completed"
	// StageFailed 失败（终态）
	StageFailed PipelineStage = "failed"
)

// stageOrder 固定阶段顺序；failed不参与推进
var stageOrder = []PipelineStage{
	StageUpload,
	StageAudioExtraction,
	StageTranscription,
	StageAnalysis,
	StageReelGeneration,
	StageCompleted,
}

// stageBaseline 各阶段进入时的进度基线
var stageBaseline = map[PipelineStage]int{
	StageUpload:          0,
	StageAudioExtraction: 20,
	StageTranscription:   40,
	StageAnalysis:        60,
	StageReelGeneration:  80,
	StageCompleted:       100,
}

// NewPipelineStageFromString 解析阶段字符串
func NewPipelineStageFromString(s string) (PipelineStage, error) {
	stage := PipelineStage(s)
	if !stage.IsValid() {
		return "", fmt.Errorf("invalid pipeline stage: %s", s)
	}
	return stage, nil
}

// String 返回阶段字符串
func (s PipelineStage) String() string {
	return string(s)
}

// IsValid 检查阶段是否有效
func (s PipelineStage) IsValid() bool {
	if s == StageFailed {
		return true
	}
	return s.Index() >= 0
}

// Index 返回阶段在固定顺序中的下标，failed及未知返回-1
func (s PipelineStage) Index() int {
	for i, stage := range stageOrder {
		if stage == s {
			return i
		}
	}
	return -1
}

// Next 返回固定顺序中的后继阶段；终态没有后继
func (s PipelineStage) Next() (PipelineStage, bool) {
	idx := s.Index()
	if idx < 0 || idx >= len(stageOrder)-1 {
		return "", false
	}
	return stageOrder[idx+1], true
}

// BaselineProgress 返回进入该阶段时的进度基线
func (s PipelineStage) BaselineProgress() int {
	if p, ok := stageBaseline[s]; ok {
		return p
	}
	return 0
}

// IsTerminal 检查是否为终态
func (s PipelineStage) IsTerminal() bool {
	return s == StageCompleted || s == StageFailed
}

// CanTransitionTo 检查能否转换到目标阶段：仅允许固定顺序的直接后继，或从任意非终态进入failed
func (s PipelineStage) CanTransitionTo(target PipelineStage) bool {
	if s.IsTerminal() {
		return false
	}
	if target == StageFailed {
		return true
	}
	next, ok := s.Next()
	return ok && next == target
}

// NewInvalidTransitionError 构造非法阶段迁移错误
func NewInvalidTransitionError(from, to PipelineStage) error {
	return fmt.Errorf("invalid stage transition: %s -> %s", from, to)
}

// EnterMessage 返回进入该阶段时展示给观察者的默认描述
func (s PipelineStage) EnterMessage() string {
	switch s {
	case StageUpload:
		return "Video received, waiting for processing"
	case StageAudioExtraction:
		return "Extracting audio track"
	case StageTranscription:
		return "Transcribing audio"
	case StageAnalysis:
		return "Analyzing transcript for key moments"
	case StageReelGeneration:
		return "Generating reels"
	case StageCompleted:
		return "Processing completed"
	case StageFailed:
		return "Processing failed"
	default:
		return ""
	}
}
