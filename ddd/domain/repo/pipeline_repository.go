package repo

import (
	"context"

	"reel-service/ddd/domain/entity"
	"reel-service/ddd/domain/vo"
)

// StageOutputs 阶段产出，随阶段推进在同一事务内落库
type StageOutputs struct {
	// VideoDuration 音频提取阶段探测出的视频时长（秒），0表示不更新
	VideoDuration float64
	// AudioLocator 音频文件定位符，非空时写入状态行供断点续跑
	AudioLocator string
	// ClearAudioLocator 转写完成后清空音频定位符
	ClearAudioLocator bool
	// Transcript 转写阶段产出的完整转写
	Transcript *entity.TranscriptEntity
	// Segments 分析阶段产出的重要片段
	Segments []*entity.ImportantSegmentEntity
}

// PipelineRepository 流水线状态仓储接口
type PipelineRepository interface {
	// CreateStatus 创建初始处理状态
	CreateStatus(ctx context.Context, status *entity.ProcessingStatusEntity) error

	// GetStatus 根据视频UUID获取处理状态
	GetStatus(ctx context.Context, videoUUID string) (*entity.ProcessingStatusEntity, error)

	// AdvanceStage 在单个事务内推进阶段并落库阶段产出
	AdvanceStage(ctx context.Context, videoUUID string, next vo.PipelineStage, message string, outputs *StageOutputs) error

	// MarkFailed 标记为失败终态，进度冻结
	MarkFailed(ctx context.Context, videoUUID string, message string) error

	// UpdateProgress 更新阶段内进度
	UpdateProgress(ctx context.Context, videoUUID string, progress int, message string) error

	// ListByStages 列出处于给定阶段的视频UUID，启动恢复扫描用
	ListByStages(ctx context.Context, stages []vo.PipelineStage) ([]*entity.ProcessingStatusEntity, error)

	// GetTranscript 获取视频的完整转写
	GetTranscript(ctx context.Context, videoUUID string) (*entity.TranscriptEntity, error)

	// ListImportantSegments 按评分顺序列出重要片段
	ListImportantSegments(ctx context.Context, videoUUID string) ([]*entity.ImportantSegmentEntity, error)
}
