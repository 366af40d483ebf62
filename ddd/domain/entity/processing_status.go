package entity

import (
	"time"

	"reel-service/ddd/domain/vo"
)

// ProcessingStatusEntity 处理状态实体，每个视频对应一行
type ProcessingStatusEntity struct {
	id           uint64
	videoUUID    string
	currentStage vo.PipelineStage
	progress     int // 0-100
	message      string
	audioLocator string // 音频提取完成后写入，转写完成后可清空
	createdAt    time.Time
	updatedAt    time.Time
}

// NewProcessingStatusEntity 创建初始处理状态（upload 阶段）
func NewProcessingStatusEntity(videoUUID string) *ProcessingStatusEntity {
	now := time.Now()
	stage := vo.StageUpload
	return &ProcessingStatusEntity{
		videoUUID:    videoUUID,
		currentStage: stage,
		progress:     stage.BaselineProgress(),
		message:      stage.EnterMessage(),
		createdAt:    now,
		updatedAt:    now,
	}
}

// NewProcessingStatusEntityWithDetails 创建带详细信息的处理状态实体（持久化还原用）
func NewProcessingStatusEntityWithDetails(
	id uint64,
	videoUUID string,
	currentStage vo.PipelineStage,
	progress int,
	message, audioLocator string,
	createdAt, updatedAt time.Time,
) *ProcessingStatusEntity {
	return &ProcessingStatusEntity{
		id:           id,
		videoUUID:    videoUUID,
		currentStage: currentStage,
		progress:     progress,
		message:      message,
		audioLocator: audioLocator,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// ID 获取数据库主键ID
func (p *ProcessingStatusEntity) ID() uint64 {
	return p.id
}

// SetID 设置数据库主键ID
func (p *ProcessingStatusEntity) SetID(id uint64) {
	p.id = id
}

// VideoUUID 获取视频UUID
func (p *ProcessingStatusEntity) VideoUUID() string {
	return p.videoUUID
}

// CurrentStage 获取当前阶段
func (p *ProcessingStatusEntity) CurrentStage() vo.PipelineStage {
	return p.currentStage
}

// Progress 获取进度百分比
func (p *ProcessingStatusEntity) Progress() int {
	return p.progress
}

// Message 获取状态描述
func (p *ProcessingStatusEntity) Message() string {
	return p.message
}

// AudioLocator 获取音频文件定位符
func (p *ProcessingStatusEntity) AudioLocator() string {
	return p.audioLocator
}

// SetAudioLocator 设置音频文件定位符
func (p *ProcessingStatusEntity) SetAudioLocator(locator string) {
	p.audioLocator = locator
	p.updatedAt = time.Now()
}

// CreatedAt 获取创建时间
func (p *ProcessingStatusEntity) CreatedAt() time.Time {
	return p.createdAt
}

// UpdatedAt 获取更新时间
func (p *ProcessingStatusEntity) UpdatedAt() time.Time {
	return p.updatedAt
}

// IsTerminal 检查是否处于终态
func (p *ProcessingStatusEntity) IsTerminal() bool {
	return p.currentStage.IsTerminal()
}

// AdvanceTo 推进到下一阶段，校验相邻迁移并重置进度基线
func (p *ProcessingStatusEntity) AdvanceTo(next vo.PipelineStage, message string) error {
	if !p.currentStage.CanTransitionTo(next) {
		return vo.NewInvalidTransitionError(p.currentStage, next)
	}
	p.currentStage = next
	p.progress = next.BaselineProgress()
	if message == "" {
		message = next.EnterMessage()
	}
	p.message = message
	p.updatedAt = time.Now()
	return nil
}

// MarkFailed 标记为失败终态，进度冻结在失败时的值
func (p *ProcessingStatusEntity) MarkFailed(message string) error {
	if p.currentStage.IsTerminal() {
		return vo.NewInvalidTransitionError(p.currentStage, vo.StageFailed)
	}
	p.currentStage = vo.StageFailed
	p.message = message
	p.updatedAt = time.Now()
	return nil
}

// UpdateProgress 更新阶段内进度，不允许越过下一阶段基线或回退
func (p *ProcessingStatusEntity) UpdateProgress(progress int, message string) {
	if p.currentStage.IsTerminal() {
		return
	}
	floor := p.currentStage.BaselineProgress()
	ceiling := 99
	if next, ok := p.currentStage.Next(); ok && next != vo.StageCompleted {
		ceiling = next.BaselineProgress()
	}
	if progress < floor {
		progress = floor
	}
	if progress > ceiling {
		progress = ceiling
	}
	if progress < p.progress {
		return
	}
	p.progress = progress
	if message != "" {
		p.message = message
	}
	p.updatedAt = time.Now()
}
