package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"reel-service/ddd/infrastructure/database/po"
	"reel-service/internal/resource"
)

type PipelineDAO struct {
	db *gorm.DB
}

func NewPipelineDAO() *PipelineDAO {
	return &PipelineDAO{db: resource.DefaultMysqlResource().MainDB()}
}

// NewPipelineDAOWithDB 绑定指定DB连接，事务内使用
func NewPipelineDAOWithDB(db *gorm.DB) *PipelineDAO {
	return &PipelineDAO{db: db}
}

// DB 暴露底层连接，开启事务用
func (d *PipelineDAO) DB() *gorm.DB {
	return d.db
}

func (d *PipelineDAO) CreateStatus(ctx context.Context, status *po.ProcessingStatus) error {
	return d.db.WithContext(ctx).Model(&po.ProcessingStatus{}).Create(status).Error
}

func (d *PipelineDAO) FindStatusByVideoUUID(ctx context.Context, videoUUID string) (*po.ProcessingStatus, error) {
	var status po.ProcessingStatus
	if err := d.db.WithContext(ctx).Where("video_uuid = ?", videoUUID).First(&status).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &status, nil
}

// UpdateStatusFields 按字段更新状态行
func (d *PipelineDAO) UpdateStatusFields(ctx context.Context, videoUUID string, fields map[string]interface{}) error {
	return d.db.WithContext(ctx).Model(&po.ProcessingStatus{}).Where("video_uuid = ?", videoUUID).Updates(fields).Error
}

func (d *PipelineDAO) FindStatusesByStages(ctx context.Context, stages []string) ([]*po.ProcessingStatus, error) {
	var statuses []*po.ProcessingStatus
	if err := d.db.WithContext(ctx).Where("current_stage IN ?", stages).Order("updated_at ASC").Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}

func (d *PipelineDAO) CreateTranscript(ctx context.Context, transcript *po.Transcript) error {
	return d.db.WithContext(ctx).Model(&po.Transcript{}).Create(transcript).Error
}

func (d *PipelineDAO) FindTranscriptByVideoUUID(ctx context.Context, videoUUID string) (*po.Transcript, error) {
	var transcript po.Transcript
	if err := d.db.WithContext(ctx).Where("video_uuid = ?", videoUUID).First(&transcript).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &transcript, nil
}

func (d *PipelineDAO) CreateTranscriptSegments(ctx context.Context, segments []*po.TranscriptSegment) error {
	if len(segments) == 0 {
		return nil
	}
	return d.db.WithContext(ctx).Model(&po.TranscriptSegment{}).Create(segments).Error
}

func (d *PipelineDAO) FindTranscriptSegments(ctx context.Context, videoUUID string) ([]*po.TranscriptSegment, error) {
	var segments []*po.TranscriptSegment
	if err := d.db.WithContext(ctx).Where("video_uuid = ?", videoUUID).Order("order_index ASC").Find(&segments).Error; err != nil {
		return nil, err
	}
	return segments, nil
}

func (d *PipelineDAO) CreateImportantSegments(ctx context.Context, segments []*po.ImportantSegment) error {
	if len(segments) == 0 {
		return nil
	}
	return d.db.WithContext(ctx).Model(&po.ImportantSegment{}).Create(segments).Error
}

func (d *PipelineDAO) FindImportantSegments(ctx context.Context, videoUUID string) ([]*po.ImportantSegment, error) {
	var segments []*po.ImportantSegment
	if err := d.db.WithContext(ctx).Where("video_uuid = ?", videoUUID).Order("order_index ASC").Find(&segments).Error; err != nil {
		return nil, err
	}
	return segments, nil
}
