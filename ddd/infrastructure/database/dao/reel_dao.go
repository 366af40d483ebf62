package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"reel-service/ddd/infrastructure/database/po"
	"reel-service/internal/resource"
)

type ReelDAO struct {
	db *gorm.DB
}

func NewReelDAO() *ReelDAO {
	return &ReelDAO{db: resource.DefaultMysqlResource().MainDB()}
}

// NewReelDAOWithDB 绑定指定DB连接，事务内使用
func NewReelDAOWithDB(db *gorm.DB) *ReelDAO {
	return &ReelDAO{db: db}
}

func (d *ReelDAO) Create(ctx context.Context, reel *po.Reel) error {
	return d.db.WithContext(ctx).Model(&po.Reel{}).Create(reel).Error
}

func (d *ReelDAO) Update(ctx context.Context, reel *po.Reel) error {
	return d.db.WithContext(ctx).Model(&po.Reel{}).Where("reel_uuid = ?", reel.ReelUUID).Updates(map[string]interface{}{
		"status":         reel.Status,
		"output_locator": reel.OutputLocator,
		"failure_reason": reel.FailureReason,
	}).Error
}

func (d *ReelDAO) FindByUUID(ctx context.Context, reelUUID string) (*po.Reel, error) {
	var reel po.Reel
	if err := d.db.WithContext(ctx).Where("reel_uuid = ?", reelUUID).First(&reel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reel, nil
}

func (d *ReelDAO) FindByVideoUUID(ctx context.Context, videoUUID string) ([]*po.Reel, error) {
	var reels []*po.Reel
	if err := d.db.WithContext(ctx).Where("video_uuid = ?", videoUUID).Order("created_at DESC, id DESC").Find(&reels).Error; err != nil {
		return nil, err
	}
	return reels, nil
}

func (d *ReelDAO) FindBySegmentID(ctx context.Context, segmentID uint64) (*po.Reel, error) {
	var reel po.Reel
	if err := d.db.WithContext(ctx).Where("segment_id = ?", segmentID).Order("created_at DESC").First(&reel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reel, nil
}
