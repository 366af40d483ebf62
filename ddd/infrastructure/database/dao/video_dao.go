package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"reel-service/ddd/infrastructure/database/po"
	"reel-service/internal/resource"
)

type VideoDAO struct {
	db *gorm.DB
}

func NewVideoDAO() *VideoDAO {
	return &VideoDAO{db: resource.DefaultMysqlResource().MainDB()}
}

// NewVideoDAOWithDB 绑定指定DB连接，事务内使用
func NewVideoDAOWithDB(db *gorm.DB) *VideoDAO {
	return &VideoDAO{db: db}
}

func (d *VideoDAO) Create(ctx context.Context, video *po.Video) error {
	return d.db.WithContext(ctx).Model(&po.Video{}).Create(video).Error
}

func (d *VideoDAO) FindByUUID(ctx context.Context, videoUUID string) (*po.Video, error) {
	var video po.Video
	if err := d.db.WithContext(ctx).Where("video_uuid = ?", videoUUID).First(&video).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &video, nil
}

func (d *VideoDAO) FindByUserUUID(ctx context.Context, userUUID string, limit, offset int) ([]*po.Video, error) {
	var videos []*po.Video
	q := d.db.WithContext(ctx).Where("user_uuid = ?", userUUID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&videos).Error; err != nil {
		return nil, err
	}
	return videos, nil
}

func (d *VideoDAO) UpdateStatus(ctx context.Context, videoUUID, status string) error {
	return d.db.WithContext(ctx).Model(&po.Video{}).Where("video_uuid = ?", videoUUID).Update("status", status).Error
}

func (d *VideoDAO) UpdateDuration(ctx context.Context, videoUUID string, durationSeconds float64) error {
	return d.db.WithContext(ctx).Model(&po.Video{}).Where("video_uuid = ?", videoUUID).Update("duration_seconds", durationSeconds).Error
}
