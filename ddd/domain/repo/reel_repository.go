package repo

import (
	"context"

	"reel-service/ddd/domain/entity"
)

// ReelRepository Reel仓储接口
type ReelRepository interface {
	// CreateReel 创建Reel记录
	CreateReel(ctx context.Context, reel *entity.ReelEntity) error

	// UpdateReel 更新Reel记录
	UpdateReel(ctx context.Context, reel *entity.ReelEntity) error

	// GetReelByUUID 根据UUID获取Reel
	GetReelByUUID(ctx context.Context, reelUUID string) (*entity.ReelEntity, error)

	// ListReelsByVideoUUID 列出视频的全部Reel
	ListReelsByVideoUUID(ctx context.Context, videoUUID string) ([]*entity.ReelEntity, error)

	// GetReelBySegmentID 获取某重要片段已有的Reel，幂等重跑用
	GetReelBySegmentID(ctx context.Context, segmentID uint64) (*entity.ReelEntity, error)
}
