package persistence

import (
	"context"

	"reel-service/ddd/domain/entity"
	"reel-service/ddd/domain/repo"
	"reel-service/ddd/infrastructure/database/convertor"
	"reel-service/ddd/infrastructure/database/dao"
)

type reelRepositoryImpl struct {
	reelDao   *dao.ReelDAO
	convertor *convertor.ReelConvertor
}

func NewReelRepository() repo.ReelRepository {
	return &reelRepositoryImpl{
		reelDao:   dao.NewReelDAO(),
		convertor: convertor.NewReelConvertor(),
	}
}

func (r *reelRepositoryImpl) CreateReel(ctx context.Context, reel *entity.ReelEntity) error {
	poReel := r.convertor.ToPO(reel)
	if err := r.reelDao.Create(ctx, poReel); err != nil {
		return err
	}
	reel.SetID(poReel.ID)
	return nil
}

func (r *reelRepositoryImpl) UpdateReel(ctx context.Context, reel *entity.ReelEntity) error {
	return r.reelDao.Update(ctx, r.convertor.ToPO(reel))
}

func (r *reelRepositoryImpl) GetReelByUUID(ctx context.Context, reelUUID string) (*entity.ReelEntity, error) {
	poReel, err := r.reelDao.FindByUUID(ctx, reelUUID)
	if err != nil {
		return nil, err
	}
	return r.convertor.ToEntity(poReel), nil
}

func (r *reelRepositoryImpl) ListReelsByVideoUUID(ctx context.Context, videoUUID string) ([]*entity.ReelEntity, error) {
	poReels, err := r.reelDao.FindByVideoUUID(ctx, videoUUID)
	if err != nil {
		return nil, err
	}
	reels := make([]*entity.ReelEntity, 0, len(poReels))
	for _, poReel := range poReels {
		reels = append(reels, r.convertor.ToEntity(poReel))
	}
	return reels, nil
}

func (r *reelRepositoryImpl) GetReelBySegmentID(ctx context.Context, segmentID uint64) (*entity.ReelEntity, error) {
	poReel, err := r.reelDao.FindBySegmentID(ctx, segmentID)
	if err != nil {
		return nil, err
	}
	return r.convertor.ToEntity(poReel), nil
}
