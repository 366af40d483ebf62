package persistence

import (
	"context"

	"reel-service/ddd/domain/entity"
	"reel-service/ddd/domain/repo"
	"reel-service/ddd/domain/vo"
	"reel-service/ddd/infrastructure/database/convertor"
	"reel-service/ddd/infrastructure/database/dao"
)

type videoRepositoryImpl struct {
	videoDao  *dao.VideoDAO
	convertor *convertor.VideoConvertor
}

func NewVideoRepository() repo.VideoRepository {
	return &videoRepositoryImpl{
		videoDao:  dao.NewVideoDAO(),
		convertor: convertor.NewVideoConvertor(),
	}
}

func (r *videoRepositoryImpl) CreateVideo(ctx context.Context, video *entity.VideoEntity) error {
	poVideo := r.convertor.ToPO(video)
	if err := r.videoDao.Create(ctx, poVideo); err != nil {
		return err
	}
	video.SetID(poVideo.ID)
	return nil
}

func (r *videoRepositoryImpl) GetVideoByUUID(ctx context.Context, videoUUID string) (*entity.VideoEntity, error) {
	poVideo, err := r.videoDao.FindByUUID(ctx, videoUUID)
	if err != nil {
		return nil, err
	}
	return r.convertor.ToEntity(poVideo), nil
}

func (r *videoRepositoryImpl) GetVideosByUserUUID(ctx context.Context, userUUID string, limit, offset int) ([]*entity.VideoEntity, error) {
	poVideos, err := r.videoDao.FindByUserUUID(ctx, userUUID, limit, offset)
	if err != nil {
		return nil, err
	}
	videos := make([]*entity.VideoEntity, 0, len(poVideos))
	for _, poVideo := range poVideos {
		videos = append(videos, r.convertor.ToEntity(poVideo))
	}
	return videos, nil
}

func (r *videoRepositoryImpl) UpdateVideoStatus(ctx context.Context, videoUUID string, status vo.VideoStatus) error {
	return r.videoDao.UpdateStatus(ctx, videoUUID, status.String())
}

func (r *videoRepositoryImpl) UpdateVideoDuration(ctx context.Context, videoUUID string, durationSeconds float64) error {
	return r.videoDao.UpdateDuration(ctx, videoUUID, durationSeconds)
}
