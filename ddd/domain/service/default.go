package service

import (
	"sync"

	"reel-service/ddd/infrastructure/database/persistence"
	"reel-service/ddd/infrastructure/notify"
	"reel-service/ddd/infrastructure/queue"
	"reel-service/ddd/infrastructure/storage"
	"reel-service/ddd/infrastructure/transform"
	"reel-service/internal/resource"
	"reel-service/pkg/assert"
	"reel-service/pkg/config"
)

var (
	singleOrchestrator *orchestratorServiceImpl
	onceOrchestrator   sync.Once
)

// DefaultOrchestratorService 获取全局编排服务单例
func DefaultOrchestratorService() *orchestratorServiceImpl {
	assert.NotCircular()
	onceOrchestrator.Do(func() {
		cfg := config.GetGlobalConfig()
		videoRepo := persistence.NewVideoRepository()
		pipelineRepo := persistence.NewPipelineRepository()
		reelRepo := persistence.NewReelRepository()

		mediaTransform := transform.NewMediaTransform(cfg)
		storageGateway := storage.NewMinioStorage(resource.DefaultMinioResource())
		notifier := notify.DefaultStatusNotifier()

		stageSvc := NewStageService(pipelineRepo, reelRepo, mediaTransform, storageGateway, cfg)
		singleOrchestrator = NewOrchestratorService(videoRepo, pipelineRepo, stageSvc, notifier)
		singleOrchestrator.SetDispatcher(queue.DefaultDispatchQueue())
	})
	assert.NotNil(singleOrchestrator)
	return singleOrchestrator
}
