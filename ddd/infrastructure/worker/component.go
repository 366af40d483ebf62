package worker

import (
	"context"
	"fmt"

	"reel-service/ddd/domain/service"
	"reel-service/ddd/infrastructure/queue"
	"reel-service/pkg/config"
	"reel-service/pkg/logger"
	"reel-service/pkg/manager"
)

// PipelineWorkerComponentPlugin 负责启动流水线工作池
type PipelineWorkerComponentPlugin struct{}

func (p *PipelineWorkerComponentPlugin) Name() string {
	return "pipelineWorkerComponent"
}

func (p *PipelineWorkerComponentPlugin) MustCreateComponent(deps *manager.Dependencies) manager.Component {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.GetGlobalConfig()
	}

	workerCount := 1
	workerID := "pipeline-worker"
	if cfg != nil {
		if cfg.Worker.MaxConcurrentVideos > 0 {
			workerCount = cfg.Worker.MaxConcurrentVideos
		}
		if cfg.Worker.WorkerID != "" {
			workerID = cfg.Worker.WorkerID
		}
	}

	orchestrator := service.DefaultOrchestratorService()
	queueInstance := queue.DefaultDispatchQueue()

	return &pipelineWorkerComponent{
		name:         "pipelineWorker",
		queue:        queueInstance,
		worker:       NewPipelineWorker(workerID, queueInstance, orchestrator, workerCount),
		orchestrator: orchestrator,
		resumeOnStart: cfg == nil || cfg.Pipeline.ResumeOnStart,
	}
}

type pipelineWorkerComponent struct {
	name          string
	queue         queue.DispatchQueue
	worker        PipelineWorker
	orchestrator  service.OrchestratorService
	resumeOnStart bool
	cancel        context.CancelFunc
}

func (c *pipelineWorkerComponent) Start() error {
	if c.worker == nil {
		return fmt.Errorf("pipeline worker not initialized")
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	if err := c.worker.Start(ctx); err != nil {
		cancel()
		return err
	}

	// 崩溃恢复：重新投递所有非终态视频
	if c.resumeOnStart {
		go func() {
			if _, err := c.orchestrator.ResumePending(ctx); err != nil {
				logger.Errorf("resume scan failed error=%v", err)
			}
		}()
	}

	logger.Infof("Pipeline worker component started name=%s", c.name)
	return nil
}

func (c *pipelineWorkerComponent) Stop() error {
	queue.CloseDefaultDispatchQueue()
	if c.cancel != nil {
		c.cancel()
	}
	if c.worker != nil {
		_ = c.worker.Stop()
	}
	logger.Infof("Pipeline worker component stopped name=%s", c.name)
	return nil
}

func (c *pipelineWorkerComponent) GetName() string {
	return c.name
}
