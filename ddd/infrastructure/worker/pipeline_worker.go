package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"reel-service/ddd/domain/service"
	"reel-service/ddd/infrastructure/queue"
	"reel-service/pkg/logger"
)

// PipelineWorker 流水线工作池，限制全服务并发处理的视频数
type PipelineWorker interface {
	// Start 启动工作池
	Start(ctx context.Context) error

	// Stop 停止工作池并等待在途视频处理收尾
	Stop() error
}

type pipelineWorkerImpl struct {
	workerID     string
	queue        queue.DispatchQueue
	orchestrator service.OrchestratorService
	workerCount  int

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

// NewPipelineWorker 创建流水线工作池
func NewPipelineWorker(workerID string, q queue.DispatchQueue, orchestrator service.OrchestratorService, workerCount int) PipelineWorker {
	if workerCount <= 0 {
		workerCount = 1
	}
	return &pipelineWorkerImpl{
		workerID:     workerID,
		queue:        q,
		orchestrator: orchestrator,
		workerCount:  workerCount,
	}
}

// Start 启动工作池
func (w *pipelineWorkerImpl) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return fmt.Errorf("pipeline worker already started")
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.started = true

	for i := 0; i < w.workerCount; i++ {
		w.wg.Add(1)
		go w.runLoop(workerCtx, i)
	}

	logger.Infof("pipeline worker started worker_id=%s workers=%d", w.workerID, w.workerCount)
	return nil
}

// runLoop 单个worker的取任务循环
func (w *pipelineWorkerImpl) runLoop(ctx context.Context, index int) {
	defer w.wg.Done()
	for {
		videoUUID, err := w.queue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			if w.queue.IsClosed() {
				return
			}
			logger.Warnf("dequeue failed worker_id=%s index=%d error=%v", w.workerID, index, err)
			continue
		}

		logger.Infof("worker picked video worker_id=%s index=%d video_uuid=%s", w.workerID, index, videoUUID)
		if err := w.orchestrator.ProcessVideo(ctx, videoUUID); err != nil {
			logger.Errorf("video processing ended with error video_uuid=%s error=%v", videoUUID, err)
		}
	}
}

// Stop 停止工作池并等待在途视频处理收尾
func (w *pipelineWorkerImpl) Stop() error {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return nil
	}
	w.started = false
	cancel := w.cancel
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
	logger.Infof("pipeline worker stopped worker_id=%s", w.workerID)
	return nil
}
