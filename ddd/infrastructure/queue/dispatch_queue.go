package queue

import (
	"context"
	"fmt"
	"sync"

	"reel-service/pkg/config"
	"reel-service/pkg/errno"
)

// DispatchQueue 视频处理投递队列接口
type DispatchQueue interface {
	// Enqueue 入队视频（非阻塞，队列满返回错误）
	Enqueue(ctx context.Context, videoUUID string) error

	// Dequeue 出队视频（阻塞）
	Dequeue(ctx context.Context) (string, error)

	// Size 获取队列大小
	Size() int

	// Close 关闭队列
	Close() error

	// IsClosed 检查队列是否已关闭
	IsClosed() bool
}

// MemoryDispatchQueue 基于内存的投递队列实现
type MemoryDispatchQueue struct {
	queue   chan string
	closed  bool
	mu      sync.RWMutex
	metrics *QueueMetrics
}

// QueueMetrics 队列指标
type QueueMetrics struct {
	EnqueueCount uint64
	DequeueCount uint64
	MaxSize      int
	CurrentSize  int
	mu           sync.RWMutex
}

// NewMemoryDispatchQueue 创建内存投递队列
func NewMemoryDispatchQueue(capacity int) *MemoryDispatchQueue {
	if capacity <= 0 {
		capacity = 1000
	}
	return &MemoryDispatchQueue{
		queue: make(chan string, capacity),
		metrics: &QueueMetrics{
			MaxSize: capacity,
		},
	}
}

// Enqueue 入队视频
func (q *MemoryDispatchQueue) Enqueue(ctx context.Context, videoUUID string) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return fmt.Errorf("dispatch queue is closed")
	}
	if videoUUID == "" {
		return fmt.Errorf("video uuid cannot be empty")
	}

	select {
	case q.queue <- videoUUID:
		q.updateEnqueueMetrics()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return errno.NewBizError(errno.ErrQueueFull, fmt.Errorf("dispatch queue is full"))
	}
}

// Dispatch 投递视频到处理队列，供编排侧作为任务分发器使用
func (q *MemoryDispatchQueue) Dispatch(ctx context.Context, videoUUID string) error {
	return q.Enqueue(ctx, videoUUID)
}

// Dequeue 出队视频（阻塞）
func (q *MemoryDispatchQueue) Dequeue(ctx context.Context) (string, error) {
	select {
	case videoUUID, ok := <-q.queue:
		if !ok {
			return "", fmt.Errorf("dispatch queue is closed")
		}
		q.updateDequeueMetrics()
		return videoUUID, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Size 获取队列大小
func (q *MemoryDispatchQueue) Size() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return 0
	}
	return len(q.queue)
}

// Close 关闭队列
func (q *MemoryDispatchQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	close(q.queue)
	return nil
}

// IsClosed 检查队列是否已关闭
func (q *MemoryDispatchQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

// GetMetrics 获取队列指标
func (q *MemoryDispatchQueue) GetMetrics() QueueMetrics {
	q.metrics.mu.RLock()
	defer q.metrics.mu.RUnlock()
	metrics := QueueMetrics{
		EnqueueCount: q.metrics.EnqueueCount,
		DequeueCount: q.metrics.DequeueCount,
		MaxSize:      q.metrics.MaxSize,
	}
	metrics.CurrentSize = q.Size()
	return metrics
}

func (q *MemoryDispatchQueue) updateEnqueueMetrics() {
	q.metrics.mu.Lock()
	defer q.metrics.mu.Unlock()
	q.metrics.EnqueueCount++
}

func (q *MemoryDispatchQueue) updateDequeueMetrics() {
	q.metrics.mu.Lock()
	defer q.metrics.mu.Unlock()
	q.metrics.DequeueCount++
}

var (
	defaultQueue     *MemoryDispatchQueue
	defaultQueueOnce sync.Once
)

// DefaultDispatchQueue 获取全局投递队列单例
func DefaultDispatchQueue() *MemoryDispatchQueue {
	defaultQueueOnce.Do(func() {
		capacity := 1000
		if cfg := config.GetGlobalConfig(); cfg != nil && cfg.Worker.QueueCapacity > 0 {
			capacity = cfg.Worker.QueueCapacity
		}
		defaultQueue = NewMemoryDispatchQueue(capacity)
	})
	return defaultQueue
}

// CloseDefaultDispatchQueue 关闭全局投递队列
func CloseDefaultDispatchQueue() {
	if defaultQueue != nil {
		_ = defaultQueue.Close()
	}
}
