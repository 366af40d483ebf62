package notify

import (
	"context"
	"fmt"
	"sync"

	"reel-service/ddd/domain/gateway"
	"reel-service/pkg/errno"
)

// MemoryNotifier 进程内状态通知器，Redis未启用或测试时使用
type MemoryNotifier struct {
	mu          sync.RWMutex
	subscribers map[string]map[*memorySubscription]struct{}
	closed      bool
}

// NewMemoryNotifier 创建进程内状态通知器
func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{
		subscribers: make(map[string]map[*memorySubscription]struct{}),
	}
}

// Publish 推送状态快照给该视频的所有订阅者，慢订阅者丢弃最旧的更新
func (n *MemoryNotifier) Publish(ctx context.Context, update *gateway.StatusUpdate) error {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		return errno.NewBizError(errno.ErrNotifierClosed, fmt.Errorf("memory notifier already closed"))
	}
	for sub := range n.subscribers[update.VideoUUID] {
		select {
		case sub.updates <- update:
		default:
			select {
			case <-sub.updates:
			default:
			}
			select {
			case sub.updates <- update:
			default:
			}
		}
	}
	return nil
}

// Subscribe 订阅某视频的状态流
func (n *MemoryNotifier) Subscribe(ctx context.Context, videoUUID string) (gateway.Subscription, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return nil, errno.NewBizError(errno.ErrNotifierClosed, fmt.Errorf("memory notifier already closed"))
	}

	sub := &memorySubscription{
		notifier:  n,
		videoUUID: videoUUID,
		updates:   make(chan *gateway.StatusUpdate, 16),
	}
	if n.subscribers[videoUUID] == nil {
		n.subscribers[videoUUID] = make(map[*memorySubscription]struct{})
	}
	n.subscribers[videoUUID][sub] = struct{}{}
	return sub, nil
}

// Close 关闭通知器，所有订阅随之关闭
func (n *MemoryNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return nil
	}
	n.closed = true
	for _, subs := range n.subscribers {
		for sub := range subs {
			sub.closeChannel()
		}
	}
	n.subscribers = make(map[string]map[*memorySubscription]struct{})
	return nil
}

// remove 摘除一个订阅者
func (n *MemoryNotifier) remove(sub *memorySubscription) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if subs, ok := n.subscribers[sub.videoUUID]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(n.subscribers, sub.videoUUID)
		}
	}
}

// memorySubscription 单个观察者的进程内订阅
type memorySubscription struct {
	notifier  *MemoryNotifier
	videoUUID string
	updates   chan *gateway.StatusUpdate
	closeOnce sync.Once
}

// Updates 接收状态快照的通道
func (s *memorySubscription) Updates() <-chan *gateway.StatusUpdate {
	return s.updates
}

// Close 取消订阅并关闭通道
func (s *memorySubscription) Close() error {
	s.notifier.remove(s)
	s.closeChannel()
	return nil
}

func (s *memorySubscription) closeChannel() {
	s.closeOnce.Do(func() {
		close(s.updates)
	})
}

var _ gateway.StatusNotifier = (*MemoryNotifier)(nil)
