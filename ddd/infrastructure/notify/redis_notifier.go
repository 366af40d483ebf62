package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"reel-service/ddd/domain/gateway"
	"reel-service/pkg/errno"
	"reel-service/pkg/logger"
	"reel-service/pkg/redisclient"
)

// statusChannel 每个视频一个独立频道
func statusChannel(videoUUID string) string {
	return fmt.Sprintf("reel:status:%s", videoUUID)
}

// RedisNotifier 基于Redis发布订阅的状态通知器
type RedisNotifier struct {
	client *redisclient.Client

	mu     sync.Mutex
	closed bool
}

// NewRedisNotifier 创建Redis状态通知器
func NewRedisNotifier(client *redisclient.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

// Publish 推送状态快照给该视频的所有订阅者
func (n *RedisNotifier) Publish(ctx context.Context, update *gateway.StatusUpdate) error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return errno.NewBizError(errno.ErrNotifierClosed, fmt.Errorf("redis notifier already closed"))
	}
	n.mu.Unlock()

	payload, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("marshal status update: %w", err)
	}
	return n.client.Publish(ctx, statusChannel(update.VideoUUID), payload)
}

// Subscribe 订阅某视频的状态流；返回时订阅已在Redis侧确认，之后的更新不会丢
func (n *RedisNotifier) Subscribe(ctx context.Context, videoUUID string) (gateway.Subscription, error) {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil, errno.NewBizError(errno.ErrNotifierClosed, fmt.Errorf("redis notifier already closed"))
	}
	n.mu.Unlock()

	pubsub, err := n.client.Subscribe(ctx, statusChannel(videoUUID))
	if err != nil {
		return nil, err
	}

	sub := &redisSubscription{
		pubsub:  pubsub,
		updates: make(chan *gateway.StatusUpdate, 16),
	}
	go sub.pump()
	return sub, nil
}

// Close 关闭通知器
func (n *RedisNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	return nil
}

// redisSubscription 单个观察者的Redis订阅
type redisSubscription struct {
	pubsub  *redis.PubSub
	updates chan *gateway.StatusUpdate

	closeOnce sync.Once
}

// pump 把Redis消息搬运到订阅通道，订阅关闭后通道随之关闭
func (s *redisSubscription) pump() {
	defer close(s.updates)
	for msg := range s.pubsub.Channel() {
		var update gateway.StatusUpdate
		if err := json.Unmarshal([]byte(msg.Payload), &update); err != nil {
			logger.Warnf("dropping malformed status update payload=%s error=%v", msg.Payload, err)
			continue
		}
		s.updates <- &update
	}
}

// Updates 接收状态快照的通道
func (s *redisSubscription) Updates() <-chan *gateway.StatusUpdate {
	return s.updates
}

// Close 取消订阅
func (s *redisSubscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.pubsub.Close()
	})
	return err
}

var _ gateway.StatusNotifier = (*RedisNotifier)(nil)
