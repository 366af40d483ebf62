package gateway

import (
	"context"

	"reel-service/ddd/domain/entity"
)

// StatusUpdate 推送给观察者的状态快照
type StatusUpdate struct {
	VideoUUID string `json:"video_uuid"`
	Stage     string `json:"stage"`
	Progress  int    `json:"progress"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// NewStatusUpdate 从处理状态实体构造快照
func NewStatusUpdate(status *entity.ProcessingStatusEntity) *StatusUpdate {
	return &StatusUpdate{
		VideoUUID: status.VideoUUID(),
		Stage:     status.CurrentStage().String(),
		Progress:  status.Progress(),
		Message:   status.Message(),
		Timestamp: status.UpdatedAt().Unix(),
	}
}

// Subscription 单个观察者的订阅句柄
type Subscription interface {
	// Updates 接收状态快照的通道，取消订阅后关闭
	Updates() <-chan *StatusUpdate

	// Close 取消订阅并释放资源
	Close() error
}

// StatusNotifier 状态通知网关，按视频维度广播状态变化
type StatusNotifier interface {
	// Publish 推送一条状态快照给该视频的所有订阅者
	Publish(ctx context.Context, update *StatusUpdate) error

	// Subscribe 订阅某视频的状态流，返回后保证不丢后续更新
	Subscribe(ctx context.Context, videoUUID string) (Subscription, error)

	// Close 关闭通知器，所有订阅随之关闭
	Close() error
}
