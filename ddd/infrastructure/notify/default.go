package notify

import (
	"sync"

	"reel-service/ddd/domain/gateway"
	"reel-service/internal/resource"
	"reel-service/pkg/config"
	"reel-service/pkg/logger"
)

var (
	singleNotifier gateway.StatusNotifier
	onceNotifier   sync.Once
)

// DefaultStatusNotifier 获取全局状态通知器单例；Redis启用时走发布订阅，否则用进程内实现
func DefaultStatusNotifier() gateway.StatusNotifier {
	onceNotifier.Do(func() {
		cfg := config.GetGlobalConfig()
		if cfg != nil && cfg.Redis.Enabled {
			client := resource.DefaultRedisResource().Client()
			if client != nil {
				singleNotifier = NewRedisNotifier(client)
				logger.Infof("status notifier backed by redis pub/sub")
				return
			}
		}
		singleNotifier = NewMemoryNotifier()
		logger.Infof("status notifier backed by in-process broadcast")
	})
	return singleNotifier
}
