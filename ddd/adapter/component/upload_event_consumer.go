package component

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"

	appsvc "reel-service/ddd/application/app"
	cqe "reel-service/ddd/application/cqe"
	"reel-service/pkg/config"
	pkgkafka "reel-service/pkg/kafka"
	"reel-service/pkg/logger"
	"reel-service/pkg/manager"
)

const uploadConsumerGroup = "reel-service-group"

// UploadEventConsumerPlugin 视频上传事件消费组件
type UploadEventConsumerPlugin struct{}

func (p *UploadEventConsumerPlugin) Name() string { return "uploadEventConsumer" }

func (p *UploadEventConsumerPlugin) MustCreateComponent(deps *manager.Dependencies) manager.Component {
	var app appsvc.PipelineApp
	if deps != nil {
		if v, ok := deps.PipelineAppService.(appsvc.PipelineApp); ok {
			app = v
		}
	}
	if app == nil {
		app = appsvc.DefaultPipelineApp()
	}
	return &uploadEventConsumer{app: app}
}

type uploadEventConsumer struct {
	app    appsvc.PipelineApp
	ctx    context.Context
	cancel context.CancelFunc
}

func (c *uploadEventConsumer) Start() error {
	cfg := config.GetGlobalConfig()
	if cfg == nil || !cfg.Kafka.Enabled {
		logger.Infof("Kafka disabled, upload event consumer not started")
		return nil
	}

	topic := cfg.Kafka.Topics.VideoUploaded
	c.ctx, c.cancel = context.WithCancel(context.Background())
	reader := pkgkafka.DefaultClient().Reader(topic, uploadConsumerGroup)
	go func() {
		defer reader.Close()
		logger.Infof("Kafka consumer started topic=%s group=%s", topic, uploadConsumerGroup)
		for {
			msg, err := reader.ReadMessage(c.ctx)
			if err != nil {
				if c.ctx.Err() != nil {
					return
				}
				if errors.Is(err, io.EOF) || strings.Contains(err.Error(), "EOF") {
					logger.Debug("Kafka reader EOF", nil)
				} else {
					logger.Warnf("Kafka read error error=%s", err.Error())
				}
				continue
			}
			var m struct {
				UserUUID      string `json:"user_uuid"`
				VideoUUID     string `json:"video_uuid"`
				Title         string `json:"title"`
				SourceLocator string `json:"source_locator"`
			}
			if err := json.Unmarshal(msg.Value, &m); err != nil {
				logger.Warnf("Kafka message unmarshal error error=%s", err.Error())
				continue
			}
			logger.Infof("upload event received video_uuid=%s user_uuid=%s", m.VideoUUID, m.UserUUID)
			req := &cqe.IngestVideoCqe{
				UserUUID:      m.UserUUID,
				VideoUUID:     m.VideoUUID,
				Title:         m.Title,
				SourceLocator: m.SourceLocator,
			}
			if _, err := c.app.IngestVideo(context.Background(), req); err != nil {
				logger.Warnf("IngestVideo failed error=%s video_uuid=%s", err.Error(), m.VideoUUID)
			}
		}
	}()
	return nil
}

func (c *uploadEventConsumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	return nil
}

func (c *uploadEventConsumer) GetName() string { return "uploadEventConsumer" }
