package transform

import (
	"context"
	"time"

	"reel-service/ddd/domain/gateway"
	"reel-service/ddd/domain/vo"
	"reel-service/pkg/config"
	"reel-service/pkg/logger"
	"reel-service/pkg/registry"
)

// compositeTransform 把ffmpeg、转写、打分三个客户端拼成完整的媒体变换网关
type compositeTransform struct {
	ffmpeg  *FFmpegMedia
	whisper *WhisperClient
	scorer  *ScorerClient
}

// NewMediaTransform 创建完整的媒体变换网关实现
func NewMediaTransform(cfg *config.Config) gateway.MediaTransform {
	if cfg == nil {
		cfg = config.GetGlobalConfig()
	}
	resolveTranscriberEndpoint(cfg)
	return &compositeTransform{
		ffmpeg:  NewFFmpegMedia(cfg),
		whisper: NewWhisperClient(cfg),
		scorer:  NewScorerClient(cfg),
	}
}

// resolveTranscriberEndpoint 转写endpoint未静态配置时，从服务注册中心发现一个实例
func resolveTranscriberEndpoint(cfg *config.Config) {
	transcriber := &cfg.Transform.Transcriber
	if transcriber.Endpoint != "" || transcriber.ServiceName == "" || !cfg.ServiceRegistry.Enabled {
		return
	}

	sd, err := registry.NewServiceDiscovery(registry.RegistryConfig{
		Endpoints:   cfg.ServiceRegistry.Endpoints,
		DialTimeout: 5 * time.Second,
	})
	if err != nil {
		logger.Warnf("failed to create service discovery for transcriber error=%v", err)
		return
	}
	defer sd.Close()

	addr, err := sd.GetServiceAddress(transcriber.ServiceName)
	if err != nil {
		logger.Warnf("failed to discover transcriber service=%s error=%v", transcriber.ServiceName, err)
		return
	}
	transcriber.Endpoint = "http://" + addr
	logger.Infof("transcriber endpoint discovered service=%s endpoint=%s", transcriber.ServiceName, transcriber.Endpoint)
}

func (c *compositeTransform) ExtractAudio(ctx context.Context, videoPath string) (*gateway.ExtractAudioResult, error) {
	return c.ffmpeg.ExtractAudio(ctx, videoPath)
}

func (c *compositeTransform) Transcribe(ctx context.Context, audioPath string) (*gateway.TranscribeResult, error) {
	return c.whisper.Transcribe(ctx, audioPath)
}

func (c *compositeTransform) ScoreSegments(ctx context.Context, segments []vo.TranscriptSegment) ([]*gateway.ScoredSegment, error) {
	return c.scorer.ScoreSegments(ctx, segments)
}

func (c *compositeTransform) CutClip(ctx context.Context, request *gateway.CutClipRequest) error {
	return c.ffmpeg.CutClip(ctx, request)
}
