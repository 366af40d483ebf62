package transform

import (
	"context"
	"fmt"

	"resty.dev/v3"

	"reel-service/ddd/domain/gateway"
	"reel-service/ddd/domain/vo"
	"reel-service/pkg/config"
	"reel-service/pkg/logger"
)

// whisperSegment 转写服务返回的单个分段
type whisperSegment struct {
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// whisperResponse 转写服务响应
type whisperResponse struct {
	Text     string           `json:"text"`
	Language string           `json:"language"`
	Segments []whisperSegment `json:"segments"`
}

// WhisperClient Whisper兼容转写服务的HTTP客户端
type WhisperClient struct {
	cfg    *config.Config
	client *resty.Client
}

// NewWhisperClient 创建转写客户端
func NewWhisperClient(cfg *config.Config) *WhisperClient {
	if cfg == nil {
		cfg = config.GetGlobalConfig()
	}
	client := resty.New()
	client.SetBaseURL(cfg.Transform.Transcriber.Endpoint)
	client.SetTimeout(cfg.Transform.Transcriber.Timeout)

	return &WhisperClient{
		cfg:    cfg,
		client: client,
	}
}

// Transcribe 上传音频文件并取回带时间戳的转写
func (w *WhisperClient) Transcribe(ctx context.Context, audioPath string) (*gateway.TranscribeResult, error) {
	var response whisperResponse

	resp, err := w.client.R().
		SetContext(ctx).
		SetFile("file", audioPath).
		SetFormData(map[string]string{
			"model":           w.cfg.Transform.Transcriber.Model,
			"response_format": "verbose_json",
		}).
		SetResult(&response).
		Post("/v1/audio/transcriptions")
	if err != nil {
		return nil, vo.NewTransientError("transcribe", err)
	}

	switch {
	case resp.StatusCode() >= 500 || resp.StatusCode() == 429:
		return nil, vo.NewTransientError("transcribe",
			fmt.Errorf("transcriber returned status %d: %s", resp.StatusCode(), resp.String()))
	case resp.StatusCode() >= 400:
		return nil, vo.NewPermanentError("transcribe",
			fmt.Errorf("transcriber rejected request status %d: %s", resp.StatusCode(), resp.String()))
	}

	segments := make([]vo.TranscriptSegment, 0, len(response.Segments))
	for _, seg := range response.Segments {
		segments = append(segments, vo.TranscriptSegment{
			Start:      seg.Start,
			End:        seg.End,
			Text:       seg.Text,
			Confidence: seg.Confidence,
		})
	}

	logger.Debugf("whisper transcription done language=%s segments=%d", response.Language, len(segments))

	return &gateway.TranscribeResult{
		FullText: response.Text,
		Language: response.Language,
		Segments: segments,
	}, nil
}
