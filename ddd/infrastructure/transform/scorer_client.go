package transform

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"resty.dev/v3"

	"reel-service/ddd/domain/gateway"
	"reel-service/ddd/domain/vo"
	"reel-service/pkg/config"
	"reel-service/pkg/logger"
)

// chatMessage OpenAI兼容接口的消息体
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest OpenAI兼容接口的请求体
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// chatResponse OpenAI兼容接口的响应体
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// scoredItem 模型返回的单个评分条目
type scoredItem struct {
	Index  int     `json:"index"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// ScorerClient OpenAI兼容接口的重要性打分客户端
type ScorerClient struct {
	cfg    *config.Config
	client *resty.Client
}

// NewScorerClient 创建打分客户端
func NewScorerClient(cfg *config.Config) *ScorerClient {
	if cfg == nil {
		cfg = config.GetGlobalConfig()
	}
	client := resty.New()
	client.SetBaseURL(cfg.Transform.Scorer.Endpoint)
	client.SetTimeout(cfg.Transform.Scorer.Timeout)
	if cfg.Transform.Scorer.APIKey != "" {
		client.SetAuthToken(cfg.Transform.Scorer.APIKey)
	}

	return &ScorerClient{
		cfg:    cfg,
		client: client,
	}
}

// ScoreSegments 让模型给每个分段打重要性分；模型输出不可解析时退化为均匀选择
func (s *ScorerClient) ScoreSegments(ctx context.Context, segments []vo.TranscriptSegment) ([]*gateway.ScoredSegment, error) {
	if len(segments) == 0 {
		return nil, nil
	}

	scorerCfg := s.cfg.Transform.Scorer
	request := &chatRequest{
		Model:       scorerCfg.Model,
		Temperature: scorerCfg.Temperature,
		MaxTokens:   scorerCfg.MaxTokens,
		Messages: []chatMessage{
			{Role: "system", Content: scoringSystemPrompt},
			{Role: "user", Content: buildScoringPrompt(segments)},
		},
	}

	var response chatResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(request).
		SetResult(&response).
		Post("/chat/completions")
	if err != nil {
		return nil, vo.NewTransientError("score_segments", err)
	}

	switch {
	case resp.StatusCode() >= 500 || resp.StatusCode() == 429:
		return nil, vo.NewTransientError("score_segments",
			fmt.Errorf("scorer returned status %d: %s", resp.StatusCode(), resp.String()))
	case resp.StatusCode() >= 400:
		return nil, vo.NewPermanentError("score_segments",
			fmt.Errorf("scorer rejected request status %d: %s", resp.StatusCode(), resp.String()))
	}

	if len(response.Choices) == 0 {
		logger.Warnf("scorer returned no choices, falling back to even selection")
		return evenFallback(segments), nil
	}

	items, err := parseScoredItems(response.Choices[0].Message.Content)
	if err != nil {
		logger.Warnf("scorer output unparsable, falling back to even selection error=%v", err)
		return evenFallback(segments), nil
	}

	scored := make([]*gateway.ScoredSegment, 0, len(items))
	for _, item := range items {
		if item.Index < 0 || item.Index >= len(segments) {
			continue
		}
		seg := segments[item.Index]
		score := item.Score
		if score < 0 {
			score = 0
		}
		if score > 1 {
			score = 1
		}
		scored = append(scored, &gateway.ScoredSegment{
			StartTime: seg.Start,
			EndTime:   seg.End,
			Score:     score,
			Reason:    item.Reason,
			Text:      seg.Text,
		})
	}
	if len(scored) == 0 {
		logger.Warnf("scorer selected nothing usable, falling back to even selection")
		return evenFallback(segments), nil
	}
	return scored, nil
}

const scoringSystemPrompt = "You are a video editor assistant. Given transcript segments of a video, " +
	"score how compelling each segment would be as a short highlight clip. " +
	"Respond with a JSON array only, each element {\"index\": <segment index>, \"score\": <0.0-1.0>, \"reason\": \"<short reason>\"}."

// buildScoringPrompt 把分段编号后拼进用户提示
func buildScoringPrompt(segments []vo.TranscriptSegment) string {
	var b strings.Builder
	b.WriteString("Transcript segments:\n")
	for i, seg := range segments {
		fmt.Fprintf(&b, "[%d] (%.1fs - %.1fs) %s\n", i, seg.Start, seg.End, strings.TrimSpace(seg.Text))
	}
	b.WriteString("\nScore every segment.")
	return b.String()
}

// parseScoredItems 解析模型输出，容忍JSON数组外的包裹文本
func parseScoredItems(content string) ([]scoredItem, error) {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in scorer output")
	}
	var items []scoredItem
	if err := json.Unmarshal([]byte(content[start:end+1]), &items); err != nil {
		return nil, fmt.Errorf("decode scorer output: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("scorer output is empty array")
	}
	return items, nil
}

// evenFallback 模型输出不可用时，均匀挑选分段并给予相同评分
func evenFallback(segments []vo.TranscriptSegment) []*gateway.ScoredSegment {
	count := 3
	if len(segments) < count {
		count = len(segments)
	}
	step := len(segments) / count
	if step < 1 {
		step = 1
	}
	scored := make([]*gateway.ScoredSegment, 0, count)
	for i := 0; i < count; i++ {
		seg := segments[i*step]
		scored = append(scored, &gateway.ScoredSegment{
			StartTime: seg.Start,
			EndTime:   seg.End,
			Score:     0.5,
			Reason:    "evenly selected fallback",
			Text:      seg.Text,
		})
	}
	return scored
}
