package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"reel-service/ddd/application/cqe"
	"reel-service/ddd/application/dto"
	"reel-service/ddd/domain/gateway"
	"reel-service/ddd/infrastructure/notify"
)

// stubPipelineApp 只实现状态流测试用到的路径
type stubPipelineApp struct {
	notifier *notify.MemoryNotifier
	snapshot *dto.ProcessingStatusDto
}

func (s *stubPipelineApp) IngestVideo(ctx context.Context, req *cqe.IngestVideoCqe) (*dto.VideoDto, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s *stubPipelineApp) GetVideo(ctx context.Context, videoUUID string) (*dto.VideoDto, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s *stubPipelineApp) ListVideos(ctx context.Context, req *cqe.ListVideosReq) (*dto.VideoListDto, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s *stubPipelineApp) GetStatus(ctx context.Context, videoUUID string) (*dto.ProcessingStatusDto, error) {
	return s.snapshot, nil
}

func (s *stubPipelineApp) WatchStatus(ctx context.Context, videoUUID string) (gateway.Subscription, *dto.ProcessingStatusDto, error) {
	sub, err := s.notifier.Subscribe(ctx, videoUUID)
	if err != nil {
		return nil, nil, err
	}
	return sub, s.snapshot, nil
}

func (s *stubPipelineApp) ListReels(ctx context.Context, videoUUID string) (*dto.ReelListDto, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s *stubPipelineApp) GetTranscript(ctx context.Context, videoUUID string) (*dto.TranscriptDto, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s *stubPipelineApp) CancelVideo(ctx context.Context, req *cqe.CancelVideoReq) error {
	return fmt.Errorf("not implemented")
}

// closeNotifyRecorder 补上gin.Context.Stream需要的http.CloseNotifier
type closeNotifyRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func newCloseNotifyRecorder() *closeNotifyRecorder {
	return &closeNotifyRecorder{httptest.NewRecorder(), make(chan bool, 1)}
}

func (c *closeNotifyRecorder) CloseNotify() <-chan bool {
	return c.closed
}

func newStreamTestEngine(app *stubPipelineApp) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	controller := &VideoController{pipelineApp: app}
	controller.RegisterRoutes(engine)
	return engine
}

// sseDataLines 取SSE响应里的data负载
func sseDataLines(body string) []string {
	var out []string
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "data:") {
			out = append(out, strings.TrimPrefix(line, "data:"))
		}
	}
	return out
}

func TestStreamStatusTerminalSnapshotSchema(t *testing.T) {
	app := &stubPipelineApp{
		notifier: notify.NewMemoryNotifier(),
		snapshot: &dto.ProcessingStatusDto{
			VideoUUID:    "video-1",
			CurrentStage: "completed",
			Progress:     100,
			Message:      "pipeline completed",
			UpdatedAt:    time.Now(),
		},
	}
	engine := newStreamTestEngine(app)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/videos/video-1/status/stream", nil)
	engine.ServeHTTP(w, req)

	lines := sseDataLines(w.Body.String())
	if len(lines) != 1 {
		t.Fatalf("events = %d, want 1 for a terminal snapshot", len(lines))
	}
	var update gateway.StatusUpdate
	if err := json.Unmarshal([]byte(lines[0]), &update); err != nil {
		t.Fatalf("initial event is not a status update: %v", err)
	}
	if update.Stage != "completed" || update.Progress != 100 {
		t.Errorf("initial event = %s/%d, want completed/100", update.Stage, update.Progress)
	}
	// 首发快照不使用另一种字段命名
	if strings.Contains(w.Body.String(), "current_stage") {
		t.Error("stream events should all use the stage field")
	}
}

func TestStreamStatusEventsShareOneSchema(t *testing.T) {
	app := &stubPipelineApp{
		notifier: notify.NewMemoryNotifier(),
		snapshot: &dto.ProcessingStatusDto{
			VideoUUID:    "video-1",
			CurrentStage: "transcription",
			Progress:     40,
			UpdatedAt:    time.Now(),
		},
	}
	engine := newStreamTestEngine(app)

	// 订阅建立后推一个终态更新让流结束
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(5 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = app.notifier.Publish(context.Background(), &gateway.StatusUpdate{
					VideoUUID: "video-1",
					Stage:     "completed",
					Progress:  100,
					Timestamp: time.Now().Unix(),
				})
			}
		}
	}()

	w := newCloseNotifyRecorder()
	req := httptest.NewRequest("GET", "/api/v1/videos/video-1/status/stream", nil)
	engine.ServeHTTP(w, req)
	close(done)

	lines := sseDataLines(w.Body.String())
	if len(lines) < 2 {
		t.Fatalf("events = %d, want the snapshot plus at least one update", len(lines))
	}
	stages := make([]string, 0, len(lines))
	for i, line := range lines {
		var update gateway.StatusUpdate
		if err := json.Unmarshal([]byte(line), &update); err != nil {
			t.Fatalf("event %d does not decode as a status update: %v", i, err)
		}
		if update.Stage == "" {
			t.Errorf("event %d has no stage", i)
		}
		stages = append(stages, update.Stage)
	}
	if stages[0] != "transcription" {
		t.Errorf("first event stage = %s, want the snapshot", stages[0])
	}
	if stages[len(stages)-1] != "completed" {
		t.Errorf("last event stage = %s, want completed", stages[len(stages)-1])
	}
	if strings.Contains(w.Body.String(), "current_stage") {
		t.Error("stream events should all use the stage field")
	}
}
