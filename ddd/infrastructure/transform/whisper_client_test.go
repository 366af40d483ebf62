package transform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"reel-service/ddd/domain/vo"
	"reel-service/pkg/config"
)

func whisperTestConfig(endpoint string) *config.Config {
	cfg := &config.Config{}
	cfg.Transform.Transcriber.Endpoint = endpoint
	cfg.Transform.Transcriber.Model = "base"
	cfg.Transform.Transcriber.Timeout = 5 * time.Second
	return cfg
}

func tempAudioFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio.wav")
	if err := os.WriteFile(path, []byte("wav"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTranscribeDecodesVerboseJSON(t *testing.T) {
	var gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("expected multipart upload: %v", err)
		}
		gotModel = r.FormValue("model")
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("missing audio file part: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(whisperResponse{
			Text:     "hello world",
			Language: "en",
			Segments: []whisperSegment{
				{Start: 0, End: 2.5, Text: "hello", Confidence: 0.92},
				{Start: 2.5, End: 5, Text: "world", Confidence: 0.88},
			},
		})
	}))
	defer server.Close()

	client := NewWhisperClient(whisperTestConfig(server.URL))
	result, err := client.Transcribe(context.Background(), tempAudioFile(t))
	if err != nil {
		t.Fatalf("transcribe failed: %v", err)
	}
	if gotModel != "base" {
		t.Errorf("model form field = %q, want base", gotModel)
	}
	if result.FullText != "hello world" || result.Language != "en" {
		t.Errorf("result = %+v", result)
	}
	if len(result.Segments) != 2 || result.Segments[1].Start != 2.5 {
		t.Errorf("segments = %+v", result.Segments)
	}
}

func TestTranscribeServerErrorIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewWhisperClient(whisperTestConfig(server.URL))
	_, err := client.Transcribe(context.Background(), tempAudioFile(t))
	if err == nil {
		t.Fatal("5xx should surface an error")
	}
	if !vo.IsTransient(err) {
		t.Errorf("5xx error should be transient, got %v", err)
	}
}

func TestTranscribeBadAudioIsPermanent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnsupportedMediaType)
	}))
	defer server.Close()

	client := NewWhisperClient(whisperTestConfig(server.URL))
	_, err := client.Transcribe(context.Background(), tempAudioFile(t))
	if err == nil {
		t.Fatal("4xx should surface an error")
	}
	if vo.IsTransient(err) {
		t.Errorf("4xx error should be permanent, got %v", err)
	}
}
