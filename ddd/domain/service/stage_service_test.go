package service

import (
	"context"
	"errors"
	"testing"

	"reel-service/ddd/domain/entity"
	"reel-service/ddd/domain/gateway"
	"reel-service/ddd/domain/vo"
)

func TestExpandClipWindow(t *testing.T) {
	cases := []struct {
		name          string
		start, end    float64
		padding       float64
		maxDuration   float64
		videoDuration float64
		wantStart     float64
		wantEnd       float64
	}{
		{"normal padding", 10, 20, 2, 30, 120, 8, 22},
		{"clamped to video start", 1, 10, 2, 30, 120, 0, 12},
		{"clamped to video end", 110, 119, 2, 30, 120, 108, 120},
		{"capped at max duration", 10, 50, 2, 30, 120, 8, 38},
		{"unknown video duration leaves end alone", 10, 20, 2, 30, 0, 8, 22},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			start, end := expandClipWindow(c.start, c.end, c.padding, c.maxDuration, c.videoDuration)
			if start != c.wantStart || end != c.wantEnd {
				t.Errorf("expandClipWindow = (%f, %f), want (%f, %f)", start, end, c.wantStart, c.wantEnd)
			}
		})
	}
}

func TestSelectTopSegments(t *testing.T) {
	scored := []*gateway.ScoredSegment{
		{StartTime: 0, EndTime: 10, Score: 0.3, Text: "low"},
		{StartTime: 20, EndTime: 30, Score: 0.9, Text: "high"},
		{StartTime: 40, EndTime: 50, Score: 0.6, Text: "mid"},
		nil,
		{StartTime: 60, EndTime: 60, Score: 0.8, Text: "empty window"},
		{StartTime: -5, EndTime: 5, Score: 0.7, Text: "negative start"},
	}

	selected := selectTopSegments(scored, 3, 100)
	if len(selected) != 3 {
		t.Fatalf("selected = %d, want 3", len(selected))
	}
	if selected[0].Text != "high" || selected[1].Text != "negative start" || selected[2].Text != "mid" {
		t.Errorf("selection order = %q, %q, %q", selected[0].Text, selected[1].Text, selected[2].Text)
	}
	// 负的开始时间被修剪到0
	if selected[1].StartTime != 0 {
		t.Errorf("clamped start = %f, want 0", selected[1].StartTime)
	}
	// 原切片不被改写
	if scored[5].StartTime != -5 {
		t.Error("selectTopSegments should not mutate its input")
	}
}

func TestSelectTopSegmentsClampsToVideoDuration(t *testing.T) {
	scored := []*gateway.ScoredSegment{
		{StartTime: 90, EndTime: 130, Score: 0.9, Text: "tail"},
		{StartTime: 150, EndTime: 160, Score: 0.8, Text: "beyond end"},
	}
	selected := selectTopSegments(scored, 0, 100)
	if len(selected) != 1 {
		t.Fatalf("selected = %d, want 1", len(selected))
	}
	if selected[0].EndTime != 100 {
		t.Errorf("clamped end = %f, want 100", selected[0].EndTime)
	}
}

func TestReelGenerationPartialFailureSucceeds(t *testing.T) {
	f := newPipelineFixture(t.TempDir())
	f.seedVideo("video-1")

	calls := 0
	f.transform.cutFn = func(req *gateway.CutClipRequest) error {
		calls++
		if calls == 1 {
			return vo.NewPermanentError("cut_clip", errors.New("encoder crashed"))
		}
		return nil
	}
	// 并发剪辑下第几条失败不确定，串行化保证确定性
	f.cfg.Pipeline.ReelParallelism = 1

	if err := f.orchestrator.ProcessVideo(context.Background(), "video-1"); err != nil {
		t.Fatalf("partial reel failure should not fail the pipeline: %v", err)
	}

	status, _ := f.pipelineRepo.GetStatus(context.Background(), "video-1")
	if status.CurrentStage() != vo.StageCompleted {
		t.Errorf("stage = %s, want completed", status.CurrentStage())
	}

	reels, _ := f.reelRepo.ListReelsByVideoUUID(context.Background(), "video-1")
	var completed, failed int
	for _, reel := range reels {
		switch reel.Status() {
		case vo.ReelStatusCompleted:
			completed++
		case vo.ReelStatusFailed:
			failed++
			if reel.FailureReason() == "" {
				t.Error("failed reel should carry a failure reason")
			}
		}
	}
	if completed != 1 || failed != 1 {
		t.Errorf("completed=%d failed=%d, want 1 and 1", completed, failed)
	}
}

func TestReelGenerationAllFailuresFailsStage(t *testing.T) {
	f := newPipelineFixture(t.TempDir())
	f.seedVideo("video-1")
	f.transform.cutFn = func(req *gateway.CutClipRequest) error {
		return vo.NewPermanentError("cut_clip", errors.New("encoder crashed"))
	}

	if err := f.orchestrator.ProcessVideo(context.Background(), "video-1"); err == nil {
		t.Fatal("pipeline should fail when every reel fails")
	}

	status, _ := f.pipelineRepo.GetStatus(context.Background(), "video-1")
	if status.CurrentStage() != vo.StageFailed {
		t.Errorf("stage = %s, want failed", status.CurrentStage())
	}
	// 失败原因落在每个Reel行上
	reels, _ := f.reelRepo.ListReelsByVideoUUID(context.Background(), "video-1")
	for _, reel := range reels {
		if reel.Status() != vo.ReelStatusFailed {
			t.Errorf("reel %s status = %s, want failed", reel.ReelUUID(), reel.Status())
		}
	}
}

func TestReelRowReachesTerminalWhenPersistFails(t *testing.T) {
	f := newPipelineFixture(t.TempDir())
	f.seedVideo("video-1")
	f.transform.transcribeFn = func() (*gateway.TranscribeResult, error) {
		return &gateway.TranscribeResult{
			FullText: "one segment",
			Language: "en",
			Segments: []vo.TranscriptSegment{{Start: 0, End: 10, Text: "one segment", Confidence: 0.9}},
		}, nil
	}

	// 剪辑和上传成功，完成态落库失败一次
	updates := 0
	f.reelRepo.updateFn = func(reel *entity.ReelEntity) error {
		updates++
		if updates == 1 {
			return errors.New("db connection lost")
		}
		return nil
	}

	if err := f.orchestrator.ProcessVideo(context.Background(), "video-1"); err == nil {
		t.Fatal("losing the only reel should fail the pipeline")
	}

	// 行不能停在generating
	reels, _ := f.reelRepo.ListReelsByVideoUUID(context.Background(), "video-1")
	if len(reels) != 1 {
		t.Fatalf("reels = %d, want 1", len(reels))
	}
	if reels[0].Status() != vo.ReelStatusFailed {
		t.Errorf("reel status = %s, want failed", reels[0].Status())
	}
	if reels[0].FailureReason() == "" {
		t.Error("failed reel should carry a failure reason")
	}
	if updates != 2 {
		t.Errorf("reel updates = %d, want the completed attempt and the failed fallback", updates)
	}
}

func TestExecuteStageRejectsNonExecutableStage(t *testing.T) {
	f := newPipelineFixture(t.TempDir())
	video := f.seedVideo("video-1")
	status, _ := f.pipelineRepo.GetStatus(context.Background(), "video-1")

	stageService := NewStageService(f.pipelineRepo, f.reelRepo, f.transform, f.storage, f.cfg)
	if _, err := stageService.ExecuteStage(context.Background(), video, status, vo.StageCompleted); err == nil {
		t.Error("completed is not an executable stage")
	}
	if _, err := stageService.ExecuteStage(context.Background(), video, status, vo.StageUpload); err == nil {
		t.Error("upload is not an executable stage")
	}
}
