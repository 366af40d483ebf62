package entity

import (
	"testing"
	"time"

	"reel-service/ddd/domain/vo"
)

func TestProcessingStatusAdvanceTo(t *testing.T) {
	status := NewProcessingStatusEntity("video-1")
	if status.CurrentStage() != vo.StageUpload {
		t.Fatalf("initial stage = %s, want upload", status.CurrentStage())
	}
	if status.Progress() != 0 {
		t.Fatalf("initial progress = %d, want 0", status.Progress())
	}

	order := []struct {
		stage    vo.PipelineStage
		progress int
	}{
		{vo.StageAudioExtraction, 20},
		{vo.StageTranscription, 40},
		{vo.StageAnalysis, 60},
		{vo.StageReelGeneration, 80},
		{vo.StageCompleted, 100},
	}
	for _, step := range order {
		if err := status.AdvanceTo(step.stage, ""); err != nil {
			t.Fatalf("advance to %s failed: %v", step.stage, err)
		}
		if status.Progress() != step.progress {
			t.Errorf("progress after %s = %d, want %d", step.stage, status.Progress(), step.progress)
		}
		if status.Message() == "" {
			t.Errorf("message after %s should default to the stage enter message", step.stage)
		}
	}
	if !status.IsTerminal() {
		t.Error("status should be terminal after reaching completed")
	}
}

func TestProcessingStatusAdvanceToRejectsSkip(t *testing.T) {
	status := NewProcessingStatusEntity("video-1")
	if err := status.AdvanceTo(vo.StageTranscription, ""); err == nil {
		t.Error("skipping audio_extraction should be rejected")
	}
	if status.CurrentStage() != vo.StageUpload {
		t.Errorf("stage changed to %s after rejected transition", status.CurrentStage())
	}
}

func TestProcessingStatusMarkFailed(t *testing.T) {
	status := NewProcessingStatusEntity("video-1")
	if err := status.AdvanceTo(vo.StageAudioExtraction, ""); err != nil {
		t.Fatal(err)
	}
	status.UpdateProgress(33, "halfway through extraction")

	if err := status.MarkFailed("ffmpeg exited with code 1"); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	if status.CurrentStage() != vo.StageFailed {
		t.Errorf("stage = %s, want failed", status.CurrentStage())
	}
	// 进度冻结在失败时的值
	if status.Progress() != 33 {
		t.Errorf("progress after failure = %d, want 33", status.Progress())
	}
	if status.Message() != "ffmpeg exited with code 1" {
		t.Errorf("message = %q", status.Message())
	}

	// 终态不允许再次失败
	if err := status.MarkFailed("again"); err == nil {
		t.Error("marking a terminal status failed should be rejected")
	}
	// 终态不允许推进
	if err := status.AdvanceTo(vo.StageTranscription, ""); err == nil {
		t.Error("advancing a failed status should be rejected")
	}
}

func TestProcessingStatusUpdateProgressClamped(t *testing.T) {
	status := NewProcessingStatusEntity("video-1")
	if err := status.AdvanceTo(vo.StageAudioExtraction, ""); err != nil {
		t.Fatal(err)
	}

	// 低于阶段基线被抬升
	status.UpdateProgress(5, "")
	if status.Progress() != 20 {
		t.Errorf("progress = %d, want clamped to baseline 20", status.Progress())
	}

	// 不允许越过下一阶段基线
	status.UpdateProgress(95, "")
	if status.Progress() != 40 {
		t.Errorf("progress = %d, want clamped to next baseline 40", status.Progress())
	}

	// 不允许回退
	status.UpdateProgress(25, "")
	if status.Progress() != 40 {
		t.Errorf("progress regressed to %d", status.Progress())
	}
}

func TestProcessingStatusUpdateProgressLastStageCeiling(t *testing.T) {
	status := NewProcessingStatusEntityWithDetails(
		1, "video-1", vo.StageReelGeneration, 80, "", "", time.Now(), time.Now(),
	)
	// 最后一个工作阶段的进度上限是99，100留给completed
	status.UpdateProgress(100, "")
	if status.Progress() != 99 {
		t.Errorf("progress = %d, want 99", status.Progress())
	}
}

func TestProcessingStatusTerminalIgnoresProgress(t *testing.T) {
	status := NewProcessingStatusEntityWithDetails(
		1, "video-1", vo.StageCompleted, 100, "done", "", time.Now(), time.Now(),
	)
	status.UpdateProgress(50, "late update")
	if status.Progress() != 100 || status.Message() != "done" {
		t.Error("terminal status should ignore progress updates")
	}
}
