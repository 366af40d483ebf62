package vo

import "testing"

func TestPipelineStageOrder(t *testing.T) {
	cases := []struct {
		stage PipelineStage
		next  PipelineStage
		ok    bool
	}{
		{StageUpload, StageAudioExtraction, true},
		{StageAudioExtraction, StageTranscription, true},
		{StageTranscription, StageAnalysis, true},
		{StageAnalysis, StageReelGeneration, true},
		{StageReelGeneration, StageCompleted, true},
		{StageCompleted, "", false},
		{StageFailed, "", false},
	}
	for _, c := range cases {
		next, ok := c.stage.Next()
		if ok != c.ok || next != c.next {
			t.Errorf("%s.Next() = (%s, %v), want (%s, %v)", c.stage, next, ok, c.next, c.ok)
		}
	}
}

func TestPipelineStageCanTransitionTo(t *testing.T) {
	cases := []struct {
		from    PipelineStage
		to      PipelineStage
		allowed bool
	}{
		{StageUpload, StageAudioExtraction, true},
		{StageAudioExtraction, StageTranscription, true},
		// 跳阶段禁止
		{StageUpload, StageTranscription, false},
		{StageAudioExtraction, StageReelGeneration, false},
		// 回退禁止
		{StageTranscription, StageAudioExtraction, false},
		// 任意非终态可进入failed
		{StageUpload, StageFailed, true},
		{StageReelGeneration, StageFailed, true},
		// 终态不再迁移
		{StageCompleted, StageFailed, false},
		{StageFailed, StageFailed, false},
		{StageFailed, StageUpload, false},
		{StageCompleted, StageUpload, false},
	}
	for _, c := range cases {
		if got := c.from.CanTransitionTo(c.to); got != c.allowed {
			t.Errorf("%s.CanTransitionTo(%s) = %v, want %v", c.from, c.to, got, c.allowed)
		}
	}
}

func TestPipelineStageBaselineProgress(t *testing.T) {
	cases := map[PipelineStage]int{
		StageUpload:          0,
		StageAudioExtraction: 20,
		StageTranscription:   40,
		StageAnalysis:        60,
		StageReelGeneration:  80,
		StageCompleted:       100,
	}
	for stage, want := range cases {
		if got := stage.BaselineProgress(); got != want {
			t.Errorf("%s.BaselineProgress() = %d, want %d", stage, got, want)
		}
	}
}

func TestNewPipelineStageFromString(t *testing.T) {
	if _, err := NewPipelineStageFromString("transcription"); err != nil {
		t.Errorf("parse transcription failed: %v", err)
	}
	if _, err := NewPipelineStageFromString("failed"); err != nil {
		t.Errorf("parse failed stage failed: %v", err)
	}
	if _, err := NewPipelineStageFromString("rendering"); err == nil {
		t.Error("parse unknown stage should fail")
	}
}

func TestPipelineStageIsTerminal(t *testing.T) {
	if !StageCompleted.IsTerminal() || !StageFailed.IsTerminal() {
		t.Error("completed and failed should be terminal")
	}
	if StageUpload.IsTerminal() || StageReelGeneration.IsTerminal() {
		t.Error("non-terminal stage reported terminal")
	}
}
