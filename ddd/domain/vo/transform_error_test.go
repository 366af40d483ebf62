package vo

import (
	"errors"
	"fmt"
	"testing"

	"reel-service/pkg/errno"
)

func TestClassifyError(t *testing.T) {
	transient := NewTransientError("transcribe", errors.New("gateway timeout"))
	permanent := NewPermanentError("extract_audio", errors.New("corrupt container"))

	if got := ClassifyError(transient); got != FailureTransient {
		t.Errorf("transient error classified as %s", got)
	}
	if got := ClassifyError(permanent); got != FailurePermanent {
		t.Errorf("permanent error classified as %s", got)
	}

	// 包装后仍可识别
	wrapped := fmt.Errorf("stage failed: %w", permanent)
	if got := ClassifyError(wrapped); got != FailurePermanent {
		t.Errorf("wrapped permanent error classified as %s", got)
	}

	// 业务错误按永久处理
	biz := errno.NewBizError(errno.ErrStageOutputMissing, errors.New("audio locator not recorded"))
	if got := ClassifyError(biz); got != FailurePermanent {
		t.Errorf("biz error classified as %s", got)
	}

	// 未分类错误按瞬态处理
	if got := ClassifyError(errors.New("connection reset")); got != FailureTransient {
		t.Errorf("unclassified error classified as %s", got)
	}
}

func TestIsTransient(t *testing.T) {
	if !IsTransient(errors.New("dial tcp: i/o timeout")) {
		t.Error("unclassified error should be transient")
	}
	if IsTransient(NewPermanentError("score_segments", errors.New("bad request"))) {
		t.Error("permanent error should not be transient")
	}
}

func TestTransformErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewTransientError("cut_clip", cause)
	if !errors.Is(err, cause) {
		t.Error("TransformError should unwrap to its cause")
	}
}
