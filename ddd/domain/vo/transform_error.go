package vo

import (
	"errors"
	"fmt"

	"reel-service/pkg/errno"
)

// FailureClass 媒体转换失败分类
type FailureClass string

const (
	// FailureTransient 瞬态失败：超时、服务暂不可用，可重试
	FailureTransient FailureClass = "transient"
	// FailurePermanent 永久失败：坏输入、不支持的编码，重试无意义
	FailurePermanent FailureClass = "permanent"
)

// TransformError 携带分类与原因的媒体转换错误
type TransformError struct {
	Class FailureClass
	Op    string // 出错的转换操作，如 extract_audio
	Cause error
}

// NewTransientError 创建瞬态转换错误
func NewTransientError(op string, cause error) *TransformError {
	return &TransformError{Class: FailureTransient, Op: op, Cause: cause}
}

// NewPermanentError 创建永久转换错误
func NewPermanentError(op string, cause error) *TransformError {
	return &TransformError{Class: FailurePermanent, Op: op, Cause: cause}
}

// Error 实现error接口
func (e *TransformError) Error() string {
	return fmt.Sprintf("%s: %s failure: %v", e.Op, e.Class, e.Cause)
}

// Unwrap 暴露底层原因
func (e *TransformError) Unwrap() error {
	return e.Cause
}

// IsTransient 检查是否为瞬态错误
func (e *TransformError) IsTransient() bool {
	return e.Class == FailureTransient
}

// ClassifyError 提取错误分类；业务错误按永久处理，未分类的错误按瞬态处理，基础设施抖动优先可重试
func ClassifyError(err error) FailureClass {
	var te *TransformError
	if errors.As(err, &te) {
		return te.Class
	}
	var be *errno.BizError
	if errors.As(err, &be) {
		return FailurePermanent
	}
	return FailureTransient
}

// IsTransient 判断错误是否属于瞬态失败，未分类错误按瞬态处理
func IsTransient(err error) bool {
	return ClassifyError(err) == FailureTransient
}
