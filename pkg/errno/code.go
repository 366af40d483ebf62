package errno

import "fmt"

// code=0 请求成功
// code=4xx 客户端请求错误
// code=5xx 服务器端错误
// code=2xxxx 业务处理错误码

type Errno struct {
	Code    int
	Message string
}

// Error 实现error接口
func (e *Errno) Error() string {
	return e.Message
}

// BizError 携带底层原因的业务错误
type BizError struct {
	Err   *Errno
	Cause error
}

// NewBizError 包装业务错误码与底层原因
func NewBizError(err *Errno, cause error) *BizError {
	return &BizError{Err: err, Cause: cause}
}

// Error 实现error接口
func (e *BizError) Error() string {
	if e.Cause == nil {
		return e.Err.Message
	}
	return fmt.Sprintf("%s: %v", e.Err.Message, e.Cause)
}

// Unwrap 暴露底层原因
func (e *BizError) Unwrap() error {
	return e.Cause
}

var (
	OK = &Errno{Code: 200, Message: "Success"}

	ErrParameterInvalid = &Errno{Code: 400, Message: "Invalid parameter %s"}
	ErrInvalidParam     = &Errno{Code: 400, Message: "Invalid parameter"}
	ErrUnauthorized     = &Errno{Code: 401, Message: "Unauthorized"}
	ErrNotFound         = &Errno{Code: 404, Message: "Not found"}

	ErrInternalServer = &Errno{Code: 500, Message: "Internal server error"}
	ErrDatabase       = &Errno{Code: 501, Message: "Database error"}
	ErrUnknown        = &Errno{Code: 510, Message: "Unknown error"}

	// 业务错误码
	ErrMissingParam         = &Errno{Code: 20001, Message: "Missing required parameter"}
	ErrVideoUUIDRequired    = &Errno{Code: 20002, Message: "Video UUID is required"}
	ErrUserUUIDRequired     = &Errno{Code: 20003, Message: "User UUID is required"}
	ErrSourceLocatorMissing = &Errno{Code: 20004, Message: "Source locator is required"}
	ErrVideoNotFound        = &Errno{Code: 20005, Message: "Video not found"}
	ErrStatusNotFound       = &Errno{Code: 20006, Message: "Processing status not found"}
	ErrTranscriptNotFound   = &Errno{Code: 20007, Message: "Transcript not found"}
	ErrVideoTerminal        = &Errno{Code: 20008, Message: "Video already reached a terminal state"}

	// 流水线错误码
	ErrInvalidStage       = &Errno{Code: 20010, Message: "Invalid pipeline stage"}
	ErrStageOutputMissing = &Errno{Code: 20011, Message: "Prerequisite stage output is missing"}
	ErrStageDispatchBusy  = &Errno{Code: 20012, Message: "Stage already in flight for video"}
	ErrQueueFull          = &Errno{Code: 20013, Message: "Dispatch queue is full"}
	ErrTransformFailed    = &Errno{Code: 20014, Message: "Media transform failed"}
	ErrNotifierClosed     = &Errno{Code: 20015, Message: "Status notifier is closed"}
)
