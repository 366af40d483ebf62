package restapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"reel-service/pkg/errno"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 返回成功响应
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, Response{
		Code:    errno.OK.Code,
		Message: errno.OK.Message,
		Data:    data,
	})
}

// Failed 根据错误类型返回失败响应
func Failed(ctx *gin.Context, err error) {
	code := errno.ErrUnknown.Code
	message := err.Error()
	httpStatus := http.StatusInternalServerError

	var en *errno.Errno
	var biz *errno.BizError
	switch {
	case errors.As(err, &biz):
		code = biz.Err.Code
		message = biz.Error()
		httpStatus = httpStatusFor(biz.Err)
	case errors.As(err, &en):
		code = en.Code
		message = en.Message
		httpStatus = httpStatusFor(en)
	default:
		httpStatus = http.StatusBadRequest
		code = errno.ErrInvalidParam.Code
	}

	ctx.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
	})
}

func httpStatusFor(e *errno.Errno) int {
	switch e.Code {
	case errno.ErrUnauthorized.Code:
		return http.StatusUnauthorized
	case errno.ErrNotFound.Code, errno.ErrVideoNotFound.Code,
		errno.ErrStatusNotFound.Code, errno.ErrTranscriptNotFound.Code:
		return http.StatusNotFound
	case errno.ErrInvalidParam.Code:
		return http.StatusBadRequest
	default:
		if e.Code >= 20000 {
			return http.StatusBadRequest
		}
		return http.StatusInternalServerError
	}
}
