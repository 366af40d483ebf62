package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// ContextKeyUserUUID 请求上下文中的用户UUID键
	ContextKeyUserUUID = "user_uuid"
	// ContextKeyRequestID 请求上下文中的请求ID键
	ContextKeyRequestID = "request_id"
)

// RequestContextMiddleware 注入 user_uuid 和 request_id，便于下游和日志使用。
func RequestContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userUUID := c.GetHeader("X-User-UUID")
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		if userUUID != "" {
			c.Set(ContextKeyUserUUID, userUUID)
		}
		c.Set(ContextKeyRequestID, reqID)
		c.Writer.Header().Set("X-Request-ID", reqID)
		c.Next()
	}
}

// RequestID 取出当前请求的请求ID
func RequestID(c *gin.Context) string {
	if v, ok := c.Get(ContextKeyRequestID); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
