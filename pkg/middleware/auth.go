package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"reel-service/pkg/config"
	"reel-service/pkg/errno"
	"reel-service/pkg/restapi"
)

// AuthMiddleware 校验Bearer令牌并注入 user_uuid。未启用时直接放行。
func AuthMiddleware(cfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			restapi.Failed(c, errno.ErrUnauthorized)
			c.Abort()
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.Secret), nil
		})
		if err != nil || !token.Valid {
			restapi.Failed(c, errno.ErrUnauthorized)
			c.Abort()
			return
		}

		if sub, ok := claims["sub"].(string); ok && sub != "" {
			c.Set(ContextKeyUserUUID, sub)
		}
		c.Next()
	}
}

// UserUUID 读取上下文中的用户标识，未认证时返回空串。
func UserUUID(c *gin.Context) string {
	if v, ok := c.Get(ContextKeyUserUUID); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
