package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"energy-ops-console/internal/domain/services"
	"energy-ops-console/internal/error/response"
)

// 上下文中的认证信息键
const (
	ContextUserID   = "userID"
	ContextUserName = "userName"
	ContextRole     = "role"
	ContextClaims   = "claims"
)

var jwtService services.InterfaceJWTService

// InitAuthMiddleware 初始化认证中间件
func InitAuthMiddleware(svc services.InterfaceJWTService) {
	jwtService = svc
}

// extractToken 从授权头中提取token
func extractToken(authHeader string) (string, bool) {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// Authentication 通用的认证中间件
func Authentication() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "缺少认证令牌")
			return
		}

		tokenString, ok := extractToken(authHeader)
		if !ok {
			response.Unauthorized(c, "认证令牌格式错误")
			return
		}

		if jwtService == nil {
			response.Unauthorized(c, "")
			return
		}
		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			response.Unauthorized(c, "")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserName, claims.UserName)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// GetUserID 当前登录用户ID，未认证时为 0
func GetUserID(c *gin.Context) uint {
	if v, ok := c.Get(ContextUserID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// GetUserName 当前登录用户名
func GetUserName(c *gin.Context) string {
	return c.GetString(ContextUserName)
}
