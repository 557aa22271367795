package jwt

import (
	"strings"

	"SupportDesk/pkg/back"
	"SupportDesk/pkg/util/myjwt"
	"SupportDesk/pkg/xerr"

	"github.com/gin-gonic/gin"
)

const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearer(c)
		if tokenString == "" {
			back.Error(c, xerr.Unauthorized, "missing or invalid authorization header")
			c.Abort()
			return
		}

		claims, err := myjwt.ParseToken(tokenString)
		if err != nil {
			back.Error(c, xerr.Unauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// bearer 浏览器建立 websocket 时无法带 header，允许 ?token= 传入
func bearer(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return c.Query("token")
}

// RequireAdmin 仅允许 ADMIN 角色
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.EqualFold(c.GetString(CtxRole), "ADMIN") {
			back.Error(c, xerr.Forbidden, xerr.ErrForbidden.Message)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireStaff 仅允许 ADMIN 与 AGENT
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(CtxRole)
		if !strings.EqualFold(role, "ADMIN") && !strings.EqualFold(role, "AGENT") {
			back.Error(c, xerr.Forbidden, xerr.ErrForbidden.Message)
			c.Abort()
			return
		}
		c.Next()
	}
}
