package requesthost

import (
	"context"

	"github.com/gin-gonic/gin"
)

type ctxKey struct{}

// Middleware 把当前请求的 Host 放进 request context，供 webhook 判断同主机地址
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if host := c.Request.Host; host != "" {
			c.Request = c.Request.WithContext(WithHost(c.Request.Context(), host))
		}
		c.Next()
	}
}

func WithHost(ctx context.Context, host string) context.Context {
	return context.WithValue(ctx, ctxKey{}, host)
}

// FromContext 没有请求上下文（后台任务）时返回 false
func FromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	host, ok := ctx.Value(ctxKey{}).(string)
	return host, ok && host != ""
}
