package webhook

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
)

// InternalFunc 站内 webhook 接收函数，返回等价的 HTTP 状态码
type InternalFunc func(ctx context.Context, body []byte) (int, error)

// InternalRoutes 相对路径 webhook 的进程内路由表，不走 HTTP
type InternalRoutes struct {
	mu     sync.RWMutex
	routes map[string]InternalFunc
}

func NewInternalRoutes() *InternalRoutes {
	return &InternalRoutes{routes: make(map[string]InternalFunc)}
}

func (r *InternalRoutes) Handle(path string, fn InternalFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[normalizePath(path)] = fn
}

// ErrNoRoute 相对路径没有对应的站内接收者
var ErrNoRoute = fmt.Errorf("no internal webhook route")

func (r *InternalRoutes) Dispatch(ctx context.Context, path string, body []byte) (int, error) {
	r.mu.RLock()
	fn, ok := r.routes[normalizePath(path)]
	r.mu.RUnlock()
	if !ok {
		return http.StatusNotFound, fmt.Errorf("%w: %s", ErrNoRoute, path)
	}
	return fn(ctx, body)
}

// normalizePath 去掉查询串和末尾的 /
func normalizePath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return p
}
