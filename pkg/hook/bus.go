// Package hook 提供进程内同步事件总线。
//
// 处理器按注册顺序在调用方 goroutine 中同步执行；单个处理器返回 error 或 panic
// 只会被记录，不影响后续处理器，Emit 本身从不向调用方返回错误。
package hook

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"SupportDesk/pkg/metrics"
	"SupportDesk/pkg/zlog"

	"go.uber.org/zap"
)

// Handler 事件处理器，subject 为触发事件的实体
type Handler func(ctx context.Context, subject any) error

type registration struct {
	name string
	fn   Handler
}

// Emitter 服务层只依赖 Emit
type Emitter interface {
	Emit(ctx context.Context, event string, subject any)
}

// Bus 事件总线。应用启动时构造一次，通过依赖注入传给需要 Emit 的服务
type Bus struct {
	mu        sync.RWMutex
	handlers  map[string][]registration
	installed map[string]struct{}
}

func NewBus() *Bus {
	return &Bus{
		handlers:  make(map[string][]registration),
		installed: make(map[string]struct{}),
	}
}

// Register 追加处理器；同一事件允许多次注册，全部执行
func (b *Bus) Register(event string, name string, fn Handler) {
	if b == nil || event == "" || fn == nil {
		return
	}
	if name == "" {
		name = fmt.Sprintf("%s#%d", event, len(b.Handlers(event)))
	}
	b.mu.Lock()
	b.handlers[event] = append(b.handlers[event], registration{name: name, fn: fn})
	b.mu.Unlock()
}

// Install 按 key 只执行一次注册逻辑，重复调用返回 false
func (b *Bus) Install(key string, install func(*Bus)) bool {
	if b == nil || install == nil {
		return false
	}
	b.mu.Lock()
	if _, ok := b.installed[key]; ok {
		b.mu.Unlock()
		return false
	}
	b.installed[key] = struct{}{}
	b.mu.Unlock()

	install(b)
	return true
}

// Handlers 返回某事件已注册的处理器名称（按注册顺序）
func (b *Bus) Handlers(event string) []string {
	if b == nil {
		return nil
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	regs := b.handlers[event]
	out := make([]string, 0, len(regs))
	for _, r := range regs {
		out = append(out, r.name)
	}
	return out
}

// Emit 依次调用 event 的全部处理器。必须在主写操作提交之后调用。
// 处理器拿到的 ctx 保留请求里的值，但不随请求取消
func (b *Bus) Emit(ctx context.Context, event string, subject any) {
	if b == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithoutCancel(ctx)

	b.mu.RLock()
	regs := make([]registration, len(b.handlers[event]))
	copy(regs, b.handlers[event])
	b.mu.RUnlock()

	metrics.EventsEmitted.WithLabelValues(event).Inc()
	for _, r := range regs {
		if err := invoke(ctx, r, subject); err != nil {
			metrics.HandlerFailures.WithLabelValues(event, r.name).Inc()
			zlog.Error("event handler failed",
				zap.String("event", event),
				zap.String("handler", r.name),
				zap.Error(err))
		}
	}
}

func invoke(ctx context.Context, r registration, subject any) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v\n%s", p, debug.Stack())
		}
	}()
	return r.fn(ctx, subject)
}

// Typed 把强类型处理器适配为 Handler；subject 类型不匹配时返回错误
func Typed[T any](fn func(ctx context.Context, subject T) error) Handler {
	return func(ctx context.Context, subject any) error {
		v, ok := subject.(T)
		if !ok {
			var zero T
			return fmt.Errorf("unexpected subject type %T, want %T", subject, zero)
		}
		return fn(ctx, v)
	}
}
