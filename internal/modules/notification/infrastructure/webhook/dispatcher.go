package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"SupportDesk/internal/middleware/requesthost"
	"SupportDesk/internal/modules/notification/domain/entity"
	"SupportDesk/pkg/metrics"
	"SupportDesk/pkg/ws"
	"SupportDesk/pkg/zlog"

	"go.uber.org/zap"
)

// DefaultServerName 无请求上下文且未配置 serverName 时用于同主机判断的占位值，
// 后台任务里的判断因此只是近似
const DefaultServerName = "localhost:8000"

// TargetResolver 查询接收者配置的回调地址，未配置返回空串
type TargetResolver interface {
	ResolveTarget(ctx context.Context, userID string) (string, error)
}

// Broadcaster 实时推送，实现必须非阻塞
type Broadcaster interface {
	Broadcast(event string, data interface{}) (int, error)
	Publish(channel string, data interface{}) (int, error)
}

type Options struct {
	Timeout    time.Duration
	UserAgent  string
	ServerName string
}

type Dispatcher struct {
	targets     TargetResolver
	broadcaster Broadcaster
	internal    *InternalRoutes
	client      *http.Client
	opts        Options
}

func NewDispatcher(targets TargetResolver, broadcaster Broadcaster, internal *InternalRoutes, opts Options) *Dispatcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "SupportDesk-Webhook/1.0"
	}
	if internal == nil {
		internal = NewInternalRoutes()
	}
	return &Dispatcher{
		targets:     targets,
		broadcaster: broadcaster,
		internal:    internal,
		client:      &http.Client{Timeout: opts.Timeout},
		opts:        opts,
	}
}

// ChannelFor related_type 对应的实时通道，没有返回空串
func ChannelFor(relatedType *string) string {
	if relatedType == nil {
		return ""
	}
	switch *relatedType {
	case entity.RelatedTicket:
		return ws.ChannelTicket
	case entity.RelatedComment:
		return ws.ChannelComment
	case entity.RelatedUser:
		return ws.ChannelUser
	case entity.RelatedKBArticle:
		return ws.ChannelKB
	case entity.RelatedAttachment:
		return ws.ChannelAttachment
	}
	return ""
}

// Deliver 接收者配置了回调地址时，先推送实时消息再向该地址投递一次。
// 未配置地址时什么都不做。不重试，不返回 error
func (d *Dispatcher) Deliver(ctx context.Context, n *entity.Notification, snapshot map[string]interface{}) Result {
	if ctx == nil {
		ctx = context.Background()
	}

	res := Result{RecipientID: n.UserID, Kind: KindNone}
	target, err := d.resolve(ctx, n.UserID)
	if err != nil {
		res.Outcome, res.Reason, res.Err = OutcomeFailed, ReasonLookup, err
		return d.finish(n, res, 0)
	}
	if target == "" {
		res.Outcome = OutcomeSkippedNoTarget
		return d.finish(n, res, 0)
	}
	res.Target = target

	payload := BuildPayload(n, snapshot)
	d.broadcast(n, payload)
	res.Kind = d.Classify(ctx, target)

	body, err := json.Marshal(payload)
	if err != nil {
		res.Outcome, res.Reason, res.Err = OutcomeFailed, ReasonEncode, err
		return d.finish(n, res, 0)
	}

	start := time.Now()
	if res.Kind == KindInternalRelative {
		res = d.dispatchInternal(ctx, res, body)
	} else {
		res = d.post(ctx, res, body)
	}
	return d.finish(n, res, time.Since(start))
}

// Classify 判断回调地址类型。当前主机优先取请求上下文中的 Host，
// 其次取配置的 serverName，最后是 DefaultServerName
func (d *Dispatcher) Classify(ctx context.Context, target string) TargetKind {
	target = strings.TrimSpace(target)
	if target == "" {
		return KindNone
	}
	if strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//") {
		return KindInternalRelative
	}
	u, err := url.Parse(target)
	if err != nil {
		return KindExternal
	}
	host := strings.ToLower(u.Hostname())
	if isLoopback(host) {
		return KindInternalSameHost
	}
	if host != "" && host == hostnameOf(d.currentHost(ctx)) {
		return KindInternalSameHost
	}
	return KindExternal
}

func (d *Dispatcher) currentHost(ctx context.Context) string {
	if h, ok := requesthost.FromContext(ctx); ok {
		return h
	}
	if d.opts.ServerName != "" {
		return d.opts.ServerName
	}
	return DefaultServerName
}

// isLoopback localhost、整个 127.0.0.0/8、::1 以及未指定地址都算本机
func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && (ip.IsLoopback() || ip.IsUnspecified())
}

func hostnameOf(hostport string) string {
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		return strings.ToLower(h)
	}
	return strings.ToLower(hostport)
}

func (d *Dispatcher) resolve(ctx context.Context, userID string) (string, error) {
	if d.targets == nil || userID == "" {
		return "", nil
	}
	target, err := d.targets.ResolveTarget(ctx, userID)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(target), nil
}

func (d *Dispatcher) broadcast(n *entity.Notification, payload Payload) {
	if d.broadcaster == nil {
		return
	}
	if _, err := d.broadcaster.Broadcast(ws.ChannelNotification, payload); err != nil {
		zlog.Warn("realtime broadcast failed", zap.String("notification_id", n.ID), zap.Error(err))
	}
	if ch := ChannelFor(n.RelatedType); ch != "" {
		if _, err := d.broadcaster.Publish(ch, payload); err != nil {
			zlog.Warn("realtime publish failed", zap.String("channel", ch), zap.String("notification_id", n.ID), zap.Error(err))
		}
	}
}

func (d *Dispatcher) dispatchInternal(ctx context.Context, res Result, body []byte) Result {
	status, err := d.internal.Dispatch(ctx, res.Target, body)
	res.StatusCode = status
	switch {
	case errors.Is(err, ErrNoRoute):
		res.Outcome, res.Reason, res.Err = OutcomeFailed, ReasonNoRoute, err
	case err != nil:
		res.Outcome, res.Reason, res.Err = OutcomeFailed, ReasonInternal, err
	case status < 200 || status >= 300:
		res.Outcome, res.Reason = OutcomeFailed, ReasonHTTPStatus
		res.Err = fmt.Errorf("internal webhook returned %d", status)
	default:
		res.Outcome = OutcomeDelivered
	}
	return res
}

func (d *Dispatcher) post(ctx context.Context, res Result, body []byte) Result {
	ctx, cancel := context.WithTimeout(ctx, d.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, res.Target, bytes.NewReader(body))
	if err != nil {
		res.Outcome, res.Reason, res.Err = OutcomeFailed, ReasonBadTarget, err
		return res
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", d.opts.UserAgent)
	req.Header.Set("X-Webhook-Event", EventNotificationCreated)

	resp, err := d.client.Do(req)
	if err != nil {
		res.Outcome, res.Reason, res.Err = OutcomeFailed, classifyNetErr(err), err
		return res
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	res.StatusCode = resp.StatusCode
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		res.Outcome, res.Reason = OutcomeFailed, ReasonHTTPStatus
		res.Err = fmt.Errorf("webhook returned %d", resp.StatusCode)
		return res
	}
	res.Outcome = OutcomeDelivered
	return res
}

func classifyNetErr(err error) Reason {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return ReasonTimeout
		}
		return ReasonDNS
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return ReasonTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ReasonTimeout
	}
	return ReasonConnection
}

func (d *Dispatcher) finish(n *entity.Notification, res Result, elapsed time.Duration) Result {
	metrics.WebhookDeliveries.WithLabelValues(string(res.Kind), string(res.Outcome), string(res.Reason)).Inc()
	if elapsed > 0 {
		metrics.WebhookDuration.WithLabelValues(string(res.Kind)).Observe(elapsed.Seconds())
	}

	fields := []zap.Field{
		zap.String("notification_id", n.ID),
		zap.String("recipient_id", res.RecipientID),
		zap.String("target", res.Target),
		zap.String("target_kind", string(res.Kind)),
		zap.String("outcome", string(res.Outcome)),
	}
	switch res.Outcome {
	case OutcomeFailed:
		fields = append(fields, zap.String("reason", string(res.Reason)), zap.Int("status_code", res.StatusCode), zap.Error(res.Err))
		if res.Reason == ReasonTimeout {
			zlog.Warn("webhook delivery timed out", fields...)
		} else {
			zlog.Error("webhook delivery failed", fields...)
		}
	case OutcomeDelivered:
		if res.Kind == KindInternalSameHost {
			zlog.Info("webhook delivered to same host over network", fields...)
		} else {
			zlog.Info("webhook delivered", fields...)
		}
	}
	return res
}
