package ws

import (
	"encoding/json"
	"sync"
	"time"

	"SupportDesk/pkg/metrics"
	"SupportDesk/pkg/zlog"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// 实时推送通道组
const (
	ChannelNotification = "notification"
	ChannelTicket       = "ticket.update"
	ChannelComment      = "comment.update"
	ChannelUser         = "user.update"
	ChannelKB           = "kb.update"
	ChannelAttachment   = "attachment.update"
)

const (
	// PongWait 读超时，收到 pong 后续期
	PongWait   = 60 * time.Second
	PingPeriod = PongWait * 9 / 10
)

var knownChannels = map[string]struct{}{
	ChannelTicket:     {},
	ChannelComment:    {},
	ChannelUser:       {},
	ChannelKB:         {},
	ChannelAttachment: {},
}

// IsChannel 判断是否为可订阅的通道组
func IsChannel(name string) bool {
	_, ok := knownChannels[name]
	return ok
}

// Frame 推送给客户端的统一帧
type Frame struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub 维护在线连接：按用户索引，并按通道组订阅。
// 所有发送均为非阻塞，写缓冲满的慢连接会被踢下线，不会拖住调用方。
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]map[*Client]struct{}
	channels map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:  make(map[string]map[*Client]struct{}),
		channels: make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	if c == nil || c.userID == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.clients[c.userID]
	if set == nil {
		set = make(map[*Client]struct{})
		h.clients[c.userID] = set
	}
	set[c] = struct{}{}
	metrics.RealtimeClients.Inc()
}

func (h *Hub) Unregister(c *Client) {
	if c == nil || c.userID == "" {
		return
	}
	h.mu.Lock()
	set := h.clients[c.userID]
	if set != nil {
		if _, ok := set[c]; ok {
			metrics.RealtimeClients.Dec()
		}
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.userID)
		}
	}
	for name, subs := range h.channels {
		delete(subs, c)
		if len(subs) == 0 {
			delete(h.channels, name)
		}
	}
	h.mu.Unlock()
	c.Close()
}

// Subscribe 把连接加入通道组
func (h *Hub) Subscribe(c *Client, channel string) bool {
	if c == nil || !IsChannel(channel) {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.userID][c]; !ok {
		return false
	}
	subs := h.channels[channel]
	if subs == nil {
		subs = make(map[*Client]struct{})
		h.channels[channel] = subs
	}
	subs[c] = struct{}{}
	return true
}

func (h *Hub) Unsubscribe(c *Client, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs := h.channels[channel]; subs != nil {
		delete(subs, c)
		if len(subs) == 0 {
			delete(h.channels, channel)
		}
	}
}

func (h *Hub) Send(userID string, payload []byte) bool {
	if userID == "" || len(payload) == 0 {
		return false
	}

	h.mu.RLock()
	targets := snapshot(h.clients[userID])
	h.mu.RUnlock()
	return h.deliver(targets, payload) > 0
}

func (h *Hub) SendJSON(userID string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.Send(userID, b)
	return nil
}

// Broadcast 推送给全部在线连接，返回成功入队的连接数
func (h *Hub) Broadcast(event string, data interface{}) (int, error) {
	b, err := json.Marshal(Frame{Event: event, Data: data})
	if err != nil {
		metrics.RealtimeBroadcasts.WithLabelValues(event, "encode_error").Inc()
		return 0, err
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for _, set := range h.clients {
		targets = append(targets, snapshot(set)...)
	}
	h.mu.RUnlock()

	n := h.deliver(targets, b)
	metrics.RealtimeBroadcasts.WithLabelValues(event, "sent").Add(float64(n))
	return n, nil
}

// Publish 推送给订阅了 channel 的连接，帧的 event 即通道名
func (h *Hub) Publish(channel string, data interface{}) (int, error) {
	b, err := json.Marshal(Frame{Event: channel, Data: data})
	if err != nil {
		metrics.RealtimeBroadcasts.WithLabelValues(channel, "encode_error").Inc()
		return 0, err
	}

	h.mu.RLock()
	targets := snapshot(h.channels[channel])
	h.mu.RUnlock()

	n := h.deliver(targets, b)
	metrics.RealtimeBroadcasts.WithLabelValues(channel, "sent").Add(float64(n))
	return n, nil
}

// Online 当前在线用户数
func (h *Hub) Online() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) deliver(targets []*Client, payload []byte) int {
	ok := 0
	var slow []*Client
	for _, c := range targets {
		if c.trySend(payload) {
			ok++
			continue
		}
		slow = append(slow, c)
	}
	for _, c := range slow {
		zlog.Warn("ws client send buffer full, dropping connection", zap.String("user_id", c.userID))
		h.Unregister(c)
	}
	return ok
}

func snapshot(set map[*Client]struct{}) []*Client {
	out := make([]*Client, 0, len(set))
	for c := range set {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

type Client struct {
	userID string
	conn   *websocket.Conn
	send   chan []byte

	writeTimeout time.Duration

	mu     sync.Mutex
	closed bool
}

func NewClient(userID string, conn *websocket.Conn) *Client {
	return NewClientWithBuffer(userID, conn, 64)
}

func NewClientWithBuffer(userID string, conn *websocket.Conn, buffer int) *Client {
	if buffer <= 0 {
		buffer = 64
	}
	return &Client{
		userID:       userID,
		conn:         conn,
		send:         make(chan []byte, buffer),
		writeTimeout: 10 * time.Second,
	}
}

// SetWriteTimeout 在 WritePump 启动前调用
func (c *Client) SetWriteTimeout(d time.Duration) {
	if d > 0 {
		c.writeTimeout = d
	}
}

func (c *Client) UserID() string {
	return c.userID
}

func (c *Client) trySend(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

func (c *Client) WritePump() {
	if c.conn == nil {
		return
	}
	ticker := time.NewTicker(PingPeriod)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				zlog.Error("ws write failed", zap.String("user_id", c.userID), zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
