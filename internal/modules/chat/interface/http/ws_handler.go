package handler

import (
	"net/http"
	"strings"
	"time"

	"SupportDesk/internal/config"
	userRepository "SupportDesk/internal/modules/user/domain/repository"
	"SupportDesk/pkg/util/myjwt"
	"SupportDesk/pkg/ws"
	"SupportDesk/pkg/zlog"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	actionSubscribe   = "subscribe"
	actionUnsubscribe = "unsubscribe"
)

// controlFrame 客户端上行帧，只用于订阅通道组
type controlFrame struct {
	Action  string `json:"action"`
	Channel string `json:"channel"`
}

type WsHandler struct {
	hub      *ws.Hub
	userRepo userRepository.UserRepository
	conf     config.RealtimeConfig
}

func NewWsHandler(hub *ws.Hub, userRepo userRepository.UserRepository, conf config.RealtimeConfig) *WsHandler {
	return &WsHandler{hub: hub, userRepo: userRepo, conf: conf}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Connect GET /wss?token=xxx
// 浏览器原生 WebSocket 无法自定义 Header，token 走 query，这里手动校验
func (h *WsHandler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	}
	claims, err := myjwt.ParseToken(token)
	if err != nil || claims == nil || claims.UserID == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	user, err := h.userRepo.GetByID(c.Request.Context(), claims.UserID)
	if err != nil || !user.IsActive {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zlog.Error(err.Error())
		return
	}

	client := ws.NewClientWithBuffer(user.ID, conn, h.conf.SendBuffer)
	client.SetWriteTimeout(time.Duration(h.conf.WriteTimeoutSeconds) * time.Second)
	h.hub.Register(client)
	defer h.hub.Unregister(client)

	conn.SetReadLimit(1 << 16)
	_ = conn.SetReadDeadline(time.Now().Add(ws.PongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(ws.PongWait))
		return nil
	})

	go client.WritePump()

	for {
		var frame controlFrame
		if err := conn.ReadJSON(&frame); err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(ws.PongWait))

		switch frame.Action {
		case actionSubscribe:
			if !h.hub.Subscribe(client, frame.Channel) {
				_ = h.hub.SendJSON(user.ID, ws.Frame{Event: "error", Data: "unknown channel: " + frame.Channel})
				continue
			}
			zlog.Info("ws subscribed", zap.String("user_id", user.ID), zap.String("channel", frame.Channel))
		case actionUnsubscribe:
			h.hub.Unsubscribe(client, frame.Channel)
		default:
			_ = h.hub.SendJSON(user.ID, ws.Frame{Event: "error", Data: "unsupported action"})
		}
	}
}
