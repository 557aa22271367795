package handler

import (
	"SupportDesk/internal/middleware/jwt"
	chatRequest "SupportDesk/internal/modules/chat/application/dto/request"
	chatRespond "SupportDesk/internal/modules/chat/application/dto/respond"
	"SupportDesk/internal/modules/chat/application/service"
	"SupportDesk/pkg/back"
	"SupportDesk/pkg/xerr"
	"SupportDesk/pkg/zlog"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	svc      service.MessageService
	receipts service.ReadReceiptService
}

func NewMessageHandler(svc service.MessageService, receipts service.ReadReceiptService) *MessageHandler {
	return &MessageHandler{svc: svc, receipts: receipts}
}

func (h *MessageHandler) List(c *gin.Context) {
	var req chatRequest.GetMessageListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	data, err := h.svc.List(c.Request.Context(), c.GetString(jwt.CtxUserID), c.Param("id"), req)
	back.Result(c, data, err)
}

func (h *MessageHandler) Send(c *gin.Context) {
	var req chatRequest.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		zlog.Warn(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	data, err := h.svc.Send(c.Request.Context(), c.GetString(jwt.CtxUserID), c.Param("id"), req)
	if err != nil {
		back.Result(c, nil, err)
		return
	}
	back.Created(c, data)
}

// MarkRead POST /api/messages/:message_id/read
func (h *MessageHandler) MarkRead(c *gin.Context) {
	n, err := h.receipts.MarkRead(c.Request.Context(), c.Param("message_id"), c.GetString(jwt.CtxUserID))
	back.Result(c, chatRespond.MarkReadRespond{MessagesMarkedRead: n}, err)
}

// MarkAllRead POST /api/conversations/:id/read
func (h *MessageHandler) MarkAllRead(c *gin.Context) {
	n, err := h.receipts.MarkAllRead(c.Request.Context(), c.Param("id"), c.GetString(jwt.CtxUserID))
	back.Result(c, chatRespond.MarkReadRespond{MessagesMarkedRead: n}, err)
}

// MarkUpTo POST /api/conversations/:id/read-up-to
func (h *MessageHandler) MarkUpTo(c *gin.Context) {
	var req chatRequest.MarkReadUpToRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	n, err := h.receipts.MarkUpTo(c.Request.Context(), c.Param("id"), req.MessageID, c.GetString(jwt.CtxUserID))
	back.Result(c, chatRespond.MarkReadRespond{MessagesMarkedRead: n}, err)
}
