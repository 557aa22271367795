package handler

import (
	"SupportDesk/internal/middleware/jwt"
	chatRequest "SupportDesk/internal/modules/chat/application/dto/request"
	"SupportDesk/internal/modules/chat/application/service"
	"SupportDesk/pkg/back"
	"SupportDesk/pkg/xerr"
	"SupportDesk/pkg/zlog"

	"github.com/gin-gonic/gin"
)

type ConversationHandler struct {
	svc service.ConversationService
}

func NewConversationHandler(svc service.ConversationService) *ConversationHandler {
	return &ConversationHandler{svc: svc}
}

func (h *ConversationHandler) Create(c *gin.Context) {
	var req chatRequest.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		zlog.Warn(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	data, err := h.svc.Create(c.Request.Context(), c.GetString(jwt.CtxUserID), req)
	if err != nil {
		back.Result(c, nil, err)
		return
	}
	back.Created(c, data)
}

func (h *ConversationHandler) List(c *gin.Context) {
	data, err := h.svc.ListMine(c.Request.Context(), c.GetString(jwt.CtxUserID))
	back.Result(c, data, err)
}

func (h *ConversationHandler) Get(c *gin.Context) {
	data, err := h.svc.Get(c.Request.Context(), c.Param("id"), c.GetString(jwt.CtxUserID))
	back.Result(c, data, err)
}

func (h *ConversationHandler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), c.Param("id"), c.GetString(jwt.CtxUserID))
	back.Result(c, nil, err)
}
