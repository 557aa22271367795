package handler

import (
	"SupportDesk/internal/middleware/jwt"
	"SupportDesk/internal/modules/ticket/application/dto/request"
	"SupportDesk/internal/modules/ticket/application/service"
	"SupportDesk/pkg/back"
	"SupportDesk/pkg/xerr"

	"github.com/gin-gonic/gin"
)

// actorOf 从 JWT 中间件写入的上下文构造当前用户
func actorOf(c *gin.Context) service.Actor {
	return service.Actor{ID: c.GetString(jwt.CtxUserID), Role: c.GetString(jwt.CtxRole)}
}

type TicketHandler struct {
	svc service.TicketService
}

func NewTicketHandler(svc service.TicketService) *TicketHandler {
	return &TicketHandler{svc: svc}
}

func (h *TicketHandler) Create(c *gin.Context) {
	var req request.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	data, err := h.svc.Create(c.Request.Context(), actorOf(c), req)
	if err != nil {
		back.Result(c, nil, err)
		return
	}
	back.Created(c, data)
}

func (h *TicketHandler) Get(c *gin.Context) {
	data, err := h.svc.Get(c.Request.Context(), actorOf(c), c.Param("id"))
	back.Result(c, data, err)
}

func (h *TicketHandler) List(c *gin.Context) {
	var req request.ListTicketRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	data, err := h.svc.List(c.Request.Context(), actorOf(c), req)
	back.Result(c, data, err)
}

func (h *TicketHandler) Update(c *gin.Context) {
	var req request.UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	data, err := h.svc.Update(c.Request.Context(), actorOf(c), c.Param("id"), req)
	back.Result(c, data, err)
}

func (h *TicketHandler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), actorOf(c), c.Param("id"))
	back.Result(c, nil, err)
}
