package handler

import (
	"SupportDesk/internal/modules/ticket/application/dto/request"
	"SupportDesk/internal/modules/ticket/application/service"
	"SupportDesk/pkg/back"
	"SupportDesk/pkg/xerr"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	svc service.CommentService
}

func NewCommentHandler(svc service.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// Create POST /tickets/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	var req request.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	data, err := h.svc.Create(c.Request.Context(), actorOf(c), c.Param("id"), req)
	if err != nil {
		back.Result(c, nil, err)
		return
	}
	back.Created(c, data)
}

func (h *CommentHandler) List(c *gin.Context) {
	data, err := h.svc.List(c.Request.Context(), c.Param("id"))
	back.Result(c, data, err)
}

func (h *CommentHandler) Update(c *gin.Context) {
	var req request.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	data, err := h.svc.Update(c.Request.Context(), actorOf(c), c.Param("id"), req)
	back.Result(c, data, err)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), actorOf(c), c.Param("id"))
	back.Result(c, nil, err)
}
