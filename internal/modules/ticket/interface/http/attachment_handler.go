package handler

import (
	"SupportDesk/internal/modules/ticket/application/dto/request"
	"SupportDesk/internal/modules/ticket/application/service"
	"SupportDesk/pkg/back"
	"SupportDesk/pkg/xerr"

	"github.com/gin-gonic/gin"
)

type AttachmentHandler struct {
	svc service.AttachmentService
}

func NewAttachmentHandler(svc service.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{svc: svc}
}

// Create POST /tickets/:id/attachments
func (h *AttachmentHandler) Create(c *gin.Context) {
	var req request.CreateAttachmentRequest
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

func (h *AttachmentHandler) List(c *gin.Context) {
	data, err := h.svc.List(c.Request.Context(), c.Param("id"))
	back.Result(c, data, err)
}

func (h *AttachmentHandler) Update(c *gin.Context) {
	var req request.UpdateAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	data, err := h.svc.Update(c.Request.Context(), actorOf(c), c.Param("id"), req)
	back.Result(c, data, err)
}

func (h *AttachmentHandler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), actorOf(c), c.Param("id"))
	back.Result(c, nil, err)
}
