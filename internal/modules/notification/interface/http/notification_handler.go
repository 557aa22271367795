package handler

import (
	"net/http"

	"SupportDesk/internal/middleware/jwt"
	"SupportDesk/internal/modules/notification/application/dto/request"
	"SupportDesk/internal/modules/notification/application/service"
	"SupportDesk/pkg/back"
	"SupportDesk/pkg/xerr"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	svc service.InboxService
}

func NewNotificationHandler(svc service.InboxService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) List(c *gin.Context) {
	var req request.ListNotificationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	data, err := h.svc.List(c.Request.Context(), c.GetString(jwt.CtxUserID), req)
	back.Result(c, data, err)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	data, err := h.svc.MarkRead(c.Request.Context(), c.Param("id"), c.GetString(jwt.CtxUserID))
	back.Result(c, data, err)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	data, err := h.svc.MarkAllRead(c.Request.Context(), c.GetString(jwt.CtxUserID))
	back.Result(c, data, err)
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), c.Param("id"), c.GetString(jwt.CtxUserID))
	back.Result(c, nil, err)
}

// ReceiveWebhook 外部回调地址指向本服务时走这里，站内相对地址不经过 HTTP
func (h *NotificationHandler) ReceiveWebhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	data, err := h.svc.ReceiveWebhook(c.Request.Context(), body)
	if err != nil {
		back.Result(c, nil, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *NotificationHandler) TestWebhook(c *gin.Context) {
	data, err := h.svc.TestWebhook(c.Request.Context(), c.GetString(jwt.CtxUserID))
	back.Result(c, data, err)
}
