package handler

import (
	"SupportDesk/internal/middleware/jwt"
	"SupportDesk/internal/modules/user/application/dto/request"
	"SupportDesk/internal/modules/user/application/service"
	"SupportDesk/pkg/back"
	"SupportDesk/pkg/xerr"
	"SupportDesk/pkg/zlog"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc service.UserService
}

func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Register 公开注册，角色固定为 CUSTOMER
func (h *UserHandler) Register(c *gin.Context) {
	var req request.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		zlog.Warn(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	req.Role = ""
	data, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		back.Result(c, nil, err)
		return
	}
	back.Created(c, data)
}

// Create 管理员创建用户
func (h *UserHandler) Create(c *gin.Context) {
	var req request.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		zlog.Warn(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	data, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		back.Result(c, nil, err)
		return
	}
	back.Created(c, data)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	data, err := h.svc.Login(c.Request.Context(), req)
	back.Result(c, data, err)
}

func (h *UserHandler) Me(c *gin.Context) {
	data, err := h.svc.Get(c.Request.Context(), c.GetString(jwt.CtxUserID))
	back.Result(c, data, err)
}

func (h *UserHandler) Update(c *gin.Context) {
	var req request.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	data, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	back.Result(c, data, err)
}

func (h *UserHandler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	back.Result(c, nil, err)
}

func (h *UserHandler) SetWebhook(c *gin.Context) {
	var req request.SetWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, "webhook_url must be an http(s) URL or a path starting with /")
		return
	}
	data, err := h.svc.SetWebhookURL(c.Request.Context(), c.GetString(jwt.CtxUserID), req)
	back.Result(c, data, err)
}
