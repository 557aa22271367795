package handler

import (
	"SupportDesk/internal/modules/ticket/application/dto/request"
	"SupportDesk/internal/modules/ticket/application/service"
	"SupportDesk/pkg/back"
	"SupportDesk/pkg/xerr"

	"github.com/gin-gonic/gin"
)

type TestingHandler struct {
	svc service.TestingService
}

func NewTestingHandler(svc service.TestingService) *TestingHandler {
	return &TestingHandler{svc: svc}
}

func (h *TestingHandler) Create(c *gin.Context) {
	var req request.CreateTestingRequest
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

func (h *TestingHandler) Get(c *gin.Context) {
	data, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	back.Result(c, data, err)
}

func (h *TestingHandler) List(c *gin.Context) {
	var req request.ListTestingRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	data, err := h.svc.List(c.Request.Context(), req)
	back.Result(c, data, err)
}

// Update 请求体带 status 时会联动工单状态
func (h *TestingHandler) Update(c *gin.Context) {
	var req request.UpdateTestingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	data, err := h.svc.Update(c.Request.Context(), actorOf(c), c.Param("id"), req)
	back.Result(c, data, err)
}

func (h *TestingHandler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), actorOf(c), c.Param("id"))
	back.Result(c, nil, err)
}
