package handler

import (
	"strings"

	"SupportDesk/internal/middleware/jwt"
	"SupportDesk/internal/modules/kb/application/dto/request"
	"SupportDesk/internal/modules/kb/application/service"
	userEntity "SupportDesk/internal/modules/user/domain/entity"
	"SupportDesk/pkg/back"
	"SupportDesk/pkg/xerr"

	"github.com/gin-gonic/gin"
)

type ArticleHandler struct {
	svc service.ArticleService
}

func NewArticleHandler(svc service.ArticleService) *ArticleHandler {
	return &ArticleHandler{svc: svc}
}

func (h *ArticleHandler) Create(c *gin.Context) {
	var req request.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
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

func (h *ArticleHandler) Get(c *gin.Context) {
	data, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	back.Result(c, data, err)
}

func (h *ArticleHandler) List(c *gin.Context) {
	var req request.ListArticleRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	staff := !strings.EqualFold(c.GetString(jwt.CtxRole), userEntity.RoleCustomer)
	data, err := h.svc.List(c.Request.Context(), staff, req)
	back.Result(c, data, err)
}

func (h *ArticleHandler) Update(c *gin.Context) {
	var req request.UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	data, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	back.Result(c, data, err)
}

func (h *ArticleHandler) Delete(c *gin.Context) {
	back.Result(c, nil, h.svc.Delete(c.Request.Context(), c.Param("id")))
}
