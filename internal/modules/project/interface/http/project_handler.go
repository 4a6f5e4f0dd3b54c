package handler

import (
	projectRequest "CaseForge/internal/modules/project/application/dto/request"
	"CaseForge/internal/modules/project/application/service"
	"CaseForge/pkg/back"
	"CaseForge/pkg/xerr"
	"CaseForge/pkg/zlog"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	svc service.ProjectService
}

func NewProjectHandler(svc service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var req projectRequest.CreateProjectRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.svc.Create(c.Request.Context(), &req)
	back.Result(c, data, err)
}

func (h *ProjectHandler) Get(c *gin.Context) {
	projectUuid := c.Param("projectUuid")
	data, err := h.svc.Get(c.Request.Context(), projectUuid)
	back.Result(c, data, err)
}

func (h *ProjectHandler) List(c *gin.Context) {
	var req projectRequest.ListProjectRequest
	if err := c.BindQuery(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.svc.List(c.Request.Context(), req.Skip, req.Limit)
	back.Result(c, data, err)
}

func (h *ProjectHandler) Update(c *gin.Context) {
	projectUuid := c.Param("projectUuid")
	var req projectRequest.UpdateProjectRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.svc.Update(c.Request.Context(), projectUuid, &req)
	back.Result(c, data, err)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	projectUuid := c.Param("projectUuid")
	err := h.svc.Delete(c.Request.Context(), projectUuid)
	back.Result(c, nil, err)
}
