package handler

import (
	genRequest "CaseForge/internal/modules/generation/application/dto/request"
	"CaseForge/internal/modules/generation/application/service"
	"CaseForge/pkg/back"
	"CaseForge/pkg/xerr"
	"CaseForge/pkg/zlog"

	"github.com/gin-gonic/gin"
)

type ConfigurationHandler struct {
	svc service.ConfigurationService
}

func NewConfigurationHandler(svc service.ConfigurationService) *ConfigurationHandler {
	return &ConfigurationHandler{svc: svc}
}

func (h *ConfigurationHandler) Create(c *gin.Context) {
	var req genRequest.CreateConfigurationRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.svc.Create(c.Request.Context(), &req)
	back.Result(c, data, err)
}

func (h *ConfigurationHandler) Get(c *gin.Context) {
	configUuid := c.Param("configUuid")
	data, err := h.svc.Get(c.Request.Context(), configUuid)
	back.Result(c, data, err)
}

// GetByProject 项目当前活跃配置
func (h *ConfigurationHandler) GetByProject(c *gin.Context) {
	projectUuid := c.Param("projectUuid")
	data, err := h.svc.GetByProject(c.Request.Context(), projectUuid)
	back.Result(c, data, err)
}

func (h *ConfigurationHandler) List(c *gin.Context) {
	var req struct {
		ProjectUuid string `form:"project_uuid"`
		Skip        int    `form:"skip"`
		Limit       int    `form:"limit"`
	}
	if err := c.BindQuery(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.svc.List(c.Request.Context(), req.ProjectUuid, req.Skip, req.Limit)
	back.Result(c, data, err)
}

func (h *ConfigurationHandler) Update(c *gin.Context) {
	configUuid := c.Param("configUuid")
	var req genRequest.UpdateConfigurationRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.svc.Update(c.Request.Context(), configUuid, &req)
	back.Result(c, data, err)
}

func (h *ConfigurationHandler) Delete(c *gin.Context) {
	configUuid := c.Param("configUuid")
	err := h.svc.Delete(c.Request.Context(), configUuid)
	back.Result(c, nil, err)
}

// TestConnection 不落库的连通性探测，configUuid 可为空
func (h *ConfigurationHandler) TestConnection(c *gin.Context) {
	var req genRequest.TestConnectionRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.svc.TestConnection(c.Request.Context(), c.Query("config_uuid"), &req)
	back.Result(c, data, err)
}
