package handler

import (
	"io"
	"strconv"

	docRequest "CaseForge/internal/modules/document/application/dto/request"
	"CaseForge/internal/modules/document/application/service"
	"CaseForge/pkg/back"
	"CaseForge/pkg/xerr"
	"CaseForge/pkg/zlog"

	"github.com/gin-gonic/gin"
)

type KnowledgeBaseHandler struct {
	svc service.KnowledgeBaseService
}

func NewKnowledgeBaseHandler(svc service.KnowledgeBaseService) *KnowledgeBaseHandler {
	return &KnowledgeBaseHandler{svc: svc}
}

// Upload multipart 表单：file 为文件，project_uuid 必填，doc_type 可选
func (h *KnowledgeBaseHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, "缺少上传文件")
		return
	}
	projectUuid := c.PostForm("project_uuid")
	if projectUuid == "" {
		back.Error(c, xerr.BadRequest, "project_uuid 不能为空")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, "读取上传文件失败")
		return
	}
	data, err := io.ReadAll(f)
	_ = f.Close()
	if err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, "读取上传文件失败")
		return
	}

	result, err := h.svc.Upload(c.Request.Context(), &docRequest.UploadKBDocumentRequest{
		ProjectUuid: projectUuid,
		Filename:    fileHeader.Filename,
		Category:    c.PostForm("doc_type"),
		Data:        data,
	})
	back.Result(c, result, err)
}

func (h *KnowledgeBaseHandler) List(c *gin.Context) {
	var isActive *bool
	if v := c.Query("is_active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
			return
		}
		isActive = &b
	}

	data, err := h.svc.List(c.Request.Context(), isActive, c.Query("doc_type"))
	back.Result(c, data, err)
}

func (h *KnowledgeBaseHandler) Get(c *gin.Context) {
	docUuid := c.Param("docUuid")
	data, err := h.svc.Get(c.Request.Context(), docUuid)
	back.Result(c, data, err)
}

func (h *KnowledgeBaseHandler) Update(c *gin.Context) {
	docUuid := c.Param("docUuid")
	var req docRequest.UpdateKBDocumentRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.svc.Update(c.Request.Context(), docUuid, &req)
	back.Result(c, data, err)
}

// Delete 默认软删除，?hard=true 时物理删除
func (h *KnowledgeBaseHandler) Delete(c *gin.Context) {
	docUuid := c.Param("docUuid")
	hard := false
	if v := c.Query("hard"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
			return
		}
		hard = b
	}

	err := h.svc.Delete(c.Request.Context(), docUuid, hard)
	back.Result(c, nil, err)
}
