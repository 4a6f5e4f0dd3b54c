package handler

import (
	"io"
	"mime/multipart"

	"CaseForge/internal/modules/document/application/service"
	"CaseForge/pkg/back"
	"CaseForge/pkg/xerr"
	"CaseForge/pkg/zlog"

	"github.com/gin-gonic/gin"
)

type FileHandler struct {
	svc service.FileService
}

func NewFileHandler(svc service.FileService) *FileHandler {
	return &FileHandler{svc: svc}
}

// Upload multipart 表单：files 可多文件，project_uuid 必填
func (h *FileHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, "解析上传表单失败")
		return
	}
	projectUuid := c.PostForm("project_uuid")
	if projectUuid == "" {
		back.Error(c, xerr.BadRequest, "project_uuid 不能为空")
		return
	}

	headers := form.File["files"]
	items := make([]service.UploadFileItem, 0, len(headers))
	for _, fh := range headers {
		data, rErr := readUploadFile(fh)
		if rErr != nil {
			zlog.Error(rErr.Error())
			back.Error(c, xerr.BadRequest, "读取上传文件失败: "+fh.Filename)
			return
		}
		items = append(items, service.UploadFileItem{Filename: fh.Filename, Data: data})
	}

	result, err := h.svc.Upload(c.Request.Context(), projectUuid, items)
	back.Result(c, result, err)
}

func (h *FileHandler) ListByProject(c *gin.Context) {
	projectUuid := c.Param("projectUuid")
	data, err := h.svc.ListByProject(c.Request.Context(), projectUuid)
	back.Result(c, data, err)
}

func (h *FileHandler) Get(c *gin.Context) {
	fileUuid := c.Param("fileUuid")
	data, err := h.svc.Get(c.Request.Context(), fileUuid)
	back.Result(c, data, err)
}

func (h *FileHandler) Delete(c *gin.Context) {
	fileUuid := c.Param("fileUuid")
	err := h.svc.Delete(c.Request.Context(), fileUuid)
	back.Result(c, nil, err)
}

func readUploadFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}
