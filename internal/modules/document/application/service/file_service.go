package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"CaseForge/internal/config"
	"CaseForge/internal/modules/document/application/dto/respond"
	"CaseForge/internal/modules/document/domain/entity"
	"CaseForge/internal/modules/document/domain/repository"
	"CaseForge/internal/modules/document/infrastructure/parser"
	projectRepo "CaseForge/internal/modules/project/domain/repository"
	"CaseForge/pkg/util"
	"CaseForge/pkg/xerr"
	"CaseForge/pkg/zlog"

	"go.uber.org/zap"
)

// UploadFileItem 单个待上传的需求文件
type UploadFileItem struct {
	Filename string
	Data     []byte
}

// FileService 需求文件服务，批量上传后立即提取文本
type FileService interface {
	Upload(ctx context.Context, projectUuid string, files []UploadFileItem) (*respond.UploadFilesRespond, error)
	ListByProject(ctx context.Context, projectUuid string) ([]*respond.RequirementFileRespond, error)
	Get(ctx context.Context, fileUuid string) (*respond.RequirementFileRespond, error)
	Delete(ctx context.Context, fileUuid string) error
}

type fileService struct {
	fileRepo repository.FileRepository
	projRepo projectRepo.ProjectRepository
}

func NewFileService(fileRepo repository.FileRepository, projRepo projectRepo.ProjectRepository) FileService {
	return &fileService{fileRepo: fileRepo, projRepo: projRepo}
}

func (s *fileService) Upload(ctx context.Context, projectUuid string, files []UploadFileItem) (*respond.UploadFilesRespond, error) {
	cfg := config.GetConfig()

	if len(files) == 0 {
		return nil, xerr.New(xerr.BadRequest, "没有待上传的文件")
	}
	if len(files) > cfg.UploadConfig.MaxFilesPerUpload {
		return nil, xerr.New(xerr.BadRequest, fmt.Sprintf("单次最多上传 %d 个文件", cfg.UploadConfig.MaxFilesPerUpload))
	}
	var totalSize int64
	for _, f := range files {
		totalSize += int64(len(f.Data))
	}
	maxBytes := int64(cfg.UploadConfig.MaxUploadSizeMB) * 1024 * 1024
	if totalSize > maxBytes {
		return nil, xerr.New(xerr.BadRequest, fmt.Sprintf("文件总大小超限: %.2fMB (上限 %dMB)", util.BytesToMB(totalSize), cfg.UploadConfig.MaxUploadSizeMB))
	}

	proj, err := s.projRepo.GetByUuid(ctx, projectUuid)
	if err != nil {
		zlog.Error("查询项目失败", zap.Error(err), zap.String("projectUuid", projectUuid))
		return nil, xerr.ErrServerError
	}
	if proj == nil {
		return nil, xerr.New(xerr.NotFound, "项目不存在: "+projectUuid)
	}

	result := &respond.UploadFilesRespond{
		Uploaded: make([]*respond.RequirementFileRespond, 0, len(files)),
		Failed:   make([]*respond.FileFailureRespond, 0),
	}
	for _, f := range files {
		item, reason := s.ingestOne(ctx, proj.Id, projectUuid, f, cfg)
		if item != nil {
			result.Uploaded = append(result.Uploaded, item)
		} else {
			result.Failed = append(result.Failed, &respond.FileFailureRespond{Filename: f.Filename, Reason: reason})
		}
	}
	return result, nil
}

// ingestOne 单文件落盘、解析、入库。文件写入持久化目录，
// 入库成功后保留在磁盘上，由删除接口统一清理；完全拒收时当场删掉。
// 解析失败也会落库并标记 failed，方便前端展示
func (s *fileService) ingestOne(ctx context.Context, projectId int64, projectUuid string, f UploadFileItem, cfg *config.Config) (*respond.RequirementFileRespond, string) {
	ext := strings.ToLower(filepath.Ext(f.Filename))
	if !extensionAllowed(ext, cfg.UploadConfig.AllowedExtensions) {
		return nil, fmt.Sprintf("不支持的文件类型: %s", ext)
	}

	fileUuid := util.GenerateShortUUID()
	storedPath, err := storeUploadFile(cfg.UploadConfig.FileStorageDir, fileUuid, f.Filename, f.Data)
	if err != nil {
		zlog.Error("写入需求文件失败", zap.Error(err), zap.String("filename", f.Filename))
		return nil, "写入文件失败"
	}

	p := parser.ParserFor(ext)
	if p == nil {
		_ = os.Remove(storedPath)
		return nil, fmt.Sprintf("没有可用的解析器: %s", ext)
	}
	if v := p.Validate(storedPath, cfg.UploadConfig.MaxUploadSizeMB); !v.Valid {
		_ = os.Remove(storedPath)
		return nil, v.Err
	}

	now := time.Now()
	file := &entity.RequirementFile{
		FileUuid:  fileUuid,
		ProjectId: projectId,
		Filename:  f.Filename,
		FileType:  ext,
		FileSize:  int64(len(f.Data)),
		FilePath:  storedPath,
		CreatedAt: now,
		UpdatedAt: now,
	}

	parsed := p.Parse(storedPath)
	if parsed.Success {
		file.ExtractedText = parsed.Text
		file.ExtractionStatus = entity.ExtractionStatusCompleted
	} else {
		file.ExtractionStatus = entity.ExtractionStatusFailed
		zlog.Warn("需求文件解析失败", zap.String("filename", f.Filename), zap.String("reason", parsed.Err))
	}

	if err := s.fileRepo.Create(ctx, file); err != nil {
		_ = os.Remove(storedPath)
		zlog.Error("写入需求文件记录失败", zap.Error(err), zap.String("filename", f.Filename))
		return nil, "保存文件记录失败"
	}
	return toFileRespond(file, projectUuid, false), ""
}

// storeUploadFile 把上传内容写进持久化目录，uuid 前缀避免同名覆盖
func storeUploadFile(dir, fileUuid, filename string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fileUuid+"_"+filepath.Base(filename))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (s *fileService) ListByProject(ctx context.Context, projectUuid string) ([]*respond.RequirementFileRespond, error) {
	proj, err := s.projRepo.GetByUuid(ctx, projectUuid)
	if err != nil {
		return nil, xerr.ErrServerError
	}
	if proj == nil {
		return nil, xerr.New(xerr.NotFound, "项目不存在: "+projectUuid)
	}
	files, err := s.fileRepo.ListByProject(ctx, proj.Id)
	if err != nil {
		zlog.Error("查询需求文件列表失败", zap.Error(err), zap.String("projectUuid", projectUuid))
		return nil, xerr.ErrServerError
	}
	items := make([]*respond.RequirementFileRespond, 0, len(files))
	for i := range files {
		items = append(items, toFileRespond(&files[i], projectUuid, false))
	}
	return items, nil
}

func (s *fileService) Get(ctx context.Context, fileUuid string) (*respond.RequirementFileRespond, error) {
	file, err := s.fileRepo.GetByUuid(ctx, fileUuid)
	if err != nil {
		return nil, xerr.ErrServerError
	}
	if file == nil {
		return nil, xerr.New(xerr.NotFound, "文件不存在: "+fileUuid)
	}
	return toFileRespond(file, "", true), nil
}

func (s *fileService) Delete(ctx context.Context, fileUuid string) error {
	file, err := s.fileRepo.GetByUuid(ctx, fileUuid)
	if err != nil {
		return xerr.ErrServerError
	}
	if file == nil {
		return xerr.New(xerr.NotFound, "文件不存在: "+fileUuid)
	}
	if err := s.fileRepo.Delete(ctx, file.Id); err != nil {
		zlog.Error("删除需求文件记录失败", zap.Error(err), zap.String("fileUuid", fileUuid))
		return xerr.ErrServerError
	}
	if file.FilePath != "" {
		if rmErr := os.Remove(file.FilePath); rmErr != nil && !os.IsNotExist(rmErr) {
			zlog.Warn("删除磁盘文件失败", zap.Error(rmErr), zap.String("path", file.FilePath))
		}
	}
	zlog.Info("需求文件已删除", zap.String("fileUuid", fileUuid))
	return nil
}

func toFileRespond(file *entity.RequirementFile, projectUuid string, withText bool) *respond.RequirementFileRespond {
	r := &respond.RequirementFileRespond{
		FileUuid:         file.FileUuid,
		ProjectUuid:      projectUuid,
		Filename:         file.Filename,
		FileType:         file.FileType,
		FileSize:         file.FileSize,
		ExtractionStatus: file.ExtractionStatus,
		CreatedAt:        file.CreatedAt,
	}
	if withText {
		r.ExtractedText = file.ExtractedText
	}
	return r
}
