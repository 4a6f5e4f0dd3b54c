package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"CaseForge/internal/config"
	"CaseForge/internal/modules/document/application/dto/request"
	"CaseForge/internal/modules/document/application/dto/respond"
	"CaseForge/internal/modules/document/domain/entity"
	"CaseForge/internal/modules/document/domain/repository"
	projectRepo "CaseForge/internal/modules/project/domain/repository"
	"CaseForge/pkg/util"
	"CaseForge/pkg/xerr"
	"CaseForge/pkg/zlog"

	"go.uber.org/zap"
)

// KnowledgeBaseService 知识库文档服务
type KnowledgeBaseService interface {
	Upload(ctx context.Context, req *request.UploadKBDocumentRequest) (*respond.UploadKBDocumentRespond, error)
	List(ctx context.Context, isActive *bool, docType string) (*respond.KnowledgeDocumentListRespond, error)
	Get(ctx context.Context, docUuid string) (*respond.KnowledgeDocumentRespond, error)
	Update(ctx context.Context, docUuid string, req *request.UpdateKBDocumentRequest) (*respond.KnowledgeDocumentRespond, error)
	// Delete hard=false 时软删除（停用），hard=true 时物理删除
	Delete(ctx context.Context, docUuid string, hard bool) error
}

type knowledgeBaseService struct {
	coordinator IngestCoordinator
	kbRepo      repository.KnowledgeDocumentRepository
	projRepo    projectRepo.ProjectRepository
}

func NewKnowledgeBaseService(coordinator IngestCoordinator, kbRepo repository.KnowledgeDocumentRepository, projRepo projectRepo.ProjectRepository) KnowledgeBaseService {
	return &knowledgeBaseService{coordinator: coordinator, kbRepo: kbRepo, projRepo: projRepo}
}

func (s *knowledgeBaseService) Upload(ctx context.Context, req *request.UploadKBDocumentRequest) (*respond.UploadKBDocumentRespond, error) {
	cfg := config.GetConfig()

	ext := strings.ToLower(filepath.Ext(req.Filename))
	if !extensionAllowed(ext, cfg.KnowledgeBaseConfig.AllowedExtensions) {
		return nil, xerr.New(xerr.BadRequest, fmt.Sprintf("不支持的文件类型: %s，知识库仅支持 %s", ext, cfg.KnowledgeBaseConfig.AllowedExtensions))
	}
	maxBytes := int64(cfg.KnowledgeBaseConfig.MaxFileSizeMB) * 1024 * 1024
	if int64(len(req.Data)) > maxBytes {
		return nil, xerr.New(xerr.BadRequest, fmt.Sprintf("文件过大: %.2fMB (上限 %dMB)", util.BytesToMB(int64(len(req.Data))), cfg.KnowledgeBaseConfig.MaxFileSizeMB))
	}

	activeCount, err := s.kbRepo.CountActive(ctx)
	if err != nil {
		zlog.Error("统计知识库文档数失败", zap.Error(err))
		return nil, xerr.ErrServerError
	}
	if activeCount >= int64(cfg.KnowledgeBaseConfig.MaxDocuments) {
		return nil, xerr.New(xerr.BadRequest, fmt.Sprintf("知识库文档数已达上限 %d，请先删除部分文档", cfg.KnowledgeBaseConfig.MaxDocuments))
	}

	// 项目必须显式指定且存在
	proj, err := s.projRepo.GetByUuid(ctx, req.ProjectUuid)
	if err != nil {
		zlog.Error("查询项目失败", zap.Error(err), zap.String("projectUuid", req.ProjectUuid))
		return nil, xerr.ErrServerError
	}
	if proj == nil {
		return nil, xerr.New(xerr.NotFound, "项目不存在: "+req.ProjectUuid)
	}

	tempPath, err := writeTempFile(cfg.UploadConfig.TempFileDir, req.Filename, req.Data)
	if err != nil {
		zlog.Error("写入临时文件失败", zap.Error(err), zap.String("filename", req.Filename))
		return nil, xerr.ErrServerError
	}
	defer func() { _ = os.Remove(tempPath) }()

	decision := s.coordinator.Ingest(ctx, IngestInput{
		Path:      tempPath,
		Filename:  req.Filename,
		Category:  req.Category,
		MaxSizeMB: cfg.KnowledgeBaseConfig.MaxFileSizeMB,
	}, s.kbRepo.GetByHash)

	switch decision.Outcome {
	case IngestRejectedInvalid:
		return nil, xerr.New(xerr.BadRequest, decision.Reason)
	case IngestFailed:
		zlog.Error("知识库文档入库失败", zap.String("filename", req.Filename), zap.String("reason", decision.Reason))
		return nil, xerr.New(xerr.BadRequest, "文档解析失败: "+decision.Reason)
	case IngestRejectedDuplicate:
		return nil, xerr.New(xerr.BadRequest, fmt.Sprintf("相同内容的文档已存在: %s", decision.ExistingFilename))
	case IngestReactivated:
		if err := s.kbRepo.SetActive(ctx, decision.ExistingId, true); err != nil {
			zlog.Error("复活知识库文档失败", zap.Error(err), zap.Int64("id", decision.ExistingId))
			return nil, xerr.ErrServerError
		}
		doc, err := s.kbRepo.GetByHash(ctx, decision.FileHash)
		if err != nil {
			return nil, xerr.ErrServerError
		}
		if doc == nil {
			zlog.Error("复活后回读知识库文档失败", zap.Int64("id", decision.ExistingId))
			return nil, xerr.ErrServerError
		}
		zlog.Info("知识库文档已复活", zap.String("docUuid", doc.DocUuid), zap.String("filename", doc.Filename))
		return &respond.UploadKBDocumentRespond{Outcome: string(IngestReactivated), Document: toKBRespond(doc, false)}, nil
	case IngestCreated:
		now := time.Now()
		doc := &entity.KnowledgeDocument{
			DocUuid:          util.GenerateShortUUID(),
			ProjectId:        proj.Id,
			Filename:         decision.Filename,
			FileType:         decision.FileType,
			DocType:          decision.DocType,
			FileSize:         decision.FileSize,
			FileHash:         decision.FileHash,
			ExtractedText:    decision.Text,
			ExtractionStatus: entity.ExtractionStatusCompleted,
			IsActive:         true,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		conflict, err := s.kbRepo.CreateWithHashGuard(ctx, doc)
		if err != nil {
			zlog.Error("写入知识库文档失败", zap.Error(err), zap.String("filename", req.Filename))
			return nil, xerr.ErrServerError
		}
		if conflict != nil {
			// 并发上传同一文件时事务内复查命中
			return nil, xerr.New(xerr.BadRequest, fmt.Sprintf("相同内容的文档已存在: %s", conflict.Filename))
		}
		zlog.Info("知识库文档已创建", zap.String("docUuid", doc.DocUuid), zap.String("filename", doc.Filename), zap.String("fileHash", doc.FileHash))
		return &respond.UploadKBDocumentRespond{Outcome: string(IngestCreated), Document: toKBRespond(doc, false)}, nil
	default:
		return nil, xerr.ErrServerError
	}
}

func (s *knowledgeBaseService) List(ctx context.Context, isActive *bool, docType string) (*respond.KnowledgeDocumentListRespond, error) {
	docs, err := s.kbRepo.List(ctx, isActive, docType)
	if err != nil {
		zlog.Error("查询知识库文档列表失败", zap.Error(err))
		return nil, xerr.ErrServerError
	}
	total, err := s.kbRepo.CountAll(ctx)
	if err != nil {
		return nil, xerr.ErrServerError
	}
	active, err := s.kbRepo.CountActive(ctx)
	if err != nil {
		return nil, xerr.ErrServerError
	}

	items := make([]*respond.KnowledgeDocumentRespond, 0, len(docs))
	for i := range docs {
		items = append(items, toKBRespond(&docs[i], false))
	}
	return &respond.KnowledgeDocumentListRespond{Documents: items, TotalCount: total, ActiveCount: active}, nil
}

func (s *knowledgeBaseService) Get(ctx context.Context, docUuid string) (*respond.KnowledgeDocumentRespond, error) {
	doc, err := s.kbRepo.GetByUuid(ctx, docUuid)
	if err != nil {
		zlog.Error("查询知识库文档失败", zap.Error(err), zap.String("docUuid", docUuid))
		return nil, xerr.ErrServerError
	}
	if doc == nil {
		return nil, xerr.New(xerr.NotFound, "文档不存在: "+docUuid)
	}
	return toKBRespond(doc, true), nil
}

func (s *knowledgeBaseService) Update(ctx context.Context, docUuid string, req *request.UpdateKBDocumentRequest) (*respond.KnowledgeDocumentRespond, error) {
	doc, err := s.kbRepo.GetByUuid(ctx, docUuid)
	if err != nil {
		return nil, xerr.ErrServerError
	}
	if doc == nil {
		return nil, xerr.New(xerr.NotFound, "文档不存在: "+docUuid)
	}

	if req.Filename != nil && strings.TrimSpace(*req.Filename) != "" {
		doc.Filename = strings.TrimSpace(*req.Filename)
	}
	if req.DocType != nil {
		doc.DocType = *req.DocType
	}
	doc.UpdatedAt = time.Now()
	if err := s.kbRepo.Update(ctx, doc); err != nil {
		zlog.Error("更新知识库文档失败", zap.Error(err), zap.String("docUuid", docUuid))
		return nil, xerr.ErrServerError
	}

	// 激活状态的翻转走统一入口，且复活前要确认不会产生两条同指纹活跃记录
	if req.IsActive != nil && *req.IsActive != doc.IsActive {
		if *req.IsActive {
			existing, hErr := s.kbRepo.GetByHash(ctx, doc.FileHash)
			if hErr != nil {
				return nil, xerr.ErrServerError
			}
			if existing != nil && existing.Id != doc.Id && existing.IsActive {
				return nil, xerr.New(xerr.BadRequest, fmt.Sprintf("相同内容的文档已处于激活状态: %s", existing.Filename))
			}
		}
		if err := s.kbRepo.SetActive(ctx, doc.Id, *req.IsActive); err != nil {
			zlog.Error("翻转知识库文档状态失败", zap.Error(err), zap.String("docUuid", docUuid))
			return nil, xerr.ErrServerError
		}
		doc.IsActive = *req.IsActive
	}
	return toKBRespond(doc, false), nil
}

func (s *knowledgeBaseService) Delete(ctx context.Context, docUuid string, hard bool) error {
	doc, err := s.kbRepo.GetByUuid(ctx, docUuid)
	if err != nil {
		return xerr.ErrServerError
	}
	if doc == nil {
		return xerr.New(xerr.NotFound, "文档不存在: "+docUuid)
	}
	if hard {
		if err := s.kbRepo.Delete(ctx, doc.Id); err != nil {
			zlog.Error("物理删除知识库文档失败", zap.Error(err), zap.String("docUuid", docUuid))
			return xerr.ErrServerError
		}
		zlog.Info("知识库文档已物理删除", zap.String("docUuid", docUuid))
		return nil
	}
	if err := s.kbRepo.SetActive(ctx, doc.Id, false); err != nil {
		zlog.Error("停用知识库文档失败", zap.Error(err), zap.String("docUuid", docUuid))
		return xerr.ErrServerError
	}
	zlog.Info("知识库文档已停用", zap.String("docUuid", docUuid))
	return nil
}

func toKBRespond(doc *entity.KnowledgeDocument, withText bool) *respond.KnowledgeDocumentRespond {
	r := &respond.KnowledgeDocumentRespond{
		DocUuid:          doc.DocUuid,
		Filename:         doc.Filename,
		FileType:         doc.FileType,
		DocType:          doc.DocType,
		FileSize:         doc.FileSize,
		FileHash:         doc.FileHash,
		ExtractionStatus: doc.ExtractionStatus,
		IsActive:         doc.IsActive,
		CreatedAt:        doc.CreatedAt,
		UpdatedAt:        doc.UpdatedAt,
	}
	if withText {
		r.ExtractedText = doc.ExtractedText
	}
	return r
}

// extensionAllowed 扩展名是否在逗号分隔的白名单里
func extensionAllowed(ext, allowed string) bool {
	for _, a := range strings.Split(allowed, ",") {
		if strings.EqualFold(strings.TrimSpace(a), ext) {
			return true
		}
	}
	return false
}

// writeTempFile 把上传内容落到临时目录，文件名前缀随机避免同名覆盖
func writeTempFile(dir, filename string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, util.GenerateShortUUID()+"_"+filepath.Base(filename))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
