package repository

import (
	"context"

	"CaseForge/internal/modules/document/domain/entity"
)

// KnowledgeDocumentRepository 知识库文档仓储
type KnowledgeDocumentRepository interface {
	// GetByHash 按内容指纹查询，未命中返回 (nil, nil)
	GetByHash(ctx context.Context, fileHash string) (*entity.KnowledgeDocument, error)
	GetByUuid(ctx context.Context, docUuid string) (*entity.KnowledgeDocument, error)
	// CreateWithHashGuard 在事务内复查"同指纹活跃记录"后再插入，
	// 避免并发上传同一文件时双双落库；命中活跃记录时返回该记录且不插入
	CreateWithHashGuard(ctx context.Context, doc *entity.KnowledgeDocument) (*entity.KnowledgeDocument, error)
	// SetActive 停用/复活的唯一入口
	SetActive(ctx context.Context, id int64, active bool) error
	Update(ctx context.Context, doc *entity.KnowledgeDocument) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, isActive *bool, docType string) ([]entity.KnowledgeDocument, error)
	CountAll(ctx context.Context) (int64, error)
	CountActive(ctx context.Context) (int64, error)
}
