package persistence

import (
	"context"
	"time"

	"CaseForge/internal/modules/document/domain/entity"
	"CaseForge/internal/modules/document/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type knowledgeDocumentRepositoryImpl struct {
	db *gorm.DB
}

func NewKnowledgeDocumentRepository(db *gorm.DB) repository.KnowledgeDocumentRepository {
	return &knowledgeDocumentRepositoryImpl{db: db}
}

func (r *knowledgeDocumentRepositoryImpl) GetByHash(ctx context.Context, fileHash string) (*entity.KnowledgeDocument, error) {
	var doc entity.KnowledgeDocument
	err := r.db.WithContext(ctx).Where("file_hash = ?", fileHash).
		Order("is_active DESC, id DESC").First(&doc).Error
	if err == nil {
		return &doc, nil
	}
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	return nil, err
}

func (r *knowledgeDocumentRepositoryImpl) GetByUuid(ctx context.Context, docUuid string) (*entity.KnowledgeDocument, error) {
	var doc entity.KnowledgeDocument
	err := r.db.WithContext(ctx).Where("doc_uuid = ?", docUuid).Take(&doc).Error
	if err == nil {
		return &doc, nil
	}
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	return nil, err
}

// CreateWithHashGuard 查重与插入放在同一个事务里，并对同指纹行加锁，
// 序列化并发上传同一文件的场景；命中活跃记录时不插入，把既有记录带回去
func (r *knowledgeDocumentRepositoryImpl) CreateWithHashGuard(ctx context.Context, doc *entity.KnowledgeDocument) (*entity.KnowledgeDocument, error) {
	var conflict *entity.KnowledgeDocument
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entity.KnowledgeDocument
		qErr := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("file_hash = ? AND is_active = ?", doc.FileHash, true).
			Take(&existing).Error
		if qErr == nil {
			conflict = &existing
			return nil
		}
		if qErr != gorm.ErrRecordNotFound {
			return qErr
		}
		return tx.Create(doc).Error
	})
	if err != nil {
		return nil, err
	}
	return conflict, nil
}

func (r *knowledgeDocumentRepositoryImpl) SetActive(ctx context.Context, id int64, active bool) error {
	return r.db.WithContext(ctx).Model(&entity.KnowledgeDocument{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_active": active, "updated_at": time.Now()}).Error
}

func (r *knowledgeDocumentRepositoryImpl) Update(ctx context.Context, doc *entity.KnowledgeDocument) error {
	return r.db.WithContext(ctx).Save(doc).Error
}

func (r *knowledgeDocumentRepositoryImpl) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.KnowledgeDocument{}).Error
}

func (r *knowledgeDocumentRepositoryImpl) List(ctx context.Context, isActive *bool, docType string) ([]entity.KnowledgeDocument, error) {
	q := r.db.WithContext(ctx).Model(&entity.KnowledgeDocument{})
	if isActive != nil {
		q = q.Where("is_active = ?", *isActive)
	}
	if docType != "" {
		q = q.Where("doc_type = ?", docType)
	}
	var docs []entity.KnowledgeDocument
	err := q.Order("created_at DESC").Find(&docs).Error
	return docs, err
}

func (r *knowledgeDocumentRepositoryImpl) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.KnowledgeDocument{}).Count(&count).Error
	return count, err
}

func (r *knowledgeDocumentRepositoryImpl) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.KnowledgeDocument{}).
		Where("is_active = ?", true).Count(&count).Error
	return count, err
}
