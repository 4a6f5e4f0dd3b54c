package persistence

import (
	"context"

	"CaseForge/internal/modules/document/domain/entity"
	"CaseForge/internal/modules/document/domain/repository"

	"gorm.io/gorm"
)

type fileRepositoryImpl struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) repository.FileRepository {
	return &fileRepositoryImpl{db: db}
}

func (r *fileRepositoryImpl) Create(ctx context.Context, file *entity.RequirementFile) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *fileRepositoryImpl) GetByUuid(ctx context.Context, fileUuid string) (*entity.RequirementFile, error) {
	var file entity.RequirementFile
	err := r.db.WithContext(ctx).Where("file_uuid = ?", fileUuid).Take(&file).Error
	if err == nil {
		return &file, nil
	}
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	return nil, err
}

func (r *fileRepositoryImpl) ListByProject(ctx context.Context, projectId int64) ([]entity.RequirementFile, error) {
	var files []entity.RequirementFile
	err := r.db.WithContext(ctx).Where("project_id = ?", projectId).
		Order("created_at DESC").Find(&files).Error
	return files, err
}

func (r *fileRepositoryImpl) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.RequirementFile{}).Error
}
