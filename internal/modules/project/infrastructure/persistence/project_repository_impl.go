package persistence

import (
	"context"
	"time"

	"CaseForge/internal/modules/project/domain/entity"
	"CaseForge/internal/modules/project/domain/repository"

	"gorm.io/gorm"
)

type projectRepositoryImpl struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) repository.ProjectRepository {
	return &projectRepositoryImpl{db: db}
}

func (r *projectRepositoryImpl) Create(ctx context.Context, project *entity.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *projectRepositoryImpl) GetByUuid(ctx context.Context, projectUuid string) (*entity.Project, error) {
	var project entity.Project
	err := r.db.WithContext(ctx).
		Where("project_uuid = ? AND is_active = ?", projectUuid, true).
		Take(&project).Error
	if err == nil {
		return &project, nil
	}
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	return nil, err
}

func (r *projectRepositoryImpl) List(ctx context.Context, skip, limit int) ([]entity.Project, error) {
	var projects []entity.Project
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Offset(skip).Limit(limit).
		Find(&projects).Error
	return projects, err
}

func (r *projectRepositoryImpl) Update(ctx context.Context, project *entity.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

func (r *projectRepositoryImpl) SetActive(ctx context.Context, id int64, active bool) error {
	return r.db.WithContext(ctx).Model(&entity.Project{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_active": active, "updated_at": time.Now()}).Error
}
