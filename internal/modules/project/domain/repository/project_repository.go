package repository

import (
	"context"

	"CaseForge/internal/modules/project/domain/entity"
)

// ProjectRepository 项目仓储
type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project) error
	// GetByUuid 只返回活跃项目，未命中返回 (nil, nil)
	GetByUuid(ctx context.Context, projectUuid string) (*entity.Project, error)
	List(ctx context.Context, skip, limit int) ([]entity.Project, error)
	Update(ctx context.Context, project *entity.Project) error
	SetActive(ctx context.Context, id int64, active bool) error
}
