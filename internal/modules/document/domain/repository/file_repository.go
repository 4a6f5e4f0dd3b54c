package repository

import (
	"context"

	"CaseForge/internal/modules/document/domain/entity"
)

// FileRepository 需求文件仓储
type FileRepository interface {
	Create(ctx context.Context, file *entity.RequirementFile) error
	GetByUuid(ctx context.Context, fileUuid string) (*entity.RequirementFile, error)
	ListByProject(ctx context.Context, projectId int64) ([]entity.RequirementFile, error)
	Delete(ctx context.Context, id int64) error
}
