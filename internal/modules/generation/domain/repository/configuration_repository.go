package repository

import (
	"context"

	"CaseForge/internal/modules/generation/domain/entity"
)

// ConfigurationRepository 生成配置仓储
type ConfigurationRepository interface {
	Create(ctx context.Context, conf *entity.Configuration) error
	// GetByUuid 只返回活跃配置，未命中返回 (nil, nil)
	GetByUuid(ctx context.Context, configUuid string) (*entity.Configuration, error)
	// GetAnyByUuid 不区分活跃状态，删除接口用
	GetAnyByUuid(ctx context.Context, configUuid string) (*entity.Configuration, error)
	// GetByProject 项目当前活跃配置
	GetByProject(ctx context.Context, projectId int64) (*entity.Configuration, error)
	List(ctx context.Context, projectId int64, skip, limit int) ([]entity.Configuration, error)
	Update(ctx context.Context, conf *entity.Configuration) error
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
}
