package persistence

import (
	"context"
	"time"

	"CaseForge/internal/modules/generation/domain/entity"
	"CaseForge/internal/modules/generation/domain/repository"

	"gorm.io/gorm"
)

type configurationRepositoryImpl struct {
	db *gorm.DB
}

func NewConfigurationRepository(db *gorm.DB) repository.ConfigurationRepository {
	return &configurationRepositoryImpl{db: db}
}

func (r *configurationRepositoryImpl) Create(ctx context.Context, conf *entity.Configuration) error {
	return r.db.WithContext(ctx).Create(conf).Error
}

func (r *configurationRepositoryImpl) GetByUuid(ctx context.Context, configUuid string) (*entity.Configuration, error) {
	var conf entity.Configuration
	err := r.db.WithContext(ctx).
		Where("config_uuid = ? AND is_active = ?", configUuid, true).
		Take(&conf).Error
	if err == nil {
		return &conf, nil
	}
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	return nil, err
}

func (r *configurationRepositoryImpl) GetAnyByUuid(ctx context.Context, configUuid string) (*entity.Configuration, error) {
	var conf entity.Configuration
	err := r.db.WithContext(ctx).Where("config_uuid = ?", configUuid).Take(&conf).Error
	if err == nil {
		return &conf, nil
	}
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	return nil, err
}

func (r *configurationRepositoryImpl) GetByProject(ctx context.Context, projectId int64) (*entity.Configuration, error) {
	var conf entity.Configuration
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND is_active = ?", projectId, true).
		Order("created_at DESC").
		Take(&conf).Error
	if err == nil {
		return &conf, nil
	}
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	return nil, err
}

func (r *configurationRepositoryImpl) List(ctx context.Context, projectId int64, skip, limit int) ([]entity.Configuration, error) {
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if projectId > 0 {
		q = q.Where("project_id = ?", projectId)
	}
	var confs []entity.Configuration
	err := q.Order("created_at DESC").Offset(skip).Limit(limit).Find(&confs).Error
	return confs, err
}

func (r *configurationRepositoryImpl) Update(ctx context.Context, conf *entity.Configuration) error {
	return r.db.WithContext(ctx).Save(conf).Error
}

func (r *configurationRepositoryImpl) SetActive(ctx context.Context, id int64, active bool) error {
	return r.db.WithContext(ctx).Model(&entity.Configuration{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_active": active, "updated_at": time.Now()}).Error
}

func (r *configurationRepositoryImpl) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Configuration{}).Error
}
