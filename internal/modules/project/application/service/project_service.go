package service

import (
	"context"
	"strings"
	"time"

	"CaseForge/internal/modules/project/application/dto/request"
	"CaseForge/internal/modules/project/application/dto/respond"
	"CaseForge/internal/modules/project/domain/entity"
	"CaseForge/internal/modules/project/domain/repository"
	"CaseForge/pkg/util"
	"CaseForge/pkg/xerr"
	"CaseForge/pkg/zlog"

	"go.uber.org/zap"
)

// ProjectService 项目服务
type ProjectService interface {
	Create(ctx context.Context, req *request.CreateProjectRequest) (*respond.ProjectRespond, error)
	Get(ctx context.Context, projectUuid string) (*respond.ProjectRespond, error)
	List(ctx context.Context, skip, limit int) (*respond.ProjectListRespond, error)
	Update(ctx context.Context, projectUuid string, req *request.UpdateProjectRequest) (*respond.ProjectRespond, error)
	// Delete 软删除，历史数据保留
	Delete(ctx context.Context, projectUuid string) error
}

type projectService struct {
	projRepo repository.ProjectRepository
}

func NewProjectService(projRepo repository.ProjectRepository) ProjectService {
	return &projectService{projRepo: projRepo}
}

func (s *projectService) Create(ctx context.Context, req *request.CreateProjectRequest) (*respond.ProjectRespond, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, xerr.New(xerr.BadRequest, "项目名称不能为空")
	}

	now := time.Now()
	project := &entity.Project{
		ProjectUuid: util.GenerateShortUUID(),
		Name:        name,
		Description: req.Description,
		KBEnabled:   req.KBEnabled,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.projRepo.Create(ctx, project); err != nil {
		zlog.Error("创建项目失败", zap.Error(err), zap.String("name", name))
		return nil, xerr.ErrServerError
	}
	zlog.Info("项目已创建", zap.String("projectUuid", project.ProjectUuid), zap.String("name", name))
	return toProjectRespond(project), nil
}

func (s *projectService) Get(ctx context.Context, projectUuid string) (*respond.ProjectRespond, error) {
	project, err := s.projRepo.GetByUuid(ctx, projectUuid)
	if err != nil {
		zlog.Error("查询项目失败", zap.Error(err), zap.String("projectUuid", projectUuid))
		return nil, xerr.ErrServerError
	}
	if project == nil {
		return nil, xerr.New(xerr.NotFound, "项目不存在: "+projectUuid)
	}
	return toProjectRespond(project), nil
}

func (s *projectService) List(ctx context.Context, skip, limit int) (*respond.ProjectListRespond, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}
	projects, err := s.projRepo.List(ctx, skip, limit)
	if err != nil {
		zlog.Error("查询项目列表失败", zap.Error(err))
		return nil, xerr.ErrServerError
	}
	items := make([]*respond.ProjectRespond, 0, len(projects))
	for i := range projects {
		items = append(items, toProjectRespond(&projects[i]))
	}
	return &respond.ProjectListRespond{Projects: items, Count: len(items)}, nil
}

func (s *projectService) Update(ctx context.Context, projectUuid string, req *request.UpdateProjectRequest) (*respond.ProjectRespond, error) {
	project, err := s.projRepo.GetByUuid(ctx, projectUuid)
	if err != nil {
		return nil, xerr.ErrServerError
	}
	if project == nil {
		return nil, xerr.New(xerr.NotFound, "项目不存在: "+projectUuid)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, xerr.New(xerr.BadRequest, "项目名称不能为空")
		}
		project.Name = name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.KBEnabled != nil {
		project.KBEnabled = *req.KBEnabled
	}
	project.UpdatedAt = time.Now()

	if err := s.projRepo.Update(ctx, project); err != nil {
		zlog.Error("更新项目失败", zap.Error(err), zap.String("projectUuid", projectUuid))
		return nil, xerr.ErrServerError
	}
	return toProjectRespond(project), nil
}

func (s *projectService) Delete(ctx context.Context, projectUuid string) error {
	project, err := s.projRepo.GetByUuid(ctx, projectUuid)
	if err != nil {
		return xerr.ErrServerError
	}
	if project == nil {
		return xerr.New(xerr.NotFound, "项目不存在: "+projectUuid)
	}
	if err := s.projRepo.SetActive(ctx, project.Id, false); err != nil {
		zlog.Error("停用项目失败", zap.Error(err), zap.String("projectUuid", projectUuid))
		return xerr.ErrServerError
	}
	zlog.Info("项目已停用", zap.String("projectUuid", projectUuid))
	return nil
}

func toProjectRespond(project *entity.Project) *respond.ProjectRespond {
	return &respond.ProjectRespond{
		ProjectUuid:     project.ProjectUuid,
		Name:            project.Name,
		Description:     project.Description,
		KBEnabled:       project.KBEnabled,
		KBDocumentCount: project.KBDocumentCount,
		CreatedAt:       project.CreatedAt,
		UpdatedAt:       project.UpdatedAt,
	}
}
