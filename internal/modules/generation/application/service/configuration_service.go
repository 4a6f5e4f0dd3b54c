package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"CaseForge/internal/config"
	"CaseForge/internal/modules/generation/application/dto/request"
	"CaseForge/internal/modules/generation/application/dto/respond"
	"CaseForge/internal/modules/generation/domain/entity"
	"CaseForge/internal/modules/generation/domain/repository"
	"CaseForge/internal/modules/generation/infrastructure/llm"
	"CaseForge/internal/modules/generation/infrastructure/secret"
	projectRepo "CaseForge/internal/modules/project/domain/repository"
	"CaseForge/pkg/util"
	"CaseForge/pkg/xerr"
	"CaseForge/pkg/zlog"

	"go.uber.org/zap"
)

var supportedProviders = map[string]bool{
	entity.ProviderOllama:     true,
	entity.ProviderOpenRouter: true,
	entity.ProviderDeepseek:   true,
	entity.ProviderGemini:     true,
}

// ConfigurationService 生成配置服务，API Key 加密落库、响应只回掩码
type ConfigurationService interface {
	Create(ctx context.Context, req *request.CreateConfigurationRequest) (*respond.ConfigurationRespond, error)
	Get(ctx context.Context, configUuid string) (*respond.ConfigurationRespond, error)
	GetByProject(ctx context.Context, projectUuid string) (*respond.ConfigurationRespond, error)
	List(ctx context.Context, projectUuid string, skip, limit int) (*respond.ConfigurationListRespond, error)
	Update(ctx context.Context, configUuid string, req *request.UpdateConfigurationRequest) (*respond.ConfigurationRespond, error)
	Delete(ctx context.Context, configUuid string) error
	// TestConnection 用请求里的参数探测，apiKey 为空时回落到已保存配置
	TestConnection(ctx context.Context, configUuid string, req *request.TestConnectionRequest) (*llm.TestResult, error)
}

type configurationService struct {
	confRepo repository.ConfigurationRepository
	projRepo projectRepo.ProjectRepository
	cipher   *secret.Cipher
	tester   llm.ConnectionTester
}

func NewConfigurationService(confRepo repository.ConfigurationRepository, projRepo projectRepo.ProjectRepository, cipher *secret.Cipher, tester llm.ConnectionTester) ConfigurationService {
	return &configurationService{confRepo: confRepo, projRepo: projRepo, cipher: cipher, tester: tester}
}

func (s *configurationService) Create(ctx context.Context, req *request.CreateConfigurationRequest) (*respond.ConfigurationRespond, error) {
	provider := strings.ToLower(strings.TrimSpace(req.Provider))
	if !supportedProviders[provider] {
		return nil, xerr.New(xerr.BadRequest, fmt.Sprintf("不支持的提供商: %s", req.Provider))
	}

	proj, err := s.projRepo.GetByUuid(ctx, req.ProjectUuid)
	if err != nil {
		return nil, xerr.ErrServerError
	}
	if proj == nil {
		return nil, xerr.New(xerr.NotFound, "项目不存在: "+req.ProjectUuid)
	}

	encrypted := ""
	if req.APIKey != "" {
		encrypted, err = s.cipher.Encrypt(req.APIKey)
		if err != nil {
			zlog.Error("加密 API Key 失败", zap.Error(err))
			return nil, xerr.ErrServerError
		}
	}

	now := time.Now()
	conf := &entity.Configuration{
		ConfigUuid:      util.GenerateShortUUID(),
		ProjectId:       proj.Id,
		Provider:        provider,
		Model:           strings.TrimSpace(req.Model),
		BaseURL:         strings.TrimSpace(req.BaseURL),
		APIKeyEncrypted: encrypted,
		Temperature:     req.Temperature,
		MaxTokens:       req.MaxTokens,
		KBEnabled:       req.KBEnabled,
		KBThreshold:     req.KBThreshold,
		KBMaxDocs:       req.KBMaxDocs,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	applyConfDefaults(conf)

	// 同一项目同时只保留一份活跃配置
	if old, gErr := s.confRepo.GetByProject(ctx, proj.Id); gErr == nil && old != nil {
		if err := s.confRepo.SetActive(ctx, old.Id, false); err != nil {
			zlog.Error("停用旧配置失败", zap.Error(err), zap.String("configUuid", old.ConfigUuid))
			return nil, xerr.ErrServerError
		}
	}

	if err := s.confRepo.Create(ctx, conf); err != nil {
		zlog.Error("创建生成配置失败", zap.Error(err), zap.String("projectUuid", req.ProjectUuid))
		return nil, xerr.ErrServerError
	}
	zlog.Info("生成配置已创建", zap.String("configUuid", conf.ConfigUuid), zap.String("provider", provider))
	return s.toRespond(conf, req.ProjectUuid), nil
}

func (s *configurationService) Get(ctx context.Context, configUuid string) (*respond.ConfigurationRespond, error) {
	conf, err := s.confRepo.GetByUuid(ctx, configUuid)
	if err != nil {
		return nil, xerr.ErrServerError
	}
	if conf == nil {
		return nil, xerr.New(xerr.NotFound, "配置不存在: "+configUuid)
	}
	return s.toRespond(conf, ""), nil
}

func (s *configurationService) GetByProject(ctx context.Context, projectUuid string) (*respond.ConfigurationRespond, error) {
	proj, err := s.projRepo.GetByUuid(ctx, projectUuid)
	if err != nil {
		return nil, xerr.ErrServerError
	}
	if proj == nil {
		return nil, xerr.New(xerr.NotFound, "项目不存在: "+projectUuid)
	}
	conf, err := s.confRepo.GetByProject(ctx, proj.Id)
	if err != nil {
		return nil, xerr.ErrServerError
	}
	if conf == nil {
		return nil, xerr.New(xerr.NotFound, "项目尚未配置: "+projectUuid)
	}
	return s.toRespond(conf, projectUuid), nil
}

func (s *configurationService) List(ctx context.Context, projectUuid string, skip, limit int) (*respond.ConfigurationListRespond, error) {
	var projectId int64
	if projectUuid != "" {
		proj, err := s.projRepo.GetByUuid(ctx, projectUuid)
		if err != nil {
			return nil, xerr.ErrServerError
		}
		if proj == nil {
			return nil, xerr.New(xerr.NotFound, "项目不存在: "+projectUuid)
		}
		projectId = proj.Id
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}
	confs, err := s.confRepo.List(ctx, projectId, skip, limit)
	if err != nil {
		zlog.Error("查询生成配置列表失败", zap.Error(err))
		return nil, xerr.ErrServerError
	}
	items := make([]*respond.ConfigurationRespond, 0, len(confs))
	for i := range confs {
		items = append(items, s.toRespond(&confs[i], projectUuid))
	}
	return &respond.ConfigurationListRespond{Configurations: items, Count: len(items)}, nil
}

func (s *configurationService) Update(ctx context.Context, configUuid string, req *request.UpdateConfigurationRequest) (*respond.ConfigurationRespond, error) {
	conf, err := s.confRepo.GetByUuid(ctx, configUuid)
	if err != nil {
		return nil, xerr.ErrServerError
	}
	if conf == nil {
		return nil, xerr.New(xerr.NotFound, "配置不存在: "+configUuid)
	}

	if req.Provider != nil {
		provider := strings.ToLower(strings.TrimSpace(*req.Provider))
		if !supportedProviders[provider] {
			return nil, xerr.New(xerr.BadRequest, fmt.Sprintf("不支持的提供商: %s", *req.Provider))
		}
		conf.Provider = provider
	}
	if req.Model != nil && strings.TrimSpace(*req.Model) != "" {
		conf.Model = strings.TrimSpace(*req.Model)
	}
	if req.BaseURL != nil {
		conf.BaseURL = strings.TrimSpace(*req.BaseURL)
	}
	if req.APIKey != nil {
		if *req.APIKey == "" {
			conf.APIKeyEncrypted = ""
		} else {
			encrypted, eErr := s.cipher.Encrypt(*req.APIKey)
			if eErr != nil {
				zlog.Error("加密 API Key 失败", zap.Error(eErr))
				return nil, xerr.ErrServerError
			}
			conf.APIKeyEncrypted = encrypted
		}
	}
	if req.Temperature != nil {
		conf.Temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		conf.MaxTokens = *req.MaxTokens
	}
	if req.KBEnabled != nil {
		conf.KBEnabled = *req.KBEnabled
	}
	if req.KBThreshold != nil {
		conf.KBThreshold = *req.KBThreshold
	}
	if req.KBMaxDocs != nil {
		conf.KBMaxDocs = *req.KBMaxDocs
	}
	applyConfDefaults(conf)
	conf.UpdatedAt = time.Now()

	if err := s.confRepo.Update(ctx, conf); err != nil {
		zlog.Error("更新生成配置失败", zap.Error(err), zap.String("configUuid", configUuid))
		return nil, xerr.ErrServerError
	}
	return s.toRespond(conf, ""), nil
}

func (s *configurationService) Delete(ctx context.Context, configUuid string) error {
	conf, err := s.confRepo.GetAnyByUuid(ctx, configUuid)
	if err != nil {
		return xerr.ErrServerError
	}
	if conf == nil {
		return xerr.New(xerr.NotFound, "配置不存在: "+configUuid)
	}
	if err := s.confRepo.Delete(ctx, conf.Id); err != nil {
		zlog.Error("删除生成配置失败", zap.Error(err), zap.String("configUuid", configUuid))
		return xerr.ErrServerError
	}
	zlog.Info("生成配置已删除", zap.String("configUuid", configUuid))
	return nil
}

func (s *configurationService) TestConnection(ctx context.Context, configUuid string, req *request.TestConnectionRequest) (*llm.TestResult, error) {
	provider := strings.ToLower(strings.TrimSpace(req.Provider))
	if !supportedProviders[provider] {
		return nil, xerr.New(xerr.BadRequest, fmt.Sprintf("不支持的提供商: %s", req.Provider))
	}

	apiKey := req.APIKey
	baseURL := strings.TrimSpace(req.BaseURL)
	if apiKey == "" && configUuid != "" {
		conf, err := s.confRepo.GetByUuid(ctx, configUuid)
		if err != nil {
			return nil, xerr.ErrServerError
		}
		if conf != nil && conf.APIKeyEncrypted != "" {
			apiKey, err = s.cipher.Decrypt(conf.APIKeyEncrypted)
			if err != nil {
				zlog.Error("解密 API Key 失败", zap.Error(err), zap.String("configUuid", configUuid))
				return nil, xerr.ErrServerError
			}
		}
		if conf != nil && baseURL == "" {
			baseURL = conf.BaseURL
		}
	}
	if provider == entity.ProviderOllama && baseURL == "" {
		baseURL = config.GetConfig().LLMConfig.OllamaBaseURL
	}

	return s.tester.Test(ctx, llm.ProviderSettings{
		Provider: provider,
		Model:    strings.TrimSpace(req.Model),
		BaseURL:  baseURL,
		APIKey:   apiKey,
	}), nil
}

func applyConfDefaults(conf *entity.Configuration) {
	if conf.Temperature <= 0 {
		conf.Temperature = 0.7
	}
	if conf.MaxTokens <= 0 {
		conf.MaxTokens = 2000
	}
	if conf.KBThreshold <= 0 {
		conf.KBThreshold = 0.7
	}
	if conf.KBMaxDocs <= 0 {
		conf.KBMaxDocs = 5
	}
}

func (s *configurationService) toRespond(conf *entity.Configuration, projectUuid string) *respond.ConfigurationRespond {
	masked := ""
	if conf.APIKeyEncrypted != "" {
		if plain, err := s.cipher.Decrypt(conf.APIKeyEncrypted); err == nil {
			masked = secret.MaskAPIKey(plain)
		} else {
			masked = "****"
		}
	}
	return &respond.ConfigurationRespond{
		ConfigUuid:   conf.ConfigUuid,
		ProjectUuid:  projectUuid,
		Provider:     conf.Provider,
		Model:        conf.Model,
		BaseURL:      conf.BaseURL,
		APIKeyMasked: masked,
		Temperature:  conf.Temperature,
		MaxTokens:    conf.MaxTokens,
		KBEnabled:    conf.KBEnabled,
		KBThreshold:  conf.KBThreshold,
		KBMaxDocs:    conf.KBMaxDocs,
		IsActive:     conf.IsActive,
		CreatedAt:    conf.CreatedAt,
		UpdatedAt:    conf.UpdatedAt,
	}
}
