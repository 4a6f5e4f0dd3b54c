package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"CaseForge/internal/modules/generation/domain/entity"

	openaiModel "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
)

// 各提供商 OpenAI 兼容接口的默认端点
const (
	openRouterBaseURL = "https://openrouter.ai/api/v1"
	deepseekBaseURL   = "https://api.deepseek.com/v1"
)

// ProviderSettings 构建 ChatModel 所需的最小参数集，api key 已解密
type ProviderSettings struct {
	Provider    string
	Model       string
	BaseURL     string
	APIKey      string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// NewChatModel 按提供商构建 Eino ChatModel。
// openrouter / deepseek 走 OpenAI 兼容端点；ollama 与 gemini 用
// ConnectionTester 的原生探测，不经过本工厂
func NewChatModel(ctx context.Context, settings ProviderSettings) (model.BaseChatModel, error) {
	provider := strings.ToLower(strings.TrimSpace(settings.Provider))
	modelName := strings.TrimSpace(settings.Model)
	if modelName == "" {
		return nil, fmt.Errorf("模型名称不能为空")
	}

	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	switch provider {
	case entity.ProviderOpenRouter, entity.ProviderDeepseek:
		apiKey := strings.TrimSpace(settings.APIKey)
		if apiKey == "" {
			return nil, fmt.Errorf("%s 需要配置 API Key", provider)
		}
		baseURL := strings.TrimSpace(settings.BaseURL)
		if baseURL == "" {
			if provider == entity.ProviderOpenRouter {
				baseURL = openRouterBaseURL
			} else {
				baseURL = deepseekBaseURL
			}
		}

		temperature := float32(settings.Temperature)
		cfg := &openaiModel.ChatModelConfig{
			APIKey:      apiKey,
			Model:       modelName,
			BaseURL:     baseURL,
			Temperature: &temperature,
			Timeout:     timeout,
		}
		if settings.MaxTokens > 0 {
			maxTokens := settings.MaxTokens
			cfg.MaxTokens = &maxTokens
		}
		return openaiModel.NewChatModel(ctx, cfg)

	default:
		return nil, fmt.Errorf("不支持的提供商: %s", settings.Provider)
	}
}
