package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"CaseForge/internal/modules/generation/domain/entity"
	"CaseForge/pkg/zlog"

	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"
)

const (
	ollamaProbeTimeout = 10 * time.Second
	chatProbeTimeout   = 15 * time.Second
	chatProbeMaxTokens = 10

	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
)

// TestResult 连接测试结果
type TestResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// ConnectionTester 按提供商探测连通性，api key 由调用方解密后传入
type ConnectionTester interface {
	Test(ctx context.Context, settings ProviderSettings) *TestResult
}

type connectionTester struct {
	client *http.Client
}

func NewConnectionTester() ConnectionTester {
	return &connectionTester{client: &http.Client{}}
}

func (t *connectionTester) Test(ctx context.Context, settings ProviderSettings) *TestResult {
	start := time.Now()
	provider := strings.ToLower(strings.TrimSpace(settings.Provider))

	var err error
	switch provider {
	case entity.ProviderOllama:
		err = t.probeOllama(ctx, settings)
	case entity.ProviderOpenRouter, entity.ProviderDeepseek:
		err = t.probeChatCompletion(ctx, settings)
	case entity.ProviderGemini:
		err = t.probeGemini(ctx, settings)
	default:
		err = fmt.Errorf("不支持的提供商: %s", settings.Provider)
	}

	latency := time.Since(start).Milliseconds()
	if err != nil {
		zlog.Warn("LLM 连接测试失败", zap.String("provider", provider), zap.Error(err))
		return &TestResult{
			Success:   false,
			Message:   fmt.Sprintf("连接 %s 失败", provider),
			LatencyMs: latency,
			Error:     err.Error(),
		}
	}
	return &TestResult{
		Success:   true,
		Message:   fmt.Sprintf("连接 %s 成功，模型 %s 可用", provider, settings.Model),
		LatencyMs: latency,
	}
}

// probeOllama 先查 /api/tags 确认模型已拉取，再发一次最小生成请求
func (t *connectionTester) probeOllama(ctx context.Context, settings ProviderSettings) error {
	ctx, cancel := context.WithTimeout(ctx, ollamaProbeTimeout)
	defer cancel()

	baseURL := strings.TrimRight(settings.BaseURL, "/")
	if baseURL == "" {
		return fmt.Errorf("ollama 服务地址未配置")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("无法连接 ollama 服务: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return fmt.Errorf("ollama 服务返回 %d", resp.StatusCode)
	}
	var tags struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	decodeErr := json.NewDecoder(resp.Body).Decode(&tags)
	_ = resp.Body.Close()
	if decodeErr != nil {
		return fmt.Errorf("解析 ollama 模型列表失败: %w", decodeErr)
	}
	found := false
	for _, m := range tags.Models {
		if m.Name == settings.Model || strings.SplitN(m.Name, ":", 2)[0] == settings.Model {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("模型 %s 未安装，请先执行 ollama pull %s", settings.Model, settings.Model)
	}

	body, _ := json.Marshal(map[string]interface{}{
		"model":  settings.Model,
		"prompt": "Test",
		"stream": false,
	})
	genReq, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return err
	}
	genReq.Header.Set("Content-Type", "application/json")
	genResp, err := t.client.Do(genReq)
	if err != nil {
		return fmt.Errorf("ollama 生成测试失败: %w", err)
	}
	defer func() { _ = genResp.Body.Close() }()
	if genResp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(genResp.Body, 512))
		return fmt.Errorf("ollama 生成测试返回 %d: %s", genResp.StatusCode, string(raw))
	}
	return nil
}

// probeChatCompletion openrouter / deepseek 走 OpenAI 兼容接口发一条最小消息
func (t *connectionTester) probeChatCompletion(ctx context.Context, settings ProviderSettings) error {
	ctx, cancel := context.WithTimeout(ctx, chatProbeTimeout)
	defer cancel()

	settings.MaxTokens = chatProbeMaxTokens
	settings.Timeout = chatProbeTimeout
	cm, err := NewChatModel(ctx, settings)
	if err != nil {
		return err
	}
	_, err = cm.Generate(ctx, []*schema.Message{
		{Role: schema.User, Content: "Test"},
	})
	if err != nil {
		return fmt.Errorf("调用失败: %w", err)
	}
	return nil
}

// probeGemini 直连 generateContent 接口
func (t *connectionTester) probeGemini(ctx context.Context, settings ProviderSettings) error {
	ctx, cancel := context.WithTimeout(ctx, chatProbeTimeout)
	defer cancel()

	apiKey := strings.TrimSpace(settings.APIKey)
	if apiKey == "" {
		return fmt.Errorf("gemini 需要配置 API Key")
	}
	baseURL := strings.TrimRight(settings.BaseURL, "/")
	if baseURL == "" {
		baseURL = geminiBaseURL
	}

	body, _ := json.Marshal(map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": "Test"}}},
		},
		"generationConfig": map[string]interface{}{
			"maxOutputTokens": chatProbeMaxTokens,
		},
	})
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", baseURL, settings.Model, apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("无法连接 gemini 服务: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gemini 返回 %d: %s", resp.StatusCode, string(raw))
	}
	return nil
}
