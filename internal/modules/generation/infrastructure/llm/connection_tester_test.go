package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ollamaStub(t *testing.T, tagsStatus int, tagsBody string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			w.WriteHeader(tagsStatus)
			_, _ = w.Write([]byte(tagsBody))
		case "/api/generate":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"response":"ok","done":true}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOllamaProbeSuccess(t *testing.T) {
	srv := ollamaStub(t, http.StatusOK, `{"models":[{"name":"llama3:latest"}]}`)

	tester := NewConnectionTester()
	result := tester.Test(context.Background(), ProviderSettings{
		Provider: "ollama",
		Model:    "llama3",
		BaseURL:  srv.URL,
	})
	require.True(t, result.Success, result.Error)
	assert.Contains(t, result.Message, "llama3")
	assert.GreaterOrEqual(t, result.LatencyMs, int64(0))
	assert.Empty(t, result.Error)
}

func TestOllamaProbeNon200Tags(t *testing.T) {
	// 非 200 直接按状态码报错，不去解析响应体
	srv := ollamaStub(t, http.StatusInternalServerError, `<html>internal error</html>`)

	tester := NewConnectionTester()
	result := tester.Test(context.Background(), ProviderSettings{
		Provider: "ollama",
		Model:    "llama3",
		BaseURL:  srv.URL,
	})
	require.False(t, result.Success)
	assert.Contains(t, result.Error, "500")
	assert.NotContains(t, result.Error, "解析 ollama 模型列表失败")
}

func TestOllamaProbeMalformedTags(t *testing.T) {
	srv := ollamaStub(t, http.StatusOK, `not-json`)

	tester := NewConnectionTester()
	result := tester.Test(context.Background(), ProviderSettings{
		Provider: "ollama",
		Model:    "llama3",
		BaseURL:  srv.URL,
	})
	require.False(t, result.Success)
	assert.Contains(t, result.Error, "解析 ollama 模型列表失败")
}

func TestOllamaProbeModelNotInstalled(t *testing.T) {
	srv := ollamaStub(t, http.StatusOK, `{"models":[{"name":"qwen2:7b"}]}`)

	tester := NewConnectionTester()
	result := tester.Test(context.Background(), ProviderSettings{
		Provider: "ollama",
		Model:    "llama3",
		BaseURL:  srv.URL,
	})
	require.False(t, result.Success)
	assert.Contains(t, result.Error, "未安装")
}

func TestOllamaProbeUnreachable(t *testing.T) {
	tester := NewConnectionTester()
	result := tester.Test(context.Background(), ProviderSettings{
		Provider: "ollama",
		Model:    "llama3",
		BaseURL:  "http://127.0.0.1:1",
	})
	require.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestUnknownProvider(t *testing.T) {
	tester := NewConnectionTester()
	result := tester.Test(context.Background(), ProviderSettings{Provider: "foo", Model: "bar"})
	require.False(t, result.Success)
	assert.Contains(t, result.Error, "不支持的提供商")
}
