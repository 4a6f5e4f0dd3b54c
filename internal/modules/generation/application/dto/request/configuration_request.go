package request

// CreateConfigurationRequest 创建生成配置
type CreateConfigurationRequest struct {
	ProjectUuid string  `json:"project_uuid" binding:"required"`
	Provider    string  `json:"provider" binding:"required"`
	Model       string  `json:"model" binding:"required"`
	BaseURL     string  `json:"base_url"`
	APIKey      string  `json:"api_key"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	KBEnabled   bool    `json:"kb_enabled"`
	KBThreshold float64 `json:"kb_threshold"`
	KBMaxDocs   int     `json:"kb_max_docs"`
}

// UpdateConfigurationRequest 部分更新，nil 表示不更新该字段；
// APIKey 传空字符串表示清除
type UpdateConfigurationRequest struct {
	Provider    *string  `json:"provider"`
	Model       *string  `json:"model"`
	BaseURL     *string  `json:"base_url"`
	APIKey      *string  `json:"api_key"`
	Temperature *float64 `json:"temperature"`
	MaxTokens   *int     `json:"max_tokens"`
	KBEnabled   *bool    `json:"kb_enabled"`
	KBThreshold *float64 `json:"kb_threshold"`
	KBMaxDocs   *int     `json:"kb_max_docs"`
}

// TestConnectionRequest 连接测试，未保存配置时可直接带参数测
type TestConnectionRequest struct {
	Provider string `json:"provider" binding:"required"`
	Model    string `json:"model" binding:"required"`
	BaseURL  string `json:"base_url"`
	APIKey   string `json:"api_key"`
}
