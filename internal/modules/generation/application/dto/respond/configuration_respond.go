package respond

import "time"

// ConfigurationRespond 生成配置信息，APIKeyMasked 只含掩码
type ConfigurationRespond struct {
	ConfigUuid   string    `json:"config_uuid"`
	ProjectUuid  string    `json:"project_uuid"`
	Provider     string    `json:"provider"`
	Model        string    `json:"model"`
	BaseURL      string    `json:"base_url"`
	APIKeyMasked string    `json:"api_key_masked"`
	Temperature  float64   `json:"temperature"`
	MaxTokens    int       `json:"max_tokens"`
	KBEnabled    bool      `json:"kb_enabled"`
	KBThreshold  float64   `json:"kb_threshold"`
	KBMaxDocs    int       `json:"kb_max_docs"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ConfigurationListRespond 配置列表
type ConfigurationListRespond struct {
	Configurations []*ConfigurationRespond `json:"configurations"`
	Count          int                     `json:"count"`
}
