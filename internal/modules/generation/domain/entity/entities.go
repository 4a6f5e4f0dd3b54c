package entity

import "time"

// 支持的 LLM 提供商
const (
	ProviderOllama     = "ollama"
	ProviderOpenRouter = "openrouter"
	ProviderDeepseek   = "deepseek"
	ProviderGemini     = "gemini"
)

// Configuration 项目级 LLM 与生成参数配置
type Configuration struct {
	Id              int64     `gorm:"column:id;primaryKey;autoIncrement"`
	ConfigUuid      string    `gorm:"column:config_uuid;type:char(32);not null;uniqueIndex:uniq_config_uuid"`
	ProjectId       int64     `gorm:"column:project_id;not null;index:idx_config_project"`
	Provider        string    `gorm:"column:provider;type:varchar(50);not null;default:ollama"`
	Model           string    `gorm:"column:model;type:varchar(100);not null;default:llama3"`
	BaseURL         string    `gorm:"column:base_url;type:varchar(255)"`
	APIKeyEncrypted string    `gorm:"column:api_key_encrypted;type:text"` // AES-GCM 密文，响应中只返回掩码
	Temperature     float64   `gorm:"column:temperature;not null;default:0.7"`
	MaxTokens       int       `gorm:"column:max_tokens;type:int;not null;default:2000"`
	KBEnabled       bool      `gorm:"column:kb_enabled;not null;default:false"`
	KBThreshold     float64   `gorm:"column:kb_threshold;not null;default:0.7"`
	KBMaxDocs       int       `gorm:"column:kb_max_docs;type:int;not null;default:5"`
	KBSettingsJson  string    `gorm:"column:kb_settings_json;type:json"`
	IsActive        bool      `gorm:"column:is_active;not null;default:true;index:idx_config_active"`
	CreatedAt       time.Time `gorm:"column:created_at;type:datetime;not null"`
	UpdatedAt       time.Time `gorm:"column:updated_at;type:datetime;not null"`
}

func (Configuration) TableName() string { return "configurations" }
