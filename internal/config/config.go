package config

import (
	"log"
	"os"

	"github.com/BurntSushi/toml"
)

type MainConfig struct {
	AppName string `toml:"appName"`
	Version string `toml:"version"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
}

type MysqlConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	DatabaseName string `toml:"databaseName"`
}

type LogConfig struct {
	LogPath string `toml:"logPath"`
}

// UploadConfig 需求文件上传限制
type UploadConfig struct {
	MaxUploadSizeMB   int    `toml:"maxUploadSizeMB"`
	MaxFilesPerUpload int    `toml:"maxFilesPerUpload"`
	TempFileDir       string `toml:"tempFileDir"`
	FileStorageDir    string `toml:"fileStorageDir"` // 需求文件的持久化目录，删除接口才清理
	AllowedExtensions string `toml:"allowedExtensions"` // 逗号分隔，如 ".pdf,.xlsx,.xls,.txt"
}

// KnowledgeBaseConfig 知识库文档上传限制
type KnowledgeBaseConfig struct {
	MaxFileSizeMB     int    `toml:"maxFileSizeMB"`
	MaxDocuments      int    `toml:"maxDocuments"`
	AllowedExtensions string `toml:"allowedExtensions"` // 逗号分隔，如 ".pdf,.txt,.md"
}

// SecretConfig API Key 加密配置
type SecretConfig struct {
	EncryptionKey string `toml:"encryptionKey"` // 32 字节以内会自动补齐
}

// LLMConfig 连接测试的默认参数
type LLMConfig struct {
	OllamaBaseURL  string `toml:"ollamaBaseURL"`
	TimeoutSeconds int    `toml:"timeoutSeconds"`
}

type Config struct {
	MainConfig          `toml:"mainConfig"`
	MysqlConfig         `toml:"mysqlConfig"`
	LogConfig           `toml:"logConfig"`
	UploadConfig        `toml:"uploadConfig"`
	KnowledgeBaseConfig `toml:"knowledgeBaseConfig"`
	SecretConfig        `toml:"secretConfig"`
	LLMConfig           `toml:"llmConfig"`
}

var config *Config

func LoadConfig() error {
	if config == nil {
		config = new(Config)
	}
	configPath := "configs/config_local.toml"
	if p := os.Getenv("CASEFORGE_CONFIG"); p != "" {
		configPath = p
	}
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		log.Printf("加载配置文件失败: %v, 尝试使用默认设置", err)
		config.applyDefaults()
		return err
	}
	config.applyDefaults()
	return nil
}

// applyDefaults 对关键的上传限制做兜底，避免 0 值放开校验
func (c *Config) applyDefaults() {
	if c.AppName == "" {
		c.AppName = "CaseForge"
	}
	if c.Version == "" {
		c.Version = "1.0.0"
	}
	if c.UploadConfig.MaxUploadSizeMB <= 0 {
		c.UploadConfig.MaxUploadSizeMB = 50
	}
	if c.UploadConfig.MaxFilesPerUpload <= 0 {
		c.UploadConfig.MaxFilesPerUpload = 10
	}
	if c.UploadConfig.TempFileDir == "" {
		c.UploadConfig.TempFileDir = "./temp_uploads"
	}
	if c.UploadConfig.FileStorageDir == "" {
		c.UploadConfig.FileStorageDir = "./uploads"
	}
	if c.UploadConfig.AllowedExtensions == "" {
		c.UploadConfig.AllowedExtensions = ".pdf,.xlsx,.xls,.txt"
	}
	if c.KnowledgeBaseConfig.MaxFileSizeMB <= 0 {
		c.KnowledgeBaseConfig.MaxFileSizeMB = 10
	}
	if c.KnowledgeBaseConfig.MaxDocuments <= 0 {
		c.KnowledgeBaseConfig.MaxDocuments = 50
	}
	if c.KnowledgeBaseConfig.AllowedExtensions == "" {
		c.KnowledgeBaseConfig.AllowedExtensions = ".pdf,.txt,.md"
	}
	if c.LLMConfig.OllamaBaseURL == "" {
		c.LLMConfig.OllamaBaseURL = "http://127.0.0.1:11434"
	}
	if c.LLMConfig.TimeoutSeconds <= 0 {
		c.LLMConfig.TimeoutSeconds = 15
	}
}

func GetConfig() *Config {
	if config == nil {
		_ = LoadConfig()
	}
	return config
}
