package entity

import "time"

// 提取状态
const (
	ExtractionStatusPending   = "pending"
	ExtractionStatusCompleted = "completed"
	ExtractionStatusFailed    = "failed"
)

// RequirementFile 上传的需求文件
type RequirementFile struct {
	Id               int64     `gorm:"column:id;primaryKey;autoIncrement"`
	FileUuid         string    `gorm:"column:file_uuid;type:char(32);not null;uniqueIndex:uniq_req_file_uuid"`
	ProjectId        int64     `gorm:"column:project_id;not null;index:idx_req_file_project"`
	Filename         string    `gorm:"column:filename;type:varchar(255);not null"`
	FileType         string    `gorm:"column:file_type;type:varchar(50);not null"` // .pdf, .xlsx, .txt
	FileSize         int64     `gorm:"column:file_size;not null"`
	FilePath         string    `gorm:"column:file_path;type:varchar(500)"`
	ExtractedText    string    `gorm:"column:extracted_text;type:mediumtext"`
	ExtractionStatus string    `gorm:"column:extraction_status;type:varchar(50);not null;default:pending"`
	CreatedAt        time.Time `gorm:"column:created_at;type:datetime;not null"`
	UpdatedAt        time.Time `gorm:"column:updated_at;type:datetime;not null"`
}

func (RequirementFile) TableName() string { return "requirement_files" }

// KnowledgeDocument 知识库参考文档
// file_hash 为原始字节的 SHA-256，应用层保证同一 hash 同时只有一条 is_active 记录
type KnowledgeDocument struct {
	Id               int64     `gorm:"column:id;primaryKey;autoIncrement"`
	DocUuid          string    `gorm:"column:doc_uuid;type:char(32);not null;uniqueIndex:uniq_kb_doc_uuid"`
	ProjectId        int64     `gorm:"column:project_id;not null;index:idx_kb_doc_project"`
	Filename         string    `gorm:"column:filename;type:varchar(255);not null"`
	FileType         string    `gorm:"column:file_type;type:varchar(50);not null"`
	DocType          string    `gorm:"column:doc_type;type:varchar(100);index:idx_kb_doc_type"` // system_guide, process 等
	FileSize         int64     `gorm:"column:file_size;not null"`
	FileHash         string    `gorm:"column:file_hash;type:char(64);not null;index:idx_kb_doc_hash"`
	ExtractedText    string    `gorm:"column:extracted_text;type:mediumtext"`
	ExtractionStatus string    `gorm:"column:extraction_status;type:varchar(50);not null;default:pending"`
	IsActive         bool      `gorm:"column:is_active;not null;default:true;index:idx_kb_doc_active"`
	CreatedAt        time.Time `gorm:"column:created_at;type:datetime;not null"`
	UpdatedAt        time.Time `gorm:"column:updated_at;type:datetime;not null"`
}

func (KnowledgeDocument) TableName() string { return "knowledge_base_documents" }
