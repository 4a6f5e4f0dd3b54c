package respond

import "time"

// KnowledgeDocumentRespond 知识库文档信息
type KnowledgeDocumentRespond struct {
	DocUuid          string    `json:"doc_uuid"`
	Filename         string    `json:"filename"`
	FileType         string    `json:"file_type"`
	DocType          string    `json:"doc_type"`
	FileSize         int64     `json:"file_size"`
	FileHash         string    `json:"file_hash"`
	ExtractionStatus string    `json:"extraction_status"`
	IsActive         bool      `json:"is_active"`
	ExtractedText    string    `json:"extracted_text,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// KnowledgeDocumentListRespond 知识库文档列表
type KnowledgeDocumentListRespond struct {
	Documents   []*KnowledgeDocumentRespond `json:"documents"`
	TotalCount  int64                       `json:"total_count"`
	ActiveCount int64                       `json:"active_count"`
}

// UploadKBDocumentRespond 上传结果，Outcome 为 created 或 reactivated
type UploadKBDocumentRespond struct {
	Outcome  string                    `json:"outcome"`
	Document *KnowledgeDocumentRespond `json:"document"`
}
