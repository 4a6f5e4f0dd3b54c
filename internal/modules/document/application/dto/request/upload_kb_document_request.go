package request

// UploadKBDocumentRequest 知识库文档上传
// 项目必须显式指定，不做隐式默认项目
type UploadKBDocumentRequest struct {
	ProjectUuid string
	Filename    string
	Category    string
	Data        []byte
}

// UpdateKBDocumentRequest 知识库文档部分更新，nil 表示不更新该字段
type UpdateKBDocumentRequest struct {
	Filename *string `json:"filename"`
	DocType  *string `json:"doc_type"`
	IsActive *bool   `json:"is_active"`
}
