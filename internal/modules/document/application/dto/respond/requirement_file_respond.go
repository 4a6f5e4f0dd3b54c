package respond

import "time"

// RequirementFileRespond 需求文档信息
type RequirementFileRespond struct {
	FileUuid         string    `json:"file_uuid"`
	ProjectUuid      string    `json:"project_uuid"`
	Filename         string    `json:"filename"`
	FileType         string    `json:"file_type"`
	FileSize         int64     `json:"file_size"`
	ExtractionStatus string    `json:"extraction_status"`
	ExtractedText    string    `json:"extracted_text,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// UploadFilesRespond 批量上传结果
type UploadFilesRespond struct {
	Uploaded []*RequirementFileRespond `json:"uploaded"`
	Failed   []*FileFailureRespond     `json:"failed"`
}

// FileFailureRespond 单个文件的失败原因
type FileFailureRespond struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}
