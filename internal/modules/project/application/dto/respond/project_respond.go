package respond

import "time"

// ProjectRespond 项目信息
type ProjectRespond struct {
	ProjectUuid     string    `json:"project_uuid"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	KBEnabled       bool      `json:"kb_enabled"`
	KBDocumentCount int       `json:"kb_document_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ProjectListRespond 项目列表
type ProjectListRespond struct {
	Projects []*ProjectRespond `json:"projects"`
	Count    int               `json:"count"`
}
