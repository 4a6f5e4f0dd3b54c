package request

// CreateProjectRequest 创建项目
type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description" binding:"max=1000"`
	KBEnabled   bool   `json:"kb_enabled"`
}

// UpdateProjectRequest 部分更新，nil 表示不更新该字段
type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	KBEnabled   *bool   `json:"kb_enabled"`
}

// ListProjectRequest 分页查询
type ListProjectRequest struct {
	Skip  int `form:"skip"`
	Limit int `form:"limit"`
}
