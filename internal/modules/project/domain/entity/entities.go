package entity

import "time"

// Project 测试用例生成项目
type Project struct {
	Id              int64     `gorm:"column:id;primaryKey;autoIncrement"`
	ProjectUuid     string    `gorm:"column:project_uuid;type:char(32);not null;uniqueIndex:uniq_project_uuid"`
	Name            string    `gorm:"column:name;type:varchar(255);not null"`
	Description     string    `gorm:"column:description;type:varchar(1000)"`
	KBEnabled       bool      `gorm:"column:kb_enabled;not null;default:false"`
	KBDocumentCount int       `gorm:"column:kb_document_count;type:int;not null;default:0"`
	IsActive        bool      `gorm:"column:is_active;not null;default:true;index:idx_project_active"`
	CreatedAt       time.Time `gorm:"column:created_at;type:datetime;not null"`
	UpdatedAt       time.Time `gorm:"column:updated_at;type:datetime;not null"`
}

func (Project) TableName() string { return "projects" }

// TestCase 生成的测试用例（由生成流程写入，本服务只负责建表与关联）
type TestCase struct {
	Id             int64     `gorm:"column:id;primaryKey;autoIncrement"`
	CaseUuid       string    `gorm:"column:case_uuid;type:char(32);not null;uniqueIndex:uniq_test_case_uuid"`
	ProjectId      int64     `gorm:"column:project_id;not null;index:idx_test_case_project"`
	TestCaseId     string    `gorm:"column:test_case_id;type:varchar(100);not null;index:idx_test_case_biz_id"` // 如 TC001
	Title          string    `gorm:"column:title;type:varchar(500);not null"`
	Category       string    `gorm:"column:category;type:varchar(100);index:idx_test_case_category"`
	Priority       string    `gorm:"column:priority;type:varchar(50)"` // High, Medium, Low
	System         string    `gorm:"column:system;type:varchar(100)"`
	Preconditions  string    `gorm:"column:preconditions;type:text"`
	StepsJson      string    `gorm:"column:steps_json;type:json"`
	ExpectedResult string    `gorm:"column:expected_result;type:text"`
	TestDataJson   string    `gorm:"column:test_data_json;type:json"`
	KBRefsJson     string    `gorm:"column:kb_refs_json;type:json"`
	CreatedByAgent string    `gorm:"column:created_by_agent;type:varchar(50)"`
	IsActive       bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt      time.Time `gorm:"column:created_at;type:datetime;not null"`
	UpdatedAt      time.Time `gorm:"column:updated_at;type:datetime;not null"`
}

func (TestCase) TableName() string { return "test_cases" }
