package model

// Department 院系表，对应 departments
type Department struct {
	DepartmentID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"department_id"`
	Name          string `gorm:"type:varchar(100);not null;uniqueIndex"         json:"name"`
	Code          string `gorm:"type:varchar(10);not null;uniqueIndex"          json:"code"`
	Description   string `gorm:"type:text"                                      json:"description,omitempty"`
	SemesterCount int    `gorm:"not null;default:8"                             json:"semester_count"`
	BaseModel
}

// TableName 指定表名
func (Department) TableName() string { return "departments" }
