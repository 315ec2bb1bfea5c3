package model

import "github.com/shopspring/decimal"

// Scholarship 奖学金表，对应 scholarships
type Scholarship struct {
	ScholarshipID string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"scholarship_id"`
	Name          string          `gorm:"type:varchar(100);not null"                     json:"name"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null"                    json:"amount"`
	Eligibility   string          `gorm:"type:text"                                      json:"eligibility,omitempty"`
	BaseModel

	// 关联
	Students []Student `gorm:"many2many:scholarship_students;joinForeignKey:ScholarshipID;joinReferences:StudentID" json:"students,omitempty"`
}

// TableName 指定表名
func (Scholarship) TableName() string { return "scholarships" }

// ScholarshipStudent 奖学金成员关联表，对应 scholarship_students
type ScholarshipStudent struct {
	ScholarshipID string `gorm:"type:uuid;primaryKey"        json:"scholarship_id"`
	StudentID     string `gorm:"type:varchar(20);primaryKey" json:"student_id"`
}

// TableName 指定表名
func (ScholarshipStudent) TableName() string { return "scholarship_students" }
