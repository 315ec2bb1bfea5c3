package model

import "github.com/shopspring/decimal"

// FeeStructure 学费标准表，对应 fee_structures
// (department_id, semester_id) 唯一
type FeeStructure struct {
	FeeStructureID string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"       json:"fee_structure_id"`
	DepartmentID   string          `gorm:"type:uuid;not null;uniqueIndex:uq_fee_structure_pair" json:"department_id"`
	SemesterID     string          `gorm:"type:uuid;not null;uniqueIndex:uq_fee_structure_pair" json:"semester_id"`
	Amount         decimal.Decimal `gorm:"type:numeric(12,2);not null"                          json:"amount"`
	Description    string          `gorm:"type:varchar(200)"                                    json:"description,omitempty"`
	IsActive       bool            `gorm:"not null;default:true"                                json:"is_active"`
	BaseModel

	// 关联
	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
	Semester   *Semester   `gorm:"foreignKey:SemesterID;references:SemesterID"     json:"semester,omitempty"`
}

// TableName 指定表名
func (FeeStructure) TableName() string { return "fee_structures" }
