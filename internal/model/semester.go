package model

import (
	"strconv"
	"strings"
)

// Semester 学期表，对应 semesters
// 学期序号编码在名称末尾，例如 "Semester 3"
type Semester struct {
	SemesterID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"semester_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	Code         string `gorm:"type:varchar(10);not null;uniqueIndex"          json:"code"`
	Program      string `gorm:"type:varchar(100)"                              json:"program,omitempty"`
	Capacity     int    `gorm:"not null;default:30"                            json:"capacity"`
	DepartmentID string `gorm:"type:uuid;not null;index"                       json:"department_id"`
	BaseModel

	// 关联
	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
}

// TableName 指定表名
func (Semester) TableName() string { return "semesters" }

// Ordinal 解析名称末尾的学期序号
func (s *Semester) Ordinal() (int, bool) {
	return ParseSemesterOrdinal(s.Name)
}

// IsBaseSemester 奇数学期为基础学期
func (s *Semester) IsBaseSemester() bool {
	n, ok := s.Ordinal()
	return ok && n%2 == 1
}

// ParseSemesterOrdinal 取名称最后一个空白分隔的片段作为序号
func ParseSemesterOrdinal(name string) (int, bool) {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
