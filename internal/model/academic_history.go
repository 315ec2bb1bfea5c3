package model

import "time"

// StudentAcademicHistory 学期成绩快照，对应 student_academic_histories
// (student_id, semester_id) 唯一，写入后不再修改
type StudentAcademicHistory struct {
	HistoryID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"         json:"history_id"`
	StudentID  string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_history_term" json:"student_id"`
	SemesterID string    `gorm:"type:uuid;not null;uniqueIndex:uq_history_term"        json:"semester_id"`
	GPA        float64   `gorm:"not null"                                              json:"gpa"`
	CGPA       float64   `gorm:"not null"                                              json:"cgpa"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"                    json:"created_at"`

	// 关联
	Semester *Semester `gorm:"foreignKey:SemesterID;references:SemesterID" json:"semester,omitempty"`
}

// TableName 指定表名
func (StudentAcademicHistory) TableName() string { return "student_academic_histories" }
