package model

import "gorm.io/datatypes"

// Result 成绩表，对应 results
// TotalMarks / ObtainedMarks / Grade 为派生字段，每次写入前由 Recalculate 重新计算
type Result struct {
	ResultID         string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"result_id"`
	StudentID        string          `gorm:"type:varchar(20);not null;index"                json:"student_id"`
	CourseID         string          `gorm:"type:uuid;not null;index"                       json:"course_id"`
	ExamType         ExamType        `gorm:"type:varchar(20);not null"                      json:"exam_type"`
	ExamDate         *datatypes.Date `gorm:"type:date"                                      json:"exam_date,omitempty"`
	Quiz1Marks       float64         `gorm:"not null;default:0"                             json:"quiz1_marks"`
	Quiz2Marks       float64         `gorm:"not null;default:0"                             json:"quiz2_marks"`
	Assignment1Marks float64         `gorm:"not null;default:0"                             json:"assignment1_marks"`
	Assignment2Marks float64         `gorm:"not null;default:0"                             json:"assignment2_marks"`
	MidTermMarks     float64         `gorm:"not null;default:0"                             json:"mid_term_marks"`
	FinalMarks       float64         `gorm:"not null;default:0"                             json:"final_marks"`
	TotalMarks       float64         `gorm:"not null"                                       json:"total_marks"`
	ObtainedMarks    float64         `gorm:"not null"                                       json:"obtained_marks"`
	Grade            string          `gorm:"type:varchar(2);not null;default:'F'"           json:"grade"`
	BaseModel

	// 关联
	Course *Course `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
}

// TableName 指定表名
func (Result) TableName() string { return "results" }

// Recalculate 由考试类型与各部分分数重新推导总分、得分与等级
func (r *Result) Recalculate() {
	r.TotalMarks = r.ExamType.MaxMarks()

	switch r.ExamType {
	case ExamQuiz1:
		r.ObtainedMarks = r.Quiz1Marks
	case ExamQuiz2:
		r.ObtainedMarks = r.Quiz2Marks
	case ExamAssignment1:
		r.ObtainedMarks = r.Assignment1Marks
	case ExamAssignment2:
		r.ObtainedMarks = r.Assignment2Marks
	case ExamFinal:
		r.ObtainedMarks = r.Quiz1Marks + r.Quiz2Marks +
			r.Assignment1Marks + r.Assignment2Marks +
			r.MidTermMarks + r.FinalMarks
	default:
		r.ExamType = ExamMidterm
		r.ObtainedMarks = r.MidTermMarks
	}

	r.Grade = GradeForPercentage(r.Percentage())
}

// Percentage 得分率（0-100）
func (r *Result) Percentage() float64 {
	if r.TotalMarks <= 0 {
		return 0
	}
	return r.ObtainedMarks * 100 / r.TotalMarks
}

// IsFailing 是否不及格
func (r *Result) IsFailing() bool { return r.Grade == GradeFail }
