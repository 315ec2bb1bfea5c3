package model

import (
	"fmt"
	"strings"

	"gorm.io/datatypes"
)

// 学生状态
const (
	StudentStatusEnrolled = "enrolled"
	StudentStatusDropped  = "dropped"
)

// Student 学生表，对应 students
// StudentID 由院系代码小写 + 三位序号组成，例如 cs001
type Student struct {
	StudentID          string          `gorm:"type:varchar(20);primaryKey"                json:"student_id"`
	Name               string          `gorm:"type:varchar(100);not null"                 json:"name"`
	Email              string          `gorm:"type:varchar(255);not null;uniqueIndex"     json:"email"`
	Phone              string          `gorm:"type:varchar(20)"                           json:"phone,omitempty"`
	FirstName          string          `gorm:"type:varchar(50)"                           json:"first_name,omitempty"`
	LastName           string          `gorm:"type:varchar(50)"                           json:"last_name,omitempty"`
	RegistrationNumber string          `gorm:"type:varchar(20)"                           json:"registration_number,omitempty"`
	Gender             string          `gorm:"type:varchar(10)"                           json:"gender,omitempty"`
	BloodGroup         string          `gorm:"type:varchar(5)"                            json:"blood_group,omitempty"`
	GuardianName       string          `gorm:"type:varchar(100)"                          json:"guardian_name,omitempty"`
	GuardianContact    string          `gorm:"type:varchar(20)"                           json:"guardian_contact,omitempty"`
	Address            string          `gorm:"type:text"                                  json:"address,omitempty"`
	Batch              string          `gorm:"type:varchar(20)"                           json:"batch,omitempty"`
	DateOfBirth        *datatypes.Date `gorm:"type:date"                                  json:"date_of_birth,omitempty"`
	DepartmentID       *string         `gorm:"type:uuid;index"                            json:"department_id,omitempty"`
	SemesterID         *string         `gorm:"type:uuid;index"                            json:"semester_id,omitempty"`
	EnrollmentDate     datatypes.Date  `gorm:"type:date;not null"                         json:"enrollment_date"`
	Status             string          `gorm:"type:varchar(20);not null;default:'enrolled'" json:"status"` // enrolled | dropped

	// 派生字段：由考勤、成绩重新计算，不接受外部直接写入
	AttendancePercentage float64 `gorm:"not null;default:0" json:"attendance_percentage"`
	GPA                  float64 `gorm:"not null;default:0" json:"gpa"`
	CGPA                 float64 `gorm:"not null;default:0" json:"cgpa"`
	PreviousCGPA         float64 `gorm:"not null;default:0" json:"previous_cgpa"`
	PerformanceNotes     string  `gorm:"type:text"          json:"performance_notes,omitempty"`
	VersionedModel

	// 关联
	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
	Semester   *Semester   `gorm:"foreignKey:SemesterID;references:SemesterID"     json:"semester,omitempty"`
	Courses    []Course    `gorm:"many2many:student_courses;joinForeignKey:StudentID;joinReferences:CourseID" json:"courses,omitempty"`
}

// TableName 指定表名
func (Student) TableName() string { return "students" }

// IsDropped 是否已退学
func (s *Student) IsDropped() bool { return s.Status == StudentStatusDropped }

// StudentCourse 学生选课关联表，对应 student_courses
// 学期变化时整体重写，不做增量维护
type StudentCourse struct {
	StudentID string `gorm:"type:varchar(20);primaryKey" json:"student_id"`
	CourseID  string `gorm:"type:uuid;primaryKey"        json:"course_id"`
}

// TableName 指定表名
func (StudentCourse) TableName() string { return "student_courses" }

// FormatStudentID 按院系代码与序号生成学号
func FormatStudentID(deptCode string, seq int64) string {
	return fmt.Sprintf("%s%03d", strings.ToLower(deptCode), seq)
}
