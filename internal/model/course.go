package model

// Course 课程表，对应 courses
type Course struct {
	CourseID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	Name        string `gorm:"type:varchar(100);not null"                     json:"name"`
	Code        string `gorm:"type:varchar(10);not null;uniqueIndex"          json:"code"`
	Description string `gorm:"type:text"                                      json:"description,omitempty"`
	Credits     int    `gorm:"not null;default:3"                             json:"credits"`
	SemesterID  string `gorm:"type:uuid;not null;index"                       json:"semester_id"`
	BaseModel

	// 关联
	Semester *Semester `gorm:"foreignKey:SemesterID;references:SemesterID" json:"semester,omitempty"`
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }
