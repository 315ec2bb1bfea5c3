package model

import "gorm.io/datatypes"

// 考勤状态
const (
	AttendancePresent = "Present"
	AttendanceAbsent  = "Absent"
	AttendanceLate    = "Late"
)

// Attendance 考勤表，对应 attendances，(student_id, date) 唯一
type Attendance struct {
	AttendanceID string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"           json:"attendance_id"`
	StudentID    string         `gorm:"type:varchar(20);not null;uniqueIndex:uq_attendance_day" json:"student_id"`
	Date         datatypes.Date `gorm:"type:date;not null;uniqueIndex:uq_attendance_day"        json:"date"`
	Status       string         `gorm:"type:varchar(10);not null"                               json:"status"` // Present | Absent | Late
	BaseModel
}

// TableName 指定表名
func (Attendance) TableName() string { return "attendances" }
