package dto

// ── 学生模块 DTO ──

// CreateStudentRequest 创建学生请求
// 学号由系统按院系代码生成；指定学期时自动选课并生成学费账单
type CreateStudentRequest struct {
	Name               string `json:"name"                binding:"required,min=2,max=100"`
	Email              string `json:"email"               binding:"required,email"`
	Phone              string `json:"phone"               binding:"omitempty,max=20"`
	FirstName          string `json:"first_name"          binding:"omitempty,max=50"`
	LastName           string `json:"last_name"           binding:"omitempty,max=50"`
	RegistrationNumber string `json:"registration_number" binding:"omitempty,max=20"`
	Gender             string `json:"gender"              binding:"omitempty,oneof=Male Female Other"`
	BloodGroup         string `json:"blood_group"         binding:"omitempty,max=5"`
	GuardianName       string `json:"guardian_name"       binding:"omitempty,max=100"`
	GuardianContact    string `json:"guardian_contact"    binding:"omitempty,max=20"`
	Address            string `json:"address"             binding:"omitempty,max=500"`
	Batch              string `json:"batch"               binding:"omitempty,max=20"`
	DateOfBirth        string `json:"date_of_birth"       binding:"omitempty,datetime=2006-01-02"`
	EnrollmentDate     string `json:"enrollment_date"     binding:"omitempty,datetime=2006-01-02"`
	DepartmentID       string `json:"department_id"       binding:"required,uuid"`
	SemesterID         string `json:"semester_id"         binding:"omitempty,uuid"`
}

// UpdateStudentRequest 更新学生档案请求（乐观锁）
type UpdateStudentRequest struct {
	Version            int     `json:"version"             binding:"required,min=1"`
	Name               *string `json:"name"                binding:"omitempty,min=2,max=100"`
	Email              *string `json:"email"               binding:"omitempty,email"`
	Phone              *string `json:"phone"               binding:"omitempty,max=20"`
	FirstName          *string `json:"first_name"          binding:"omitempty,max=50"`
	LastName           *string `json:"last_name"           binding:"omitempty,max=50"`
	RegistrationNumber *string `json:"registration_number" binding:"omitempty,max=20"`
	Gender             *string `json:"gender"              binding:"omitempty,oneof=Male Female Other"`
	BloodGroup         *string `json:"blood_group"         binding:"omitempty,max=5"`
	GuardianName       *string `json:"guardian_name"       binding:"omitempty,max=100"`
	GuardianContact    *string `json:"guardian_contact"    binding:"omitempty,max=20"`
	Address            *string `json:"address"             binding:"omitempty,max=500"`
	Batch              *string `json:"batch"               binding:"omitempty,max=20"`
	DateOfBirth        *string `json:"date_of_birth"       binding:"omitempty,datetime=2006-01-02"`
}

// ChangeSemesterRequest 手动调整学生学期
type ChangeSemesterRequest struct {
	SemesterID string `json:"semester_id" binding:"required,uuid"`
}

// StudentListRequest 学生列表查询参数
type StudentListRequest struct {
	PaginationRequest
	DepartmentID string `form:"department_id" binding:"omitempty,uuid"`
	SemesterID   string `form:"semester_id"   binding:"omitempty,uuid"`
	Status       string `form:"status"        binding:"omitempty,oneof=enrolled dropped"`
	Keyword      string `form:"keyword"       binding:"omitempty,max=50"`
}

// StudentResponse 学生信息响应
type StudentResponse struct {
	StudentID            string           `json:"student_id"`
	Name                 string           `json:"name"`
	Email                string           `json:"email"`
	Phone                string           `json:"phone,omitempty"`
	FirstName            string           `json:"first_name,omitempty"`
	LastName             string           `json:"last_name,omitempty"`
	RegistrationNumber   string           `json:"registration_number,omitempty"`
	Gender               string           `json:"gender,omitempty"`
	BloodGroup           string           `json:"blood_group,omitempty"`
	GuardianName         string           `json:"guardian_name,omitempty"`
	GuardianContact      string           `json:"guardian_contact,omitempty"`
	Address              string           `json:"address,omitempty"`
	Batch                string           `json:"batch,omitempty"`
	DateOfBirth          string           `json:"date_of_birth,omitempty"`
	EnrollmentDate       string           `json:"enrollment_date"`
	Status               string           `json:"status"`
	Department           *DepartmentBrief `json:"department,omitempty"`
	Semester             *SemesterBrief   `json:"semester,omitempty"`
	CourseIDs            []string         `json:"course_ids"`
	AttendancePercentage float64          `json:"attendance_percentage"`
	GPA                  float64          `json:"gpa"`
	CGPA                 float64          `json:"cgpa"`
	PreviousCGPA         float64          `json:"previous_cgpa"`
	PerformanceNotes     string           `json:"performance_notes,omitempty"`
	Version              int              `json:"version"`
}

// ── 考勤 DTO ──

// RecordAttendanceRequest 登记考勤
type RecordAttendanceRequest struct {
	Date   string `json:"date"   binding:"required,datetime=2006-01-02"`
	Status string `json:"status" binding:"required,oneof=Present Absent Late"`
}

// UpdateAttendanceRequest 修改考勤状态
type UpdateAttendanceRequest struct {
	Status string `json:"status" binding:"required,oneof=Present Absent Late"`
}

// AttendanceResponse 考勤响应
type AttendanceResponse struct {
	ID        string `json:"id"`
	StudentID string `json:"student_id"`
	Date      string `json:"date"`
	Status    string `json:"status"`
}

// AttendanceSummaryResponse 考勤列表及出勤率
type AttendanceSummaryResponse struct {
	StudentID            string               `json:"student_id"`
	AttendancePercentage float64              `json:"attendance_percentage"`
	Records              []AttendanceResponse `json:"records"`
}

// ── 奖学金 DTO ──

// CreateScholarshipRequest 创建奖学金
type CreateScholarshipRequest struct {
	Name        string `json:"name"        binding:"required,min=2,max=100"`
	Amount      string `json:"amount"      binding:"required,numeric"`
	Eligibility string `json:"eligibility" binding:"omitempty,max=1000"`
}

// ScholarshipMemberRequest 奖学金成员变更
type ScholarshipMemberRequest struct {
	StudentID string `json:"student_id" binding:"required,max=20"`
}

// ScholarshipResponse 奖学金响应
type ScholarshipResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Amount      string   `json:"amount"`
	Eligibility string   `json:"eligibility,omitempty"`
	StudentIDs  []string `json:"student_ids"`
}
