package dto

// ── 成绩模块 DTO ──

// CreateResultRequest 录入成绩
// ExamType 为自由文本，按 quiz / assignment / mid / final 解析
type CreateResultRequest struct {
	StudentID        string  `json:"student_id"        binding:"required,max=20"`
	CourseID         string  `json:"course_id"         binding:"required,uuid"`
	ExamType         string  `json:"exam_type"         binding:"required,max=50"`
	ExamDate         string  `json:"exam_date"         binding:"omitempty,datetime=2006-01-02"`
	Quiz1Marks       float64 `json:"quiz1_marks"       binding:"min=0,max=5"`
	Quiz2Marks       float64 `json:"quiz2_marks"       binding:"min=0,max=5"`
	Assignment1Marks float64 `json:"assignment1_marks" binding:"min=0,max=5"`
	Assignment2Marks float64 `json:"assignment2_marks" binding:"min=0,max=5"`
	MidTermMarks     float64 `json:"mid_term_marks"    binding:"min=0,max=25"`
	FinalMarks       float64 `json:"final_marks"       binding:"min=0,max=60"`
}

// UpdateResultRequest 修改成绩，未提供的字段保持不变
type UpdateResultRequest struct {
	ExamType         *string  `json:"exam_type"         binding:"omitempty,max=50"`
	ExamDate         *string  `json:"exam_date"         binding:"omitempty,datetime=2006-01-02"`
	Quiz1Marks       *float64 `json:"quiz1_marks"       binding:"omitempty,min=0,max=5"`
	Quiz2Marks       *float64 `json:"quiz2_marks"       binding:"omitempty,min=0,max=5"`
	Assignment1Marks *float64 `json:"assignment1_marks" binding:"omitempty,min=0,max=5"`
	Assignment2Marks *float64 `json:"assignment2_marks" binding:"omitempty,min=0,max=5"`
	MidTermMarks     *float64 `json:"mid_term_marks"    binding:"omitempty,min=0,max=25"`
	FinalMarks       *float64 `json:"final_marks"       binding:"omitempty,min=0,max=60"`
}

// ResultResponse 成绩响应
type ResultResponse struct {
	ID               string  `json:"id"`
	StudentID        string  `json:"student_id"`
	CourseID         string  `json:"course_id"`
	CourseName       string  `json:"course_name,omitempty"`
	CourseCode       string  `json:"course_code,omitempty"`
	ExamType         string  `json:"exam_type"`
	ExamTypeLabel    string  `json:"exam_type_label"`
	ExamDate         string  `json:"exam_date,omitempty"`
	Quiz1Marks       float64 `json:"quiz1_marks"`
	Quiz2Marks       float64 `json:"quiz2_marks"`
	Assignment1Marks float64 `json:"assignment1_marks"`
	Assignment2Marks float64 `json:"assignment2_marks"`
	MidTermMarks     float64 `json:"mid_term_marks"`
	FinalMarks       float64 `json:"final_marks"`
	TotalMarks       float64 `json:"total_marks"`
	ObtainedMarks    float64 `json:"obtained_marks"`
	Percentage       float64 `json:"percentage"`
	Grade            string  `json:"grade"`
}

// RecordResultResponse 录入成绩结果，期末成绩可能触发学期结算
type RecordResultResponse struct {
	Result    ResultResponse    `json:"result"`
	Promotion *PromotionOutcome `json:"promotion,omitempty"`
}

// PromotionOutcome 期末结算结果
type PromotionOutcome struct {
	State           string  `json:"state"` // pending | not_promoted | blocked | promoted | final_semester
	GPA             float64 `json:"gpa"`
	CGPA            float64 `json:"cgpa"`
	FromSemesterID  string  `json:"from_semester_id"`
	ToSemesterID    string  `json:"to_semester_id,omitempty"`
	FeeCleared      bool    `json:"previous_fee_cleared"`
	FeeAssigned     bool    `json:"fee_assigned"`
	FeeAmount       string  `json:"fee_amount,omitempty"`
	Reason          string  `json:"reason,omitempty"`
	HistoryRecorded bool    `json:"history_recorded"`
}

// StudentResultsResponse 学生成绩列表、学分绩及升级状态
type StudentResultsResponse struct {
	StudentID       string           `json:"student_id"`
	Results         []ResultResponse `json:"results"`
	CreditSummary   CreditSummary    `json:"credit_summary"`
	PromotionStatus PromotionStatus  `json:"promotion_status"`
}

// CreditSummary 按学分加权的绩点汇总
type CreditSummary struct {
	TotalCredits     int     `json:"total_credits"`
	TotalGradePoints float64 `json:"total_grade_points"`
	CGPA             float64 `json:"cgpa"`
	CoursesCompleted int     `json:"courses_completed"`
}

// PromotionStatus 查询时计算的升级状态
type PromotionStatus struct {
	Status           string `json:"status"` // pending | dropped | blocked | not_promoted | promote | current
	Action           string `json:"action,omitempty"`
	Message          string `json:"message"`
	NextSemesterID   string `json:"next_semester_id,omitempty"`
	NextSemesterName string `json:"next_semester_name,omitempty"`
	ConsecutiveFails int    `json:"consecutive_fails"`
	FeeStatus        string `json:"fee_status,omitempty"`
}

// ── 升级操作 DTO ──

// 升级操作类型
const (
	PromotionActionPromote = "promote_student"
	PromotionActionDrop    = "drop_student"
)

// PromotionActionRequest 升级或退学操作
type PromotionActionRequest struct {
	Action         string `json:"action"           binding:"required,oneof=promote_student drop_student"`
	NextSemesterID string `json:"next_semester_id" binding:"omitempty,uuid"`
	Reason         string `json:"reason"           binding:"omitempty,max=500"`
}

// PromotionActionResponse 操作结果
type PromotionActionResponse struct {
	Message            string `json:"message"`
	StudentID          string `json:"student_id"`
	NewSemester        string `json:"new_semester,omitempty"`
	Status             string `json:"status,omitempty"`
	PreviousFeeCleared bool   `json:"previous_fee_cleared"`
	FeeAssigned        bool   `json:"fee_assigned"`
	FeeAmount          string `json:"fee_amount,omitempty"`
}

// ProgressEligibilityResponse 能否升级检查
type ProgressEligibilityResponse struct {
	StudentID   string   `json:"student_id"`
	CanProgress bool     `json:"can_progress"`
	Reasons     []string `json:"reasons"`
}

// AcademicHistoryResponse 学期成绩快照
type AcademicHistoryResponse struct {
	SemesterID   string  `json:"semester_id"`
	SemesterName string  `json:"semester_name,omitempty"`
	GPA          float64 `json:"gpa"`
	CGPA         float64 `json:"cgpa"`
	RecordedAt   string  `json:"recorded_at"`
}
