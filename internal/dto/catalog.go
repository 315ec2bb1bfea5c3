package dto

// ── 院系 DTO ──

// CreateDepartmentRequest 创建院系请求
type CreateDepartmentRequest struct {
	Name          string `json:"name"           binding:"required,min=2,max=100"`
	Code          string `json:"code"           binding:"required,min=1,max=10,alphanum"`
	Description   string `json:"description"    binding:"omitempty,max=500"`
	SemesterCount int    `json:"semester_count" binding:"omitempty,min=1,max=20"`
}

// UpdateDepartmentRequest 更新院系请求
type UpdateDepartmentRequest struct {
	Name          *string `json:"name"           binding:"omitempty,min=2,max=100"`
	Description   *string `json:"description"    binding:"omitempty,max=500"`
	SemesterCount *int    `json:"semester_count" binding:"omitempty,min=1,max=20"`
}

// DepartmentResponse 院系响应
type DepartmentResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Code          string `json:"code"`
	Description   string `json:"description,omitempty"`
	SemesterCount int    `json:"semester_count"`
	StudentCount  int64  `json:"student_count"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// ── 学期 DTO ──

// CreateSemesterRequest 创建学期请求；名称末尾须为学期序号，例如 "Semester 3"
type CreateSemesterRequest struct {
	Name         string `json:"name"          binding:"required,min=2,max=100"`
	Code         string `json:"code"          binding:"required,min=1,max=10"`
	Program      string `json:"program"       binding:"omitempty,max=100"`
	Capacity     int    `json:"capacity"      binding:"omitempty,min=1"`
	DepartmentID string `json:"department_id" binding:"required,uuid"`
}

// UpdateSemesterRequest 更新学期请求
type UpdateSemesterRequest struct {
	Name     *string `json:"name"     binding:"omitempty,min=2,max=100"`
	Program  *string `json:"program"  binding:"omitempty,max=100"`
	Capacity *int    `json:"capacity" binding:"omitempty,min=1"`
}

// SemesterListRequest 学期列表查询参数
type SemesterListRequest struct {
	DepartmentID string `form:"department_id" binding:"omitempty,uuid"`
}

// SemesterResponse 学期响应
type SemesterResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Code           string          `json:"code"`
	Program        string          `json:"program,omitempty"`
	Capacity       int             `json:"capacity"`
	Ordinal        int             `json:"ordinal"`
	IsBaseSemester bool            `json:"is_base_semester"`
	Department     DepartmentBrief `json:"department"`
	CreatedAt      string          `json:"created_at"`
}

// ── 课程 DTO ──

// CreateCourseRequest 创建课程请求
type CreateCourseRequest struct {
	Name        string `json:"name"        binding:"required,min=2,max=100"`
	Code        string `json:"code"        binding:"required,min=1,max=10"`
	Description string `json:"description" binding:"omitempty,max=500"`
	Credits     int    `json:"credits"     binding:"omitempty,min=1,max=10"`
	SemesterID  string `json:"semester_id" binding:"required,uuid"`
}

// UpdateCourseRequest 更新课程请求
type UpdateCourseRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	Credits     *int    `json:"credits"     binding:"omitempty,min=1,max=10"`
}

// CourseListRequest 课程列表查询参数
type CourseListRequest struct {
	SemesterID string `form:"semester_id" binding:"omitempty,uuid"`
}

// CourseResponse 课程响应
type CourseResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
	Credits     int    `json:"credits"`
	SemesterID  string `json:"semester_id"`
}

// ── 学费标准 DTO ──

// CreateFeeStructureRequest 创建学费标准请求；Amount 为空时按默认公式计算
type CreateFeeStructureRequest struct {
	DepartmentID string  `json:"department_id" binding:"required,uuid"`
	SemesterID   string  `json:"semester_id"   binding:"required,uuid"`
	Amount       *string `json:"amount"        binding:"omitempty,numeric"`
	Description  string  `json:"description"   binding:"omitempty,max=200"`
	IsActive     *bool   `json:"is_active"`
}

// UpdateFeeStructureRequest 更新学费标准请求
type UpdateFeeStructureRequest struct {
	Amount      *string `json:"amount"      binding:"omitempty,numeric"`
	Description *string `json:"description" binding:"omitempty,max=200"`
	IsActive    *bool   `json:"is_active"`
}

// FeeStructureListRequest 学费标准列表查询参数
type FeeStructureListRequest struct {
	DepartmentID string `form:"department_id" binding:"omitempty,uuid"`
}

// FeeStructureResponse 学费标准响应
type FeeStructureResponse struct {
	ID           string `json:"id"`
	DepartmentID string `json:"department_id"`
	SemesterID   string `json:"semester_id"`
	SemesterName string `json:"semester_name,omitempty"`
	Amount       string `json:"amount"`
	Description  string `json:"description,omitempty"`
	IsActive     bool   `json:"is_active"`
}
