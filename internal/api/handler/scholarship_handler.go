package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/UmaaSadii/ICMS/internal/dto"
	"github.com/UmaaSadii/ICMS/internal/service"
	"github.com/UmaaSadii/ICMS/pkg/response"
)

// ScholarshipHandler 奖学金模块 HTTP 处理器
type ScholarshipHandler struct {
	scholarshipSvc service.ScholarshipService
}

// NewScholarshipHandler 创建 ScholarshipHandler
func NewScholarshipHandler(scholarshipSvc service.ScholarshipService) *ScholarshipHandler {
	return &ScholarshipHandler{scholarshipSvc: scholarshipSvc}
}

// ListScholarships GET /api/v1/scholarships
func (h *ScholarshipHandler) ListScholarships(c *gin.Context) {
	list, err := h.scholarshipSvc.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// GetScholarship GET /api/v1/scholarships/:id
func (h *ScholarshipHandler) GetScholarship(c *gin.Context) {
	id, ok := mustParam(c, "id", "奖学金ID不能为空")
	if !ok {
		return
	}

	sch, err := h.scholarshipSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, sch)
}

// CreateScholarship POST /api/v1/scholarships
func (h *ScholarshipHandler) CreateScholarship(c *gin.Context) {
	var req dto.CreateScholarshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	sch, err := h.scholarshipSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, sch)
}

// AddStudent POST /api/v1/scholarships/:id/students
func (h *ScholarshipHandler) AddStudent(c *gin.Context) {
	id, ok := mustParam(c, "id", "奖学金ID不能为空")
	if !ok {
		return
	}
	var req dto.ScholarshipMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	sch, err := h.scholarshipSvc.AddStudent(c.Request.Context(), id, req.StudentID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, sch)
}

// RemoveStudent DELETE /api/v1/scholarships/:id/students/:student_id
func (h *ScholarshipHandler) RemoveStudent(c *gin.Context) {
	id, ok := mustParam(c, "id", "奖学金ID不能为空")
	if !ok {
		return
	}
	studentID, ok := mustParam(c, "student_id", "学号不能为空")
	if !ok {
		return
	}

	sch, err := h.scholarshipSvc.RemoveStudent(c.Request.Context(), id, studentID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, sch)
}
