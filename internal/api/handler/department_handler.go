package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/UmaaSadii/ICMS/internal/dto"
	"github.com/UmaaSadii/ICMS/internal/service"
	"github.com/UmaaSadii/ICMS/pkg/response"
)

// DepartmentHandler 院系模块 HTTP 处理器
type DepartmentHandler struct {
	deptSvc service.DepartmentService
}

// NewDepartmentHandler 创建 DepartmentHandler
func NewDepartmentHandler(deptSvc service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{deptSvc: deptSvc}
}

// ListDepartments 获取院系列表
// GET /api/v1/departments
func (h *DepartmentHandler) ListDepartments(c *gin.Context) {
	depts, err := h.deptSvc.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": depts})
}

// GetDepartment 获取院系详情
// GET /api/v1/departments/:id
func (h *DepartmentHandler) GetDepartment(c *gin.Context) {
	id, ok := mustParam(c, "id", "院系ID不能为空")
	if !ok {
		return
	}

	dept, err := h.deptSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, dept)
}

// CreateDepartment 创建院系
// POST /api/v1/departments
func (h *DepartmentHandler) CreateDepartment(c *gin.Context) {
	var req dto.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	dept, err := h.deptSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, dept)
}

// UpdateDepartment 更新院系
// PUT /api/v1/departments/:id
func (h *DepartmentHandler) UpdateDepartment(c *gin.Context) {
	id, ok := mustParam(c, "id", "院系ID不能为空")
	if !ok {
		return
	}
	var req dto.UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	dept, err := h.deptSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, dept)
}

// DeleteDepartment 删除院系
// DELETE /api/v1/departments/:id
func (h *DepartmentHandler) DeleteDepartment(c *gin.Context) {
	id, ok := mustParam(c, "id", "院系ID不能为空")
	if !ok {
		return
	}

	if err := h.deptSvc.Delete(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, nil)
}
