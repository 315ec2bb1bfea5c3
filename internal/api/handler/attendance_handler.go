package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/UmaaSadii/ICMS/internal/dto"
	"github.com/UmaaSadii/ICMS/internal/service"
	"github.com/UmaaSadii/ICMS/pkg/response"
)

// AttendanceHandler 考勤模块 HTTP 处理器
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// ListAttendance 学生考勤列表及出勤率
// GET /api/v1/students/:id/attendance
func (h *AttendanceHandler) ListAttendance(c *gin.Context) {
	studentID, ok := mustParam(c, "id", "学号不能为空")
	if !ok {
		return
	}

	summary, err := h.attendanceSvc.ListByStudent(c.Request.Context(), studentID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, summary)
}

// RecordAttendance 登记考勤
// POST /api/v1/students/:id/attendance
func (h *AttendanceHandler) RecordAttendance(c *gin.Context) {
	studentID, ok := mustParam(c, "id", "学号不能为空")
	if !ok {
		return
	}
	var req dto.RecordAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	record, err := h.attendanceSvc.Record(c.Request.Context(), studentID, &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, record)
}

// UpdateAttendance 修改考勤状态
// PUT /api/v1/attendance/:id
func (h *AttendanceHandler) UpdateAttendance(c *gin.Context) {
	id, ok := mustParam(c, "id", "考勤ID不能为空")
	if !ok {
		return
	}
	var req dto.UpdateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	record, err := h.attendanceSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, record)
}

// DeleteAttendance 删除考勤
// DELETE /api/v1/attendance/:id
func (h *AttendanceHandler) DeleteAttendance(c *gin.Context) {
	id, ok := mustParam(c, "id", "考勤ID不能为空")
	if !ok {
		return
	}

	if err := h.attendanceSvc.Delete(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, nil)
}
