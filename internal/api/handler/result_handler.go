package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/UmaaSadii/ICMS/internal/dto"
	"github.com/UmaaSadii/ICMS/internal/service"
	"github.com/UmaaSadii/ICMS/pkg/response"
)

// ResultHandler 成绩模块 HTTP 处理器
type ResultHandler struct {
	resultSvc service.ResultService
}

// NewResultHandler 创建 ResultHandler
func NewResultHandler(resultSvc service.ResultService) *ResultHandler {
	return &ResultHandler{resultSvc: resultSvc}
}

// RecordResult 录入成绩；期末成绩可能触发学期结算，结果在 promotion 字段返回
// POST /api/v1/results
func (h *ResultHandler) RecordResult(c *gin.Context) {
	var req dto.CreateResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.resultSvc.Record(c.Request.Context(), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, resp)
}

// GetResult 获取成绩详情
// GET /api/v1/results/:id
func (h *ResultHandler) GetResult(c *gin.Context) {
	id, ok := mustParam(c, "id", "成绩ID不能为空")
	if !ok {
		return
	}

	result, err := h.resultSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, result)
}

// UpdateResult 修改成绩
// PUT /api/v1/results/:id
func (h *ResultHandler) UpdateResult(c *gin.Context) {
	id, ok := mustParam(c, "id", "成绩ID不能为空")
	if !ok {
		return
	}
	var req dto.UpdateResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.resultSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// DeleteResult 删除成绩
// DELETE /api/v1/results/:id
func (h *ResultHandler) DeleteResult(c *gin.Context) {
	id, ok := mustParam(c, "id", "成绩ID不能为空")
	if !ok {
		return
	}

	if err := h.resultSvc.Delete(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, nil)
}

// ListStudentResults 学生成绩、学分绩汇总与升级状态
// GET /api/v1/students/:id/results
func (h *ResultHandler) ListStudentResults(c *gin.Context) {
	studentID, ok := mustParam(c, "id", "学号不能为空")
	if !ok {
		return
	}

	resp, err := h.resultSvc.ListByStudent(c.Request.Context(), studentID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, resp)
}
