package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/UmaaSadii/ICMS/internal/dto"
	"github.com/UmaaSadii/ICMS/internal/service"
	"github.com/UmaaSadii/ICMS/pkg/response"
)

// FeeHandler 学费账单与缴费 HTTP 处理器
type FeeHandler struct {
	feeSvc service.FeeService
}

// NewFeeHandler 创建 FeeHandler
func NewFeeHandler(feeSvc service.FeeService) *FeeHandler {
	return &FeeHandler{feeSvc: feeSvc}
}

// ListStudentFees 学生全部账单
// GET /api/v1/students/:id/fees
func (h *FeeHandler) ListStudentFees(c *gin.Context) {
	studentID, ok := mustParam(c, "id", "学号不能为空")
	if !ok {
		return
	}

	list, err := h.feeSvc.ListByStudent(c.Request.Context(), studentID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// GetFee 账单详情（含缴费记录）
// GET /api/v1/fees/:id
func (h *FeeHandler) GetFee(c *gin.Context) {
	id, ok := mustParam(c, "id", "账单ID不能为空")
	if !ok {
		return
	}

	fee, err := h.feeSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, fee)
}

// RecordPayment 登记缴费，返回对账后的账单
// POST /api/v1/fees/:id/payments
func (h *FeeHandler) RecordPayment(c *gin.Context) {
	id, ok := mustParam(c, "id", "账单ID不能为空")
	if !ok {
		return
	}
	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.feeSvc.RecordPayment(c.Request.Context(), id, &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, resp)
}

// DeletePayment 删除缴费记录并重新对账
// DELETE /api/v1/payments/:id
func (h *FeeHandler) DeletePayment(c *gin.Context) {
	id, ok := mustParam(c, "id", "缴费ID不能为空")
	if !ok {
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	fee, err := h.feeSvc.DeletePayment(c.Request.Context(), id, callerID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, fee)
}

// ReconcileFee 手动重新对账
// POST /api/v1/fees/:id/reconcile
func (h *FeeHandler) ReconcileFee(c *gin.Context) {
	id, ok := mustParam(c, "id", "账单ID不能为空")
	if !ok {
		return
	}

	fee, err := h.feeSvc.Reconcile(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, fee)
}

// GetReceipt 缴费收据
// GET /api/v1/fees/:id/receipt
func (h *FeeHandler) GetReceipt(c *gin.Context) {
	id, ok := mustParam(c, "id", "账单ID不能为空")
	if !ok {
		return
	}

	receipt, err := h.feeSvc.Receipt(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, receipt)
}

// PaymentHistory (院系, 学期) 缴费流水
// GET /api/v1/reports/payments?department_id=xxx&semester_id=xxx
func (h *FeeHandler) PaymentHistory(c *gin.Context) {
	var req dto.FeeTermRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.feeSvc.PaymentHistory(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// FeeStatus (院系, 学期) 缴费状态汇总
// GET /api/v1/reports/fee-status?department_id=xxx&semester_id=xxx
func (h *FeeHandler) FeeStatus(c *gin.Context) {
	var req dto.FeeTermRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.feeSvc.FeeStatus(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, resp)
}
