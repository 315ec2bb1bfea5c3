package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/UmaaSadii/ICMS/internal/dto"
	"github.com/UmaaSadii/ICMS/internal/service"
	"github.com/UmaaSadii/ICMS/pkg/response"
)

// PromotionHandler 升级模块 HTTP 处理器
type PromotionHandler struct {
	promotionSvc service.PromotionService
}

// NewPromotionHandler 创建 PromotionHandler
func NewPromotionHandler(promotionSvc service.PromotionService) *PromotionHandler {
	return &PromotionHandler{promotionSvc: promotionSvc}
}

// GetPromotionStatus 查询升级状态
// GET /api/v1/students/:id/promotion
func (h *PromotionHandler) GetPromotionStatus(c *gin.Context) {
	studentID, ok := mustParam(c, "id", "学号不能为空")
	if !ok {
		return
	}

	status, err := h.promotionSvc.Evaluate(c.Request.Context(), studentID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, status)
}

// ApplyPromotionAction 执行升级或退学
// POST /api/v1/students/:id/promotion
func (h *PromotionHandler) ApplyPromotionAction(c *gin.Context) {
	studentID, ok := mustParam(c, "id", "学号不能为空")
	if !ok {
		return
	}
	var req dto.PromotionActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.promotionSvc.Act(c.Request.Context(), studentID, &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// GetProgressEligibility 当前学期能否升级及原因
// GET /api/v1/students/:id/progress
func (h *PromotionHandler) GetProgressEligibility(c *gin.Context) {
	studentID, ok := mustParam(c, "id", "学号不能为空")
	if !ok {
		return
	}

	resp, err := h.promotionSvc.CanProgress(c.Request.Context(), studentID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// ListAcademicHistory 学期成绩快照
// GET /api/v1/students/:id/history
func (h *PromotionHandler) ListAcademicHistory(c *gin.Context) {
	studentID, ok := mustParam(c, "id", "学号不能为空")
	if !ok {
		return
	}

	list, err := h.promotionSvc.History(c.Request.Context(), studentID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}
