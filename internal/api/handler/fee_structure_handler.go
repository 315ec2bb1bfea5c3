package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/UmaaSadii/ICMS/internal/dto"
	"github.com/UmaaSadii/ICMS/internal/service"
	"github.com/UmaaSadii/ICMS/pkg/response"
)

// FeeStructureHandler 学费标准模块 HTTP 处理器
type FeeStructureHandler struct {
	feeStructureSvc service.FeeStructureService
}

// NewFeeStructureHandler 创建 FeeStructureHandler
func NewFeeStructureHandler(feeStructureSvc service.FeeStructureService) *FeeStructureHandler {
	return &FeeStructureHandler{feeStructureSvc: feeStructureSvc}
}

// ListFeeStructures 获取学费标准列表，可按院系过滤
// GET /api/v1/fee-structures?department_id=xxx
func (h *FeeStructureHandler) ListFeeStructures(c *gin.Context) {
	var req dto.FeeStructureListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	list, err := h.feeStructureSvc.List(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// GetFeeStructure 获取学费标准详情
// GET /api/v1/fee-structures/:id
func (h *FeeStructureHandler) GetFeeStructure(c *gin.Context) {
	id, ok := mustParam(c, "id", "学费标准ID不能为空")
	if !ok {
		return
	}

	fs, err := h.feeStructureSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, fs)
}

// CreateFeeStructure 创建学费标准，未给出金额时按默认公式计算
// POST /api/v1/fee-structures
func (h *FeeStructureHandler) CreateFeeStructure(c *gin.Context) {
	var req dto.CreateFeeStructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	fs, err := h.feeStructureSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, fs)
}

// UpdateFeeStructure 更新学费标准
// PUT /api/v1/fee-structures/:id
func (h *FeeStructureHandler) UpdateFeeStructure(c *gin.Context) {
	id, ok := mustParam(c, "id", "学费标准ID不能为空")
	if !ok {
		return
	}
	var req dto.UpdateFeeStructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	fs, err := h.feeStructureSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, fs)
}

// DeleteFeeStructure 删除学费标准
// DELETE /api/v1/fee-structures/:id
func (h *FeeStructureHandler) DeleteFeeStructure(c *gin.Context) {
	id, ok := mustParam(c, "id", "学费标准ID不能为空")
	if !ok {
		return
	}

	if err := h.feeStructureSvc.Delete(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, nil)
}
