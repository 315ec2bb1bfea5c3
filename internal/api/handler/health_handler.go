package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/UmaaSadii/ICMS/internal/service"
	"github.com/UmaaSadii/ICMS/pkg/response"
)

// HealthHandler 健康检查
type HealthHandler struct {
	healthSvc service.HealthService
}

// NewHealthHandler 创建 HealthHandler
func NewHealthHandler(healthSvc service.HealthService) *HealthHandler {
	return &HealthHandler{healthSvc: healthSvc}
}

// Check GET /health
// 依赖全部可用时 200，否则 503
func (h *HealthHandler) Check(c *gin.Context) {
	result := h.healthSvc.Check(c.Request.Context())
	if !result.Healthy {
		response.ServiceUnavailable(c, result)
		return
	}
	response.OK(c, result)
}
