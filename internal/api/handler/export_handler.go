package handler

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/UmaaSadii/ICMS/internal/dto"
	"github.com/UmaaSadii/ICMS/internal/service"
	"github.com/UmaaSadii/ICMS/pkg/response"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	icsContentType  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc   service.ExportService
	calendarSvc service.CalendarService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService, calendarSvc service.CalendarService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc, calendarSvc: calendarSvc}
}

// ExportFeeStatus 导出缴费状态 Excel
// GET /api/v1/export/fee-status?department_id=xxx&semester_id=xxx
func (h *ExportHandler) ExportFeeStatus(c *gin.Context) {
	var req dto.FeeTermRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	buf, filename, err := h.exportSvc.ExportFeeStatus(c.Request.Context(), req.DepartmentID, req.SemesterID)
	if err != nil {
		if errors.Is(err, service.ErrExportGenerateFail) {
			response.InternalError(c)
			return
		}
		handleError(c, err)
		return
	}

	response.Attachment(c, filename, xlsxContentType, buf.Bytes())
}

// FeeCalendar 学费到期日历订阅
// GET /api/v1/students/:id/fees/calendar.ics
func (h *ExportHandler) FeeCalendar(c *gin.Context) {
	studentID, ok := mustParam(c, "id", "学号不能为空")
	if !ok {
		return
	}

	body, err := h.calendarSvc.FeeCalendar(c.Request.Context(), studentID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Attachment(c, fmt.Sprintf("fees_%s.ics", studentID), icsContentType, []byte(body))
}
