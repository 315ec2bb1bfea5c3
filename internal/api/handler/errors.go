package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/UmaaSadii/ICMS/internal/service"
	pkgerrors "github.com/UmaaSadii/ICMS/pkg/errors"
	"github.com/UmaaSadii/ICMS/pkg/response"
)

// bizError 业务错误到 HTTP 状态与业务码的映射
type bizError struct {
	err    error
	status int
	code   int
}

// 业务码按模块分段：201xx 院系，202xx 学期，203xx 课程，204xx 学费标准，205xx 学生，
// 206xx 考勤，207xx 成绩，208xx 账单缴费，209xx 升级，210xx 奖学金，211xx 导出
var bizErrors = []bizError{
	{pkgerrors.ErrOptimisticLock, http.StatusConflict, 10006},
	{service.ErrRevocationUnavailable, http.StatusServiceUnavailable, 10007},

	{service.ErrDepartmentNotFound, http.StatusNotFound, 20101},
	{service.ErrDepartmentCodeExists, http.StatusConflict, 20102},
	{service.ErrDepartmentHasStudents, http.StatusConflict, 20103},

	{service.ErrSemesterNotFound, http.StatusNotFound, 20201},
	{service.ErrSemesterCodeExists, http.StatusConflict, 20202},
	{service.ErrSemesterNameInvalid, http.StatusBadRequest, 20203},

	{service.ErrCourseNotFound, http.StatusNotFound, 20301},
	{service.ErrCourseCodeExists, http.StatusConflict, 20302},

	{service.ErrFeeStructureNotFound, http.StatusNotFound, 20401},
	{service.ErrFeeStructureExists, http.StatusConflict, 20402},
	{service.ErrFeeStructureAmountInvalid, http.StatusBadRequest, 20403},
	{service.ErrSemesterDepartmentMatch, http.StatusBadRequest, 20404},

	{service.ErrStudentNotFound, http.StatusNotFound, 20501},
	{service.ErrStudentEmailExists, http.StatusConflict, 20502},
	{service.ErrStudentDropped, http.StatusConflict, 20503},
	{service.ErrInvalidDate, http.StatusBadRequest, 20504},

	{service.ErrAttendanceNotFound, http.StatusNotFound, 20601},
	{service.ErrAttendanceExists, http.StatusConflict, 20602},

	{service.ErrResultNotFound, http.StatusNotFound, 20701},

	{service.ErrFeeNotFound, http.StatusNotFound, 20801},
	{service.ErrPaymentNotFound, http.StatusNotFound, 20802},
	{service.ErrPaymentAmountInvalid, http.StatusBadRequest, 20803},
	{service.ErrPaymentMethodInvalid, http.StatusBadRequest, 20804},
	{service.ErrWaiverNotDeletable, http.StatusConflict, 20805},

	{service.ErrPromotionBlockedByFee, http.StatusConflict, 20901},
	{service.ErrNoNextSemester, http.StatusConflict, 20902},
	{service.ErrNextSemesterInvalid, http.StatusBadRequest, 20903},
	{service.ErrPromotionActionBad, http.StatusBadRequest, 20904},
	{service.ErrAlreadyInSemester, http.StatusConflict, 20905},

	{service.ErrScholarshipNotFound, http.StatusNotFound, 21001},
	{service.ErrScholarshipAmountInvalid, http.StatusBadRequest, 21002},

	{service.ErrExportNoFees, http.StatusNotFound, 21101},
}

// handleError 统一处理业务错误，未识别的错误返回 500
func handleError(c *gin.Context, err error) {
	for _, be := range bizErrors {
		if errors.Is(err, be.err) {
			response.Error(c, be.status, be.code, be.err.Error())
			return
		}
	}
	_ = c.Error(err)
	response.InternalError(c)
}

// badRequest 参数校验失败
func badRequest(c *gin.Context, err error) {
	_ = c.Error(err).SetType(gin.ErrorTypeBind)
	response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", err.Error())
}
