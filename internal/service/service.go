package service

import (
	"go.uber.org/zap"

	"github.com/UmaaSadii/ICMS/config"
	"github.com/UmaaSadii/ICMS/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Department   DepartmentService
	Semester     SemesterService
	Course       CourseService
	FeeStructure FeeStructureService
	Student      StudentService
	Attendance   AttendanceService
	Result       ResultService
	Promotion    PromotionService
	Fee          FeeService
	Scholarship  ScholarshipService
	Export       ExportService
	Calendar     CalendarService
	Health       HealthService
	Session      SessionService
}

// NewService 创建 Service 聚合
// pinger 为 Redis 健康检查，revoker 为 Token 黑名单，均可为 nil
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	pinger Pinger,
	revoker TokenRevoker,
	logger *zap.Logger,
) *Service {
	return &Service{
		Department:   NewDepartmentService(repo, logger),
		Semester:     NewSemesterService(repo, logger),
		Course:       NewCourseService(repo, logger),
		FeeStructure: NewFeeStructureService(repo, cfg.Billing, logger),
		Student:      NewStudentService(repo, cfg.Billing, logger),
		Attendance:   NewAttendanceService(repo, logger),
		Result:       NewResultService(repo, cfg.Billing, logger),
		Promotion:    NewPromotionService(repo, cfg.Billing, logger),
		Fee:          NewFeeService(repo, cfg.Billing, logger),
		Scholarship:  NewScholarshipService(repo, logger),
		Export:       NewExportService(repo, logger),
		Calendar:     NewCalendarService(repo, cfg.Billing.Currency, logger),
		Health:       NewHealthService(repo, pinger, logger),
		Session:      NewSessionService(revoker, logger),
	}
}
