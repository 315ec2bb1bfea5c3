package handler

import "github.com/UmaaSadii/ICMS/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Department   *DepartmentHandler
	Semester     *SemesterHandler
	Course       *CourseHandler
	FeeStructure *FeeStructureHandler
	Student      *StudentHandler
	Attendance   *AttendanceHandler
	Result       *ResultHandler
	Promotion    *PromotionHandler
	Fee          *FeeHandler
	Scholarship  *ScholarshipHandler
	Export       *ExportHandler
	Health       *HealthHandler
	Session      *SessionHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Department:   NewDepartmentHandler(svc.Department),
		Semester:     NewSemesterHandler(svc.Semester),
		Course:       NewCourseHandler(svc.Course),
		FeeStructure: NewFeeStructureHandler(svc.FeeStructure),
		Student:      NewStudentHandler(svc.Student),
		Attendance:   NewAttendanceHandler(svc.Attendance),
		Result:       NewResultHandler(svc.Result),
		Promotion:    NewPromotionHandler(svc.Promotion),
		Fee:          NewFeeHandler(svc.Fee),
		Scholarship:  NewScholarshipHandler(svc.Scholarship),
		Export:       NewExportHandler(svc.Export, svc.Calendar),
		Health:       NewHealthHandler(svc.Health),
		Session:      NewSessionHandler(svc.Session),
	}
}
