package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/UmaaSadii/ICMS/internal/dto"
	"github.com/UmaaSadii/ICMS/internal/model"
	"github.com/UmaaSadii/ICMS/internal/repository"
)

// ── 考勤模块业务错误 ──

var (
	ErrAttendanceNotFound = errors.New("考勤记录不存在")
	ErrAttendanceExists   = errors.New("该日期已登记考勤")
)

// AttendanceService 考勤业务接口
type AttendanceService interface {
	Record(ctx context.Context, studentID string, req *dto.RecordAttendanceRequest, callerID string) (*dto.AttendanceResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateAttendanceRequest, callerID string) (*dto.AttendanceResponse, error)
	Delete(ctx context.Context, id string) error
	ListByStudent(ctx context.Context, studentID string) (*dto.AttendanceSummaryResponse, error)
}

type attendanceService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(repo *repository.Repository, logger *zap.Logger) AttendanceService {
	return &attendanceService{repo: repo, logger: logger}
}

func (s *attendanceService) Record(ctx context.Context, studentID string, req *dto.RecordAttendanceRequest, callerID string) (*dto.AttendanceResponse, error) {
	if _, err := s.repo.Student.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	a := &model.Attendance{
		StudentID: studentID,
		Date:      model.DateOf(day),
		Status:    req.Status,
	}
	a.CreatedBy = &callerID
	a.UpdatedBy = &callerID

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Attendance.Create(ctx, a); err != nil {
			return err
		}
		return refreshDerived(ctx, txRepo, studentID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAttendanceExists
		}
		s.logger.Error("登记考勤失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}
	return toAttendanceResponse(a), nil
}

func (s *attendanceService) Update(ctx context.Context, id string, req *dto.UpdateAttendanceRequest, callerID string) (*dto.AttendanceResponse, error) {
	a, err := s.repo.Attendance.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttendanceNotFound
		}
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Attendance.UpdateStatus(ctx, id, req.Status, &callerID); err != nil {
			return err
		}
		return refreshDerived(ctx, txRepo, a.StudentID)
	})
	if err != nil {
		s.logger.Error("修改考勤失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	a.Status = req.Status
	return toAttendanceResponse(a), nil
}

func (s *attendanceService) Delete(ctx context.Context, id string) error {
	a, err := s.repo.Attendance.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAttendanceNotFound
		}
		return err
	}
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Attendance.Delete(ctx, id); err != nil {
			return err
		}
		return refreshDerived(ctx, txRepo, a.StudentID)
	})
	if err != nil {
		s.logger.Error("删除考勤失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *attendanceService) ListByStudent(ctx context.Context, studentID string) (*dto.AttendanceSummaryResponse, error) {
	if _, err := s.repo.Student.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	list, err := s.repo.Attendance.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询考勤失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	var present int64
	records := make([]dto.AttendanceResponse, 0, len(list))
	for i := range list {
		if list[i].Status == model.AttendancePresent {
			present++
		}
		records = append(records, *toAttendanceResponse(&list[i]))
	}
	return &dto.AttendanceSummaryResponse{
		StudentID:            studentID,
		AttendancePercentage: attendancePercentage(present, int64(len(list))),
		Records:              records,
	}, nil
}

func toAttendanceResponse(a *model.Attendance) *dto.AttendanceResponse {
	return &dto.AttendanceResponse{
		ID:        a.AttendanceID,
		StudentID: a.StudentID,
		Date:      time.Time(a.Date).Format("2006-01-02"),
		Status:    a.Status,
	}
}
