package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/UmaaSadii/ICMS/config"
	"github.com/UmaaSadii/ICMS/internal/dto"
	"github.com/UmaaSadii/ICMS/internal/model"
	"github.com/UmaaSadii/ICMS/internal/repository"
)

// ── 升级模块业务错误 ──

var (
	ErrPromotionBlockedByFee = errors.New("当前学期学费未缴清，不能升级")
	ErrNoNextSemester        = errors.New("没有可升入的下一学期")
	ErrNextSemesterInvalid   = errors.New("目标学期不属于学生所在院系")
	ErrPromotionActionBad    = errors.New("不支持的升级操作")
	ErrAlreadyInSemester     = errors.New("学生已在目标学期")
)

// PromotionService 升级状态查询与升级/退学操作
type PromotionService interface {
	Evaluate(ctx context.Context, studentID string) (*dto.PromotionStatus, error)
	Act(ctx context.Context, studentID string, req *dto.PromotionActionRequest, callerID string) (*dto.PromotionActionResponse, error)
	CanProgress(ctx context.Context, studentID string) (*dto.ProgressEligibilityResponse, error)
	History(ctx context.Context, studentID string) ([]dto.AcademicHistoryResponse, error)
}

type promotionService struct {
	repo   *repository.Repository
	engine *promotionEngine
	logger *zap.Logger
	now    func() time.Time
}

// NewPromotionService 创建 PromotionService 实例
func NewPromotionService(repo *repository.Repository, billing config.BillingConfig, logger *zap.Logger) PromotionService {
	return &promotionService{
		repo:   repo,
		engine: &promotionEngine{dueDays: billing.DueDays, logger: logger},
		logger: logger,
		now:    time.Now,
	}
}

// ────────────────────── Evaluate ──────────────────────

func (s *promotionService) Evaluate(ctx context.Context, studentID string) (*dto.PromotionStatus, error) {
	student, err := s.getStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	status, err := s.engine.evaluate(ctx, s.repo, student)
	if err != nil {
		s.logger.Error("计算升级状态失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}
	return status, nil
}

// ────────────────────── Act ──────────────────────

func (s *promotionService) Act(ctx context.Context, studentID string, req *dto.PromotionActionRequest, callerID string) (*dto.PromotionActionResponse, error) {
	switch req.Action {
	case dto.PromotionActionPromote:
		return s.promote(ctx, studentID, req.NextSemesterID, callerID)
	case dto.PromotionActionDrop:
		return s.drop(ctx, studentID, req.Reason, callerID)
	default:
		return nil, ErrPromotionActionBad
	}
}

func (s *promotionService) promote(ctx context.Context, studentID, nextSemesterID, callerID string) (*dto.PromotionActionResponse, error) {
	student, err := s.getStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student.IsDropped() {
		return nil, ErrStudentDropped
	}

	var current *model.Semester
	if student.SemesterID != nil {
		current, err = s.repo.Semester.GetByID(ctx, *student.SemesterID)
		if err != nil {
			s.logger.Error("查询学期失败", zap.Error(err))
			return nil, err
		}
	}

	next, err := s.resolveNext(ctx, current, nextSemesterID)
	if err != nil {
		return nil, err
	}

	var tr *transitionResult
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if current != nil {
			if err := ensureFeeCleared(ctx, txRepo, studentID, current); err != nil {
				return err
			}
		}
		var err error
		tr, err = s.engine.transition(ctx, txRepo, studentID, current, next, s.now(), callerID)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrPromotionBlockedByFee) {
			return nil, err
		}
		s.logger.Error("升级失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("学生已手动升级",
		zap.String("student_id", studentID),
		zap.String("to", next.Name),
		zap.String("operator", callerID),
	)

	resp := &dto.PromotionActionResponse{
		Message:            fmt.Sprintf("Student promoted to %s", next.Name),
		StudentID:          studentID,
		NewSemester:        next.Name,
		PreviousFeeCleared: tr.PreviousFeeCleared,
		FeeAssigned:        tr.FeeAssigned,
	}
	if tr.NewFee != nil {
		resp.FeeAmount = tr.NewFee.Amount.StringFixed(2)
	}
	return resp, nil
}

// resolveNext 显式指定时校验院系一致，否则取同院系序号加一的学期
func (s *promotionService) resolveNext(ctx context.Context, current *model.Semester, nextSemesterID string) (*model.Semester, error) {
	if nextSemesterID != "" {
		next, err := s.repo.Semester.GetByID(ctx, nextSemesterID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSemesterNotFound
			}
			return nil, err
		}
		if current != nil && next.DepartmentID != current.DepartmentID {
			return nil, ErrNextSemesterInvalid
		}
		if current != nil && next.SemesterID == current.SemesterID {
			return nil, ErrAlreadyInSemester
		}
		return next, nil
	}

	if current == nil {
		return nil, ErrNoNextSemester
	}
	next, err := findNextSemester(ctx, s.repo, current)
	if err != nil {
		s.logger.Error("查询下一学期失败", zap.Error(err))
		return nil, err
	}
	if next == nil {
		return nil, ErrNoNextSemester
	}
	return next, nil
}

func (s *promotionService) drop(ctx context.Context, studentID, reason, callerID string) (*dto.PromotionActionResponse, error) {
	student, err := s.getStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student.IsDropped() {
		return nil, ErrStudentDropped
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "No reason provided"
	}
	fields := map[string]interface{}{
		"status":            model.StudentStatusDropped,
		"performance_notes": "Dropped due to consecutive failures - " + reason,
	}
	if callerID != "" {
		fields["updated_by"] = callerID
	}
	if err := s.repo.Student.UpdateFields(ctx, studentID, fields); err != nil {
		s.logger.Error("退学操作失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("学生已退学", zap.String("student_id", studentID), zap.String("operator", callerID))
	return &dto.PromotionActionResponse{
		Message:   "Student dropped",
		StudentID: studentID,
		Status:    model.StudentStatusDropped,
	}, nil
}

// ensureFeeCleared 锁定当前学期账单行后检查余额，与并发的缴费删除串行化
func ensureFeeCleared(ctx context.Context, repo *repository.Repository, studentID string, semester *model.Semester) error {
	fee, err := currentFee(ctx, repo, studentID, semester)
	if err != nil || fee == nil {
		return err
	}
	locked, err := repo.Fee.GetByIDForUpdate(ctx, fee.FeeID)
	if err != nil {
		return err
	}
	if locked.IsOutstanding() {
		return ErrPromotionBlockedByFee
	}
	return nil
}

// ────────────────────── CanProgress ──────────────────────

// CanProgress 当前学期是否满足升级条件：学费缴清、期末成绩齐全且无不及格
func (s *promotionService) CanProgress(ctx context.Context, studentID string) (*dto.ProgressEligibilityResponse, error) {
	student, err := s.getStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ProgressEligibilityResponse{StudentID: studentID, Reasons: []string{}}
	if student.IsDropped() {
		resp.Reasons = append(resp.Reasons, "Student has been dropped")
		return resp, nil
	}
	if student.SemesterID == nil {
		resp.Reasons = append(resp.Reasons, "Student is not assigned to a semester")
		return resp, nil
	}

	semester, err := s.repo.Semester.GetByID(ctx, *student.SemesterID)
	if err != nil {
		return nil, err
	}
	fee, err := currentFee(ctx, s.repo, studentID, semester)
	if err != nil {
		return nil, err
	}
	if fee != nil && fee.IsOutstanding() {
		resp.Reasons = append(resp.Reasons, "Outstanding fee payment required")
	}

	courses, err := s.repo.Course.List(ctx, semester.SemesterID)
	if err != nil {
		return nil, err
	}
	finals, err := s.repo.Result.ListFinalsByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	latest := latestFinalsByCourse(finals)
	present, missing := 0, 0
	for _, c := range courses {
		if latest[c.CourseID] == nil {
			missing++
		} else {
			present++
		}
	}
	failed := failedCourses(finals, courses)
	if present == 0 {
		resp.Reasons = append(resp.Reasons, "Final results not submitted yet")
	} else if missing > 0 {
		resp.Reasons = append(resp.Reasons, fmt.Sprintf("Final results missing for %d course(s)", missing))
	}
	if failed > 0 {
		resp.Reasons = append(resp.Reasons, fmt.Sprintf("Failed %d course(s) - cannot progress", failed))
	}

	resp.CanProgress = len(resp.Reasons) == 0
	return resp, nil
}

// ────────────────────── History ──────────────────────

func (s *promotionService) History(ctx context.Context, studentID string) ([]dto.AcademicHistoryResponse, error) {
	if _, err := s.getStudent(ctx, studentID); err != nil {
		return nil, err
	}
	list, err := s.repo.History.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询学期快照失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}
	result := make([]dto.AcademicHistoryResponse, 0, len(list))
	for i := range list {
		h := &list[i]
		item := dto.AcademicHistoryResponse{
			SemesterID: h.SemesterID,
			GPA:        h.GPA,
			CGPA:       h.CGPA,
			RecordedAt: h.CreatedAt.Format(time.RFC3339),
		}
		if h.Semester != nil {
			item.SemesterName = h.Semester.Name
		}
		result = append(result, item)
	}
	return result, nil
}

func (s *promotionService) getStudent(ctx context.Context, id string) (*model.Student, error) {
	student, err := s.repo.Student.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return student, nil
}
