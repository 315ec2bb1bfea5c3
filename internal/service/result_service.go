package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/UmaaSadii/ICMS/config"
	"github.com/UmaaSadii/ICMS/internal/dto"
	"github.com/UmaaSadii/ICMS/internal/model"
	"github.com/UmaaSadii/ICMS/internal/repository"
)

// ── 成绩模块业务错误 ──

var ErrResultNotFound = errors.New("成绩记录不存在")

// defaultCourseCredits 课程未配置学分时的计算学分
const defaultCourseCredits = 3

// ResultService 成绩业务接口
type ResultService interface {
	// Record 录入成绩；期末成绩在同一事务内触发学期结算
	Record(ctx context.Context, req *dto.CreateResultRequest, callerID string) (*dto.RecordResultResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateResultRequest, callerID string) (*dto.RecordResultResponse, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*dto.ResultResponse, error)
	ListByStudent(ctx context.Context, studentID string) (*dto.StudentResultsResponse, error)
}

type resultService struct {
	repo   *repository.Repository
	engine *promotionEngine
	logger *zap.Logger
	now    func() time.Time
}

// NewResultService 创建 ResultService 实例
func NewResultService(repo *repository.Repository, billing config.BillingConfig, logger *zap.Logger) ResultService {
	return &resultService{
		repo:   repo,
		engine: &promotionEngine{dueDays: billing.DueDays, logger: logger},
		logger: logger,
		now:    time.Now,
	}
}

// ────────────────────── Record ──────────────────────

func (s *resultService) Record(ctx context.Context, req *dto.CreateResultRequest, callerID string) (*dto.RecordResultResponse, error) {
	if _, err := s.repo.Student.GetByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.Error(err))
		return nil, err
	}
	if _, err := s.repo.Course.GetByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Error(err))
		return nil, err
	}

	result := &model.Result{
		StudentID:        req.StudentID,
		CourseID:         req.CourseID,
		ExamType:         model.ParseExamType(req.ExamType),
		Quiz1Marks:       req.Quiz1Marks,
		Quiz2Marks:       req.Quiz2Marks,
		Assignment1Marks: req.Assignment1Marks,
		Assignment2Marks: req.Assignment2Marks,
		MidTermMarks:     req.MidTermMarks,
		FinalMarks:       req.FinalMarks,
	}
	if req.ExamDate != "" {
		t, err := time.Parse("2006-01-02", req.ExamDate)
		if err != nil {
			return nil, ErrInvalidDate
		}
		result.ExamDate = model.DatePtr(t)
	}
	result.CreatedBy = &callerID
	result.UpdatedBy = &callerID
	result.Recalculate()

	return s.save(ctx, result, callerID, func(txRepo *repository.Repository) error {
		return txRepo.Result.Create(ctx, result)
	})
}

// ────────────────────── Update ──────────────────────

func (s *resultService) Update(ctx context.Context, id string, req *dto.UpdateResultRequest, callerID string) (*dto.RecordResultResponse, error) {
	result, err := s.repo.Result.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResultNotFound
		}
		s.logger.Error("查询成绩失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.ExamType != nil {
		result.ExamType = model.ParseExamType(*req.ExamType)
	}
	if req.ExamDate != nil {
		t, err := time.Parse("2006-01-02", *req.ExamDate)
		if err != nil {
			return nil, ErrInvalidDate
		}
		result.ExamDate = model.DatePtr(t)
	}
	setMarks := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	setMarks(&result.Quiz1Marks, req.Quiz1Marks)
	setMarks(&result.Quiz2Marks, req.Quiz2Marks)
	setMarks(&result.Assignment1Marks, req.Assignment1Marks)
	setMarks(&result.Assignment2Marks, req.Assignment2Marks)
	setMarks(&result.MidTermMarks, req.MidTermMarks)
	setMarks(&result.FinalMarks, req.FinalMarks)
	result.UpdatedBy = &callerID
	result.Recalculate()

	return s.save(ctx, result, callerID, func(txRepo *repository.Repository) error {
		return txRepo.Result.Update(ctx, result)
	})
}

// save 写入成绩 → 刷新学生派生字段 → 期末成绩触发学期结算，全部在同一事务内
func (s *resultService) save(ctx context.Context, result *model.Result, callerID string, write func(txRepo *repository.Repository) error) (*dto.RecordResultResponse, error) {
	var outcome *dto.PromotionOutcome
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := write(txRepo); err != nil {
			return err
		}
		if err := refreshDerived(ctx, txRepo, result.StudentID); err != nil {
			return err
		}
		if !result.ExamType.IsFinal() {
			return nil
		}
		var err error
		outcome, err = s.engine.completeSemester(ctx, txRepo, result, s.now(), callerID)
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResultNotFound
		}
		s.logger.Error("保存成绩失败",
			zap.String("student_id", result.StudentID),
			zap.String("course_id", result.CourseID),
			zap.Error(err),
		)
		return nil, err
	}

	resp := &dto.RecordResultResponse{Promotion: outcome}
	if saved, err := s.repo.Result.GetByID(ctx, result.ResultID); err == nil {
		resp.Result = *toResultResponse(saved)
	} else {
		resp.Result = *toResultResponse(result)
	}
	return resp, nil
}

// ────────────────────── Delete / Get ──────────────────────

func (s *resultService) Delete(ctx context.Context, id string) error {
	result, err := s.repo.Result.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResultNotFound
		}
		return err
	}
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Result.Delete(ctx, id); err != nil {
			return err
		}
		return refreshDerived(ctx, txRepo, result.StudentID)
	})
	if err != nil {
		s.logger.Error("删除成绩失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *resultService) GetByID(ctx context.Context, id string) (*dto.ResultResponse, error) {
	result, err := s.repo.Result.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResultNotFound
		}
		s.logger.Error("查询成绩失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toResultResponse(result), nil
}

// ────────────────────── ListByStudent ──────────────────────

func (s *resultService) ListByStudent(ctx context.Context, studentID string) (*dto.StudentResultsResponse, error) {
	student, err := s.repo.Student.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.String("id", studentID), zap.Error(err))
		return nil, err
	}

	results, err := s.repo.Result.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询成绩列表失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}
	finals, err := s.repo.Result.ListFinalsByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	status, err := s.engine.evaluate(ctx, s.repo, student)
	if err != nil {
		s.logger.Error("计算升级状态失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	resp := &dto.StudentResultsResponse{
		StudentID:       studentID,
		Results:         make([]dto.ResultResponse, 0, len(results)),
		CreditSummary:   creditSummary(finals),
		PromotionStatus: *status,
	}
	for i := range results {
		resp.Results = append(resp.Results, *toResultResponse(&results[i]))
	}
	return resp, nil
}

// creditSummary 按每门课程最近一次期末成绩做学分加权
func creditSummary(finals []model.Result) dto.CreditSummary {
	var summary dto.CreditSummary
	for _, r := range latestFinalsByCourse(finals) {
		credits := defaultCourseCredits
		if r.Course != nil && r.Course.Credits > 0 {
			credits = r.Course.Credits
		}
		summary.TotalCredits += credits
		summary.TotalGradePoints += model.LetterGradePoints(r.Grade) * float64(credits)
		summary.CoursesCompleted++
	}
	summary.TotalGradePoints = round2(summary.TotalGradePoints)
	if summary.TotalCredits > 0 {
		summary.CGPA = round2(summary.TotalGradePoints / float64(summary.TotalCredits))
	}
	return summary
}

func toResultResponse(r *model.Result) *dto.ResultResponse {
	resp := &dto.ResultResponse{
		ID:               r.ResultID,
		StudentID:        r.StudentID,
		CourseID:         r.CourseID,
		ExamType:         string(r.ExamType),
		ExamTypeLabel:    r.ExamType.Label(),
		ExamDate:         model.FormatDate(r.ExamDate),
		Quiz1Marks:       r.Quiz1Marks,
		Quiz2Marks:       r.Quiz2Marks,
		Assignment1Marks: r.Assignment1Marks,
		Assignment2Marks: r.Assignment2Marks,
		MidTermMarks:     r.MidTermMarks,
		FinalMarks:       r.FinalMarks,
		TotalMarks:       r.TotalMarks,
		ObtainedMarks:    r.ObtainedMarks,
		Percentage:       round2(r.Percentage()),
		Grade:            r.Grade,
	}
	if r.Course != nil {
		resp.CourseName = r.Course.Name
		resp.CourseCode = r.Course.Code
	}
	return resp
}
