package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/UmaaSadii/ICMS/internal/dto"
	"github.com/UmaaSadii/ICMS/internal/model"
	"github.com/UmaaSadii/ICMS/internal/repository"
)

var (
	ErrScholarshipNotFound      = errors.New("奖学金不存在")
	ErrScholarshipAmountInvalid = errors.New("奖学金金额必须大于 0")
)

// ScholarshipService 奖学金业务接口
// 成员变更后在同一事务内重算学生的出勤率与 GPA
type ScholarshipService interface {
	Create(ctx context.Context, req *dto.CreateScholarshipRequest, callerID string) (*dto.ScholarshipResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ScholarshipResponse, error)
	List(ctx context.Context) ([]dto.ScholarshipResponse, error)
	AddStudent(ctx context.Context, id, studentID string) (*dto.ScholarshipResponse, error)
	RemoveStudent(ctx context.Context, id, studentID string) (*dto.ScholarshipResponse, error)
}

type scholarshipService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewScholarshipService 创建 ScholarshipService 实例
func NewScholarshipService(repo *repository.Repository, logger *zap.Logger) ScholarshipService {
	return &scholarshipService{repo: repo, logger: logger}
}

func (s *scholarshipService) Create(ctx context.Context, req *dto.CreateScholarshipRequest, callerID string) (*dto.ScholarshipResponse, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil || !amount.IsPositive() {
		return nil, ErrScholarshipAmountInvalid
	}
	sch := &model.Scholarship{
		Name:        strings.TrimSpace(req.Name),
		Amount:      amount,
		Eligibility: req.Eligibility,
	}
	sch.CreatedBy = &callerID
	sch.UpdatedBy = &callerID

	if err := s.repo.Scholarship.Create(ctx, sch); err != nil {
		s.logger.Error("创建奖学金失败", zap.Error(err))
		return nil, err
	}
	return toScholarshipResponse(sch), nil
}

func (s *scholarshipService) GetByID(ctx context.Context, id string) (*dto.ScholarshipResponse, error) {
	sch, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toScholarshipResponse(sch), nil
}

func (s *scholarshipService) List(ctx context.Context) ([]dto.ScholarshipResponse, error) {
	list, err := s.repo.Scholarship.List(ctx)
	if err != nil {
		s.logger.Error("列出奖学金失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.ScholarshipResponse, 0, len(list))
	for i := range list {
		result = append(result, *toScholarshipResponse(&list[i]))
	}
	return result, nil
}

func (s *scholarshipService) AddStudent(ctx context.Context, id, studentID string) (*dto.ScholarshipResponse, error) {
	if _, err := s.get(ctx, id); err != nil {
		return nil, err
	}
	if _, err := s.repo.Student.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Scholarship.AddStudent(ctx, id, studentID); err != nil {
			return err
		}
		return refreshDerived(ctx, txRepo, studentID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("添加奖学金成员失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *scholarshipService) RemoveStudent(ctx context.Context, id, studentID string) (*dto.ScholarshipResponse, error) {
	if _, err := s.get(ctx, id); err != nil {
		return nil, err
	}
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Scholarship.RemoveStudent(ctx, id, studentID); err != nil {
			return err
		}
		return refreshDerived(ctx, txRepo, studentID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("移除奖学金成员失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *scholarshipService) get(ctx context.Context, id string) (*model.Scholarship, error) {
	sch, err := s.repo.Scholarship.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScholarshipNotFound
		}
		s.logger.Error("查询奖学金失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return sch, nil
}

func toScholarshipResponse(sch *model.Scholarship) *dto.ScholarshipResponse {
	ids := make([]string, 0, len(sch.Students))
	for _, st := range sch.Students {
		ids = append(ids, st.StudentID)
	}
	return &dto.ScholarshipResponse{
		ID:          sch.ScholarshipID,
		Name:        sch.Name,
		Amount:      sch.Amount.StringFixed(2),
		Eligibility: sch.Eligibility,
		StudentIDs:  ids,
	}
}
