package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/UmaaSadii/ICMS/internal/dto"
	"github.com/UmaaSadii/ICMS/internal/model"
	"github.com/UmaaSadii/ICMS/internal/repository"
)

// ── 院系模块业务错误 ──

var (
	ErrDepartmentNotFound    = errors.New("院系不存在")
	ErrDepartmentCodeExists  = errors.New("院系代码或名称已存在")
	ErrDepartmentHasStudents = errors.New("院系下存在学生，无法删除")
)

// DepartmentService 院系业务接口
type DepartmentService interface {
	Create(ctx context.Context, req *dto.CreateDepartmentRequest, callerID string) (*dto.DepartmentResponse, error)
	GetByID(ctx context.Context, id string) (*dto.DepartmentResponse, error)
	List(ctx context.Context) ([]dto.DepartmentResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateDepartmentRequest, callerID string) (*dto.DepartmentResponse, error)
	Delete(ctx context.Context, id string) error
}

type departmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDepartmentService 创建 DepartmentService 实例
func NewDepartmentService(repo *repository.Repository, logger *zap.Logger) DepartmentService {
	return &departmentService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *departmentService) Create(ctx context.Context, req *dto.CreateDepartmentRequest, callerID string) (*dto.DepartmentResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))

	existing, err := s.repo.Department.GetByCode(ctx, code)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询院系失败", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return nil, ErrDepartmentCodeExists
	}

	dept := &model.Department{
		Name:          strings.TrimSpace(req.Name),
		Code:          code,
		Description:   req.Description,
		SemesterCount: req.SemesterCount,
	}
	if dept.SemesterCount == 0 {
		dept.SemesterCount = 8
	}
	dept.CreatedBy = &callerID
	dept.UpdatedBy = &callerID

	if err := s.repo.Department.Create(ctx, dept); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDepartmentCodeExists
		}
		s.logger.Error("创建院系失败", zap.Error(err))
		return nil, err
	}

	return s.toResponse(ctx, dept), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *departmentService) GetByID(ctx context.Context, id string) (*dto.DepartmentResponse, error) {
	dept, err := s.repo.Department.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		s.logger.Error("查询院系失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.toResponse(ctx, dept), nil
}

// ────────────────────── List ──────────────────────

func (s *departmentService) List(ctx context.Context) ([]dto.DepartmentResponse, error) {
	depts, err := s.repo.Department.List(ctx)
	if err != nil {
		s.logger.Error("列出院系失败", zap.Error(err))
		return nil, err
	}

	counts, err := s.repo.Department.StudentCounts(ctx)
	if err != nil {
		s.logger.Warn("统计院系学生失败", zap.Error(err))
	}

	result := make([]dto.DepartmentResponse, 0, len(depts))
	for i := range depts {
		result = append(result, *buildDepartmentResponse(&depts[i], counts[depts[i].DepartmentID]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *departmentService) Update(ctx context.Context, id string, req *dto.UpdateDepartmentRequest, callerID string) (*dto.DepartmentResponse, error) {
	dept, err := s.repo.Department.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		s.logger.Error("查询院系失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		dept.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		dept.Description = *req.Description
	}
	if req.SemesterCount != nil {
		dept.SemesterCount = *req.SemesterCount
	}
	dept.UpdatedBy = &callerID

	if err := s.repo.Department.Update(ctx, dept); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDepartmentCodeExists
		}
		s.logger.Error("更新院系失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toResponse(ctx, dept), nil
}

// ────────────────────── Delete ──────────────────────

func (s *departmentService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Department.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepartmentNotFound
		}
		s.logger.Error("查询院系失败", zap.String("id", id), zap.Error(err))
		return err
	}

	count, err := s.repo.Department.CountStudents(ctx, id)
	if err != nil {
		s.logger.Error("统计院系学生失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if count > 0 {
		return ErrDepartmentHasStudents
	}

	if err := s.repo.Department.Delete(ctx, id); err != nil {
		s.logger.Error("删除院系失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助 ──

func (s *departmentService) toResponse(ctx context.Context, dept *model.Department) *dto.DepartmentResponse {
	count, err := s.repo.Department.CountStudents(ctx, dept.DepartmentID)
	if err != nil {
		s.logger.Warn("统计院系学生失败", zap.String("id", dept.DepartmentID), zap.Error(err))
	}
	return buildDepartmentResponse(dept, count)
}

func buildDepartmentResponse(dept *model.Department, count int64) *dto.DepartmentResponse {
	return &dto.DepartmentResponse{
		ID:            dept.DepartmentID,
		Name:          dept.Name,
		Code:          dept.Code,
		Description:   dept.Description,
		SemesterCount: dept.SemesterCount,
		StudentCount:  count,
		CreatedAt:     dept.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     dept.UpdatedAt.Format(time.RFC3339),
	}
}
