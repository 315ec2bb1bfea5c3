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

// ── 学期模块业务错误 ──

var (
	ErrSemesterNotFound    = errors.New("学期不存在")
	ErrSemesterCodeExists  = errors.New("学期代码已存在")
	ErrSemesterNameInvalid = errors.New("学期名称末尾须为学期序号，例如 \"Semester 3\"")
)

// SemesterService 学期业务接口
type SemesterService interface {
	Create(ctx context.Context, req *dto.CreateSemesterRequest, callerID string) (*dto.SemesterResponse, error)
	GetByID(ctx context.Context, id string) (*dto.SemesterResponse, error)
	List(ctx context.Context, req *dto.SemesterListRequest) ([]dto.SemesterResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateSemesterRequest, callerID string) (*dto.SemesterResponse, error)
	Delete(ctx context.Context, id string) error
}

type semesterService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSemesterService 创建 SemesterService 实例
func NewSemesterService(repo *repository.Repository, logger *zap.Logger) SemesterService {
	return &semesterService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *semesterService) Create(ctx context.Context, req *dto.CreateSemesterRequest, callerID string) (*dto.SemesterResponse, error) {
	name := strings.TrimSpace(req.Name)
	if _, ok := model.ParseSemesterOrdinal(name); !ok {
		return nil, ErrSemesterNameInvalid
	}

	dept, err := s.repo.Department.GetByID(ctx, req.DepartmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		s.logger.Error("查询院系失败", zap.Error(err))
		return nil, err
	}

	semester := &model.Semester{
		Name:         name,
		Code:         strings.TrimSpace(req.Code),
		Program:      req.Program,
		Capacity:     req.Capacity,
		DepartmentID: dept.DepartmentID,
	}
	if semester.Capacity == 0 {
		semester.Capacity = 30
	}
	semester.CreatedBy = &callerID
	semester.UpdatedBy = &callerID

	if err := s.repo.Semester.Create(ctx, semester); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSemesterCodeExists
		}
		s.logger.Error("创建学期失败", zap.Error(err))
		return nil, err
	}
	semester.Department = dept

	return toSemesterResponse(semester), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *semesterService) GetByID(ctx context.Context, id string) (*dto.SemesterResponse, error) {
	semester, err := s.repo.Semester.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		s.logger.Error("查询学期失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toSemesterResponse(semester), nil
}

// ────────────────────── List ──────────────────────

func (s *semesterService) List(ctx context.Context, req *dto.SemesterListRequest) ([]dto.SemesterResponse, error) {
	semesters, err := s.repo.Semester.List(ctx, req.DepartmentID)
	if err != nil {
		s.logger.Error("列出学期失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SemesterResponse, 0, len(semesters))
	for i := range semesters {
		result = append(result, *toSemesterResponse(&semesters[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *semesterService) Update(ctx context.Context, id string, req *dto.UpdateSemesterRequest, callerID string) (*dto.SemesterResponse, error) {
	semester, err := s.repo.Semester.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		s.logger.Error("查询学期失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if _, ok := model.ParseSemesterOrdinal(name); !ok {
			return nil, ErrSemesterNameInvalid
		}
		semester.Name = name
	}
	if req.Program != nil {
		semester.Program = *req.Program
	}
	if req.Capacity != nil {
		semester.Capacity = *req.Capacity
	}
	semester.UpdatedBy = &callerID

	if err := s.repo.Semester.Update(ctx, semester); err != nil {
		s.logger.Error("更新学期失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toSemesterResponse(semester), nil
}

// ────────────────────── Delete ──────────────────────

func (s *semesterService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Semester.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSemesterNotFound
		}
		s.logger.Error("查询学期失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if err := s.repo.Semester.Delete(ctx, id); err != nil {
		s.logger.Error("删除学期失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 转换 ──

func toSemesterResponse(sem *model.Semester) *dto.SemesterResponse {
	ordinal, _ := sem.Ordinal()
	resp := &dto.SemesterResponse{
		ID:             sem.SemesterID,
		Name:           sem.Name,
		Code:           sem.Code,
		Program:        sem.Program,
		Capacity:       sem.Capacity,
		Ordinal:        ordinal,
		IsBaseSemester: sem.IsBaseSemester(),
		Department:     dto.DepartmentBrief{ID: sem.DepartmentID},
		CreatedAt:      sem.CreatedAt.Format(time.RFC3339),
	}
	if sem.Department != nil {
		resp.Department.Name = sem.Department.Name
		resp.Department.Code = sem.Department.Code
	}
	return resp
}
