package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/UmaaSadii/ICMS/config"
	"github.com/UmaaSadii/ICMS/internal/dto"
	"github.com/UmaaSadii/ICMS/internal/model"
	"github.com/UmaaSadii/ICMS/internal/repository"
)

// ── 学费标准模块业务错误 ──

var (
	ErrFeeStructureNotFound      = errors.New("学费标准不存在")
	ErrFeeStructureExists        = errors.New("该院系学期已存在学费标准")
	ErrFeeStructureAmountInvalid = errors.New("学费金额不能为负数")
	ErrSemesterDepartmentMatch   = errors.New("学期不属于该院系")
)

// FeeStructureService 学费标准业务接口
type FeeStructureService interface {
	Create(ctx context.Context, req *dto.CreateFeeStructureRequest, callerID string) (*dto.FeeStructureResponse, error)
	GetByID(ctx context.Context, id string) (*dto.FeeStructureResponse, error)
	List(ctx context.Context, req *dto.FeeStructureListRequest) ([]dto.FeeStructureResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateFeeStructureRequest, callerID string) (*dto.FeeStructureResponse, error)
	Delete(ctx context.Context, id string) error
}

type feeStructureService struct {
	repo    *repository.Repository
	billing config.BillingConfig
	logger  *zap.Logger
}

// NewFeeStructureService 创建 FeeStructureService 实例
func NewFeeStructureService(repo *repository.Repository, billing config.BillingConfig, logger *zap.Logger) FeeStructureService {
	return &feeStructureService{repo: repo, billing: billing, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *feeStructureService) Create(ctx context.Context, req *dto.CreateFeeStructureRequest, callerID string) (*dto.FeeStructureResponse, error) {
	semester, err := s.repo.Semester.GetByID(ctx, req.SemesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		s.logger.Error("查询学期失败", zap.Error(err))
		return nil, err
	}
	if semester.DepartmentID != req.DepartmentID {
		return nil, ErrSemesterDepartmentMatch
	}

	var amount decimal.Decimal
	if req.Amount != nil {
		amount, err = parseAmount(*req.Amount)
		if err != nil || amount.IsNegative() {
			return nil, ErrFeeStructureAmountInvalid
		}
	} else {
		// 未给出金额时按配置公式以学期序号计算
		ordinal, _ := semester.Ordinal()
		amount, err = evalFeeFormula(s.billing.DefaultAmountFormula, ordinal)
		if err != nil {
			s.logger.Error("默认学费公式计算失败", zap.String("formula", s.billing.DefaultAmountFormula), zap.Error(err))
			return nil, err
		}
	}

	fs := &model.FeeStructure{
		DepartmentID: req.DepartmentID,
		SemesterID:   req.SemesterID,
		Amount:       amount,
		Description:  req.Description,
		IsActive:     true,
	}
	if req.IsActive != nil {
		fs.IsActive = *req.IsActive
	}
	fs.CreatedBy = &callerID
	fs.UpdatedBy = &callerID

	if err := s.repo.FeeStructure.Create(ctx, fs); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrFeeStructureExists
		}
		s.logger.Error("创建学费标准失败", zap.Error(err))
		return nil, err
	}
	fs.Semester = semester

	return toFeeStructureResponse(fs), nil
}

// ────────────────────── GetByID / List ──────────────────────

func (s *feeStructureService) GetByID(ctx context.Context, id string) (*dto.FeeStructureResponse, error) {
	fs, err := s.repo.FeeStructure.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeeStructureNotFound
		}
		s.logger.Error("查询学费标准失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toFeeStructureResponse(fs), nil
}

func (s *feeStructureService) List(ctx context.Context, req *dto.FeeStructureListRequest) ([]dto.FeeStructureResponse, error) {
	list, err := s.repo.FeeStructure.List(ctx, req.DepartmentID)
	if err != nil {
		s.logger.Error("列出学费标准失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.FeeStructureResponse, 0, len(list))
	for i := range list {
		result = append(result, *toFeeStructureResponse(&list[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

// Update 修改学费标准，不影响已生成的账单
func (s *feeStructureService) Update(ctx context.Context, id string, req *dto.UpdateFeeStructureRequest, callerID string) (*dto.FeeStructureResponse, error) {
	fs, err := s.repo.FeeStructure.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeeStructureNotFound
		}
		s.logger.Error("查询学费标准失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Amount != nil {
		amount, err := parseAmount(*req.Amount)
		if err != nil || amount.IsNegative() {
			return nil, ErrFeeStructureAmountInvalid
		}
		fs.Amount = amount
	}
	if req.Description != nil {
		fs.Description = *req.Description
	}
	if req.IsActive != nil {
		fs.IsActive = *req.IsActive
	}
	fs.UpdatedBy = &callerID

	if err := s.repo.FeeStructure.Update(ctx, fs); err != nil {
		s.logger.Error("更新学费标准失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toFeeStructureResponse(fs), nil
}

// ────────────────────── Delete ──────────────────────

func (s *feeStructureService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FeeStructure.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFeeStructureNotFound
		}
		return err
	}
	if err := s.repo.FeeStructure.Delete(ctx, id); err != nil {
		s.logger.Error("删除学费标准失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 辅助 ──

// parseAmount 解析金额字符串并保留两位小数
func parseAmount(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, err
	}
	return d.Round(2), nil
}

func toFeeStructureResponse(fs *model.FeeStructure) *dto.FeeStructureResponse {
	resp := &dto.FeeStructureResponse{
		ID:           fs.FeeStructureID,
		DepartmentID: fs.DepartmentID,
		SemesterID:   fs.SemesterID,
		Amount:       fs.Amount.StringFixed(2),
		Description:  fs.Description,
		IsActive:     fs.IsActive,
	}
	if fs.Semester != nil {
		resp.SemesterName = fs.Semester.Name
	}
	return resp
}
