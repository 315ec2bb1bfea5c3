package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/UmaaSadii/ICMS/internal/model"
)

// FeeStructureRepository 学费标准数据访问接口
type FeeStructureRepository interface {
	Create(ctx context.Context, fs *model.FeeStructure) error
	GetByID(ctx context.Context, id string) (*model.FeeStructure, error)
	GetActive(ctx context.Context, departmentID, semesterID string) (*model.FeeStructure, error)
	List(ctx context.Context, departmentID string) ([]model.FeeStructure, error)
	Update(ctx context.Context, fs *model.FeeStructure) error
	Delete(ctx context.Context, id string) error
}

type feeStructureRepo struct {
	db *gorm.DB
}

// NewFeeStructureRepo 创建 FeeStructureRepository 实例
func NewFeeStructureRepo(db *gorm.DB) FeeStructureRepository {
	return &feeStructureRepo{db: db}
}

func (r *feeStructureRepo) Create(ctx context.Context, fs *model.FeeStructure) error {
	return r.db.WithContext(ctx).Create(fs).Error
}

func (r *feeStructureRepo) GetByID(ctx context.Context, id string) (*model.FeeStructure, error) {
	var fs model.FeeStructure
	err := r.db.WithContext(ctx).
		Preload("Department").
		Preload("Semester").
		Where("fee_structure_id = ?", id).
		First(&fs).Error
	if err != nil {
		return nil, err
	}
	return &fs, nil
}

// GetActive 查询 (院系, 学期) 下启用的学费标准
func (r *feeStructureRepo) GetActive(ctx context.Context, departmentID, semesterID string) (*model.FeeStructure, error) {
	var fs model.FeeStructure
	err := r.db.WithContext(ctx).
		Where("department_id = ? AND semester_id = ? AND is_active = ?", departmentID, semesterID, true).
		First(&fs).Error
	if err != nil {
		return nil, err
	}
	return &fs, nil
}

func (r *feeStructureRepo) List(ctx context.Context, departmentID string) ([]model.FeeStructure, error) {
	var list []model.FeeStructure
	query := r.db.WithContext(ctx).Preload("Semester")
	if departmentID != "" {
		query = query.Where("department_id = ?", departmentID)
	}
	err := query.Order("created_at ASC").Find(&list).Error
	return list, err
}

func (r *feeStructureRepo) Update(ctx context.Context, fs *model.FeeStructure) error {
	return r.db.WithContext(ctx).Omit("Department", "Semester").Save(fs).Error
}

func (r *feeStructureRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("fee_structure_id = ?", id).
		Delete(&model.FeeStructure{}).Error
}
