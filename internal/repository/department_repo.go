package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/UmaaSadii/ICMS/internal/model"
)

// DepartmentRepository 院系数据访问接口
type DepartmentRepository interface {
	Create(ctx context.Context, dept *model.Department) error
	GetByID(ctx context.Context, id string) (*model.Department, error)
	GetByCode(ctx context.Context, code string) (*model.Department, error)
	List(ctx context.Context) ([]model.Department, error)
	Update(ctx context.Context, dept *model.Department) error
	Delete(ctx context.Context, id string) error
	CountStudents(ctx context.Context, departmentID string) (int64, error)
	StudentCounts(ctx context.Context) (map[string]int64, error)
}

// departmentRepo DepartmentRepository 的 GORM 实现
type departmentRepo struct {
	db *gorm.DB
}

// NewDepartmentRepo 创建 DepartmentRepository 实例
func NewDepartmentRepo(db *gorm.DB) DepartmentRepository {
	return &departmentRepo{db: db}
}

func (r *departmentRepo) Create(ctx context.Context, dept *model.Department) error {
	return r.db.WithContext(ctx).Create(dept).Error
}

func (r *departmentRepo) GetByID(ctx context.Context, id string) (*model.Department, error) {
	var dept model.Department
	err := r.db.WithContext(ctx).
		Where("department_id = ?", id).
		First(&dept).Error
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepo) GetByCode(ctx context.Context, code string) (*model.Department, error) {
	var dept model.Department
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&dept).Error
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepo) List(ctx context.Context) ([]model.Department, error) {
	var depts []model.Department
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&depts).Error
	return depts, err
}

func (r *departmentRepo) Update(ctx context.Context, dept *model.Department) error {
	return r.db.WithContext(ctx).Save(dept).Error
}

func (r *departmentRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("department_id = ?", id).
		Delete(&model.Department{}).Error
}

// CountStudents 统计院系下的学生数（含已退学），用于生成学号序号
func (r *departmentRepo) CountStudents(ctx context.Context, departmentID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Student{}).
		Where("department_id = ?", departmentID).
		Count(&count).Error
	return count, err
}

// StudentCounts 按院系分组统计学生数，键为 department_id
func (r *departmentRepo) StudentCounts(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		DepartmentID string
		Total        int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Student{}).
		Select("department_id, COUNT(*) AS total").
		Where("department_id IS NOT NULL").
		Group("department_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.DepartmentID] = row.Total
	}
	return counts, nil
}
