package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/UmaaSadii/ICMS/internal/model"
)

// ResultRepository 成绩数据访问接口
type ResultRepository interface {
	Create(ctx context.Context, result *model.Result) error
	GetByID(ctx context.Context, id string) (*model.Result, error)
	Update(ctx context.Context, result *model.Result) error
	Delete(ctx context.Context, id string) error
	ListByStudent(ctx context.Context, studentID string) ([]model.Result, error)
	ListFinalsByStudent(ctx context.Context, studentID string) ([]model.Result, error)
}

type resultRepo struct {
	db *gorm.DB
}

// NewResultRepo 创建 ResultRepository 实例
func NewResultRepo(db *gorm.DB) ResultRepository {
	return &resultRepo{db: db}
}

func (r *resultRepo) Create(ctx context.Context, result *model.Result) error {
	return r.db.WithContext(ctx).Omit("Course").Create(result).Error
}

func (r *resultRepo) GetByID(ctx context.Context, id string) (*model.Result, error) {
	var result model.Result
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("result_id = ?", id).
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *resultRepo) Update(ctx context.Context, result *model.Result) error {
	return r.db.WithContext(ctx).Omit("Course").Save(result).Error
}

func (r *resultRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("result_id = ?", id).
		Delete(&model.Result{}).Error
}

// ListByStudent 按考试日期倒序返回学生全部成绩
func (r *resultRepo) ListByStudent(ctx context.Context, studentID string) ([]model.Result, error) {
	var list []model.Result
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("student_id = ?", studentID).
		Order("exam_date DESC NULLS LAST, created_at DESC").
		Find(&list).Error
	return list, err
}

// ListFinalsByStudent 按时间倒序返回学生的期末成绩
func (r *resultRepo) ListFinalsByStudent(ctx context.Context, studentID string) ([]model.Result, error) {
	var list []model.Result
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("student_id = ? AND exam_type = ?", studentID, model.ExamFinal).
		Order("exam_date DESC NULLS LAST, created_at DESC").
		Find(&list).Error
	return list, err
}
