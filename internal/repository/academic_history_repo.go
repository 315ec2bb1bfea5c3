package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/UmaaSadii/ICMS/internal/model"
)

// AcademicHistoryRepository 学期成绩快照数据访问接口
type AcademicHistoryRepository interface {
	Create(ctx context.Context, h *model.StudentAcademicHistory) error
	Exists(ctx context.Context, studentID, semesterID string) (bool, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.StudentAcademicHistory, error)
}

type academicHistoryRepo struct {
	db *gorm.DB
}

// NewAcademicHistoryRepo 创建 AcademicHistoryRepository 实例
func NewAcademicHistoryRepo(db *gorm.DB) AcademicHistoryRepository {
	return &academicHistoryRepo{db: db}
}

func (r *academicHistoryRepo) Create(ctx context.Context, h *model.StudentAcademicHistory) error {
	return r.db.WithContext(ctx).Omit("Semester").Create(h).Error
}

func (r *academicHistoryRepo) Exists(ctx context.Context, studentID, semesterID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.StudentAcademicHistory{}).
		Where("student_id = ? AND semester_id = ?", studentID, semesterID).
		Count(&count).Error
	return count > 0, err
}

func (r *academicHistoryRepo) ListByStudent(ctx context.Context, studentID string) ([]model.StudentAcademicHistory, error) {
	var list []model.StudentAcademicHistory
	err := r.db.WithContext(ctx).
		Preload("Semester").
		Where("student_id = ?", studentID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}
