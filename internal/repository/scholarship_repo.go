package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/UmaaSadii/ICMS/internal/model"
)

// ScholarshipRepository 奖学金数据访问接口
type ScholarshipRepository interface {
	Create(ctx context.Context, s *model.Scholarship) error
	GetByID(ctx context.Context, id string) (*model.Scholarship, error)
	List(ctx context.Context) ([]model.Scholarship, error)
	AddStudent(ctx context.Context, scholarshipID, studentID string) error
	RemoveStudent(ctx context.Context, scholarshipID, studentID string) error
}

type scholarshipRepo struct {
	db *gorm.DB
}

// NewScholarshipRepo 创建 ScholarshipRepository 实例
func NewScholarshipRepo(db *gorm.DB) ScholarshipRepository {
	return &scholarshipRepo{db: db}
}

func (r *scholarshipRepo) Create(ctx context.Context, s *model.Scholarship) error {
	return r.db.WithContext(ctx).Omit("Students").Create(s).Error
}

func (r *scholarshipRepo) GetByID(ctx context.Context, id string) (*model.Scholarship, error) {
	var s model.Scholarship
	err := r.db.WithContext(ctx).
		Preload("Students").
		Where("scholarship_id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *scholarshipRepo) List(ctx context.Context) ([]model.Scholarship, error) {
	var list []model.Scholarship
	err := r.db.WithContext(ctx).
		Preload("Students").
		Order("name ASC").
		Find(&list).Error
	return list, err
}

// AddStudent 添加成员，已存在时忽略
func (r *scholarshipRepo) AddStudent(ctx context.Context, scholarshipID, studentID string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.ScholarshipStudent{ScholarshipID: scholarshipID, StudentID: studentID}).Error
}

func (r *scholarshipRepo) RemoveStudent(ctx context.Context, scholarshipID, studentID string) error {
	return r.db.WithContext(ctx).
		Where("scholarship_id = ? AND student_id = ?", scholarshipID, studentID).
		Delete(&model.ScholarshipStudent{}).Error
}
