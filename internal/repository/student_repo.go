package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/UmaaSadii/ICMS/internal/model"
	pkgerrors "github.com/UmaaSadii/ICMS/pkg/errors"
)

// StudentFilter 学生列表筛选条件
type StudentFilter struct {
	DepartmentID string
	SemesterID   string
	Status       string
	Keyword      string
}

// StudentRepository 学生数据访问接口
type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	GetByID(ctx context.Context, id string) (*model.Student, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, filter *StudentFilter) ([]model.Student, error)
	Update(ctx context.Context, student *model.Student) error
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	ReplaceCourses(ctx context.Context, studentID string, courseIDs []string) error
	ListCourseIDs(ctx context.Context, studentID string) ([]string, error)
}

type studentRepo struct {
	db *gorm.DB
}

// NewStudentRepo 创建 StudentRepository 实例
func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) Create(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).
		Omit("Department", "Semester", "Courses").
		Create(student).Error
}

func (r *studentRepo) GetByID(ctx context.Context, id string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Preload("Department").
		Preload("Semester").
		Preload("Courses").
		Where("student_id = ?", id).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Student{}).
		Where("student_id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *studentRepo) List(ctx context.Context, filter *StudentFilter) ([]model.Student, error) {
	var students []model.Student
	query := r.db.WithContext(ctx).
		Preload("Department").
		Preload("Semester")
	if filter != nil {
		if filter.DepartmentID != "" {
			query = query.Where("department_id = ?", filter.DepartmentID)
		}
		if filter.SemesterID != "" {
			query = query.Where("semester_id = ?", filter.SemesterID)
		}
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
		if filter.Keyword != "" {
			kw := "%" + filter.Keyword + "%"
			query = query.Where("name ILIKE ? OR email ILIKE ? OR student_id ILIKE ?", kw, kw, kw)
		}
	}
	err := query.Order("student_id ASC").Find(&students).Error
	return students, err
}

// Update 更新学生档案字段（乐观锁）
// 派生字段（GPA、考勤率等）与学期归属不在此处写入
func (r *studentRepo) Update(ctx context.Context, student *model.Student) error {
	oldVersion := student.Version
	result := r.db.WithContext(ctx).
		Model(&model.Student{}).
		Where("student_id = ? AND version = ?", student.StudentID, oldVersion).
		Updates(map[string]interface{}{
			"name":                student.Name,
			"email":               student.Email,
			"phone":               student.Phone,
			"first_name":          student.FirstName,
			"last_name":           student.LastName,
			"registration_number": student.RegistrationNumber,
			"gender":              student.Gender,
			"blood_group":         student.BloodGroup,
			"guardian_name":       student.GuardianName,
			"guardian_contact":    student.GuardianContact,
			"address":             student.Address,
			"batch":               student.Batch,
			"date_of_birth":       student.DateOfBirth,
			"updated_by":          student.UpdatedBy,
			"version":             oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	student.Version = oldVersion + 1
	return nil
}

// UpdateFields 直接写入系统维护的字段（派生值、学期归属、状态）
func (r *studentRepo) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&model.Student{}).
		Where("student_id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *studentRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("student_id = ?", id).
		Delete(&model.Student{}).Error
}

// ReplaceCourses 整体重写学生选课
func (r *studentRepo) ReplaceCourses(ctx context.Context, studentID string, courseIDs []string) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("student_id = ?", studentID).Delete(&model.StudentCourse{}).Error; err != nil {
		return err
	}
	if len(courseIDs) == 0 {
		return nil
	}
	rows := make([]model.StudentCourse, 0, len(courseIDs))
	for _, id := range courseIDs {
		rows = append(rows, model.StudentCourse{StudentID: studentID, CourseID: id})
	}
	return db.Create(&rows).Error
}

func (r *studentRepo) ListCourseIDs(ctx context.Context, studentID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.StudentCourse{}).
		Where("student_id = ?", studentID).
		Pluck("course_id", &ids).Error
	return ids, err
}
