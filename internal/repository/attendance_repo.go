package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/UmaaSadii/ICMS/internal/model"
)

// AttendanceRepository 考勤数据访问接口
type AttendanceRepository interface {
	Create(ctx context.Context, a *model.Attendance) error
	GetByID(ctx context.Context, id string) (*model.Attendance, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.Attendance, error)
	UpdateStatus(ctx context.Context, id, status string, updatedBy *string) error
	Delete(ctx context.Context, id string) error
	CountByStudent(ctx context.Context, studentID string) (present int64, total int64, err error)
}

type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo 创建 AttendanceRepository 实例
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) Create(ctx context.Context, a *model.Attendance) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *attendanceRepo) GetByID(ctx context.Context, id string) (*model.Attendance, error) {
	var a model.Attendance
	err := r.db.WithContext(ctx).
		Where("attendance_id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attendanceRepo) ListByStudent(ctx context.Context, studentID string) ([]model.Attendance, error) {
	var list []model.Attendance
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("date DESC").
		Find(&list).Error
	return list, err
}

func (r *attendanceRepo) UpdateStatus(ctx context.Context, id, status string, updatedBy *string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Attendance{}).
		Where("attendance_id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_by": updatedBy,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *attendanceRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("attendance_id = ?", id).
		Delete(&model.Attendance{}).Error
}

// CountByStudent 返回出勤（Present）次数与总记录数
func (r *attendanceRepo) CountByStudent(ctx context.Context, studentID string) (int64, int64, error) {
	var row struct {
		Present int64
		Total   int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Attendance{}).
		Select("COUNT(*) FILTER (WHERE status = ?) AS present, COUNT(*) AS total", model.AttendancePresent).
		Where("student_id = ?", studentID).
		Scan(&row).Error
	return row.Present, row.Total, err
}
