package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db           *gorm.DB
	Department   DepartmentRepository
	Semester     SemesterRepository
	Course       CourseRepository
	FeeStructure FeeStructureRepository
	Student      StudentRepository
	Attendance   AttendanceRepository
	Result       ResultRepository
	Fee          FeeRepository
	Payment      PaymentRepository
	History      AcademicHistoryRepository
	Scholarship  ScholarshipRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:           db,
		Department:   NewDepartmentRepo(db),
		Semester:     NewSemesterRepo(db),
		Course:       NewCourseRepo(db),
		FeeStructure: NewFeeStructureRepo(db),
		Student:      NewStudentRepo(db),
		Attendance:   NewAttendanceRepo(db),
		Result:       NewResultRepo(db),
		Fee:          NewFeeRepo(db),
		Payment:      NewPaymentRepo(db),
		History:      NewAcademicHistoryRepo(db),
		Scholarship:  NewScholarshipRepo(db),
	}
}

// BeginTx 开启事务
// 未绑定数据库连接（单元测试中的 mock 聚合）时返回 nil，调用方需判空
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx 返回绑定到事务连接的 Repository 聚合
// tx 为 nil 时返回自身
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// Transaction 在单个事务内执行 fn，fn 返回错误或 panic 时回滚
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) (err error) {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("开启事务失败: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(p)
		}
	}()

	if err := fn(r.WithTx(tx)); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		return err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			return fmt.Errorf("提交事务失败: %w", err)
		}
	}
	return nil
}

// Ping 检查数据库连接
func (r *Repository) Ping(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
