package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/UmaaSadii/ICMS/internal/model"
)

// FeeRepository 学费账单数据访问接口
type FeeRepository interface {
	Create(ctx context.Context, fee *model.Fee) error
	GetByID(ctx context.Context, id string) (*model.Fee, error)
	GetByIDForUpdate(ctx context.Context, id string) (*model.Fee, error)
	GetByTriple(ctx context.Context, studentID, departmentID, semesterID string) (*model.Fee, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.Fee, error)
	ListByDepartmentSemester(ctx context.Context, departmentID, semesterID string) ([]model.Fee, error)
	UpdateLedger(ctx context.Context, fee *model.Fee) error
}

type feeRepo struct {
	db *gorm.DB
}

// NewFeeRepo 创建 FeeRepository 实例
func NewFeeRepo(db *gorm.DB) FeeRepository {
	return &feeRepo{db: db}
}

func (r *feeRepo) Create(ctx context.Context, fee *model.Fee) error {
	return r.db.WithContext(ctx).
		Omit("Student", "Department", "Semester", "Payments").
		Create(fee).Error
}

func (r *feeRepo) GetByID(ctx context.Context, id string) (*model.Fee, error) {
	var fee model.Fee
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Department").
		Preload("Semester").
		Where("fee_id = ?", id).
		First(&fee).Error
	if err != nil {
		return nil, err
	}
	return &fee, nil
}

// GetByIDForUpdate 加行锁读取账单（SELECT ... FOR UPDATE）
// 必须在事务连接上调用（通过 Repository.WithTx 注入），锁持有到事务结束
func (r *feeRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Fee, error) {
	var fee model.Fee
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("fee_id = ?", id).
		First(&fee).Error
	if err != nil {
		return nil, err
	}
	return &fee, nil
}

func (r *feeRepo) GetByTriple(ctx context.Context, studentID, departmentID, semesterID string) (*model.Fee, error) {
	var fee model.Fee
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND department_id = ? AND semester_id = ?", studentID, departmentID, semesterID).
		First(&fee).Error
	if err != nil {
		return nil, err
	}
	return &fee, nil
}

func (r *feeRepo) ListByStudent(ctx context.Context, studentID string) ([]model.Fee, error) {
	var fees []model.Fee
	err := r.db.WithContext(ctx).
		Preload("Semester").
		Preload("Department").
		Where("student_id = ?", studentID).
		Order("due_date DESC").
		Find(&fees).Error
	return fees, err
}

func (r *feeRepo) ListByDepartmentSemester(ctx context.Context, departmentID, semesterID string) ([]model.Fee, error) {
	var fees []model.Fee
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("department_id = ? AND semester_id = ?", departmentID, semesterID).
		Order("student_id ASC").
		Find(&fees).Error
	return fees, err
}

// UpdateLedger 写回派生字段：已缴金额、余额、状态、缴清日期
func (r *feeRepo) UpdateLedger(ctx context.Context, fee *model.Fee) error {
	return r.db.WithContext(ctx).
		Model(&model.Fee{}).
		Where("fee_id = ?", fee.FeeID).
		Updates(map[string]interface{}{
			"paid_amount": fee.PaidAmount,
			"balance":     fee.Balance,
			"status":      fee.Status,
			"paid_on":     fee.PaidOn,
			"updated_by":  fee.UpdatedBy,
		}).Error
}
