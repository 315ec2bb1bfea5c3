package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/UmaaSadii/ICMS/internal/model"
)

// PaymentRepository 缴费记录数据访问接口
type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	GetByID(ctx context.Context, id string) (*model.Payment, error)
	Delete(ctx context.Context, id string) error
	SumByFee(ctx context.Context, feeID string) (decimal.Decimal, error)
	ListByFee(ctx context.Context, feeID string) ([]model.Payment, error)
	ListByDepartmentSemester(ctx context.Context, departmentID, semesterID string) ([]PaymentRecord, error)
}

// PaymentRecord 缴费记录及其所属账单、学生信息
type PaymentRecord struct {
	model.Payment
	StudentID   string
	StudentName string
	FeeAmount   decimal.Decimal
	FeeBalance  decimal.Decimal
	FeeStatus   string
}

type paymentRepo struct {
	db *gorm.DB
}

// NewPaymentRepo 创建 PaymentRepository 实例
func NewPaymentRepo(db *gorm.DB) PaymentRepository {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) Create(ctx context.Context, payment *model.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepo) GetByID(ctx context.Context, id string) (*model.Payment, error) {
	var p model.Payment
	err := r.db.WithContext(ctx).
		Where("payment_id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("payment_id = ?", id).
		Delete(&model.Payment{}).Error
}

// SumByFee 汇总账单下全部缴费金额，无记录时为 0
func (r *paymentRepo) SumByFee(ctx context.Context, feeID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("fee_id = ?", feeID).
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *paymentRepo) ListByFee(ctx context.Context, feeID string) ([]model.Payment, error) {
	var list []model.Payment
	err := r.db.WithContext(ctx).
		Where("fee_id = ?", feeID).
		Order("payment_date DESC").
		Find(&list).Error
	return list, err
}

// ListByDepartmentSemester 查询 (院系, 学期) 下的缴费流水
func (r *paymentRepo) ListByDepartmentSemester(ctx context.Context, departmentID, semesterID string) ([]PaymentRecord, error) {
	var list []PaymentRecord
	err := r.db.WithContext(ctx).
		Table("payments").
		Select(`payments.*, fees.student_id AS student_id, students.name AS student_name,
			fees.amount AS fee_amount, fees.balance AS fee_balance, fees.status AS fee_status`).
		Joins("JOIN fees ON fees.fee_id = payments.fee_id").
		Joins("JOIN students ON students.student_id = fees.student_id").
		Where("fees.department_id = ? AND fees.semester_id = ?", departmentID, semesterID).
		Order("payments.payment_date DESC").
		Scan(&list).Error
	return list, err
}
