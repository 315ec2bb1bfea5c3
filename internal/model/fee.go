package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// 学费状态
const (
	FeeStatusUnpaid  = "Unpaid"
	FeeStatusPartial = "Partial"
	FeeStatusPaid    = "Paid"
)

// Fee 学费账单表，对应 fees
// (student_id, department_id, semester_id) 唯一；PaidAmount / Balance / Status 为派生字段
type Fee struct {
	FeeID        string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"      json:"fee_id"`
	StudentID    string          `gorm:"type:varchar(20);not null;uniqueIndex:uq_fee_triple" json:"student_id"`
	DepartmentID string          `gorm:"type:uuid;not null;uniqueIndex:uq_fee_triple"        json:"department_id"`
	SemesterID   string          `gorm:"type:uuid;not null;uniqueIndex:uq_fee_triple"        json:"semester_id"`
	Amount       decimal.Decimal `gorm:"type:numeric(12,2);not null"                         json:"amount"`
	PaidAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"               json:"paid_amount"`
	Balance      decimal.Decimal `gorm:"type:numeric(12,2);not null"                         json:"balance"`
	Status       string          `gorm:"type:varchar(10);not null;default:'Unpaid'"          json:"status"` // Unpaid | Partial | Paid
	DueDate      datatypes.Date  `gorm:"type:date;not null"                                  json:"due_date"`
	PaidOn       *datatypes.Date `gorm:"type:date"                                           json:"paid_on,omitempty"`
	BaseModel

	// 关联
	Student    *Student    `gorm:"foreignKey:StudentID;references:StudentID"       json:"student,omitempty"`
	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
	Semester   *Semester   `gorm:"foreignKey:SemesterID;references:SemesterID"     json:"semester,omitempty"`
	Payments   []Payment   `gorm:"foreignKey:FeeID;references:FeeID"               json:"payments,omitempty"`
}

// TableName 指定表名
func (Fee) TableName() string { return "fees" }

// NewFee 以未缴状态创建账单，issued 为开具日期
func NewFee(studentID, departmentID, semesterID string, amount decimal.Decimal, issued, due time.Time) *Fee {
	f := &Fee{
		StudentID:    studentID,
		DepartmentID: departmentID,
		SemesterID:   semesterID,
		Amount:       amount,
		DueDate:      DateOf(due),
	}
	f.ApplyPaymentTotal(decimal.Zero, issued)
	return f
}

// ApplyPaymentTotal 由缴费总额重新推导已缴金额、余额与状态
// 只接受全量总额，重复调用结果一致；非 Paid 状态下清空 PaidOn，
// 首次变为 Paid 时 PaidOn 取触发日期
func (f *Fee) ApplyPaymentTotal(total decimal.Decimal, at time.Time) {
	f.PaidAmount = total
	f.Balance = f.Amount.Sub(total)

	switch {
	case total.GreaterThanOrEqual(f.Amount):
		f.Status = FeeStatusPaid
		if f.PaidOn == nil {
			f.PaidOn = DatePtr(at)
		}
	case total.IsPositive():
		f.Status = FeeStatusPartial
		f.PaidOn = nil
	default:
		f.Status = FeeStatusUnpaid
		f.PaidOn = nil
	}
}

// IsOutstanding 是否仍有欠费（Unpaid 或 Partial）
func (f *Fee) IsOutstanding() bool {
	return f.Status == FeeStatusUnpaid || f.Status == FeeStatusPartial
}
