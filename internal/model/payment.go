package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 缴费方式
const (
	PaymentMethodCash   = "Cash"
	PaymentMethodOnline = "Online"
	PaymentMethodCheque = "Cheque"
	// PaymentMethodWaiver 升学时核销上学期欠费
	PaymentMethodWaiver = "Waiver"
)

// IsValidPaymentMethod 是否为可由用户提交的缴费方式
func IsValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodOnline, PaymentMethodCheque:
		return true
	}
	return false
}

// Payment 缴费记录表，对应 payments
// 创建后不可修改，只允许删除
type Payment struct {
	PaymentID     string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"payment_id"`
	FeeID         string          `gorm:"type:uuid;not null;index"                       json:"fee_id"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null"                    json:"amount"`
	Method        string          `gorm:"type:varchar(20);not null;default:'Cash'"       json:"method"`
	PaymentDate   time.Time       `gorm:"not null"                                       json:"payment_date"`
	TransactionID *string         `gorm:"type:varchar(100)"                              json:"transaction_id,omitempty"`
	Notes         string          `gorm:"type:text"                                      json:"notes,omitempty"`
	CreatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	CreatedBy     *string         `gorm:"type:varchar(64)"                               json:"created_by,omitempty"`
}

// TableName 指定表名
func (Payment) TableName() string { return "payments" }
