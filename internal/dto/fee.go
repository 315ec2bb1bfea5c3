package dto

// ── 学费模块 DTO ──

// RecordPaymentRequest 登记缴费
type RecordPaymentRequest struct {
	Amount        string `json:"amount"         binding:"required,numeric"`
	Method        string `json:"method"         binding:"omitempty,oneof=Cash Online Cheque"`
	PaymentDate   string `json:"payment_date"   binding:"omitempty,datetime=2006-01-02"`
	TransactionID string `json:"transaction_id" binding:"omitempty,max=100"`
	Notes         string `json:"notes"          binding:"omitempty,max=500"`
}

// FeeResponse 学费账单响应
type FeeResponse struct {
	ID           string            `json:"id"`
	StudentID    string            `json:"student_id"`
	StudentName  string            `json:"student_name,omitempty"`
	DepartmentID string            `json:"department_id"`
	SemesterID   string            `json:"semester_id"`
	SemesterName string            `json:"semester_name,omitempty"`
	Amount       string            `json:"amount"`
	PaidAmount   string            `json:"paid_amount"`
	Balance      string            `json:"balance"`
	Status       string            `json:"status"`
	DueDate      string            `json:"due_date"`
	PaidOn       string            `json:"paid_on,omitempty"`
	Payments     []PaymentResponse `json:"payments,omitempty"`
}

// PaymentResponse 缴费记录响应
type PaymentResponse struct {
	ID            string `json:"id"`
	FeeID         string `json:"fee_id"`
	Amount        string `json:"amount"`
	Method        string `json:"method"`
	PaymentDate   string `json:"payment_date"`
	TransactionID string `json:"transaction_id,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// RecordPaymentResponse 缴费结果：新缴费记录与对账后的账单
type RecordPaymentResponse struct {
	Payment PaymentResponse `json:"payment"`
	Fee     FeeResponse     `json:"fee"`
}

// ReceiptResponse 缴费收据
type ReceiptResponse struct {
	ReceiptNo     string `json:"receipt_no"`
	StudentID     string `json:"student_id"`
	StudentName   string `json:"student_name"`
	SemesterName  string `json:"semester_name"`
	Amount        string `json:"amount"`
	PaidAmount    string `json:"paid_amount"`
	Balance       string `json:"balance"`
	AmountInWords string `json:"amount_in_words"`
	Status        string `json:"status"`
	IssuedOn      string `json:"issued_on"`
	Text          string `json:"text"`
}

// FeeTermRequest 按 (院系, 学期) 查询
type FeeTermRequest struct {
	DepartmentID string `form:"department_id" binding:"required,uuid"`
	SemesterID   string `form:"semester_id"   binding:"required,uuid"`
}

// PaymentHistoryItem 缴费流水条目
type PaymentHistoryItem struct {
	PaymentID     string `json:"payment_id"`
	FeeID         string `json:"fee_id"`
	StudentID     string `json:"student_id"`
	StudentName   string `json:"student_name"`
	Amount        string `json:"amount"`
	Method        string `json:"method"`
	PaymentDate   string `json:"payment_date"`
	TransactionID string `json:"transaction_id,omitempty"`
	FeeStatus     string `json:"fee_status"`
	FeeBalance    string `json:"fee_balance"`
}

// PaymentHistoryResponse 缴费流水及汇总
type PaymentHistoryResponse struct {
	DepartmentID string               `json:"department_id"`
	SemesterID   string               `json:"semester_id"`
	TotalPaid    string               `json:"total_paid"`
	Count        int                  `json:"count"`
	Items        []PaymentHistoryItem `json:"items"`
}

// FeeStatusItem 学生缴费状态条目
type FeeStatusItem struct {
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
	FeeID       string `json:"fee_id"`
	Amount      string `json:"amount"`
	PaidAmount  string `json:"paid_amount"`
	Balance     string `json:"balance"`
	Status      string `json:"status"`
	DueDate     string `json:"due_date"`
	Overdue     bool   `json:"overdue"`
}

// FeeStatusResponse (院系, 学期) 缴费状态汇总
type FeeStatusResponse struct {
	DepartmentID   string          `json:"department_id"`
	SemesterID     string          `json:"semester_id"`
	TotalAmount    string          `json:"total_amount"`
	TotalCollected string          `json:"total_collected"`
	TotalBalance   string          `json:"total_balance"`
	PaidCount      int             `json:"paid_count"`
	PartialCount   int             `json:"partial_count"`
	UnpaidCount    int             `json:"unpaid_count"`
	Items          []FeeStatusItem `json:"items"`
}
