package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/divan/num2words"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/UmaaSadii/ICMS/config"
	"github.com/UmaaSadii/ICMS/internal/dto"
	"github.com/UmaaSadii/ICMS/internal/model"
	"github.com/UmaaSadii/ICMS/internal/repository"
)

// ── 学费模块业务错误 ──

var (
	ErrFeeNotFound          = errors.New("学费账单不存在")
	ErrPaymentNotFound      = errors.New("缴费记录不存在")
	ErrPaymentAmountInvalid = errors.New("缴费金额必须大于 0")
	ErrPaymentMethodInvalid = errors.New("缴费方式无效")
	ErrWaiverNotDeletable   = errors.New("升学核销记录不可删除")
)

// FeeService 学费账单与缴费业务接口
//
// 缴费的创建与删除都在同一事务内完成：锁定账单行 → 写入/删除缴费 → 按缴费总额重算账单
type FeeService interface {
	RecordPayment(ctx context.Context, feeID string, req *dto.RecordPaymentRequest, callerID string) (*dto.RecordPaymentResponse, error)
	DeletePayment(ctx context.Context, paymentID string, callerID string) (*dto.FeeResponse, error)
	Reconcile(ctx context.Context, feeID string) (*dto.FeeResponse, error)
	GetByID(ctx context.Context, feeID string) (*dto.FeeResponse, error)
	ListByStudent(ctx context.Context, studentID string) ([]dto.FeeResponse, error)
	Receipt(ctx context.Context, feeID string) (*dto.ReceiptResponse, error)
	PaymentHistory(ctx context.Context, req *dto.FeeTermRequest) (*dto.PaymentHistoryResponse, error)
	FeeStatus(ctx context.Context, req *dto.FeeTermRequest) (*dto.FeeStatusResponse, error)
}

type feeService struct {
	repo    *repository.Repository
	billing config.BillingConfig
	logger  *zap.Logger
	now     func() time.Time
}

// NewFeeService 创建 FeeService 实例
func NewFeeService(repo *repository.Repository, billing config.BillingConfig, logger *zap.Logger) FeeService {
	return &feeService{repo: repo, billing: billing, logger: logger, now: time.Now}
}

// ────────────────────── RecordPayment ──────────────────────

func (s *feeService) RecordPayment(ctx context.Context, feeID string, req *dto.RecordPaymentRequest, callerID string) (*dto.RecordPaymentResponse, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil || !amount.IsPositive() {
		return nil, ErrPaymentAmountInvalid
	}
	method := req.Method
	if method == "" {
		method = model.PaymentMethodCash
	}
	if !model.IsValidPaymentMethod(method) {
		return nil, ErrPaymentMethodInvalid
	}

	paidAt := s.now()
	if req.PaymentDate != "" {
		if paidAt, err = time.Parse("2006-01-02", req.PaymentDate); err != nil {
			return nil, ErrInvalidDate
		}
	}

	payment := &model.Payment{
		FeeID:       feeID,
		Amount:      amount,
		Method:      method,
		PaymentDate: paidAt,
		Notes:       req.Notes,
		CreatedBy:   &callerID,
	}
	if req.TransactionID != "" {
		txID := req.TransactionID
		payment.TransactionID = &txID
	}

	var fee *model.Fee
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		// 先锁账单行，同一账单的并发缴费在此串行化
		if _, err := txRepo.Fee.GetByIDForUpdate(ctx, feeID); err != nil {
			return err
		}
		if err := txRepo.Payment.Create(ctx, payment); err != nil {
			return err
		}
		fee, err = reconcileFee(ctx, txRepo, feeID, paidAt)
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeeNotFound
		}
		s.logger.Error("登记缴费失败", zap.String("fee_id", feeID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("缴费已登记",
		zap.String("fee_id", feeID),
		zap.String("amount", amount.StringFixed(2)),
		zap.String("status", fee.Status),
		zap.String("balance", fee.Balance.StringFixed(2)),
	)

	return &dto.RecordPaymentResponse{
		Payment: toPaymentResponse(payment),
		Fee:     *toFeeResponse(fee),
	}, nil
}

// ────────────────────── DeletePayment ──────────────────────

func (s *feeService) DeletePayment(ctx context.Context, paymentID string, callerID string) (*dto.FeeResponse, error) {
	var fee *model.Fee
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		payment, err := txRepo.Payment.GetByID(ctx, paymentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}
		if payment.Method == model.PaymentMethodWaiver {
			return ErrWaiverNotDeletable
		}
		if _, err := txRepo.Fee.GetByIDForUpdate(ctx, payment.FeeID); err != nil {
			return err
		}
		if err := txRepo.Payment.Delete(ctx, paymentID); err != nil {
			return err
		}
		fee, err = reconcileFee(ctx, txRepo, payment.FeeID, s.now())
		return err
	})
	if err != nil {
		if errors.Is(err, ErrPaymentNotFound) || errors.Is(err, ErrWaiverNotDeletable) {
			return nil, err
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeeNotFound
		}
		s.logger.Error("删除缴费失败", zap.String("payment_id", paymentID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("缴费已删除",
		zap.String("payment_id", paymentID),
		zap.String("fee_id", fee.FeeID),
		zap.String("deleted_by", callerID),
		zap.String("status", fee.Status),
	)
	return toFeeResponse(fee), nil
}

// ────────────────────── Reconcile ──────────────────────

// Reconcile 手动触发对账，结果只取决于当前缴费记录
func (s *feeService) Reconcile(ctx context.Context, feeID string) (*dto.FeeResponse, error) {
	var fee *model.Fee
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		var err error
		fee, err = reconcileFee(ctx, txRepo, feeID, s.now())
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeeNotFound
		}
		s.logger.Error("对账失败", zap.String("fee_id", feeID), zap.Error(err))
		return nil, err
	}
	return toFeeResponse(fee), nil
}

// ────────────────────── 查询 ──────────────────────

func (s *feeService) GetByID(ctx context.Context, feeID string) (*dto.FeeResponse, error) {
	fee, err := s.getFee(ctx, feeID)
	if err != nil {
		return nil, err
	}
	payments, err := s.repo.Payment.ListByFee(ctx, feeID)
	if err != nil {
		s.logger.Error("查询缴费记录失败", zap.String("fee_id", feeID), zap.Error(err))
		return nil, err
	}

	resp := toFeeResponse(fee)
	resp.Payments = make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		resp.Payments = append(resp.Payments, toPaymentResponse(&payments[i]))
	}
	return resp, nil
}

func (s *feeService) ListByStudent(ctx context.Context, studentID string) ([]dto.FeeResponse, error) {
	if _, err := s.repo.Student.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	fees, err := s.repo.Fee.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询学生账单失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}
	result := make([]dto.FeeResponse, 0, len(fees))
	for i := range fees {
		result = append(result, *toFeeResponse(&fees[i]))
	}
	return result, nil
}

// ────────────────────── Receipt ──────────────────────

func (s *feeService) Receipt(ctx context.Context, feeID string) (*dto.ReceiptResponse, error) {
	fee, err := s.getFee(ctx, feeID)
	if err != nil {
		return nil, err
	}

	studentName, registration := "Unknown", "N/A"
	if fee.Student != nil {
		studentName = fee.Student.Name
		if studentName == "" {
			studentName = strings.TrimSpace(fee.Student.FirstName + " " + fee.Student.LastName)
		}
		registration = fee.Student.RegistrationNumber
		if registration == "" {
			registration = fee.Student.StudentID
		}
	}
	departmentName, semesterName := "N/A", "N/A"
	if fee.Department != nil {
		departmentName = fee.Department.Name
	}
	if fee.Semester != nil {
		semesterName = fee.Semester.Name
	}
	paidOn := model.FormatDate(fee.PaidOn)
	if paidOn == "" {
		paidOn = "N/A"
	}

	cur := s.billing.Currency
	words := amountInWords(fee.PaidAmount, cur)
	receiptNo := "RCPT-" + strings.ToUpper(strings.ReplaceAll(fee.FeeID, "-", ""))
	if len(receiptNo) > 13 {
		receiptNo = receiptNo[:13]
	}

	lines := []string{
		"Fee Receipt",
		"-----------",
		"Receipt No: " + receiptNo,
		"Student: " + studentName,
		"Registration: " + registration,
		"Department: " + departmentName,
		"Semester: " + semesterName,
		fmt.Sprintf("Amount: %s %s", cur, fee.Amount.StringFixed(2)),
		fmt.Sprintf("Paid Amount: %s %s", cur, fee.PaidAmount.StringFixed(2)),
		fmt.Sprintf("Balance: %s %s", cur, fee.Balance.StringFixed(2)),
		"Amount Paid in Words: " + words,
		"Status: " + fee.Status,
		"Due Date: " + model.FormatDate(&fee.DueDate),
		"Paid On: " + paidOn,
	}

	return &dto.ReceiptResponse{
		ReceiptNo:     receiptNo,
		StudentID:     fee.StudentID,
		StudentName:   studentName,
		SemesterName:  semesterName,
		Amount:        fee.Amount.StringFixed(2),
		PaidAmount:    fee.PaidAmount.StringFixed(2),
		Balance:       fee.Balance.StringFixed(2),
		AmountInWords: words,
		Status:        fee.Status,
		IssuedOn:      s.now().Format("2006-01-02"),
		Text:          strings.Join(lines, "\n"),
	}, nil
}

// amountInWords 例如 30000.50 → "thirty thousand USD and 50/100"
func amountInWords(amount decimal.Decimal, currency string) string {
	whole := amount.Truncate(0)
	cents := amount.Sub(whole).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	return fmt.Sprintf("%s %s and %02d/100", num2words.Convert(int(whole.IntPart())), currency, cents)
}

// ────────────────────── 院系学期汇总 ──────────────────────

func (s *feeService) PaymentHistory(ctx context.Context, req *dto.FeeTermRequest) (*dto.PaymentHistoryResponse, error) {
	records, err := s.repo.Payment.ListByDepartmentSemester(ctx, req.DepartmentID, req.SemesterID)
	if err != nil {
		s.logger.Error("查询缴费流水失败", zap.Error(err))
		return nil, err
	}

	total := decimal.Zero
	items := make([]dto.PaymentHistoryItem, 0, len(records))
	for i := range records {
		r := &records[i]
		total = total.Add(r.Amount)
		item := dto.PaymentHistoryItem{
			PaymentID:   r.PaymentID,
			FeeID:       r.FeeID,
			StudentID:   r.StudentID,
			StudentName: r.StudentName,
			Amount:      r.Amount.StringFixed(2),
			Method:      r.Method,
			PaymentDate: r.PaymentDate.Format("2006-01-02"),
			FeeStatus:   r.FeeStatus,
			FeeBalance:  r.FeeBalance.StringFixed(2),
		}
		if r.TransactionID != nil {
			item.TransactionID = *r.TransactionID
		}
		items = append(items, item)
	}

	return &dto.PaymentHistoryResponse{
		DepartmentID: req.DepartmentID,
		SemesterID:   req.SemesterID,
		TotalPaid:    total.StringFixed(2),
		Count:        len(items),
		Items:        items,
	}, nil
}

func (s *feeService) FeeStatus(ctx context.Context, req *dto.FeeTermRequest) (*dto.FeeStatusResponse, error) {
	fees, err := s.repo.Fee.ListByDepartmentSemester(ctx, req.DepartmentID, req.SemesterID)
	if err != nil {
		s.logger.Error("查询缴费状态失败", zap.Error(err))
		return nil, err
	}
	return buildFeeStatus(req.DepartmentID, req.SemesterID, fees, s.now()), nil
}

// buildFeeStatus 汇总账单状态；导出与查询共用
func buildFeeStatus(departmentID, semesterID string, fees []model.Fee, today time.Time) *dto.FeeStatusResponse {
	resp := &dto.FeeStatusResponse{
		DepartmentID: departmentID,
		SemesterID:   semesterID,
		Items:        make([]dto.FeeStatusItem, 0, len(fees)),
	}
	totalAmount, collected, balance := decimal.Zero, decimal.Zero, decimal.Zero
	todayDate := model.DateOf(today)

	for i := range fees {
		f := &fees[i]
		totalAmount = totalAmount.Add(f.Amount)
		collected = collected.Add(f.PaidAmount)
		balance = balance.Add(f.Balance)

		switch f.Status {
		case model.FeeStatusPaid:
			resp.PaidCount++
		case model.FeeStatusPartial:
			resp.PartialCount++
		default:
			resp.UnpaidCount++
		}

		name := ""
		if f.Student != nil {
			name = f.Student.Name
		}
		resp.Items = append(resp.Items, dto.FeeStatusItem{
			StudentID:   f.StudentID,
			StudentName: name,
			FeeID:       f.FeeID,
			Amount:      f.Amount.StringFixed(2),
			PaidAmount:  f.PaidAmount.StringFixed(2),
			Balance:     f.Balance.StringFixed(2),
			Status:      f.Status,
			DueDate:     model.FormatDate(&f.DueDate),
			Overdue:     f.IsOutstanding() && time.Time(f.DueDate).Before(time.Time(todayDate)),
		})
	}

	resp.TotalAmount = totalAmount.StringFixed(2)
	resp.TotalCollected = collected.StringFixed(2)
	resp.TotalBalance = balance.StringFixed(2)
	return resp
}

// ── 内部辅助 ──

func (s *feeService) getFee(ctx context.Context, feeID string) (*model.Fee, error) {
	fee, err := s.repo.Fee.GetByID(ctx, feeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeeNotFound
		}
		s.logger.Error("查询账单失败", zap.String("fee_id", feeID), zap.Error(err))
		return nil, err
	}
	return fee, nil
}

func toFeeResponse(f *model.Fee) *dto.FeeResponse {
	resp := &dto.FeeResponse{
		ID:           f.FeeID,
		StudentID:    f.StudentID,
		DepartmentID: f.DepartmentID,
		SemesterID:   f.SemesterID,
		Amount:       f.Amount.StringFixed(2),
		PaidAmount:   f.PaidAmount.StringFixed(2),
		Balance:      f.Balance.StringFixed(2),
		Status:       f.Status,
		DueDate:      model.FormatDate(&f.DueDate),
		PaidOn:       model.FormatDate(f.PaidOn),
	}
	if f.Student != nil {
		resp.StudentName = f.Student.Name
	}
	if f.Semester != nil {
		resp.SemesterName = f.Semester.Name
	}
	return resp
}

func toPaymentResponse(p *model.Payment) dto.PaymentResponse {
	resp := dto.PaymentResponse{
		ID:          p.PaymentID,
		FeeID:       p.FeeID,
		Amount:      p.Amount.StringFixed(2),
		Method:      p.Method,
		PaymentDate: p.PaymentDate.Format("2006-01-02"),
		Notes:       p.Notes,
	}
	if p.TransactionID != nil {
		resp.TransactionID = *p.TransactionID
	}
	return resp
}
