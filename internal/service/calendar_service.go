package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/UmaaSadii/ICMS/internal/repository"
)

// ── 学费到期日历 ──────────────────────────────────────────────
//
// 每张未缴清的账单生成一个全天事件（到期日当天），UID 固定为 fee-<fee_id>@icms，
// 客户端重复订阅时按 UID 覆盖。已缴清的账单不输出。
// ─────────────────────────────────────────────────────────────

const calendarProductID = "-//ICMS//Fee Calendar//EN"

// CalendarService 学费到期日历
type CalendarService interface {
	// FeeCalendar 返回学生学费到期日的 iCalendar 文本
	FeeCalendar(ctx context.Context, studentID string) (string, error)
}

type calendarService struct {
	repo     *repository.Repository
	currency string
	logger   *zap.Logger
	now      func() time.Time
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(repo *repository.Repository, currency string, logger *zap.Logger) CalendarService {
	return &calendarService{repo: repo, currency: currency, logger: logger, now: time.Now}
}

func (s *calendarService) FeeCalendar(ctx context.Context, studentID string) (string, error) {
	student, err := s.repo.Student.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.String("id", studentID), zap.Error(err))
		return "", err
	}
	fees, err := s.repo.Fee.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询学生账单失败", zap.String("student_id", studentID), zap.Error(err))
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetName(fmt.Sprintf("%s fee due dates", student.Name))

	stamp := s.now().UTC()
	for i := range fees {
		f := &fees[i]
		if !f.IsOutstanding() {
			continue
		}
		term := f.SemesterID
		if f.Semester != nil {
			term = f.Semester.Name
		}
		due := time.Time(f.DueDate)

		event := cal.AddEvent(fmt.Sprintf("fee-%s@icms", f.FeeID))
		event.SetDtStampTime(stamp)
		event.SetAllDayStartAt(due)
		event.SetAllDayEndAt(due.AddDate(0, 0, 1))
		event.SetSummary(fmt.Sprintf("Fee due: %s", term))
		event.SetDescription(fmt.Sprintf("Outstanding balance %s %s (status %s)",
			f.Balance.StringFixed(2), s.currency, f.Status))
	}

	return cal.Serialize(), nil
}
