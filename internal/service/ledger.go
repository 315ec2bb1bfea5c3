package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Knetic/govaluate"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/UmaaSadii/ICMS/internal/model"
	"github.com/UmaaSadii/ICMS/internal/repository"
)

// ── 账务与学期流转的共享步骤 ──
// 参数 repo 可以是事务绑定的聚合（Repository.WithTx），由调用方决定事务边界

// reconcileFee 锁定账单行，按全部缴费总额重新推导已缴金额、余额与状态
func reconcileFee(ctx context.Context, repo *repository.Repository, feeID string, at time.Time) (*model.Fee, error) {
	fee, err := repo.Fee.GetByIDForUpdate(ctx, feeID)
	if err != nil {
		return nil, err
	}
	total, err := repo.Payment.SumByFee(ctx, feeID)
	if err != nil {
		return nil, err
	}
	fee.ApplyPaymentTotal(total, at)
	if err := repo.Fee.UpdateLedger(ctx, fee); err != nil {
		return nil, err
	}
	return fee, nil
}

// provisionFee 为 (学生, 院系, 学期) 生成学费账单
// 没有启用的学费标准或账单已存在时不创建，created 为 false
func provisionFee(ctx context.Context, repo *repository.Repository, studentID, departmentID, semesterID string, base time.Time, dueDays int) (fee *model.Fee, created bool, err error) {
	existing, err := repo.Fee.GetByTriple(ctx, studentID, departmentID, semesterID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	structure, err := repo.FeeStructure.GetActive(ctx, departmentID, semesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	fee = model.NewFee(studentID, departmentID, semesterID, structure.Amount, base, base.AddDate(0, 0, dueDays))
	if err := repo.Fee.Create(ctx, fee); err != nil {
		return nil, false, err
	}
	return fee, true, nil
}

// writeOffFee 升学时核销账单余额：以 Waiver 方式补记一笔缴费后重新对账
// 账单不存在时返回 nil, nil
func writeOffFee(ctx context.Context, repo *repository.Repository, studentID, departmentID, semesterID string, at time.Time, callerID string) (*model.Fee, error) {
	fee, err := repo.Fee.GetByTriple(ctx, studentID, departmentID, semesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if _, err := repo.Fee.GetByIDForUpdate(ctx, fee.FeeID); err != nil {
		return nil, err
	}
	total, err := repo.Payment.SumByFee(ctx, fee.FeeID)
	if err != nil {
		return nil, err
	}

	remaining := fee.Amount.Sub(total)
	if remaining.IsPositive() {
		waiver := &model.Payment{
			FeeID:       fee.FeeID,
			Amount:      remaining,
			Method:      model.PaymentMethodWaiver,
			PaymentDate: at,
			Notes:       "Outstanding balance written off on promotion",
			CreatedBy:   &callerID,
		}
		if err := repo.Payment.Create(ctx, waiver); err != nil {
			return nil, err
		}
	}

	return reconcileFee(ctx, repo, fee.FeeID, at)
}

// assignSemester 更新学生的院系与学期，并将选课整体重写为该学期的全部课程
func assignSemester(ctx context.Context, repo *repository.Repository, studentID string, semester *model.Semester, callerID string) error {
	fields := map[string]interface{}{
		"department_id": semester.DepartmentID,
		"semester_id":   semester.SemesterID,
	}
	if callerID != "" {
		fields["updated_by"] = callerID
	}
	if err := repo.Student.UpdateFields(ctx, studentID, fields); err != nil {
		return err
	}

	courses, err := repo.Course.List(ctx, semester.SemesterID)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.CourseID)
	}
	return repo.Student.ReplaceCourses(ctx, studentID, ids)
}

// findNextSemester 查找同院系中序号加一的学期，不存在时返回 nil
func findNextSemester(ctx context.Context, repo *repository.Repository, current *model.Semester) (*model.Semester, error) {
	ordinal, ok := current.Ordinal()
	if !ok {
		return nil, nil
	}
	semesters, err := repo.Semester.List(ctx, current.DepartmentID)
	if err != nil {
		return nil, err
	}
	for i := range semesters {
		if n, ok := semesters[i].Ordinal(); ok && n == ordinal+1 {
			return &semesters[i], nil
		}
	}
	return nil, nil
}

// refreshDerived 重新计算学生的出勤率与 GPA
func refreshDerived(ctx context.Context, repo *repository.Repository, studentID string) error {
	present, total, err := repo.Attendance.CountByStudent(ctx, studentID)
	if err != nil {
		return err
	}
	results, err := repo.Result.ListByStudent(ctx, studentID)
	if err != nil {
		return err
	}
	return repo.Student.UpdateFields(ctx, studentID, map[string]interface{}{
		"attendance_percentage": attendancePercentage(present, total),
		"gpa":                   computeGPA(results),
	})
}

// attendancePercentage 出勤（Present）占比，保留两位小数
func attendancePercentage(present, total int64) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(present) * 100 / float64(total))
}

// computeGPA 全部成绩绩点的平均值，保留两位小数
func computeGPA(results []model.Result) float64 {
	if len(results) == 0 {
		return 0
	}
	var sum float64
	for i := range results {
		sum += model.GradePointForPercentage(results[i].Percentage())
	}
	return round2(sum / float64(len(results)))
}

// consecutiveFails 从最近一次期末成绩向前数连续 F 的次数，finals 须按时间倒序
func consecutiveFails(finals []model.Result) int {
	n := 0
	for i := range finals {
		if !finals[i].IsFailing() {
			break
		}
		n++
	}
	return n
}

// latestFinalsByCourse 每门课程取最近一次期末成绩，finals 须按时间倒序
func latestFinalsByCourse(finals []model.Result) map[string]*model.Result {
	m := make(map[string]*model.Result, len(finals))
	for i := range finals {
		if _, ok := m[finals[i].CourseID]; !ok {
			m[finals[i].CourseID] = &finals[i]
		}
	}
	return m
}

// failedCourses 给定课程中出现过 F 期末成绩的门数，之后补考及格的课程仍计入
func failedCourses(finals []model.Result, courses []model.Course) int {
	inSemester := make(map[string]bool, len(courses))
	for _, c := range courses {
		inSemester[c.CourseID] = true
	}
	failed := make(map[string]bool)
	for i := range finals {
		if inSemester[finals[i].CourseID] && finals[i].IsFailing() {
			failed[finals[i].CourseID] = true
		}
	}
	return len(failed)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// evalFeeFormula 用学期序号计算默认学费金额
func evalFeeFormula(formula string, ordinal int) (decimal.Decimal, error) {
	expr, err := govaluate.NewEvaluableExpression(formula)
	if err != nil {
		return decimal.Zero, fmt.Errorf("学费公式无法解析: %w", err)
	}
	result, err := expr.Evaluate(map[string]interface{}{"semester": float64(ordinal)})
	if err != nil {
		return decimal.Zero, fmt.Errorf("学费公式计算失败: %w", err)
	}
	amount, ok := result.(float64)
	if !ok {
		return decimal.Zero, fmt.Errorf("学费公式结果不是数字: %v", result)
	}
	return decimal.NewFromFloat(amount).Round(2), nil
}
