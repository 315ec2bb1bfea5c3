package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/UmaaSadii/ICMS/config"
	"github.com/UmaaSadii/ICMS/internal/model"
	"github.com/UmaaSadii/ICMS/internal/repository"
)

// ── 测试数据准备 ──

var testBilling = config.BillingConfig{
	DueDays:              30,
	DefaultAmountFormula: "semester % 2 == 0 ? 25000 : 30000",
	Currency:             "USD",
}

type fixture struct {
	m       *mocks
	repo    *repository.Repository
	dept    *model.Department
	sems    []*model.Semester          // sems[0] 为 Semester 1
	courses map[string][]*model.Course // semester_id → 课程
}

// newFixture 建立 CS 院系及 n 个学期，每学期 coursesPer 门课程并配置启用的学费标准
func newFixture(t *testing.T, n, coursesPer int) *fixture {
	t.Helper()
	ctx := context.Background()
	m := newMocks()
	f := &fixture{m: m, repo: m.repo(), courses: make(map[string][]*model.Course)}

	f.dept = &model.Department{Name: "Computer Science", Code: "CS", SemesterCount: n}
	if err := m.department.Create(ctx, f.dept); err != nil {
		t.Fatalf("创建院系失败: %v", err)
	}
	for i := 1; i <= n; i++ {
		sem := &model.Semester{
			Name:         fmt.Sprintf("Semester %d", i),
			Code:         fmt.Sprintf("CS-S%d", i),
			Program:      "BSCS",
			Capacity:     30,
			DepartmentID: f.dept.DepartmentID,
		}
		if err := m.semester.Create(ctx, sem); err != nil {
			t.Fatalf("创建学期失败: %v", err)
		}
		f.sems = append(f.sems, sem)

		for j := 1; j <= coursesPer; j++ {
			c := &model.Course{
				Name:       fmt.Sprintf("Course %d-%d", i, j),
				Code:       fmt.Sprintf("CS%d%02d", i, j),
				Credits:    3,
				SemesterID: sem.SemesterID,
			}
			if err := m.course.Create(ctx, c); err != nil {
				t.Fatalf("创建课程失败: %v", err)
			}
			f.courses[sem.SemesterID] = append(f.courses[sem.SemesterID], c)
		}

		amount := int64(30000)
		if i%2 == 0 {
			amount = 25000
		}
		fs := &model.FeeStructure{
			DepartmentID: f.dept.DepartmentID,
			SemesterID:   sem.SemesterID,
			Amount:       decimal.NewFromInt(amount),
			IsActive:     true,
		}
		if err := m.feeStructure.Create(ctx, fs); err != nil {
			t.Fatalf("创建学费标准失败: %v", err)
		}
	}
	return f
}

// sem 按序号取学期
func (f *fixture) sem(ordinal int) *model.Semester {
	return f.sems[ordinal-1]
}

// addStudent 直接写入一名已分配学期并选课的学生
func (f *fixture) addStudent(t *testing.T, id string, ordinal int) *model.Student {
	t.Helper()
	sem := f.sem(ordinal)
	deptID, semID := f.dept.DepartmentID, sem.SemesterID
	st := &model.Student{
		StudentID:      id,
		Name:           "Student " + id,
		Email:          id + "@example.edu",
		DepartmentID:   &deptID,
		SemesterID:     &semID,
		EnrollmentDate: model.DateOf(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)),
		Status:         model.StudentStatusEnrolled,
	}
	st.Version = 1
	if err := f.m.student.Create(context.Background(), st); err != nil {
		t.Fatalf("创建学生失败: %v", err)
	}
	var ids []string
	for _, c := range f.courses[semID] {
		ids = append(ids, c.CourseID)
	}
	f.m.db.studentCourse[id] = ids
	return st
}

// addFee 直接写入账单，paid 大于 0 时同时写入一笔缴费并对账
func (f *fixture) addFee(t *testing.T, studentID string, ordinal int, amount, paid int64) *model.Fee {
	t.Helper()
	ctx := context.Background()
	issued := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	fee := model.NewFee(studentID, f.dept.DepartmentID, f.sem(ordinal).SemesterID, decimal.NewFromInt(amount), issued, issued.AddDate(0, 0, 30))
	if err := f.m.fee.Create(ctx, fee); err != nil {
		t.Fatalf("创建账单失败: %v", err)
	}
	if paid > 0 {
		p := &model.Payment{FeeID: fee.FeeID, Amount: decimal.NewFromInt(paid), Method: model.PaymentMethodCash, PaymentDate: issued}
		if err := f.m.payment.Create(ctx, p); err != nil {
			t.Fatalf("创建缴费失败: %v", err)
		}
		reconciled, err := reconcileFee(ctx, f.repo, fee.FeeID, issued)
		if err != nil {
			t.Fatalf("对账失败: %v", err)
		}
		fee = reconciled
	}
	return fee
}

// addFinal 直接写入一条期末成绩，total 为总分（百分制）
func (f *fixture) addFinal(t *testing.T, studentID, courseID string, total float64, examDay int) *model.Result {
	t.Helper()
	r := &model.Result{
		StudentID:  studentID,
		CourseID:   courseID,
		ExamType:   model.ExamFinal,
		ExamDate:   model.DatePtr(time.Date(2026, 6, examDay, 0, 0, 0, 0, time.UTC)),
		FinalMarks: total,
	}
	r.Recalculate()
	if err := f.m.result.Create(context.Background(), r); err != nil {
		t.Fatalf("创建成绩失败: %v", err)
	}
	return r
}

// feeFor 查询学生在某学期的账单，不存在时返回 nil
func (f *fixture) feeFor(studentID string, ordinal int) *model.Fee {
	fee, err := f.m.fee.GetByTriple(context.Background(), studentID, f.dept.DepartmentID, f.sem(ordinal).SemesterID)
	if err != nil {
		return nil
	}
	return fee
}

func (f *fixture) student(t *testing.T, id string) *model.Student {
	t.Helper()
	st, err := f.m.student.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("查询学生失败: %v", err)
	}
	return st
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
