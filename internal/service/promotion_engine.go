package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/UmaaSadii/ICMS/internal/dto"
	"github.com/UmaaSadii/ICMS/internal/model"
	"github.com/UmaaSadii/ICMS/internal/repository"
)

// 期末结算结果状态
const (
	OutcomePending       = "pending"
	OutcomeProcessed     = "processed"
	OutcomeNotPromoted   = "not_promoted"
	OutcomeBlocked       = "blocked"
	OutcomePromoted      = "promoted"
	OutcomeFinalSemester = "final_semester"
)

// 查询时升级状态
const (
	StatusPending     = "pending"
	StatusDropped     = "dropped"
	StatusBlocked     = "blocked"
	StatusNotPromoted = "not_promoted"
	StatusPromote     = "promote"
	StatusCurrent     = "current"
)

const (
	// dropFailThreshold 最近连续期末不及格次数达到该值时建议退学
	dropFailThreshold = 3
	// minPromotionGPA 升级所需最低 GPA
	minPromotionGPA = 2.0
)

// promotionEngine 学期结算与升级流转
// 期末成绩触发与手动升级操作共用同一套步骤；所有写操作在调用方提供的 repo（事务）上执行
type promotionEngine struct {
	dueDays int
	logger  *zap.Logger
}

// transitionResult 学期流转结果
type transitionResult struct {
	PreviousFeeCleared bool
	NewFee             *model.Fee
	FeeAssigned        bool
}

// completeSemester 保存期末成绩后调用：该学期全部课程都有期末成绩时结算 GPA/CGPA、写入快照并尝试升级
// 返回 nil 表示该成绩与学生当前学期无关
func (e *promotionEngine) completeSemester(ctx context.Context, repo *repository.Repository, result *model.Result, at time.Time, callerID string) (*dto.PromotionOutcome, error) {
	student, err := repo.Student.GetByID(ctx, result.StudentID)
	if err != nil {
		return nil, err
	}
	if student.IsDropped() || student.SemesterID == nil {
		return nil, nil
	}

	course, err := repo.Course.GetByID(ctx, result.CourseID)
	if err != nil {
		return nil, err
	}
	if course.SemesterID != *student.SemesterID {
		return nil, nil
	}

	semester, err := repo.Semester.GetByID(ctx, *student.SemesterID)
	if err != nil {
		return nil, err
	}

	outcome := &dto.PromotionOutcome{
		State:          OutcomePending,
		GPA:            student.GPA,
		CGPA:           student.CGPA,
		FromSemesterID: semester.SemesterID,
	}

	courses, err := repo.Course.List(ctx, semester.SemesterID)
	if err != nil {
		return nil, err
	}
	finals, err := repo.Result.ListFinalsByStudent(ctx, student.StudentID)
	if err != nil {
		return nil, err
	}
	latest := latestFinalsByCourse(finals)
	for _, c := range courses {
		if latest[c.CourseID] == nil {
			outcome.Reason = "awaiting final results for all courses"
			return outcome, nil
		}
	}

	done, err := repo.History.Exists(ctx, student.StudentID, semester.SemesterID)
	if err != nil {
		return nil, err
	}
	if done {
		outcome.State = OutcomeProcessed
		outcome.Reason = "semester already processed"
		return outcome, nil
	}

	// 1. GPA / CGPA
	all, err := repo.Result.ListByStudent(ctx, student.StudentID)
	if err != nil {
		return nil, err
	}
	gpa := computeGPA(all)
	previous := student.CGPA
	cgpa := round2((previous + gpa) / 2)
	if err := repo.Student.UpdateFields(ctx, student.StudentID, map[string]interface{}{
		"gpa":           gpa,
		"previous_cgpa": previous,
		"cgpa":          cgpa,
	}); err != nil {
		return nil, err
	}
	outcome.GPA, outcome.CGPA = gpa, cgpa

	// 2. 学期快照
	if err := repo.History.Create(ctx, &model.StudentAcademicHistory{
		StudentID:  student.StudentID,
		SemesterID: semester.SemesterID,
		GPA:        gpa,
		CGPA:       cgpa,
	}); err != nil {
		return nil, err
	}
	outcome.HistoryRecorded = true

	// 3. 成绩不达标
	if failed := failedCourses(finals, courses); failed > 0 || gpa < minPromotionGPA {
		outcome.State = OutcomeNotPromoted
		outcome.Reason = fmt.Sprintf("failed %d course(s), gpa %.2f", failed, gpa)
		return outcome, nil
	}

	// 4. 欠费拦截
	if fee, err := currentFee(ctx, repo, student.StudentID, semester); err != nil {
		return nil, err
	} else if fee != nil && fee.IsOutstanding() {
		outcome.State = OutcomeBlocked
		outcome.Reason = "outstanding fee balance " + fee.Balance.StringFixed(2)
		return outcome, nil
	}

	// 5. 下一学期
	next, err := findNextSemester(ctx, repo, semester)
	if err != nil {
		return nil, err
	}
	if next == nil {
		outcome.State = OutcomeFinalSemester
		outcome.Reason = "no successor semester"
		return outcome, nil
	}

	tr, err := e.transition(ctx, repo, student.StudentID, semester, next, at, callerID)
	if err != nil {
		return nil, err
	}
	outcome.State = OutcomePromoted
	outcome.ToSemesterID = next.SemesterID
	outcome.FeeCleared = tr.PreviousFeeCleared
	outcome.FeeAssigned = tr.FeeAssigned
	if tr.NewFee != nil {
		outcome.FeeAmount = tr.NewFee.Amount.StringFixed(2)
	}

	e.logger.Info("学生已升级",
		zap.String("student_id", student.StudentID),
		zap.String("from", semester.Name),
		zap.String("to", next.Name),
		zap.Float64("gpa", gpa),
		zap.Float64("cgpa", cgpa),
	)
	return outcome, nil
}

// transition 核销上学期账单 → 切换学期并重写选课 → 为新学期生成账单（到期日 = 流转日期 + due_days）
func (e *promotionEngine) transition(ctx context.Context, repo *repository.Repository, studentID string, from, to *model.Semester, at time.Time, callerID string) (*transitionResult, error) {
	tr := &transitionResult{}

	if from != nil {
		cleared, err := writeOffFee(ctx, repo, studentID, from.DepartmentID, from.SemesterID, at, callerID)
		if err != nil {
			return nil, err
		}
		tr.PreviousFeeCleared = cleared != nil
	}

	if err := assignSemester(ctx, repo, studentID, to, callerID); err != nil {
		return nil, err
	}

	fee, created, err := provisionFee(ctx, repo, studentID, to.DepartmentID, to.SemesterID, at, e.dueDays)
	if err != nil {
		return nil, err
	}
	tr.NewFee = fee
	tr.FeeAssigned = created
	return tr, nil
}

// evaluate 查询时计算升级状态（不写库）
// 顺序：无期末成绩 → 连续不及格 → 欠费 → 期末未齐 → 成绩不达标 → 可升级 → 保持
func (e *promotionEngine) evaluate(ctx context.Context, repo *repository.Repository, student *model.Student) (*dto.PromotionStatus, error) {
	finals, err := repo.Result.ListFinalsByStudent(ctx, student.StudentID)
	if err != nil {
		return nil, err
	}

	status := &dto.PromotionStatus{ConsecutiveFails: consecutiveFails(finals)}

	if student.IsDropped() {
		status.Status = StatusDropped
		status.Message = "Student has been dropped"
		return status, nil
	}
	if len(finals) == 0 {
		status.Status = StatusPending
		status.Message = "No final results available"
		return status, nil
	}
	if status.ConsecutiveFails >= dropFailThreshold {
		status.Status = StatusDropped
		status.Action = dto.PromotionActionDrop
		status.Message = fmt.Sprintf("Student eligible for drop due to %d consecutive failures", status.ConsecutiveFails)
		return status, nil
	}
	if student.SemesterID == nil {
		status.Status = StatusPending
		status.Message = "Student is not assigned to a semester"
		return status, nil
	}

	semester, err := repo.Semester.GetByID(ctx, *student.SemesterID)
	if err != nil {
		return nil, err
	}

	fee, err := currentFee(ctx, repo, student.StudentID, semester)
	if err != nil {
		return nil, err
	}
	if fee != nil {
		status.FeeStatus = fee.Status
		if fee.IsOutstanding() {
			status.Status = StatusBlocked
			status.Action = "fee_payment_required"
			status.Message = "Cannot progress - outstanding fee payment of " + fee.Balance.StringFixed(2) + " required"
			return status, nil
		}
	}

	courses, err := repo.Course.List(ctx, semester.SemesterID)
	if err != nil {
		return nil, err
	}
	latest := latestFinalsByCourse(finals)
	missing := 0
	for _, c := range courses {
		if latest[c.CourseID] == nil {
			missing++
		}
	}
	if missing > 0 {
		status.Status = StatusPending
		status.Message = fmt.Sprintf("Awaiting final results for %d course(s)", missing)
		return status, nil
	}

	all, err := repo.Result.ListByStudent(ctx, student.StudentID)
	if err != nil {
		return nil, err
	}
	failed := failedCourses(finals, courses)
	if gpa := computeGPA(all); failed > 0 || gpa < minPromotionGPA {
		status.Status = StatusNotPromoted
		status.Message = fmt.Sprintf("Not promoted - failed %d course(s), GPA %.2f", failed, gpa)
		return status, nil
	}

	next, err := findNextSemester(ctx, repo, semester)
	if err != nil {
		return nil, err
	}
	if next != nil {
		status.Status = StatusPromote
		status.Action = dto.PromotionActionPromote
		status.Message = "Promote to " + next.Name
		status.NextSemesterID = next.SemesterID
		status.NextSemesterName = next.Name
		return status, nil
	}

	status.Status = StatusCurrent
	status.Message = "Student remains in current semester"
	return status, nil
}

// currentFee 学生在指定学期的账单，不存在时返回 nil
func currentFee(ctx context.Context, repo *repository.Repository, studentID string, semester *model.Semester) (*model.Fee, error) {
	fee, err := repo.Fee.GetByTriple(ctx, studentID, semester.DepartmentID, semester.SemesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return fee, nil
}
