package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/UmaaSadii/ICMS/config"
	"github.com/UmaaSadii/ICMS/internal/dto"
	"github.com/UmaaSadii/ICMS/internal/model"
	"github.com/UmaaSadii/ICMS/internal/repository"
	pkgerrors "github.com/UmaaSadii/ICMS/pkg/errors"
)

// ── 学生模块业务错误 ──

var (
	ErrStudentNotFound    = errors.New("学生不存在")
	ErrStudentEmailExists = errors.New("邮箱已被使用")
	ErrStudentDropped     = errors.New("学生已退学")
	ErrInvalidDate        = errors.New("日期格式错误，应为 YYYY-MM-DD")
)

// StudentService 学生业务接口
type StudentService interface {
	Create(ctx context.Context, req *dto.CreateStudentRequest, callerID string) (*dto.StudentResponse, error)
	GetByID(ctx context.Context, id string) (*dto.StudentResponse, error)
	List(ctx context.Context, req *dto.StudentListRequest) ([]dto.StudentResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateStudentRequest, callerID string) (*dto.StudentResponse, error)
	Delete(ctx context.Context, id string) error
	// ChangeSemester 手动调整学期：重写选课并为新学期生成账单
	ChangeSemester(ctx context.Context, id string, req *dto.ChangeSemesterRequest, callerID string) (*dto.StudentResponse, error)
}

type studentService struct {
	repo    *repository.Repository
	billing config.BillingConfig
	logger  *zap.Logger
	now     func() time.Time
}

// NewStudentService 创建 StudentService 实例
func NewStudentService(repo *repository.Repository, billing config.BillingConfig, logger *zap.Logger) StudentService {
	return &studentService{repo: repo, billing: billing, logger: logger, now: time.Now}
}

// ────────────────────── Create ──────────────────────

func (s *studentService) Create(ctx context.Context, req *dto.CreateStudentRequest, callerID string) (*dto.StudentResponse, error) {
	dept, err := s.repo.Department.GetByID(ctx, req.DepartmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		s.logger.Error("查询院系失败", zap.Error(err))
		return nil, err
	}

	var semester *model.Semester
	if req.SemesterID != "" {
		semester, err = s.repo.Semester.GetByID(ctx, req.SemesterID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSemesterNotFound
			}
			s.logger.Error("查询学期失败", zap.Error(err))
			return nil, err
		}
		if semester.DepartmentID != dept.DepartmentID {
			return nil, ErrSemesterDepartmentMatch
		}
	}

	enrolledAt := s.now()
	if req.EnrollmentDate != "" {
		if enrolledAt, err = time.Parse("2006-01-02", req.EnrollmentDate); err != nil {
			return nil, ErrInvalidDate
		}
	}
	var dob *datatypes.Date
	if req.DateOfBirth != "" {
		t, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return nil, ErrInvalidDate
		}
		dob = model.DatePtr(t)
	}

	studentID, err := s.nextStudentID(ctx, dept)
	if err != nil {
		s.logger.Error("生成学号失败", zap.Error(err))
		return nil, err
	}

	student := &model.Student{
		StudentID:          studentID,
		Name:               strings.TrimSpace(req.Name),
		Email:              strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:              req.Phone,
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		RegistrationNumber: req.RegistrationNumber,
		Gender:             req.Gender,
		BloodGroup:         req.BloodGroup,
		GuardianName:       req.GuardianName,
		GuardianContact:    req.GuardianContact,
		Address:            req.Address,
		Batch:              req.Batch,
		DateOfBirth:        dob,
		DepartmentID:       &dept.DepartmentID,
		EnrollmentDate:     model.DateOf(enrolledAt),
		Status:             model.StudentStatusEnrolled,
	}
	student.Version = 1
	student.CreatedBy = &callerID
	student.UpdatedBy = &callerID

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Student.Create(ctx, student); err != nil {
			return err
		}
		if semester != nil {
			return assignSemester(ctx, txRepo, student.StudentID, semester, callerID)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrStudentEmailExists
		}
		s.logger.Error("创建学生失败", zap.Error(err))
		return nil, err
	}

	if semester != nil {
		s.provisionQuietly(ctx, student.StudentID, semester, enrolledAt)
	}

	return s.GetByID(ctx, student.StudentID)
}

// nextStudentID 院系代码小写 + 三位序号；序号从院系学生数 + 1 起，遇到已占用的学号顺延
func (s *studentService) nextStudentID(ctx context.Context, dept *model.Department) (string, error) {
	count, err := s.repo.Department.CountStudents(ctx, dept.DepartmentID)
	if err != nil {
		return "", err
	}
	for seq := count + 1; ; seq++ {
		id := model.FormatStudentID(dept.Code, seq)
		exists, err := s.repo.Student.ExistsByID(ctx, id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
}

// provisionQuietly 在独立事务中生成账单；失败只记录日志，不影响学生写入
func (s *studentService) provisionQuietly(ctx context.Context, studentID string, semester *model.Semester, base time.Time) {
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		fee, created, err := provisionFee(ctx, txRepo, studentID, semester.DepartmentID, semester.SemesterID, base, s.billing.DueDays)
		if err != nil {
			return err
		}
		if created {
			s.logger.Info("已生成学费账单",
				zap.String("student_id", studentID),
				zap.String("semester_id", semester.SemesterID),
				zap.String("amount", fee.Amount.StringFixed(2)),
			)
		} else if fee == nil {
			s.logger.Warn("未找到启用的学费标准，跳过账单生成",
				zap.String("student_id", studentID),
				zap.String("department_id", semester.DepartmentID),
				zap.String("semester_id", semester.SemesterID),
			)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("生成学费账单失败", zap.String("student_id", studentID), zap.Error(err))
	}
}

// ────────────────────── GetByID / List ──────────────────────

func (s *studentService) GetByID(ctx context.Context, id string) (*dto.StudentResponse, error) {
	student, err := s.repo.Student.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toStudentResponse(student), nil
}

func (s *studentService) List(ctx context.Context, req *dto.StudentListRequest) ([]dto.StudentResponse, int64, error) {
	students, err := s.repo.Student.List(ctx, &repository.StudentFilter{
		DepartmentID: req.DepartmentID,
		SemesterID:   req.SemesterID,
		Status:       req.Status,
		Keyword:      strings.TrimSpace(req.Keyword),
	})
	if err != nil {
		s.logger.Error("列出学生失败", zap.Error(err))
		return nil, 0, err
	}

	total := int64(len(students))
	start := req.GetOffset()
	if start > len(students) {
		start = len(students)
	}
	end := start + req.GetPageSize()
	if end > len(students) {
		end = len(students)
	}

	result := make([]dto.StudentResponse, 0, end-start)
	for i := start; i < end; i++ {
		result = append(result, *toStudentResponse(&students[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *studentService) Update(ctx context.Context, id string, req *dto.UpdateStudentRequest, callerID string) (*dto.StudentResponse, error) {
	student, err := s.repo.Student.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	applyStudentUpdate(student, req)
	if req.DateOfBirth != nil {
		t, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return nil, ErrInvalidDate
		}
		student.DateOfBirth = model.DatePtr(t)
	}
	student.Version = req.Version
	student.UpdatedBy = &callerID

	if err := s.repo.Student.Update(ctx, student); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, err
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrStudentEmailExists
		}
		s.logger.Error("更新学生失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toStudentResponse(student), nil
}

func applyStudentUpdate(st *model.Student, req *dto.UpdateStudentRequest) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&st.Name, req.Name)
	set(&st.Phone, req.Phone)
	set(&st.FirstName, req.FirstName)
	set(&st.LastName, req.LastName)
	set(&st.RegistrationNumber, req.RegistrationNumber)
	set(&st.Gender, req.Gender)
	set(&st.BloodGroup, req.BloodGroup)
	set(&st.GuardianName, req.GuardianName)
	set(&st.GuardianContact, req.GuardianContact)
	set(&st.Address, req.Address)
	set(&st.Batch, req.Batch)
	if req.Email != nil {
		st.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
}

// ────────────────────── Delete ──────────────────────

func (s *studentService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Student.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}
	if err := s.repo.Student.Delete(ctx, id); err != nil {
		s.logger.Error("删除学生失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── ChangeSemester ──────────────────────

func (s *studentService) ChangeSemester(ctx context.Context, id string, req *dto.ChangeSemesterRequest, callerID string) (*dto.StudentResponse, error) {
	student, err := s.repo.Student.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if student.IsDropped() {
		return nil, ErrStudentDropped
	}

	semester, err := s.repo.Semester.GetByID(ctx, req.SemesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		s.logger.Error("查询学期失败", zap.Error(err))
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		return assignSemester(ctx, txRepo, student.StudentID, semester, callerID)
	})
	if err != nil {
		s.logger.Error("调整学期失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.provisionQuietly(ctx, student.StudentID, semester, s.now())

	s.logger.Info("学生学期已调整",
		zap.String("student_id", id),
		zap.String("semester_id", semester.SemesterID),
	)
	return s.GetByID(ctx, id)
}

// ── 转换 ──

func toStudentResponse(st *model.Student) *dto.StudentResponse {
	resp := &dto.StudentResponse{
		StudentID:            st.StudentID,
		Name:                 st.Name,
		Email:                st.Email,
		Phone:                st.Phone,
		FirstName:            st.FirstName,
		LastName:             st.LastName,
		RegistrationNumber:   st.RegistrationNumber,
		Gender:               st.Gender,
		BloodGroup:           st.BloodGroup,
		GuardianName:         st.GuardianName,
		GuardianContact:      st.GuardianContact,
		Address:              st.Address,
		Batch:                st.Batch,
		DateOfBirth:          model.FormatDate(st.DateOfBirth),
		EnrollmentDate:       model.FormatDate(&st.EnrollmentDate),
		Status:               st.Status,
		CourseIDs:            make([]string, 0, len(st.Courses)),
		AttendancePercentage: st.AttendancePercentage,
		GPA:                  st.GPA,
		CGPA:                 st.CGPA,
		PreviousCGPA:         st.PreviousCGPA,
		PerformanceNotes:     st.PerformanceNotes,
		Version:              st.Version,
	}
	if st.Department != nil {
		resp.Department = &dto.DepartmentBrief{ID: st.Department.DepartmentID, Name: st.Department.Name, Code: st.Department.Code}
	}
	if st.Semester != nil {
		resp.Semester = &dto.SemesterBrief{ID: st.Semester.SemesterID, Name: st.Semester.Name, Code: st.Semester.Code}
	}
	for _, c := range st.Courses {
		resp.CourseIDs = append(resp.CourseIDs, c.CourseID)
	}
	return resp
}
