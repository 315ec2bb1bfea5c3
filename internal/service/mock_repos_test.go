package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/UmaaSadii/ICMS/internal/model"
	"github.com/UmaaSadii/ICMS/internal/repository"
	pkgerrors "github.com/UmaaSadii/ICMS/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// 内存数据集：各 mock repo 共享同一份数据，以便模拟 Preload 关联
// ═══════════════════════════════════════════════════════════

type memDB struct {
	seq int

	departments   map[string]*model.Department
	semesters     map[string]*model.Semester
	courses       map[string]*model.Course
	feeStructures map[string]*model.FeeStructure
	students      map[string]*model.Student
	studentCourse map[string][]string
	attendance    map[string]*model.Attendance
	results       map[string]*model.Result
	fees          map[string]*model.Fee
	payments      map[string]*model.Payment
	histories     []*model.StudentAcademicHistory
	scholarships  map[string]*model.Scholarship
	scholarMember map[string]map[string]bool
}

func newMemDB() *memDB {
	return &memDB{
		departments:   make(map[string]*model.Department),
		semesters:     make(map[string]*model.Semester),
		courses:       make(map[string]*model.Course),
		feeStructures: make(map[string]*model.FeeStructure),
		students:      make(map[string]*model.Student),
		studentCourse: make(map[string][]string),
		attendance:    make(map[string]*model.Attendance),
		results:       make(map[string]*model.Result),
		fees:          make(map[string]*model.Fee),
		payments:      make(map[string]*model.Payment),
		scholarships:  make(map[string]*model.Scholarship),
		scholarMember: make(map[string]map[string]bool),
	}
}

// nextID 生成递增 ID
func (db *memDB) nextID(prefix string) string {
	db.seq++
	return fmt.Sprintf("%s-%d", prefix, db.seq)
}

// tick 单调递增的写入时间，用于稳定排序
func (db *memDB) tick() time.Time {
	db.seq++
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(db.seq) * time.Second)
}

// mocks 聚合全部 mock repo，测试中可单独替换或注入错误
type mocks struct {
	db           *memDB
	department   *mockDeptRepo
	semester     *mockSemesterRepo
	course       *mockCourseRepo
	feeStructure *mockFeeStructureRepo
	student      *mockStudentRepo
	attendance   *mockAttendanceRepo
	result       *mockResultRepo
	fee          *mockFeeRepo
	payment      *mockPaymentRepo
	history      *mockHistoryRepo
	scholarship  *mockScholarshipRepo
}

func newMocks() *mocks {
	db := newMemDB()
	return &mocks{
		db:           db,
		department:   &mockDeptRepo{db: db},
		semester:     &mockSemesterRepo{db: db},
		course:       &mockCourseRepo{db: db},
		feeStructure: &mockFeeStructureRepo{db: db},
		student:      &mockStudentRepo{db: db},
		attendance:   &mockAttendanceRepo{db: db},
		result:       &mockResultRepo{db: db},
		fee:          &mockFeeRepo{db: db},
		payment:      &mockPaymentRepo{db: db},
		history:      &mockHistoryRepo{db: db},
		scholarship:  &mockScholarshipRepo{db: db},
	}
}

// repo 构造未绑定数据库的 Repository 聚合（Transaction 直接在 mock 上执行）
func (m *mocks) repo() *repository.Repository {
	return &repository.Repository{
		Department:   m.department,
		Semester:     m.semester,
		Course:       m.course,
		FeeStructure: m.feeStructure,
		Student:      m.student,
		Attendance:   m.attendance,
		Result:       m.result,
		Fee:          m.fee,
		Payment:      m.payment,
		History:      m.history,
		Scholarship:  m.scholarship,
	}
}

// ── Mock DepartmentRepository ──

type mockDeptRepo struct {
	db *memDB
}

func (m *mockDeptRepo) Create(_ context.Context, dept *model.Department) error {
	for _, d := range m.db.departments {
		if strings.EqualFold(d.Code, dept.Code) || d.Name == dept.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	if dept.DepartmentID == "" {
		dept.DepartmentID = m.db.nextID("dept")
	}
	cp := *dept
	m.db.departments[dept.DepartmentID] = &cp
	return nil
}

func (m *mockDeptRepo) GetByID(_ context.Context, id string) (*model.Department, error) {
	if d, ok := m.db.departments[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeptRepo) GetByCode(_ context.Context, code string) (*model.Department, error) {
	for _, d := range m.db.departments {
		if strings.EqualFold(d.Code, code) {
			cp := *d
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeptRepo) List(_ context.Context) ([]model.Department, error) {
	var list []model.Department
	for _, d := range m.db.departments {
		list = append(list, *d)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return list, nil
}

func (m *mockDeptRepo) Update(_ context.Context, dept *model.Department) error {
	if _, ok := m.db.departments[dept.DepartmentID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *dept
	m.db.departments[dept.DepartmentID] = &cp
	return nil
}

func (m *mockDeptRepo) Delete(_ context.Context, id string) error {
	delete(m.db.departments, id)
	return nil
}

func (m *mockDeptRepo) CountStudents(_ context.Context, departmentID string) (int64, error) {
	var n int64
	for _, s := range m.db.students {
		if s.DepartmentID != nil && *s.DepartmentID == departmentID {
			n++
		}
	}
	return n, nil
}

func (m *mockDeptRepo) StudentCounts(_ context.Context) (map[string]int64, error) {
	counts := map[string]int64{}
	for _, s := range m.db.students {
		if s.DepartmentID != nil {
			counts[*s.DepartmentID]++
		}
	}
	return counts, nil
}

// ── Mock SemesterRepository ──

type mockSemesterRepo struct {
	db *memDB
}

func (m *mockSemesterRepo) Create(_ context.Context, semester *model.Semester) error {
	for _, s := range m.db.semesters {
		if s.Code == semester.Code {
			return gorm.ErrDuplicatedKey
		}
	}
	if semester.SemesterID == "" {
		semester.SemesterID = m.db.nextID("sem")
	}
	cp := *semester
	cp.Department = nil
	m.db.semesters[semester.SemesterID] = &cp
	return nil
}

func (m *mockSemesterRepo) GetByID(_ context.Context, id string) (*model.Semester, error) {
	s, ok := m.db.semesters[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	if d, ok := m.db.departments[s.DepartmentID]; ok {
		dcp := *d
		cp.Department = &dcp
	}
	return &cp, nil
}

func (m *mockSemesterRepo) List(_ context.Context, departmentID string) ([]model.Semester, error) {
	var list []model.Semester
	for _, s := range m.db.semesters {
		if departmentID == "" || s.DepartmentID == departmentID {
			list = append(list, *s)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (m *mockSemesterRepo) Update(_ context.Context, semester *model.Semester) error {
	if _, ok := m.db.semesters[semester.SemesterID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *semester
	cp.Department = nil
	m.db.semesters[semester.SemesterID] = &cp
	return nil
}

func (m *mockSemesterRepo) Delete(_ context.Context, id string) error {
	delete(m.db.semesters, id)
	return nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	db *memDB
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	for _, c := range m.db.courses {
		if c.Code == course.Code {
			return gorm.ErrDuplicatedKey
		}
	}
	if course.CourseID == "" {
		course.CourseID = m.db.nextID("course")
	}
	cp := *course
	cp.Semester = nil
	m.db.courses[course.CourseID] = &cp
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.db.courses[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) List(_ context.Context, semesterID string) ([]model.Course, error) {
	var list []model.Course
	for _, c := range m.db.courses {
		if semesterID == "" || c.SemesterID == semesterID {
			list = append(list, *c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return list, nil
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	if _, ok := m.db.courses[course.CourseID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *course
	m.db.courses[course.CourseID] = &cp
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id string) error {
	delete(m.db.courses, id)
	return nil
}

// ── Mock FeeStructureRepository ──

type mockFeeStructureRepo struct {
	db           *memDB
	getActiveErr error
}

func (m *mockFeeStructureRepo) Create(_ context.Context, fs *model.FeeStructure) error {
	for _, f := range m.db.feeStructures {
		if f.DepartmentID == fs.DepartmentID && f.SemesterID == fs.SemesterID {
			return gorm.ErrDuplicatedKey
		}
	}
	if fs.FeeStructureID == "" {
		fs.FeeStructureID = m.db.nextID("fs")
	}
	cp := *fs
	m.db.feeStructures[fs.FeeStructureID] = &cp
	return nil
}

func (m *mockFeeStructureRepo) GetByID(_ context.Context, id string) (*model.FeeStructure, error) {
	if f, ok := m.db.feeStructures[id]; ok {
		cp := *f
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFeeStructureRepo) GetActive(_ context.Context, departmentID, semesterID string) (*model.FeeStructure, error) {
	if m.getActiveErr != nil {
		return nil, m.getActiveErr
	}
	for _, f := range m.db.feeStructures {
		if f.DepartmentID == departmentID && f.SemesterID == semesterID && f.IsActive {
			cp := *f
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFeeStructureRepo) List(_ context.Context, departmentID string) ([]model.FeeStructure, error) {
	var list []model.FeeStructure
	for _, f := range m.db.feeStructures {
		if departmentID == "" || f.DepartmentID == departmentID {
			list = append(list, *f)
		}
	}
	return list, nil
}

func (m *mockFeeStructureRepo) Update(_ context.Context, fs *model.FeeStructure) error {
	if _, ok := m.db.feeStructures[fs.FeeStructureID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *fs
	m.db.feeStructures[fs.FeeStructureID] = &cp
	return nil
}

func (m *mockFeeStructureRepo) Delete(_ context.Context, id string) error {
	delete(m.db.feeStructures, id)
	return nil
}

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	db        *memDB
	createErr error
}

func (m *mockStudentRepo) Create(_ context.Context, student *model.Student) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.db.students[student.StudentID]; ok {
		return gorm.ErrDuplicatedKey
	}
	for _, s := range m.db.students {
		if s.Email == student.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	cp := *student
	cp.Department, cp.Semester, cp.Courses = nil, nil, nil
	m.db.students[student.StudentID] = &cp
	return nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id string) (*model.Student, error) {
	s, ok := m.db.students[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	if s.DepartmentID != nil {
		if d, ok := m.db.departments[*s.DepartmentID]; ok {
			dcp := *d
			cp.Department = &dcp
		}
	}
	if s.SemesterID != nil {
		if sem, ok := m.db.semesters[*s.SemesterID]; ok {
			scp := *sem
			cp.Semester = &scp
		}
	}
	cp.Courses = nil
	for _, cid := range m.db.studentCourse[id] {
		if c, ok := m.db.courses[cid]; ok {
			cp.Courses = append(cp.Courses, *c)
		}
	}
	return &cp, nil
}

func (m *mockStudentRepo) ExistsByID(_ context.Context, id string) (bool, error) {
	_, ok := m.db.students[id]
	return ok, nil
}

func (m *mockStudentRepo) List(_ context.Context, f *repository.StudentFilter) ([]model.Student, error) {
	var list []model.Student
	for _, s := range m.db.students {
		if f.DepartmentID != "" && (s.DepartmentID == nil || *s.DepartmentID != f.DepartmentID) {
			continue
		}
		if f.SemesterID != "" && (s.SemesterID == nil || *s.SemesterID != f.SemesterID) {
			continue
		}
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		if f.Keyword != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(f.Keyword)) {
			continue
		}
		list = append(list, *s)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].StudentID < list[j].StudentID })
	return list, nil
}

func (m *mockStudentRepo) Update(_ context.Context, student *model.Student) error {
	s, ok := m.db.students[student.StudentID]
	if !ok || s.Version != student.Version {
		return pkgerrors.ErrOptimisticLock
	}
	cp := *student
	cp.Department, cp.Semester, cp.Courses = nil, nil, nil
	cp.Version = s.Version + 1
	student.Version = cp.Version
	m.db.students[student.StudentID] = &cp
	return nil
}

func (m *mockStudentRepo) UpdateFields(_ context.Context, id string, fields map[string]interface{}) error {
	s, ok := m.db.students[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range fields {
		switch k {
		case "department_id":
			d := v.(string)
			s.DepartmentID = &d
		case "semester_id":
			sid := v.(string)
			s.SemesterID = &sid
		case "status":
			s.Status = v.(string)
		case "performance_notes":
			s.PerformanceNotes = v.(string)
		case "attendance_percentage":
			s.AttendancePercentage = v.(float64)
		case "gpa":
			s.GPA = v.(float64)
		case "cgpa":
			s.CGPA = v.(float64)
		case "previous_cgpa":
			s.PreviousCGPA = v.(float64)
		case "updated_by":
			u := v.(string)
			s.UpdatedBy = &u
		default:
			return fmt.Errorf("mock: 未支持的字段 %s", k)
		}
	}
	return nil
}

func (m *mockStudentRepo) Delete(_ context.Context, id string) error {
	delete(m.db.students, id)
	delete(m.db.studentCourse, id)
	return nil
}

func (m *mockStudentRepo) ReplaceCourses(_ context.Context, studentID string, courseIDs []string) error {
	m.db.studentCourse[studentID] = append([]string(nil), courseIDs...)
	return nil
}

func (m *mockStudentRepo) ListCourseIDs(_ context.Context, studentID string) ([]string, error) {
	return append([]string(nil), m.db.studentCourse[studentID]...), nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	db *memDB
}

func (m *mockAttendanceRepo) Create(_ context.Context, a *model.Attendance) error {
	for _, x := range m.db.attendance {
		if x.StudentID == a.StudentID && time.Time(x.Date).Equal(time.Time(a.Date)) {
			return gorm.ErrDuplicatedKey
		}
	}
	a.AttendanceID = m.db.nextID("att")
	cp := *a
	m.db.attendance[a.AttendanceID] = &cp
	return nil
}

func (m *mockAttendanceRepo) GetByID(_ context.Context, id string) (*model.Attendance, error) {
	if a, ok := m.db.attendance[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) ListByStudent(_ context.Context, studentID string) ([]model.Attendance, error) {
	var list []model.Attendance
	for _, a := range m.db.attendance {
		if a.StudentID == studentID {
			list = append(list, *a)
		}
	}
	sort.Slice(list, func(i, j int) bool { return time.Time(list[i].Date).After(time.Time(list[j].Date)) })
	return list, nil
}

func (m *mockAttendanceRepo) UpdateStatus(_ context.Context, id, status string, updatedBy *string) error {
	a, ok := m.db.attendance[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.Status = status
	a.UpdatedBy = updatedBy
	return nil
}

func (m *mockAttendanceRepo) Delete(_ context.Context, id string) error {
	delete(m.db.attendance, id)
	return nil
}

func (m *mockAttendanceRepo) CountByStudent(_ context.Context, studentID string) (int64, int64, error) {
	var present, total int64
	for _, a := range m.db.attendance {
		if a.StudentID != studentID {
			continue
		}
		total++
		if a.Status == model.AttendancePresent {
			present++
		}
	}
	return present, total, nil
}

// ── Mock ResultRepository ──

type mockResultRepo struct {
	db *memDB
}

func (m *mockResultRepo) Create(_ context.Context, result *model.Result) error {
	result.ResultID = m.db.nextID("result")
	result.CreatedAt = m.db.tick()
	cp := *result
	cp.Course = nil
	m.db.results[result.ResultID] = &cp
	return nil
}

func (m *mockResultRepo) withCourse(r *model.Result) model.Result {
	cp := *r
	if c, ok := m.db.courses[r.CourseID]; ok {
		ccp := *c
		cp.Course = &ccp
	}
	return cp
}

func (m *mockResultRepo) GetByID(_ context.Context, id string) (*model.Result, error) {
	r, ok := m.db.results[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := m.withCourse(r)
	return &cp, nil
}

func (m *mockResultRepo) Update(_ context.Context, result *model.Result) error {
	if _, ok := m.db.results[result.ResultID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *result
	cp.Course = nil
	m.db.results[result.ResultID] = &cp
	return nil
}

func (m *mockResultRepo) Delete(_ context.Context, id string) error {
	delete(m.db.results, id)
	return nil
}

// sorted 按 exam_date DESC NULLS LAST, created_at DESC 排序
func (m *mockResultRepo) sorted(studentID string, finalsOnly bool) []model.Result {
	var list []model.Result
	for _, r := range m.db.results {
		if r.StudentID != studentID || (finalsOnly && !r.ExamType.IsFinal()) {
			continue
		}
		list = append(list, m.withCourse(r))
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		switch {
		case a.ExamDate != nil && b.ExamDate == nil:
			return true
		case a.ExamDate == nil && b.ExamDate != nil:
			return false
		case a.ExamDate != nil && b.ExamDate != nil && !time.Time(*a.ExamDate).Equal(time.Time(*b.ExamDate)):
			return time.Time(*a.ExamDate).After(time.Time(*b.ExamDate))
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return list
}

func (m *mockResultRepo) ListByStudent(_ context.Context, studentID string) ([]model.Result, error) {
	return m.sorted(studentID, false), nil
}

func (m *mockResultRepo) ListFinalsByStudent(_ context.Context, studentID string) ([]model.Result, error) {
	return m.sorted(studentID, true), nil
}

// ── Mock FeeRepository ──

type mockFeeRepo struct {
	db        *memDB
	lockCalls int
}

func (m *mockFeeRepo) Create(_ context.Context, fee *model.Fee) error {
	for _, f := range m.db.fees {
		if f.StudentID == fee.StudentID && f.DepartmentID == fee.DepartmentID && f.SemesterID == fee.SemesterID {
			return gorm.ErrDuplicatedKey
		}
	}
	fee.FeeID = m.db.nextID("fee")
	cp := *fee
	cp.Student, cp.Department, cp.Semester, cp.Payments = nil, nil, nil, nil
	m.db.fees[fee.FeeID] = &cp
	return nil
}

func (m *mockFeeRepo) load(f *model.Fee) *model.Fee {
	cp := *f
	if s, ok := m.db.students[f.StudentID]; ok {
		scp := *s
		cp.Student = &scp
	}
	if d, ok := m.db.departments[f.DepartmentID]; ok {
		dcp := *d
		cp.Department = &dcp
	}
	if sem, ok := m.db.semesters[f.SemesterID]; ok {
		scp := *sem
		cp.Semester = &scp
	}
	return &cp
}

func (m *mockFeeRepo) GetByID(_ context.Context, id string) (*model.Fee, error) {
	f, ok := m.db.fees[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m.load(f), nil
}

func (m *mockFeeRepo) GetByIDForUpdate(_ context.Context, id string) (*model.Fee, error) {
	m.lockCalls++
	f, ok := m.db.fees[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *f
	return &cp, nil
}

func (m *mockFeeRepo) GetByTriple(_ context.Context, studentID, departmentID, semesterID string) (*model.Fee, error) {
	for _, f := range m.db.fees {
		if f.StudentID == studentID && f.DepartmentID == departmentID && f.SemesterID == semesterID {
			cp := *f
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFeeRepo) ListByStudent(_ context.Context, studentID string) ([]model.Fee, error) {
	var list []model.Fee
	for _, f := range m.db.fees {
		if f.StudentID == studentID {
			list = append(list, *m.load(f))
		}
	}
	sort.Slice(list, func(i, j int) bool { return time.Time(list[i].DueDate).After(time.Time(list[j].DueDate)) })
	return list, nil
}

func (m *mockFeeRepo) ListByDepartmentSemester(_ context.Context, departmentID, semesterID string) ([]model.Fee, error) {
	var list []model.Fee
	for _, f := range m.db.fees {
		if f.DepartmentID == departmentID && f.SemesterID == semesterID {
			list = append(list, *m.load(f))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].StudentID < list[j].StudentID })
	return list, nil
}

func (m *mockFeeRepo) UpdateLedger(_ context.Context, fee *model.Fee) error {
	f, ok := m.db.fees[fee.FeeID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	f.PaidAmount = fee.PaidAmount
	f.Balance = fee.Balance
	f.Status = fee.Status
	f.PaidOn = fee.PaidOn
	return nil
}

// ── Mock PaymentRepository ──

type mockPaymentRepo struct {
	db *memDB
}

func (m *mockPaymentRepo) Create(_ context.Context, p *model.Payment) error {
	if _, ok := m.db.fees[p.FeeID]; !ok {
		return gorm.ErrRecordNotFound
	}
	p.PaymentID = m.db.nextID("pay")
	p.CreatedAt = m.db.tick()
	cp := *p
	m.db.payments[p.PaymentID] = &cp
	return nil
}

func (m *mockPaymentRepo) GetByID(_ context.Context, id string) (*model.Payment, error) {
	if p, ok := m.db.payments[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPaymentRepo) Delete(_ context.Context, id string) error {
	delete(m.db.payments, id)
	return nil
}

func (m *mockPaymentRepo) SumByFee(_ context.Context, feeID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range m.db.payments {
		if p.FeeID == feeID {
			total = total.Add(p.Amount)
		}
	}
	return total, nil
}

func (m *mockPaymentRepo) ListByFee(_ context.Context, feeID string) ([]model.Payment, error) {
	var list []model.Payment
	for _, p := range m.db.payments {
		if p.FeeID == feeID {
			list = append(list, *p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (m *mockPaymentRepo) ListByDepartmentSemester(_ context.Context, departmentID, semesterID string) ([]repository.PaymentRecord, error) {
	var list []repository.PaymentRecord
	for _, p := range m.db.payments {
		f, ok := m.db.fees[p.FeeID]
		if !ok || f.DepartmentID != departmentID || f.SemesterID != semesterID {
			continue
		}
		rec := repository.PaymentRecord{
			Payment:    *p,
			StudentID:  f.StudentID,
			FeeAmount:  f.Amount,
			FeeBalance: f.Balance,
			FeeStatus:  f.Status,
		}
		if s, ok := m.db.students[f.StudentID]; ok {
			rec.StudentName = s.Name
		}
		list = append(list, rec)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

// ── Mock AcademicHistoryRepository ──

type mockHistoryRepo struct {
	db *memDB
}

func (m *mockHistoryRepo) Create(_ context.Context, h *model.StudentAcademicHistory) error {
	for _, x := range m.db.histories {
		if x.StudentID == h.StudentID && x.SemesterID == h.SemesterID {
			return gorm.ErrDuplicatedKey
		}
	}
	h.HistoryID = m.db.nextID("hist")
	h.CreatedAt = m.db.tick()
	cp := *h
	m.db.histories = append(m.db.histories, &cp)
	return nil
}

func (m *mockHistoryRepo) Exists(_ context.Context, studentID, semesterID string) (bool, error) {
	for _, x := range m.db.histories {
		if x.StudentID == studentID && x.SemesterID == semesterID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockHistoryRepo) ListByStudent(_ context.Context, studentID string) ([]model.StudentAcademicHistory, error) {
	var list []model.StudentAcademicHistory
	for _, x := range m.db.histories {
		if x.StudentID == studentID {
			cp := *x
			if sem, ok := m.db.semesters[x.SemesterID]; ok {
				scp := *sem
				cp.Semester = &scp
			}
			list = append(list, cp)
		}
	}
	return list, nil
}

// ── Mock ScholarshipRepository ──

type mockScholarshipRepo struct {
	db *memDB
}

func (m *mockScholarshipRepo) Create(_ context.Context, s *model.Scholarship) error {
	s.ScholarshipID = m.db.nextID("sch")
	cp := *s
	m.db.scholarships[s.ScholarshipID] = &cp
	m.db.scholarMember[s.ScholarshipID] = make(map[string]bool)
	return nil
}

func (m *mockScholarshipRepo) load(s *model.Scholarship) model.Scholarship {
	cp := *s
	cp.Students = nil
	var ids []string
	for id := range m.db.scholarMember[s.ScholarshipID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if st, ok := m.db.students[id]; ok {
			cp.Students = append(cp.Students, *st)
		}
	}
	return cp
}

func (m *mockScholarshipRepo) GetByID(_ context.Context, id string) (*model.Scholarship, error) {
	s, ok := m.db.scholarships[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := m.load(s)
	return &cp, nil
}

func (m *mockScholarshipRepo) List(_ context.Context) ([]model.Scholarship, error) {
	var list []model.Scholarship
	for _, s := range m.db.scholarships {
		list = append(list, m.load(s))
	}
	return list, nil
}

func (m *mockScholarshipRepo) AddStudent(_ context.Context, scholarshipID, studentID string) error {
	m.db.scholarMember[scholarshipID][studentID] = true
	return nil
}

func (m *mockScholarshipRepo) RemoveStudent(_ context.Context, scholarshipID, studentID string) error {
	delete(m.db.scholarMember[scholarshipID], studentID)
	return nil
}
