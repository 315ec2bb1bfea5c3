package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/UmaaSadii/ICMS/internal/api/middleware"
	"github.com/UmaaSadii/ICMS/internal/dto"
	"github.com/UmaaSadii/ICMS/internal/service"
	pkgerrors "github.com/UmaaSadii/ICMS/pkg/errors"
	"github.com/UmaaSadii/ICMS/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	testDeptID = "3f1c2a7e-9b4d-4c1e-8f2a-5d6e7f8a9b0c"
	testSemID  = "8a7b6c5d-4e3f-4a2b-9c1d-0e1f2a3b4c5d"
)

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock StudentService ──

type mockStudentService struct {
	createResult *dto.StudentResponse
	createErr    error
	getResult    *dto.StudentResponse
	getErr       error
	listResult   []dto.StudentResponse
	listTotal    int64
	listErr      error
	updateErr    error
	deleteErr    error
	changeResult *dto.StudentResponse
	changeErr    error

	lastCaller string
	lastList   *dto.StudentListRequest
}

func (m *mockStudentService) Create(_ context.Context, _ *dto.CreateStudentRequest, callerID string) (*dto.StudentResponse, error) {
	m.lastCaller = callerID
	return m.createResult, m.createErr
}
func (m *mockStudentService) GetByID(_ context.Context, _ string) (*dto.StudentResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockStudentService) List(_ context.Context, req *dto.StudentListRequest) ([]dto.StudentResponse, int64, error) {
	m.lastList = req
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockStudentService) Update(_ context.Context, _ string, _ *dto.UpdateStudentRequest, _ string) (*dto.StudentResponse, error) {
	return m.getResult, m.updateErr
}
func (m *mockStudentService) Delete(_ context.Context, _ string) error {
	return m.deleteErr
}
func (m *mockStudentService) ChangeSemester(_ context.Context, _ string, _ *dto.ChangeSemesterRequest, _ string) (*dto.StudentResponse, error) {
	return m.changeResult, m.changeErr
}

// ── Mock FeeService ──

type mockFeeService struct {
	recordResult  *dto.RecordPaymentResponse
	recordErr     error
	feeResult     *dto.FeeResponse
	feeErr        error
	listResult    []dto.FeeResponse
	receiptResult *dto.ReceiptResponse
	historyResult *dto.PaymentHistoryResponse
	statusResult  *dto.FeeStatusResponse
	termErr       error

	recordCalls int
	lastTerm    *dto.FeeTermRequest
}

func (m *mockFeeService) RecordPayment(_ context.Context, _ string, _ *dto.RecordPaymentRequest, _ string) (*dto.RecordPaymentResponse, error) {
	m.recordCalls++
	return m.recordResult, m.recordErr
}
func (m *mockFeeService) DeletePayment(_ context.Context, _ string, _ string) (*dto.FeeResponse, error) {
	return m.feeResult, m.feeErr
}
func (m *mockFeeService) Reconcile(_ context.Context, _ string) (*dto.FeeResponse, error) {
	return m.feeResult, m.feeErr
}
func (m *mockFeeService) GetByID(_ context.Context, _ string) (*dto.FeeResponse, error) {
	return m.feeResult, m.feeErr
}
func (m *mockFeeService) ListByStudent(_ context.Context, _ string) ([]dto.FeeResponse, error) {
	return m.listResult, m.feeErr
}
func (m *mockFeeService) Receipt(_ context.Context, _ string) (*dto.ReceiptResponse, error) {
	return m.receiptResult, m.feeErr
}
func (m *mockFeeService) PaymentHistory(_ context.Context, req *dto.FeeTermRequest) (*dto.PaymentHistoryResponse, error) {
	m.lastTerm = req
	return m.historyResult, m.termErr
}
func (m *mockFeeService) FeeStatus(_ context.Context, req *dto.FeeTermRequest) (*dto.FeeStatusResponse, error) {
	m.lastTerm = req
	return m.statusResult, m.termErr
}

// ── Mock PromotionService ──

type mockPromotionService struct {
	statusResult   *dto.PromotionStatus
	statusErr      error
	actResult      *dto.PromotionActionResponse
	actErr         error
	progressResult *dto.ProgressEligibilityResponse
	historyResult  []dto.AcademicHistoryResponse
	otherErr       error

	lastAct *dto.PromotionActionRequest
}

func (m *mockPromotionService) Evaluate(_ context.Context, _ string) (*dto.PromotionStatus, error) {
	return m.statusResult, m.statusErr
}
func (m *mockPromotionService) Act(_ context.Context, _ string, req *dto.PromotionActionRequest, _ string) (*dto.PromotionActionResponse, error) {
	m.lastAct = req
	return m.actResult, m.actErr
}
func (m *mockPromotionService) CanProgress(_ context.Context, _ string) (*dto.ProgressEligibilityResponse, error) {
	return m.progressResult, m.otherErr
}
func (m *mockPromotionService) History(_ context.Context, _ string) ([]dto.AcademicHistoryResponse, error) {
	return m.historyResult, m.otherErr
}

// ── Mock ExportService / CalendarService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportFeeStatus(_ context.Context, _, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

type mockCalendarService struct {
	body string
	err  error
}

func (m *mockCalendarService) FeeCalendar(_ context.Context, _ string) (string, error) {
	return m.body, m.err
}

// ── Mock SessionService ──

type mockSessionService struct {
	err     error
	lastJTI string
	lastExp time.Time
}

func (m *mockSessionService) Logout(_ context.Context, jti string, expiresAt time.Time) error {
	m.lastJTI = jti
	m.lastExp = expiresAt
	return m.err
}

// ── Mock HealthService ──

type mockHealthService struct {
	result *dto.HealthResponse
}

func (m *mockHealthService) Check(_ context.Context) *dto.HealthResponse {
	return m.result
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

// newRouter 创建测试路由；auth 为 true 时注入认证上下文
func newRouter(auth bool) *gin.Engine {
	r := gin.New()
	if auth {
		r.Use(setAuth)
	}
	return r
}

func setAuth(c *gin.Context) {
	c.Set(middleware.CtxUserID, "test-user-id")
	c.Set(middleware.CtxRole, "admin")
	c.Next()
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func doRequest(r *gin.Engine, method, path string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func termQuery() string {
	return "?department_id=" + testDeptID + "&semester_id=" + testSemID
}

// ═══════════════════════════════════════════════════════════
// handleError
// ═══════════════════════════════════════════════════════════

func TestHandleError_Mapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"学生不存在", service.ErrStudentNotFound, http.StatusNotFound, 20501},
		{"邮箱重复", service.ErrStudentEmailExists, http.StatusConflict, 20502},
		{"乐观锁", pkgerrors.ErrOptimisticLock, http.StatusConflict, 10006},
		{"包装后的错误", errors.Join(errors.New("ctx"), service.ErrFeeNotFound), http.StatusNotFound, 20801},
		{"欠费阻止升级", service.ErrPromotionBlockedByFee, http.StatusConflict, 20901},
		{"核销记录不可删除", service.ErrWaiverNotDeletable, http.StatusConflict, 20805},
		{"已在目标学期", service.ErrAlreadyInSemester, http.StatusConflict, 20905},
		{"缴费金额非法", service.ErrPaymentAmountInvalid, http.StatusBadRequest, 20803},
		{"未知错误", errors.New("db down"), http.StatusInternalServerError, 50000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			handleError(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("期望状态码 %d, 实际 %d", tt.wantStatus, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("期望业务码 %d, 实际 %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestMustGetUserID_Missing(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	if _, ok := MustGetUserID(c); ok {
		t.Fatal("未注入 user_id 时应返回 false")
	}
	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望 401, 实际 %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// StudentHandler
// ═══════════════════════════════════════════════════════════

func TestStudentHandler_Create_Success(t *testing.T) {
	mock := &mockStudentService{createResult: &dto.StudentResponse{StudentID: "cs001", Name: "Ada Lovelace"}}
	h := NewStudentHandler(mock)
	r := newRouter(true)
	r.POST("/students", h.CreateStudent)

	w := doRequest(r, http.MethodPost, "/students", jsonBody(dto.CreateStudentRequest{
		Name:         "Ada Lovelace",
		Email:        "ada@example.edu",
		DepartmentID: testDeptID,
		SemesterID:   testSemID,
	}))

	if w.Code != http.StatusCreated {
		t.Fatalf("期望 201, 实际 %d: %s", w.Code, w.Body.String())
	}
	if mock.lastCaller != "test-user-id" {
		t.Errorf("期望 callerID test-user-id, 实际 %s", mock.lastCaller)
	}
	if !strings.Contains(w.Body.String(), `"student_id":"cs001"`) {
		t.Errorf("响应应包含学号: %s", w.Body.String())
	}
}

func TestStudentHandler_Create_Validation(t *testing.T) {
	tests := []struct {
		name string
		body io.Reader
	}{
		{"非法JSON", strings.NewReader("invalid json")},
		{"缺少邮箱", jsonBody(map[string]string{"name": "Ada", "department_id": testDeptID})},
		{"邮箱格式错误", jsonBody(map[string]string{"name": "Ada", "email": "nope", "department_id": testDeptID})},
		{"院系ID非UUID", jsonBody(map[string]string{"name": "Ada", "email": "ada@example.edu", "department_id": "cs"})},
		{"性别非法", jsonBody(map[string]string{"name": "Ada", "email": "ada@example.edu", "department_id": testDeptID, "gender": "x"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewStudentHandler(&mockStudentService{})
			r := newRouter(true)
			r.POST("/students", h.CreateStudent)

			w := doRequest(r, http.MethodPost, "/students", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("期望 400, 实际 %d", w.Code)
			}
			if resp := parseResponse(w); resp.Code != 10001 {
				t.Errorf("期望业务码 10001, 实际 %d", resp.Code)
			}
		})
	}
}

func TestStudentHandler_Create_Unauthenticated(t *testing.T) {
	h := NewStudentHandler(&mockStudentService{})
	r := newRouter(false)
	r.POST("/students", h.CreateStudent)

	w := doRequest(r, http.MethodPost, "/students", jsonBody(dto.CreateStudentRequest{
		Name: "Ada Lovelace", Email: "ada@example.edu", DepartmentID: testDeptID,
	}))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望 401, 实际 %d", w.Code)
	}
}

func TestStudentHandler_Create_Conflict(t *testing.T) {
	h := NewStudentHandler(&mockStudentService{createErr: service.ErrStudentEmailExists})
	r := newRouter(true)
	r.POST("/students", h.CreateStudent)

	w := doRequest(r, http.MethodPost, "/students", jsonBody(dto.CreateStudentRequest{
		Name: "Ada Lovelace", Email: "ada@example.edu", DepartmentID: testDeptID,
	}))
	if w.Code != http.StatusConflict {
		t.Errorf("期望 409, 实际 %d", w.Code)
	}
}

func TestStudentHandler_Get_NotFound(t *testing.T) {
	h := NewStudentHandler(&mockStudentService{getErr: service.ErrStudentNotFound})
	r := newRouter(true)
	r.GET("/students/:id", h.GetStudent)

	w := doRequest(r, http.MethodGet, "/students/cs404", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("期望 404, 实际 %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 20501 {
		t.Errorf("期望业务码 20501, 实际 %d", resp.Code)
	}
}

func TestStudentHandler_List_Pagination(t *testing.T) {
	mock := &mockStudentService{
		listResult: []dto.StudentResponse{{StudentID: "cs001"}, {StudentID: "cs002"}},
		listTotal:  45,
	}
	h := NewStudentHandler(mock)
	r := newRouter(true)
	r.GET("/students", h.ListStudents)

	w := doRequest(r, http.MethodGet, "/students?page=2&page_size=20&status=enrolled", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200, 实际 %d: %s", w.Code, w.Body.String())
	}
	if mock.lastList == nil || mock.lastList.Status != "enrolled" {
		t.Errorf("期望透传 status=enrolled, 实际 %+v", mock.lastList)
	}

	var body struct {
		Data response.PageData `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Data.Pagination.TotalPages != 3 {
		t.Errorf("期望总页数 3, 实际 %d", body.Data.Pagination.TotalPages)
	}
	if body.Data.Pagination.Page != 2 {
		t.Errorf("期望页码 2, 实际 %d", body.Data.Pagination.Page)
	}
}

func TestStudentHandler_List_BadStatus(t *testing.T) {
	h := NewStudentHandler(&mockStudentService{})
	r := newRouter(true)
	r.GET("/students", h.ListStudents)

	w := doRequest(r, http.MethodGet, "/students?status=graduated", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400, 实际 %d", w.Code)
	}
}

func TestStudentHandler_Update_OptimisticLock(t *testing.T) {
	h := NewStudentHandler(&mockStudentService{updateErr: pkgerrors.ErrOptimisticLock})
	r := newRouter(true)
	r.PUT("/students/:id", h.UpdateStudent)

	name := "Ada King"
	w := doRequest(r, http.MethodPut, "/students/cs001", jsonBody(dto.UpdateStudentRequest{Version: 1, Name: &name}))
	if w.Code != http.StatusConflict {
		t.Errorf("期望 409, 实际 %d", w.Code)
	}
}

func TestStudentHandler_Update_MissingVersion(t *testing.T) {
	h := NewStudentHandler(&mockStudentService{})
	r := newRouter(true)
	r.PUT("/students/:id", h.UpdateStudent)

	w := doRequest(r, http.MethodPut, "/students/cs001", jsonBody(map[string]string{"name": "Ada King"}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400, 实际 %d", w.Code)
	}
}

func TestStudentHandler_Delete(t *testing.T) {
	h := NewStudentHandler(&mockStudentService{})
	r := newRouter(true)
	r.DELETE("/students/:id", h.DeleteStudent)

	w := doRequest(r, http.MethodDelete, "/students/cs001", nil)
	if w.Code != http.StatusOK {
		t.Errorf("期望 200, 实际 %d", w.Code)
	}
}

func TestStudentHandler_ChangeSemester_Dropped(t *testing.T) {
	h := NewStudentHandler(&mockStudentService{changeErr: service.ErrStudentDropped})
	r := newRouter(true)
	r.PUT("/students/:id/semester", h.ChangeSemester)

	w := doRequest(r, http.MethodPut, "/students/cs001/semester", jsonBody(dto.ChangeSemesterRequest{SemesterID: testSemID}))
	if w.Code != http.StatusConflict {
		t.Errorf("期望 409, 实际 %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 20503 {
		t.Errorf("期望业务码 20503, 实际 %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// FeeHandler
// ═══════════════════════════════════════════════════════════

func TestFeeHandler_RecordPayment_Success(t *testing.T) {
	mock := &mockFeeService{recordResult: &dto.RecordPaymentResponse{
		Payment: dto.PaymentResponse{Amount: "10000.00"},
		Fee:     dto.FeeResponse{Status: "Partial", PaidAmount: "10000.00", Balance: "20000.00"},
	}}
	h := NewFeeHandler(mock)
	r := newRouter(true)
	r.POST("/fees/:id/payments", h.RecordPayment)

	w := doRequest(r, http.MethodPost, "/fees/f1/payments", jsonBody(dto.RecordPaymentRequest{Amount: "10000", Method: "Cash"}))
	if w.Code != http.StatusCreated {
		t.Fatalf("期望 201, 实际 %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"status":"Partial"`) {
		t.Errorf("响应应包含对账后的状态: %s", w.Body.String())
	}
}

func TestFeeHandler_RecordPayment_Validation(t *testing.T) {
	tests := []struct {
		name string
		body interface{}
	}{
		{"缺少金额", map[string]string{"method": "Cash"}},
		{"金额非数字", map[string]string{"amount": "ten"}},
		{"方式非法", map[string]string{"amount": "100", "method": "Waiver"}},
		{"日期格式错误", map[string]string{"amount": "100", "payment_date": "03/01/2026"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockFeeService{}
			h := NewFeeHandler(mock)
			r := newRouter(true)
			r.POST("/fees/:id/payments", h.RecordPayment)

			w := doRequest(r, http.MethodPost, "/fees/f1/payments", jsonBody(tt.body))
			if w.Code != http.StatusBadRequest {
				t.Errorf("期望 400, 实际 %d", w.Code)
			}
			if mock.recordCalls != 0 {
				t.Errorf("校验失败时不应调用 service, 实际调用 %d 次", mock.recordCalls)
			}
		})
	}
}

func TestFeeHandler_RecordPayment_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"账单不存在", service.ErrFeeNotFound, http.StatusNotFound},
		{"金额非正", service.ErrPaymentAmountInvalid, http.StatusBadRequest},
		{"内部错误", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewFeeHandler(&mockFeeService{recordErr: tt.err})
			r := newRouter(true)
			r.POST("/fees/:id/payments", h.RecordPayment)

			w := doRequest(r, http.MethodPost, "/fees/f1/payments", jsonBody(dto.RecordPaymentRequest{Amount: "100"}))
			if w.Code != tt.wantStatus {
				t.Errorf("期望 %d, 实际 %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestFeeHandler_GetAndReconcile(t *testing.T) {
	mock := &mockFeeService{feeResult: &dto.FeeResponse{ID: "f1", Status: "Paid", Balance: "0.00"}}
	h := NewFeeHandler(mock)
	r := newRouter(true)
	r.GET("/fees/:id", h.GetFee)
	r.POST("/fees/:id/reconcile", h.ReconcileFee)
	r.DELETE("/payments/:id", h.DeletePayment)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/fees/f1"},
		{http.MethodPost, "/fees/f1/reconcile"},
		{http.MethodDelete, "/payments/p1"},
	} {
		w := doRequest(r, tc.method, tc.path, nil)
		if w.Code != http.StatusOK {
			t.Errorf("%s %s 期望 200, 实际 %d", tc.method, tc.path, w.Code)
		}
	}

	mock.feeErr = service.ErrPaymentNotFound
	w := doRequest(r, http.MethodDelete, "/payments/p404", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("期望 404, 实际 %d", w.Code)
	}
}

func TestFeeHandler_ListStudentFees(t *testing.T) {
	mock := &mockFeeService{listResult: []dto.FeeResponse{{ID: "f1"}, {ID: "f2"}}}
	h := NewFeeHandler(mock)
	r := newRouter(true)
	r.GET("/students/:id/fees", h.ListStudentFees)

	w := doRequest(r, http.MethodGet, "/students/cs001/fees", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200, 实际 %d", w.Code)
	}
	var body struct {
		Data struct {
			List []dto.FeeResponse `json:"list"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if len(body.Data.List) != 2 {
		t.Errorf("期望 2 条账单, 实际 %d", len(body.Data.List))
	}
}

func TestFeeHandler_FeeStatus_Query(t *testing.T) {
	mock := &mockFeeService{statusResult: &dto.FeeStatusResponse{}}
	h := NewFeeHandler(mock)
	r := newRouter(true)
	r.GET("/reports/fee-status", h.FeeStatus)
	r.GET("/reports/payments", h.PaymentHistory)

	w := doRequest(r, http.MethodGet, "/reports/fee-status"+termQuery(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200, 实际 %d: %s", w.Code, w.Body.String())
	}
	if mock.lastTerm == nil || mock.lastTerm.DepartmentID != testDeptID || mock.lastTerm.SemesterID != testSemID {
		t.Errorf("查询参数未正确绑定: %+v", mock.lastTerm)
	}

	w = doRequest(r, http.MethodGet, "/reports/payments?department_id="+testDeptID, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("缺少 semester_id 期望 400, 实际 %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// PromotionHandler
// ═══════════════════════════════════════════════════════════

func TestPromotionHandler_GetStatus(t *testing.T) {
	mock := &mockPromotionService{statusResult: &dto.PromotionStatus{
		Status: "blocked", Action: "fee_payment_required", FeeStatus: "Pending",
	}}
	h := NewPromotionHandler(mock)
	r := newRouter(true)
	r.GET("/students/:id/promotion", h.GetPromotionStatus)

	w := doRequest(r, http.MethodGet, "/students/cs001/promotion", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200, 实际 %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"action":"fee_payment_required"`) {
		t.Errorf("响应应包含 action: %s", w.Body.String())
	}

	mock.statusErr = service.ErrStudentNotFound
	w = doRequest(r, http.MethodGet, "/students/cs404/promotion", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("期望 404, 实际 %d", w.Code)
	}
}

func TestPromotionHandler_Act(t *testing.T) {
	mock := &mockPromotionService{actResult: &dto.PromotionActionResponse{
		Message: "Student promoted to Semester 2", StudentID: "cs001", FeeAssigned: true, FeeAmount: "25000.00",
	}}
	h := NewPromotionHandler(mock)
	r := newRouter(true)
	r.POST("/students/:id/promotion", h.ApplyPromotionAction)

	w := doRequest(r, http.MethodPost, "/students/cs001/promotion", jsonBody(dto.PromotionActionRequest{Action: "promote_student"}))
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200, 实际 %d: %s", w.Code, w.Body.String())
	}
	if mock.lastAct == nil || mock.lastAct.Action != "promote_student" {
		t.Errorf("期望透传 action, 实际 %+v", mock.lastAct)
	}
}

func TestPromotionHandler_Act_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		err        error
		wantStatus int
	}{
		{"动作非法", map[string]string{"action": "graduate"}, nil, http.StatusBadRequest},
		{"下一学期ID非UUID", map[string]string{"action": "promote_student", "next_semester_id": "s2"}, nil, http.StatusBadRequest},
		{"欠费", dto.PromotionActionRequest{Action: "promote_student"}, service.ErrPromotionBlockedByFee, http.StatusConflict},
		{"无下一学期", dto.PromotionActionRequest{Action: "promote_student"}, service.ErrNoNextSemester, http.StatusConflict},
		{"重复退学", dto.PromotionActionRequest{Action: "drop_student"}, service.ErrStudentDropped, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewPromotionHandler(&mockPromotionService{actErr: tt.err})
			r := newRouter(true)
			r.POST("/students/:id/promotion", h.ApplyPromotionAction)

			w := doRequest(r, http.MethodPost, "/students/cs001/promotion", jsonBody(tt.body))
			if w.Code != tt.wantStatus {
				t.Errorf("期望 %d, 实际 %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestPromotionHandler_ProgressAndHistory(t *testing.T) {
	mock := &mockPromotionService{
		progressResult: &dto.ProgressEligibilityResponse{StudentID: "cs001", CanProgress: false, Reasons: []string{"outstanding fee"}},
		historyResult:  []dto.AcademicHistoryResponse{{}},
	}
	h := NewPromotionHandler(mock)
	r := newRouter(true)
	r.GET("/students/:id/progress", h.GetProgressEligibility)
	r.GET("/students/:id/history", h.ListAcademicHistory)

	w := doRequest(r, http.MethodGet, "/students/cs001/progress", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200, 实际 %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"can_progress":false`) {
		t.Errorf("响应应包含 can_progress: %s", w.Body.String())
	}

	w = doRequest(r, http.MethodGet, "/students/cs001/history", nil)
	if w.Code != http.StatusOK {
		t.Errorf("期望 200, 实际 %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler
// ═══════════════════════════════════════════════════════════

func TestExportHandler_FeeStatus_Success(t *testing.T) {
	mock := &mockExportService{
		buf:      bytes.NewBufferString("xlsx-bytes"),
		filename: "fee_status_Computer Science_Semester 1.xlsx",
	}
	h := NewExportHandler(mock, &mockCalendarService{})
	r := newRouter(true)
	r.GET("/export/fee-status", h.ExportFeeStatus)

	w := doRequest(r, http.MethodGet, "/export/fee-status"+termQuery(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200, 实际 %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("期望 Content-Type %s, 实际 %s", xlsxContentType, ct)
	}
	cd := w.Header().Get("Content-Disposition")
	if !strings.HasPrefix(cd, "attachment;") || !strings.Contains(cd, "fee_status_Computer") {
		t.Errorf("Content-Disposition 不正确: %s", cd)
	}
	if w.Body.String() != "xlsx-bytes" {
		t.Errorf("响应体应为文件内容, 实际 %q", w.Body.String())
	}
}

func TestExportHandler_FeeStatus_Errors(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		err        error
		wantStatus int
	}{
		{"缺少参数", "", nil, http.StatusBadRequest},
		{"院系不存在", termQuery(), service.ErrDepartmentNotFound, http.StatusNotFound},
		{"无账单", termQuery(), service.ErrExportNoFees, http.StatusNotFound},
		{"生成失败", termQuery(), service.ErrExportGenerateFail, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewExportHandler(&mockExportService{err: tt.err}, &mockCalendarService{})
			r := newRouter(true)
			r.GET("/export/fee-status", h.ExportFeeStatus)

			w := doRequest(r, http.MethodGet, "/export/fee-status"+tt.query, nil)
			if w.Code != tt.wantStatus {
				t.Errorf("期望 %d, 实际 %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestExportHandler_FeeCalendar(t *testing.T) {
	cal := &mockCalendarService{body: "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"}
	h := NewExportHandler(&mockExportService{}, cal)
	r := newRouter(true)
	r.GET("/students/:id/fees/calendar.ics", h.FeeCalendar)

	w := doRequest(r, http.MethodGet, "/students/cs001/fees/calendar.ics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200, 实际 %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("期望 text/calendar, 实际 %s", ct)
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "fees_cs001.ics") {
		t.Errorf("文件名不正确: %s", w.Header().Get("Content-Disposition"))
	}

	cal.err = service.ErrStudentNotFound
	w = doRequest(r, http.MethodGet, "/students/cs404/fees/calendar.ics", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("期望 404, 实际 %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// HealthHandler
// ═══════════════════════════════════════════════════════════

func TestHealthHandler_Check(t *testing.T) {
	tests := []struct {
		name       string
		result     *dto.HealthResponse
		wantStatus int
	}{
		{"全部可用", &dto.HealthResponse{Status: "ok", Healthy: true, Checks: map[string]string{"database": "up", "redis": "up"}}, http.StatusOK},
		{"Redis 不可用", &dto.HealthResponse{Status: "degraded", Checks: map[string]string{"database": "up", "redis": "down"}}, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(&mockHealthService{result: tt.result})
			r := newRouter(false)
			r.GET("/health", h.Check)

			w := doRequest(r, http.MethodGet, "/health", nil)
			if w.Code != tt.wantStatus {
				t.Errorf("期望 %d, 实际 %d", tt.wantStatus, w.Code)
			}
			if !strings.Contains(w.Body.String(), `"status":"`+tt.result.Status+`"`) {
				t.Errorf("响应应包含状态 %s: %s", tt.result.Status, w.Body.String())
			}
		})
	}
}

// ═══════════════════════════════════════════════════════════
// SessionHandler
// ═══════════════════════════════════════════════════════════

func TestSessionHandler_Logout(t *testing.T) {
	exp := time.Date(2026, 3, 1, 10, 15, 0, 0, time.UTC)
	withToken := func(c *gin.Context) {
		c.Set(middleware.CtxTokenID, "jti-1")
		c.Set(middleware.CtxTokenExp, exp)
		c.Next()
	}

	mock := &mockSessionService{}
	h := NewSessionHandler(mock)
	r := newRouter(true)
	r.POST("/auth/logout", withToken, h.Logout)

	w := doRequest(r, http.MethodPost, "/auth/logout", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200, 实际 %d", w.Code)
	}
	if mock.lastJTI != "jti-1" || !mock.lastExp.Equal(exp) {
		t.Errorf("期望透传 jti 与过期时间, 实际 %s %s", mock.lastJTI, mock.lastExp)
	}

	mock.err = service.ErrRevocationUnavailable
	w = doRequest(r, http.MethodPost, "/auth/logout", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("期望 503, 实际 %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 10007 {
		t.Errorf("期望业务码 10007, 实际 %d", resp.Code)
	}
}

func TestSessionHandler_Logout_MissingJTI(t *testing.T) {
	h := NewSessionHandler(&mockSessionService{})
	r := newRouter(true)
	r.POST("/auth/logout", h.Logout)

	w := doRequest(r, http.MethodPost, "/auth/logout", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望 401, 实际 %d", w.Code)
	}
}
