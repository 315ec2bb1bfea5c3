package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/UmaaSadii/ICMS/config"
	"github.com/UmaaSadii/ICMS/internal/api/handler"
	"github.com/UmaaSadii/ICMS/internal/api/middleware"
	"github.com/UmaaSadii/ICMS/pkg/jwt"
	"github.com/UmaaSadii/ICMS/pkg/redis"
)

const (
	roleAdmin      = jwt.RoleAdmin
	roleInstructor = jwt.RoleInstructor
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 可为 nil（Redis 不可用时黑名单与限流降级放行）
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimitBytes))

	// ── 健康检查 ──
	r.GET("/health", h.Health.Check)

	staff := middleware.RoleAuth(roleAdmin, roleInstructor)
	admin := middleware.RoleAuth(roleAdmin)
	self := middleware.StudentSelf("id")
	paymentLimit := middleware.RateLimit(rdb, cfg.RateLimit.PaymentsPerMinute, time.Minute, logger)

	// ── API v1（全部需要认证）──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr, rdb, logger))
	{
		// 会话
		v1.POST("/auth/logout", h.Session.Logout)

		// 院系
		departments := v1.Group("/departments")
		{
			departments.GET("", h.Department.ListDepartments)
			departments.GET("/:id", h.Department.GetDepartment)
			departments.POST("", admin, h.Department.CreateDepartment)
			departments.PUT("/:id", admin, h.Department.UpdateDepartment)
			departments.DELETE("/:id", admin, h.Department.DeleteDepartment)
		}

		// 学期
		semesters := v1.Group("/semesters")
		{
			semesters.GET("", h.Semester.ListSemesters)
			semesters.GET("/:id", h.Semester.GetSemester)
			semesters.POST("", admin, h.Semester.CreateSemester)
			semesters.PUT("/:id", admin, h.Semester.UpdateSemester)
			semesters.DELETE("/:id", admin, h.Semester.DeleteSemester)
		}

		// 课程
		courses := v1.Group("/courses")
		{
			courses.GET("", h.Course.ListCourses)
			courses.GET("/:id", h.Course.GetCourse)
			courses.POST("", admin, h.Course.CreateCourse)
			courses.PUT("/:id", admin, h.Course.UpdateCourse)
			courses.DELETE("/:id", admin, h.Course.DeleteCourse)
		}

		// 学费标准
		feeStructures := v1.Group("/fee-structures", staff)
		{
			feeStructures.GET("", h.FeeStructure.ListFeeStructures)
			feeStructures.GET("/:id", h.FeeStructure.GetFeeStructure)
			feeStructures.POST("", admin, h.FeeStructure.CreateFeeStructure)
			feeStructures.PUT("/:id", admin, h.FeeStructure.UpdateFeeStructure)
			feeStructures.DELETE("/:id", admin, h.FeeStructure.DeleteFeeStructure)
		}

		// 学生（学生角色只能访问本人）
		students := v1.Group("/students")
		{
			students.GET("", staff, h.Student.ListStudents)
			students.POST("", admin, h.Student.CreateStudent)
			students.GET("/:id", self, h.Student.GetStudent)
			students.PUT("/:id", admin, h.Student.UpdateStudent)
			students.DELETE("/:id", admin, h.Student.DeleteStudent)
			students.PUT("/:id/semester", admin, h.Student.ChangeSemester)

			students.GET("/:id/attendance", self, h.Attendance.ListAttendance)
			students.POST("/:id/attendance", staff, h.Attendance.RecordAttendance)

			students.GET("/:id/results", self, h.Result.ListStudentResults)

			students.GET("/:id/promotion", self, h.Promotion.GetPromotionStatus)
			students.POST("/:id/promotion", admin, h.Promotion.ApplyPromotionAction)
			students.GET("/:id/progress", self, h.Promotion.GetProgressEligibility)
			students.GET("/:id/history", self, h.Promotion.ListAcademicHistory)

			students.GET("/:id/fees", self, h.Fee.ListStudentFees)
			students.GET("/:id/fees/calendar.ics", self, h.Export.FeeCalendar)
		}

		// 考勤
		attendance := v1.Group("/attendance", staff)
		{
			attendance.PUT("/:id", h.Attendance.UpdateAttendance)
			attendance.DELETE("/:id", h.Attendance.DeleteAttendance)
		}

		// 成绩
		results := v1.Group("/results", staff)
		{
			results.POST("", h.Result.RecordResult)
			results.GET("/:id", h.Result.GetResult)
			results.PUT("/:id", h.Result.UpdateResult)
			results.DELETE("/:id", h.Result.DeleteResult)
		}

		// 账单与缴费
		fees := v1.Group("/fees", staff)
		{
			fees.GET("/:id", h.Fee.GetFee)
			fees.GET("/:id/receipt", h.Fee.GetReceipt)
			fees.POST("/:id/payments", admin, paymentLimit, h.Fee.RecordPayment)
			fees.POST("/:id/reconcile", admin, h.Fee.ReconcileFee)
		}
		v1.DELETE("/payments/:id", admin, h.Fee.DeletePayment)

		// 报表
		reports := v1.Group("/reports", staff)
		{
			reports.GET("/fee-status", h.Fee.FeeStatus)
			reports.GET("/payments", h.Fee.PaymentHistory)
		}

		// 导出
		export := v1.Group("/export", staff)
		{
			export.GET("/fee-status", h.Export.ExportFeeStatus)
		}

		// 奖学金
		scholarships := v1.Group("/scholarships")
		{
			scholarships.GET("", h.Scholarship.ListScholarships)
			scholarships.GET("/:id", h.Scholarship.GetScholarship)
			scholarships.POST("", admin, h.Scholarship.CreateScholarship)
			scholarships.POST("/:id/students", admin, h.Scholarship.AddStudent)
			scholarships.DELETE("/:id/students/:student_id", admin, h.Scholarship.RemoveStudent)
		}
	}

	return r
}
