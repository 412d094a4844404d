package router

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Auwalkay/uni-portal/config"
	"github.com/Auwalkay/uni-portal/database"
	"github.com/Auwalkay/uni-portal/handlers"
	admission_handlers "github.com/Auwalkay/uni-portal/handlers/admission"
	applicant_handlers "github.com/Auwalkay/uni-portal/handlers/applicant"
	auth_handlers "github.com/Auwalkay/uni-portal/handlers/auth"
	course_handlers "github.com/Auwalkay/uni-portal/handlers/course"
	faculty_handlers "github.com/Auwalkay/uni-portal/handlers/faculty"
	fee_handlers "github.com/Auwalkay/uni-portal/handlers/fee"
	frontdesk_handlers "github.com/Auwalkay/uni-portal/handlers/frontdesk"
	notification_handlers "github.com/Auwalkay/uni-portal/handlers/notification"
	payroll_handlers "github.com/Auwalkay/uni-portal/handlers/payroll"
	report_handlers "github.com/Auwalkay/uni-portal/handlers/report"
	registration_handlers "github.com/Auwalkay/uni-portal/handlers/registration"
	result_handlers "github.com/Auwalkay/uni-portal/handlers/result"
	session_handlers "github.com/Auwalkay/uni-portal/handlers/session"
	student_handlers "github.com/Auwalkay/uni-portal/handlers/student"
	"github.com/Auwalkay/uni-portal/model"
	"github.com/Auwalkay/uni-portal/services"
	"github.com/Auwalkay/uni-portal/services/paystack"
	"github.com/Auwalkay/uni-portal/services/storage"
	"github.com/Auwalkay/uni-portal/utils/auth"
	"github.com/Auwalkay/uni-portal/utils/cache"
	"github.com/Auwalkay/uni-portal/utils/middleware"
)

// Dependencies carries everything SetupRoutes wires into the route
// tree. Payments and Notifications are shared with the cron manager,
// so app setup builds them once through BuildServices.
type Dependencies struct {
	Store         database.Storage
	Env           *config.EnviornmentVariable
	DB            *gorm.DB
	Period        services.CurrentPeriodProvider
	Payments      *services.PaymentService
	Notifications *services.NotificationService
	Reports       *database.ReportStore
}

// BuildServices constructs the shared service graph from configuration.
func BuildServices(store database.Storage, env *config.EnviornmentVariable) (*Dependencies, error) {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	redisCache, err := cache.NewRedisCache(env.REDIS_URL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Period caching and brute force protection degrade gracefully.", err)
		redisCache = nil
	}

	period := services.NewPeriodService(db, redisCache)
	notifications := services.NewNotificationService(db)
	enrollment := services.NewEnrollmentService(db, period, notifications)

	gateway := paystack.NewClient(paystack.Config{
		SecretKey: env.PAYSTACK_SECRET_KEY,
		BaseURL:   env.PAYSTACK_BASE_URL,
	})
	payments := services.NewPaymentService(db, gateway, enrollment, notifications, env.PAYMENT_CALLBACK_URL)

	reports, err := database.StartReportStore()
	if err != nil {
		return nil, err
	}

	return &Dependencies{
		Store:         store,
		Env:           env,
		DB:            db,
		Period:        period,
		Payments:      payments,
		Notifications: notifications,
		Reports:       reports,
	}, nil
}

// SetupRoutes registers the full /api/v1 surface.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	env := deps.Env
	db := deps.DB

	if env.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}
	jwtIssuer := env.JWT_ISSUER
	if jwtIssuer == "" {
		jwtIssuer = "uni-portal-api"
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret:        env.JWT_SECRET,
		Expiry:        24 * time.Hour,
		RefreshExpiry: 7 * 24 * time.Hour,
		Issuer:        jwtIssuer,
	})

	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache, err := cache.NewRedisCache(env.REDIS_URL); err == nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	} else {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection will be disabled.", err)
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	// Service graph. Period, payments and notifications come shared
	// from BuildServices; the rest only serve HTTP.
	period := deps.Period
	notifications := deps.Notifications
	enrollment := services.NewEnrollmentService(db, period, notifications)
	fees := services.NewFeeService(db)
	invoices := services.NewInvoiceService(db, fees, enrollment)
	admission := services.NewAdmissionService(db, invoices, enrollment, notifications)
	sessions := services.NewSessionService(db, period)
	registration := services.NewRegistrationService(db, period)
	results := services.NewResultService(db)
	payroll := services.NewPayrollService(db)

	var documents *services.DocumentService
	spaces, err := storage.NewSpacesClient(storage.SpacesConfig{
		AccessKey: env.SPACES_ACCESS_KEY,
		SecretKey: env.SPACES_SECRET_KEY,
		Bucket:    env.SPACES_BUCKET,
		Region:    env.SPACES_REGION,
		Endpoint:  env.SPACES_ENDPOINT,
		CDNURL:    env.SPACES_CDN_URL,
	})
	if err != nil {
		log.Printf("Warning: document storage unavailable: %v. Document upload routes will reject requests.", err)
	} else {
		documents = services.NewDocumentService(db, spaces)
	}

	// Handlers
	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, bruteForceProtection)
	sessionHandler := session_handlers.NewSessionHandler(db, sessions, period)
	facultyHandler := faculty_handlers.NewFacultyHandler(db)
	courseHandler := course_handlers.NewCourseHandler(db)
	applicantHandler := applicant_handlers.NewApplicantHandler(db, admission, documents)
	admissionHandler := admission_handlers.NewAdmissionHandler(db, admission)
	studentHandler := student_handlers.NewStudentHandler(db)
	registrationHandler := registration_handlers.NewRegistrationHandler(db, registration)
	resultHandler := result_handlers.NewResultHandler(db, results)
	feeHandler := fee_handlers.NewFeeHandler(db, fees, invoices, deps.Payments, env.PAYSTACK_SECRET_KEY)
	payrollHandler := payroll_handlers.NewPayrollHandler(db, payroll)
	frontDeskHandler := frontdesk_handlers.NewFrontDeskHandler(db)
	reportHandler := report_handlers.NewReportHandler(deps.Reports)
	notificationHandler := notification_handlers.NewNotificationHandler(notifications)

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    env.ALLOWED_ORIGINS,
		RateLimitRequests: 100,
		RateLimitWindow:   1 * time.Minute,
	})

	// Health check endpoint (public)
	app.Get("/ping", handlers.HandleCheckHealth(deps.Store))

	api := app.Group("/api/v1")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}
	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/forgot-password", authHandler.ForgotPassword)
	authGroup.Post("/reset-password", authHandler.ResetPassword)

	// Protected auth routes
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)
	authGroup.Post("/change-password", authMiddleware.Required(), authHandler.ChangePassword)
	authGroup.Post("/staff", authMiddleware.RequireAdmin(), authHandler.CreateStaff)

	// Profile routes (protected)
	profileGroup := api.Group("/profile", authMiddleware.Required())
	profileGroup.Get("/", authHandler.GetProfile)
	profileGroup.Put("/", authHandler.UpdateProfile)

	// Sessions and semesters
	sessionGroup := api.Group("/sessions")
	sessionGroup.Get("/", sessionHandler.ListSessions)
	sessionGroup.Get("/current", sessionHandler.GetCurrent)
	sessionGroup.Post("/", authMiddleware.RequireCapability(model.CapManageSessions), sessionHandler.CreateSession)
	sessionGroup.Patch("/:id", authMiddleware.RequireCapability(model.CapManageSessions), sessionHandler.UpdateSession)
	sessionGroup.Post("/:id/activate", authMiddleware.RequireCapability(model.CapManageSessions), middleware.AuditLog(db, "session_activate", "sessions"), sessionHandler.Activate)
	sessionGroup.Post("/:id/semesters/:semesterId/activate", authMiddleware.RequireCapability(model.CapManageSessions), sessionHandler.ActivateSemester)
	sessionGroup.Put("/:id/semesters/:semesterId/window", authMiddleware.RequireCapability(model.CapManageSessions), sessionHandler.SetSemesterWindow)

	// Faculties, departments, programmes
	facultyGroup := api.Group("/faculties")
	facultyGroup.Get("/", facultyHandler.ListFaculties)
	facultyGroup.Post("/", authMiddleware.RequireCapability(model.CapManageAcademics), facultyHandler.CreateFaculty)
	facultyGroup.Post("/:id/departments", authMiddleware.RequireCapability(model.CapManageAcademics), facultyHandler.CreateDepartment)
	api.Post("/departments/:id/programmes", authMiddleware.RequireCapability(model.CapManageAcademics), facultyHandler.CreateProgramme)
	api.Get("/programmes", facultyHandler.ListProgrammes)

	// Courses
	courseGroup := api.Group("/courses")
	courseGroup.Get("/", courseHandler.ListCourses)
	courseGroup.Get("/:id", courseHandler.GetCourse)
	courseGroup.Post("/", authMiddleware.RequireCapability(model.CapManageAcademics), courseHandler.CreateCourse)
	courseGroup.Patch("/:id", authMiddleware.RequireCapability(model.CapManageAcademics), courseHandler.UpdateCourse)
	courseGroup.Post("/:id/programmes", authMiddleware.RequireCapability(model.CapManageAcademics), courseHandler.AttachProgramme)

	// Applicant self-service
	applicantGroup := api.Group("/applicants", authMiddleware.Required())
	applicantGroup.Post("/applications", authMiddleware.RequireCapability(model.CapApplyAdmission), applicantHandler.StartApplication)
	applicantGroup.Get("/me", applicantHandler.GetMyApplication)
	applicantGroup.Post("/me/submit", authMiddleware.RequireCapability(model.CapApplyAdmission), applicantHandler.Submit)
	applicantGroup.Post("/me/accept-offer", authMiddleware.RequireCapability(model.CapApplyAdmission), applicantHandler.AcceptOffer)
	applicantGroup.Post("/me/documents", authMiddleware.RequireCapability(model.CapApplyAdmission), applicantHandler.UploadDocument)
	applicantGroup.Get("/me/documents", applicantHandler.ListMyDocuments)

	// Admissions (staff)
	admissionGroup := api.Group("/admissions", authMiddleware.RequireCapability(model.CapManageAdmissions))
	admissionGroup.Get("/applicants", admissionHandler.ListApplicants)
	admissionGroup.Get("/applicants/:id", admissionHandler.GetApplicant)
	admissionGroup.Post("/applicants/:id/screen", admissionHandler.MoveToScreening)
	admissionGroup.Post("/applicants/:id/admit", middleware.AuditLog(db, "applicant_admit", "applicants"), admissionHandler.Admit)
	admissionGroup.Post("/applicants/:id/reject", middleware.AuditLog(db, "applicant_reject", "applicants"), admissionHandler.Reject)
	admissionGroup.Patch("/documents/:id", applicantHandler.ReviewDocument)
	admissionGroup.Get("/documents/:id/download", applicantHandler.DocumentDownloadURL)

	// Students
	studentGroup := api.Group("/students", authMiddleware.Required())
	studentGroup.Get("/me", studentHandler.GetMyRecord)
	studentGroup.Get("/", authMiddleware.RequireCapability(model.CapManageAdmissions), studentHandler.ListStudents)
	studentGroup.Get("/:id", authMiddleware.RequireCapability(model.CapManageAdmissions), studentHandler.GetStudent)

	// Course registration (students)
	registrationGroup := api.Group("/registrations", authMiddleware.RequireCapability(model.CapRegisterCourses))
	registrationGroup.Get("/eligible-courses", registrationHandler.EligibleCourses)
	registrationGroup.Post("/", registrationHandler.Submit)
	registrationGroup.Get("/", registrationHandler.ListMine)

	// Results and transcripts
	resultGroup := api.Group("/results", authMiddleware.Required())
	resultGroup.Put("/registrations/:id", authMiddleware.RequireCapability(model.CapRecordScores), resultHandler.RecordScore)
	resultGroup.Get("/courses/:courseId", authMiddleware.RequireCapability(model.CapRecordScores), resultHandler.ListCourseScores)
	resultGroup.Get("/transcript", resultHandler.MyTranscript)
	resultGroup.Get("/transcript/:id", authMiddleware.RequireCapability(model.CapRecordScores), resultHandler.StudentTranscript)

	// Fee configurations (staff)
	feeGroup := api.Group("/fees", authMiddleware.RequireCapability(model.CapManageFees))
	feeGroup.Get("/configurations", feeHandler.ListConfigurations)
	feeGroup.Post("/configurations", feeHandler.CreateConfiguration)
	feeGroup.Delete("/configurations/:id", feeHandler.DeleteConfiguration)

	// Invoices
	invoiceGroup := api.Group("/invoices", authMiddleware.Required())
	invoiceGroup.Post("/school-fees", feeHandler.GenerateSchoolFeeInvoice)
	invoiceGroup.Get("/", feeHandler.ListMyInvoices)
	invoiceGroup.Get("/:id", feeHandler.GetInvoice)
	invoiceGroup.Post("/:id/mark-paid", authMiddleware.RequireCapability(model.CapManageFees), middleware.AuditLog(db, "invoice_mark_paid", "invoices"), feeHandler.MarkPaid)

	// Payments. The webhook is public: Paystack authenticates with the
	// HMAC signature, not a bearer token.
	paymentGroup := api.Group("/payments")
	paymentGroup.Post("/webhook", feeHandler.PaystackWebhook)
	paymentGroup.Post("/initialize", authMiddleware.Required(), feeHandler.InitializePayment)
	paymentGroup.Get("/verify/:reference", authMiddleware.Required(), feeHandler.VerifyPayment)
	paymentGroup.Get("/", authMiddleware.Required(), feeHandler.ListMyPayments)

	// Payroll (staff with payroll capability)
	payrollGroup := api.Group("/payroll", authMiddleware.RequireCapability(model.CapManagePayroll))
	payrollGroup.Post("/runs", middleware.AuditLog(db, "payroll_run", "payroll_runs"), payrollHandler.Run)
	payrollGroup.Get("/runs", payrollHandler.ListRuns)
	payrollGroup.Get("/runs/:id/payslips", payrollHandler.GetRunPayslips)
	payrollGroup.Get("/staff", payrollHandler.ListStaff)
	payrollGroup.Patch("/staff/:id", payrollHandler.UpdateStaff)

	// Front desk
	frontDeskGroup := api.Group("/front-desk", authMiddleware.RequireCapability(model.CapFrontDesk))
	frontDeskGroup.Post("/logs", frontDeskHandler.CreateLog)
	frontDeskGroup.Get("/logs", frontDeskHandler.ListLogs)
	frontDeskGroup.Patch("/logs/:id/sign-out", frontDeskHandler.SignOut)

	// Reports
	reportGroup := api.Group("/reports", authMiddleware.RequireCapability(model.CapViewReports))
	reportGroup.Get("/admission-funnel", reportHandler.AdmissionFunnel)
	reportGroup.Get("/revenue", reportHandler.Revenue)
	reportGroup.Get("/enrollment", reportHandler.EnrollmentByDepartment)
	reportGroup.Get("/front-desk", reportHandler.FrontDeskDaily)

	// Notifications
	notificationGroup := api.Group("/notifications", authMiddleware.Required())
	notificationGroup.Get("/", notificationHandler.List)
	notificationGroup.Patch("/:id/read", notificationHandler.MarkRead)
	notificationGroup.Post("/read-all", notificationHandler.MarkAllRead)
}
