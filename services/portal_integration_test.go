package services

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Auwalkay/uni-portal/model"
)

// Integration tests run against a real Postgres database. Set
// RUN_INTEGRATION_TESTS=true plus the DB_* variables to enable them.

func integrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration test. Set RUN_INTEGRATION_TESTS=true to run.")
	}

	sslMode := os.Getenv("DB_SSL_MODE")
	if sslMode == "" {
		sslMode = "disable"
	}
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER_NAME"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		sslMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.AcademicSession{},
		&model.Semester{},
		&model.Faculty{},
		&model.Department{},
		&model.Programme{},
		&model.Course{},
		&model.CourseProgramme{},
		&model.Applicant{},
		&model.ApplicantDocument{},
		&model.Student{},
		&model.MatricSequence{},
		&model.CourseRegistration{},
		&model.FeeConfiguration{},
		&model.Invoice{},
		&model.InvoiceItem{},
		&model.Payment{},
		&model.UserNotification{},
	); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	return db
}

// portalFixture is the shared academic tree used across the tests.
type portalFixture struct {
	session   model.AcademicSession
	semester1 model.Semester
	semester2 model.Semester
	faculty   model.Faculty
	dept      model.Department
	programme model.Programme
}

func setupFixture(t *testing.T, db *gorm.DB) *portalFixture {
	t.Helper()

	stamp := time.Now().UnixNano()
	f := &portalFixture{}

	f.session = model.AcademicSession{
		Name:                fmt.Sprintf("TEST-%d", stamp),
		IsCurrent:           true,
		RegistrationEnabled: true,
		ApplicationsEnabled: true,
	}
	if err := db.Create(&f.session).Error; err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	f.semester1 = model.Semester{SessionID: f.session.ID, Name: "First Semester", Ordinal: 1, IsCurrent: true}
	f.semester2 = model.Semester{SessionID: f.session.ID, Name: "Second Semester", Ordinal: 2}
	if err := db.Create(&f.semester1).Error; err != nil {
		t.Fatalf("failed to create semester: %v", err)
	}
	if err := db.Create(&f.semester2).Error; err != nil {
		t.Fatalf("failed to create semester: %v", err)
	}

	f.faculty = model.Faculty{Name: "Test Faculty", Code: fmt.Sprintf("TF%d", stamp%100000)}
	if err := db.Create(&f.faculty).Error; err != nil {
		t.Fatalf("failed to create faculty: %v", err)
	}
	f.dept = model.Department{FacultyID: f.faculty.ID, Name: "Test Department", Code: fmt.Sprintf("TD%d", stamp%100000)}
	if err := db.Create(&f.dept).Error; err != nil {
		t.Fatalf("failed to create department: %v", err)
	}
	f.programme = model.Programme{DepartmentID: f.dept.ID, Name: "B.Sc. Testing", Type: model.ProgrammeTypeUG, MaxCreditUnits: 24, IsActive: true}
	if err := db.Create(&f.programme).Error; err != nil {
		t.Fatalf("failed to create programme: %v", err)
	}

	t.Cleanup(func() {
		db.Unscoped().Where("session_id = ?", f.session.ID).Delete(&model.Semester{})
		db.Unscoped().Delete(&f.programme)
		db.Unscoped().Delete(&f.dept)
		db.Unscoped().Delete(&f.faculty)
		db.Unscoped().Delete(&f.session)
	})

	return f
}

func createTestUser(t *testing.T, db *gorm.DB, role model.Role) *model.User {
	t.Helper()

	user := model.User{
		Email:        fmt.Sprintf("test-%d@example.com", time.Now().UnixNano()),
		PasswordHash: "not-a-real-hash",
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	t.Cleanup(func() {
		db.Unscoped().Where("user_id = ?", user.ID).Delete(&model.UserNotification{})
		db.Unscoped().Delete(&user)
	})
	return &user
}

func TestSessionActivationIntegration(t *testing.T) {
	db := integrationDB(t)
	f := setupFixture(t, db)
	ctx := context.Background()

	period := NewPeriodService(db, nil)
	sessions := NewSessionService(db, period)

	next := model.AcademicSession{Name: fmt.Sprintf("NEXT-%d", time.Now().UnixNano())}
	if err := db.Create(&next).Error; err != nil {
		t.Fatalf("failed to create next session: %v", err)
	}
	nextSem := model.Semester{SessionID: next.ID, Name: "First Semester", Ordinal: 1}
	if err := db.Create(&nextSem).Error; err != nil {
		t.Fatalf("failed to create next semester: %v", err)
	}
	t.Cleanup(func() {
		db.Unscoped().Delete(&nextSem)
		db.Unscoped().Delete(&next)
	})

	user := createTestUser(t, db, model.RoleStudent)
	student := model.Student{
		UserID:            user.ID,
		MatricNumber:      fmt.Sprintf("TT/%d", time.Now().UnixNano()),
		CurrentLevel:      100,
		ProgrammeID:       f.programme.ID,
		DepartmentID:      f.dept.ID,
		FacultyID:         f.faculty.ID,
		AdmittedSessionID: f.session.ID,
	}
	if err := db.Create(&student).Error; err != nil {
		t.Fatalf("failed to create student: %v", err)
	}
	t.Cleanup(func() { db.Unscoped().Delete(&student) })

	if err := sessions.Activate(ctx, next.ID); err != nil {
		t.Fatalf("Activate returned error: %v", err)
	}
	// Restore the fixture session for other tests.
	t.Cleanup(func() { sessions.Activate(ctx, f.session.ID) })

	var currentCount int64
	db.Model(&model.AcademicSession{}).Where("is_current = ?", true).Count(&currentCount)
	if currentCount != 1 {
		t.Errorf("expected exactly one current session, got %d", currentCount)
	}

	var current model.AcademicSession
	db.Where("is_current = ?", true).First(&current)
	if current.ID != next.ID {
		t.Errorf("expected session %d current, got %d", next.ID, current.ID)
	}

	var currentSemCount int64
	db.Model(&model.Semester{}).Where("is_current = ?", true).Count(&currentSemCount)
	if currentSemCount != 1 {
		t.Errorf("expected exactly one current semester, got %d", currentSemCount)
	}
	var currentSem model.Semester
	db.Where("is_current = ?", true).First(&currentSem)
	if currentSem.ID != nextSem.ID || currentSem.Ordinal != 1 {
		t.Errorf("expected first semester of new session current, got id=%d ordinal=%d", currentSem.ID, currentSem.Ordinal)
	}

	var promoted model.Student
	db.First(&promoted, student.ID)
	if promoted.CurrentLevel != 200 {
		t.Errorf("expected student promoted to 200, got %d", promoted.CurrentLevel)
	}
}

func TestEnrollmentIdempotentIntegration(t *testing.T) {
	db := integrationDB(t)
	f := setupFixture(t, db)
	ctx := context.Background()

	period := NewPeriodService(db, nil)
	notifications := NewNotificationService(db)
	enrollment := NewEnrollmentService(db, period, notifications)

	user := createTestUser(t, db, model.RoleApplicant)
	applicant := model.Applicant{
		UserID:             user.ID,
		SessionID:          f.session.ID,
		Status:             model.ApplicantStatusAdmitted,
		ApplicationMode:    model.ApplicationModeUTME,
		ProgrammeChoice1ID: f.programme.ID,
	}
	if err := db.Create(&applicant).Error; err != nil {
		t.Fatalf("failed to create applicant: %v", err)
	}
	t.Cleanup(func() {
		db.Unscoped().Where("user_id = ?", user.ID).Delete(&model.Student{})
		db.Unscoped().Delete(&applicant)
		db.Unscoped().Where("faculty_code = ?", f.faculty.Code).Delete(&model.MatricSequence{})
	})

	first, err := enrollment.Enroll(ctx, user.ID)
	if err != nil {
		t.Fatalf("first Enroll returned error: %v", err)
	}
	if first.MatricNumber == "" {
		t.Fatal("expected a matric number to be allocated")
	}
	if first.CurrentLevel != 100 {
		t.Errorf("expected UTME entrant at level 100, got %d", first.CurrentLevel)
	}

	second, err := enrollment.Enroll(ctx, user.ID)
	if err != nil {
		t.Fatalf("repeat Enroll returned error: %v", err)
	}
	if second.ID != first.ID || second.MatricNumber != first.MatricNumber {
		t.Errorf("repeat enrollment created a new student: %d/%s vs %d/%s",
			first.ID, first.MatricNumber, second.ID, second.MatricNumber)
	}

	var studentCount int64
	db.Model(&model.Student{}).Where("user_id = ?", user.ID).Count(&studentCount)
	if studentCount != 1 {
		t.Errorf("expected one student row, got %d", studentCount)
	}

	var refreshed model.Applicant
	db.First(&refreshed, applicant.ID)
	if refreshed.Status != model.ApplicantStatusEnrolled {
		t.Errorf("expected applicant status enrolled, got %s", refreshed.Status)
	}
}

func TestRegistrationReplaceIntegration(t *testing.T) {
	db := integrationDB(t)
	f := setupFixture(t, db)
	ctx := context.Background()

	period := NewPeriodService(db, nil)
	registration := NewRegistrationService(db, period)

	user := createTestUser(t, db, model.RoleStudent)
	student := model.Student{
		UserID:            user.ID,
		MatricNumber:      fmt.Sprintf("TR/%d", time.Now().UnixNano()),
		CurrentLevel:      100,
		ProgrammeID:       f.programme.ID,
		DepartmentID:      f.dept.ID,
		FacultyID:         f.faculty.ID,
		AdmittedSessionID: f.session.ID,
	}
	if err := db.Create(&student).Error; err != nil {
		t.Fatalf("failed to create student: %v", err)
	}

	stamp := time.Now().UnixNano() % 1000000
	courses := make([]model.Course, 3)
	for i := range courses {
		courses[i] = model.Course{
			DepartmentID: f.dept.ID,
			Code:         fmt.Sprintf("TT%d%d", i, stamp),
			Title:        fmt.Sprintf("Test Course %d", i),
			Level:        100,
			SemesterCode: "1",
			Units:        3,
			IsActive:     true,
		}
		if err := db.Create(&courses[i]).Error; err != nil {
			t.Fatalf("failed to create course: %v", err)
		}
	}

	invoice := model.Invoice{
		UserID:    user.ID,
		SessionID: f.session.ID,
		Type:      model.FeeTypeSchool,
		Amount:    75000,
		Status:    model.InvoiceStatusPaid,
	}
	invoice.PaidAmount = invoice.Amount
	if err := db.Create(&invoice).Error; err != nil {
		t.Fatalf("failed to create invoice: %v", err)
	}

	t.Cleanup(func() {
		db.Unscoped().Where("student_id = ?", student.ID).Delete(&model.CourseRegistration{})
		db.Unscoped().Delete(&invoice)
		for i := range courses {
			db.Unscoped().Delete(&courses[i])
		}
		db.Unscoped().Delete(&student)
	})

	firstSet := []uint{courses[0].ID, courses[1].ID}
	if _, err := registration.Submit(ctx, &student, f.session.ID, f.semester1.ID, firstSet); err != nil {
		t.Fatalf("first Submit returned error: %v", err)
	}

	secondSet := []uint{courses[2].ID}
	if _, err := registration.Submit(ctx, &student, f.session.ID, f.semester1.ID, secondSet); err != nil {
		t.Fatalf("second Submit returned error: %v", err)
	}

	rows, err := registration.List(ctx, student.ID, f.session.ID, f.semester1.ID)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected replace semantics to leave 1 registration, got %d", len(rows))
	}
	if rows[0].CourseID != courses[2].ID {
		t.Errorf("expected registration for course %d, got %d", courses[2].ID, rows[0].CourseID)
	}
}

func TestPaymentTotalsNoDoubleCountIntegration(t *testing.T) {
	db := integrationDB(t)
	f := setupFixture(t, db)
	ctx := context.Background()

	user := createTestUser(t, db, model.RoleStudent)
	invoice := model.Invoice{
		UserID:    user.ID,
		SessionID: f.session.ID,
		Type:      model.FeeTypeAcceptance,
		Amount:    25000,
	}
	if err := db.Create(&invoice).Error; err != nil {
		t.Fatalf("failed to create invoice: %v", err)
	}

	now := time.Now()
	payment := model.Payment{
		InvoiceID:        invoice.ID,
		UserID:           user.ID,
		GatewayReference: fmt.Sprintf("ref-%d", now.UnixNano()),
		Amount:           25000,
		Status:           model.PaymentStatusSuccess,
		PaidAt:           &now,
	}
	if err := db.Create(&payment).Error; err != nil {
		t.Fatalf("failed to create payment: %v", err)
	}

	t.Cleanup(func() {
		db.Unscoped().Delete(&payment)
		db.Unscoped().Delete(&invoice)
	})

	// Totals are recomputed from the payment rows, so running the
	// reconciliation twice must not double the paid amount.
	for i := 0; i < 2; i++ {
		if err := applyPaymentTotals(db.WithContext(ctx), &invoice); err != nil {
			t.Fatalf("applyPaymentTotals returned error: %v", err)
		}
	}

	var refreshed model.Invoice
	db.First(&refreshed, invoice.ID)
	if refreshed.PaidAmount != 25000 {
		t.Errorf("expected paid amount 25000, got %.2f", refreshed.PaidAmount)
	}
	if refreshed.Status != model.InvoiceStatusPaid {
		t.Errorf("expected invoice status paid, got %s", refreshed.Status)
	}
}
