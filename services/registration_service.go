package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Auwalkay/uni-portal/model"
)

// RegistrationService validates eligibility and performs the atomic
// replace of a student's course registrations for one semester.
type RegistrationService struct {
	db     *gorm.DB
	period CurrentPeriodProvider
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(db *gorm.DB, period CurrentPeriodProvider) *RegistrationService {
	return &RegistrationService{db: db, period: period}
}

// EligibleCoursesOptions filters the course listing.
type EligibleCoursesOptions struct {
	Level        int  // 0 = student's current level
	DepartmentID uint // 0 = student's own department (unless FacultyID set)
	FacultyID    uint // 0 = no faculty-wide filter
	SemesterID   uint // 0 = globally-current semester
}

// EligibleCourse is one course with the compulsory flag already
// resolved against the student's programme override.
type EligibleCourse struct {
	model.Course
	Compulsory bool `json:"compulsory"`
}

// ResolveTargetSemester picks the semester a registration applies to:
// the explicit id if given, else the globally-current semester, else
// the session's first semester row. ErrSemesterNotFound if none exists.
func (s *RegistrationService) ResolveTargetSemester(ctx context.Context, sessionID, semesterID uint) (*model.Semester, error) {
	if semesterID != 0 {
		var semester model.Semester
		if err := s.db.WithContext(ctx).First(&semester, semesterID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, ErrSemesterNotFound
			}
			return nil, fmt.Errorf("failed to load semester: %w", err)
		}
		if semester.SessionID != sessionID {
			return nil, ErrSemesterMismatch
		}
		return &semester, nil
	}

	if current, err := s.period.CurrentSemester(ctx); err == nil && current.SessionID == sessionID {
		return current, nil
	}

	var first model.Semester
	if err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("ordinal ASC").
		First(&first).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrSemesterNotFound
		}
		return nil, fmt.Errorf("failed to resolve first semester: %w", err)
	}
	return &first, nil
}

// EligibleCourses lists the courses a student may select for the
// target semester, with per-programme compulsory overrides applied.
func (s *RegistrationService) EligibleCourses(ctx context.Context, student *model.Student, sessionID uint, opts EligibleCoursesOptions) ([]EligibleCourse, error) {
	semester, err := s.ResolveTargetSemester(ctx, sessionID, opts.SemesterID)
	if err != nil {
		return nil, err
	}

	level := opts.Level
	if level == 0 {
		level = student.CurrentLevel
	}

	query := s.db.WithContext(ctx).Model(&model.Course{}).
		Where("is_active = ?", true).
		Where("level = ?", level).
		Where("semester_code = ?", semester.CourseCode())

	switch {
	case opts.DepartmentID != 0:
		query = query.Where("department_id = ?", opts.DepartmentID)
	case opts.FacultyID != 0:
		query = query.Where("department_id IN (?)",
			s.db.Model(&model.Department{}).Select("id").Where("faculty_id = ?", opts.FacultyID))
	default:
		query = query.Where("department_id = ?", student.DepartmentID)
	}

	var courses []model.Course
	if err := query.Order("code ASC").Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	var overrides []model.CourseProgramme
	if err := s.db.WithContext(ctx).
		Where("programme_id = ?", student.ProgrammeID).
		Find(&overrides).Error; err != nil {
		return nil, fmt.Errorf("failed to load programme overrides: %w", err)
	}
	overrideByCourse := make(map[uint]bool, len(overrides))
	for _, o := range overrides {
		overrideByCourse[o.CourseID] = o.IsCompulsory
	}

	eligible := make([]EligibleCourse, 0, len(courses))
	for _, c := range courses {
		compulsory := c.IsCompulsory
		if v, ok := overrideByCourse[c.ID]; ok {
			compulsory = v
		}
		eligible = append(eligible, EligibleCourse{Course: c, Compulsory: compulsory})
	}
	return eligible, nil
}

// CheckUnitCap validates the unit total against the programme cap.
// Pure; exported for reuse by the handler's preview endpoint.
func CheckUnitCap(courses []model.Course, programme *model.Programme) error {
	total := 0
	for _, c := range courses {
		total += c.Units
	}
	if total > programme.UnitCap() {
		return ErrUnitCapExceeded
	}
	return nil
}

// Submit validates the full precondition chain in order (first failure
// wins) and then atomically replaces the student's registration set for
// (student, session, semester). Replace means replace: a re-submission
// drops previously registered courses that are no longer selected, even
// if scores were already recorded against them. That data loss is the
// documented contract of the operation, not an accident.
func (s *RegistrationService) Submit(ctx context.Context, student *model.Student, sessionID, semesterID uint, courseIDs []uint) ([]model.CourseRegistration, error) {
	if len(courseIDs) == 0 {
		return nil, ErrNoCoursesSelected
	}

	// 1. Session registration toggle.
	var session model.AcademicSession
	if err := s.db.WithContext(ctx).First(&session, sessionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !session.RegistrationEnabled {
		return nil, ErrRegistrationDisabled
	}

	// 2. School fees for the session must be settled.
	var paidCount int64
	if err := s.db.WithContext(ctx).Model(&model.Invoice{}).
		Where("user_id = ? AND session_id = ? AND type = ? AND status = ?",
			student.UserID, sessionID, model.FeeTypeSchool, model.InvoiceStatusPaid).
		Count(&paidCount).Error; err != nil {
		return nil, fmt.Errorf("failed to check school fee invoice: %w", err)
	}
	if paidCount == 0 {
		return nil, ErrSchoolFeesUnpaid
	}

	// 3. Target semester.
	semester, err := s.ResolveTargetSemester(ctx, sessionID, semesterID)
	if err != nil {
		return nil, err
	}

	// 4 & 5. Window open, not past-locked.
	current, err := s.period.CurrentSemester(ctx)
	if err != nil && err != ErrSemesterNotFound {
		return nil, err
	}
	if err := RegistrationWindowOpen(current, semester, time.Now()); err != nil {
		return nil, err
	}

	// 6. Unit cap against the programme.
	var courses []model.Course
	if err := s.db.WithContext(ctx).Where("id IN ?", courseIDs).Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("failed to load selected courses: %w", err)
	}
	if len(courses) != len(courseIDs) {
		return nil, gorm.ErrRecordNotFound
	}
	var programme model.Programme
	if err := s.db.WithContext(ctx).First(&programme, student.ProgrammeID).Error; err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to load programme: %w", err)
	}
	if err := CheckUnitCap(courses, &programme); err != nil {
		return nil, err
	}

	// Atomic replace: delete the existing set, insert the new one.
	var registrations []model.CourseRegistration
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("student_id = ? AND session_id = ? AND semester_id = ?", student.ID, sessionID, semester.ID).
			Delete(&model.CourseRegistration{}).Error; err != nil {
			return fmt.Errorf("failed to clear existing registrations: %w", err)
		}

		for _, course := range courses {
			row := model.CourseRegistration{
				StudentID:  student.ID,
				CourseID:   course.ID,
				SessionID:  sessionID,
				SemesterID: semester.ID,
				Units:      course.Units,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to create registration: %w", err)
			}
			registrations = append(registrations, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return registrations, nil
}

// List returns the student's registrations for a session/semester.
func (s *RegistrationService) List(ctx context.Context, studentID, sessionID, semesterID uint) ([]model.CourseRegistration, error) {
	query := s.db.WithContext(ctx).
		Preload("Course").
		Where("student_id = ? AND session_id = ?", studentID, sessionID)
	if semesterID != 0 {
		query = query.Where("semester_id = ?", semesterID)
	}

	var registrations []model.CourseRegistration
	if err := query.Order("id ASC").Find(&registrations).Error; err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	return registrations, nil
}
