package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Auwalkay/uni-portal/model"
)

// matricRetries bounds the retry loop on sequence-counter conflicts.
const matricRetries = 3

// EnrollmentService converts an admitted applicant into a student:
// matric number, level placement, role flip and status change, all in
// one transaction. Three paths converge here — an admin manually
// marking the acceptance invoice paid, the gateway verification
// callback, and an applicant accepting a free offer.
type EnrollmentService struct {
	db            *gorm.DB
	period        CurrentPeriodProvider
	notifications *NotificationService
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(db *gorm.DB, period CurrentPeriodProvider, notifications *NotificationService) *EnrollmentService {
	return &EnrollmentService{db: db, period: period, notifications: notifications}
}

// StartingLevel maps the application mode onto the entry level:
// direct entry starts at 200, everything else at 100.
func StartingLevel(applicationMode string) int {
	if applicationMode == model.ApplicationModeDE {
		return 200
	}
	return 100
}

// Enroll is idempotent: if a student row already exists for the user it
// returns that row untouched. Otherwise it allocates a matriculation
// number from the per-(year, faculty, department) sequence, creates the
// Student snapshot, flips the user's role from applicant to student and
// marks the applicant enrolled — atomically.
func (s *EnrollmentService) Enroll(ctx context.Context, userID uint) (*model.Student, error) {
	// Idempotency check outside the transaction: the common repeat
	// call (webhook replay) should not open a write transaction.
	var existing model.Student
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to check for existing student: %w", err)
	}

	var applicant model.Applicant
	if err := s.db.WithContext(ctx).
		Preload("ProgrammeChoice1.Department.Faculty").
		Where("user_id = ?", userID).
		First(&applicant).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrApplicantNotFound
		}
		return nil, fmt.Errorf("failed to load applicant: %w", err)
	}

	if applicant.Status != model.ApplicantStatusAdmitted {
		return nil, ErrApplicantNotAdmitted
	}

	session, err := s.period.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}

	programme := applicant.ProgrammeChoice1
	department := programme.Department
	faculty := department.Faculty
	year := time.Now().Year()

	var student *model.Student
	for attempt := 0; attempt < matricRetries; attempt++ {
		student, err = s.tryEnroll(ctx, &applicant, session, &programme, &department, &faculty, year)
		if err == nil {
			break
		}
		if !isUniqueViolation(err) {
			return nil, err
		}
		// Another enrollment took the same matric number between our
		// read and write; re-read the counter and try again.
		log.Printf("Matric number conflict for user %d, retrying (%d/%d)", userID, attempt+1, matricRetries)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to allocate matric number after %d attempts: %w", matricRetries, err)
	}

	s.notifications.Notify(ctx, userID, model.NotificationTypeSuccess, model.NotificationCategoryAdmission,
		"Enrollment complete",
		fmt.Sprintf("You are now a student of %s. Your matriculation number is %s.", programme.Name, student.MatricNumber))

	return student, nil
}

// tryEnroll performs one transactional enrollment attempt.
func (s *EnrollmentService) tryEnroll(
	ctx context.Context,
	applicant *model.Applicant,
	session *model.AcademicSession,
	programme *model.Programme,
	department *model.Department,
	faculty *model.Faculty,
	year int,
) (*model.Student, error) {
	var student model.Student

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Bump the matric sequence under a row lock; the composite
		// unique index makes a racing insert fail instead of handing
		// two students the same number.
		var seq model.MatricSequence
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("year = ? AND faculty_code = ? AND department_code = ?", year%100, faculty.Code, department.Code).
			First(&seq).Error
		if err == gorm.ErrRecordNotFound {
			seq = model.MatricSequence{Year: year % 100, FacultyCode: faculty.Code, DepartmentCode: department.Code, Next: 1}
			if err := tx.Create(&seq).Error; err != nil {
				return err
			}
		} else if err != nil {
			return fmt.Errorf("failed to load matric sequence: %w", err)
		}

		matric := model.FormatMatricNumber(seq.Year, seq.FacultyCode, seq.DepartmentCode, seq.Next)

		if err := tx.Model(&model.MatricSequence{}).
			Where("id = ?", seq.ID).
			Update("next", gorm.Expr("next + 1")).Error; err != nil {
			return fmt.Errorf("failed to advance matric sequence: %w", err)
		}

		student = model.Student{
			UserID:            applicant.UserID,
			MatricNumber:      matric,
			CurrentLevel:      StartingLevel(applicant.ApplicationMode),
			ApplicationMode:   applicant.ApplicationMode,
			ProgrammeID:       programme.ID,
			DepartmentID:      department.ID,
			FacultyID:         faculty.ID,
			AdmittedSessionID: session.ID,
			StateOfOrigin:     applicant.StateOfOrigin,
			LGAOfOrigin:       applicant.LGAOfOrigin,
		}
		if err := tx.Create(&student).Error; err != nil {
			return err
		}

		// Role flip: the account stops being an applicant.
		if err := tx.Model(&model.User{}).
			Where("id = ?", applicant.UserID).
			Update("role", model.RoleStudent).Error; err != nil {
			return fmt.Errorf("failed to reassign role: %w", err)
		}

		if err := tx.Model(&model.Applicant{}).
			Where("id = ?", applicant.ID).
			Update("status", model.ApplicantStatusEnrolled).Error; err != nil {
			return fmt.Errorf("failed to mark applicant enrolled: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// isUniqueViolation sniffs for a Postgres duplicate-key failure.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// pgx surfaces SQLSTATE 23505 in the message when the translated
	// error is unavailable.
	return err != nil && strings.Contains(err.Error(), "23505")
}
