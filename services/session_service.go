package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Auwalkay/uni-portal/model"
)

// SessionService owns the session/semester lifecycle: the two global
// "current" singletons, the registration time windows, and the bulk
// student promotion that rides along with session activation.
type SessionService struct {
	db     *gorm.DB
	period CurrentPeriodProvider
}

// NewSessionService creates a new session service
func NewSessionService(db *gorm.DB, period CurrentPeriodProvider) *SessionService {
	return &SessionService{db: db, period: period}
}

// Activate makes the session the current one. Inside one transaction:
// every session's current flag is cleared, the target is set, every
// semester's current flag is cleared system-wide, the target's first
// semester (ordinal 1) becomes current if it exists, and every student
// in the system is promoted by 100 levels — unconditionally, with no
// filtering by the student's own session or status. All-or-nothing:
// a failure at the promotion step rolls the flag switches back too.
func (s *SessionService) Activate(ctx context.Context, sessionID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session model.AcademicSession
		if err := tx.First(&session, sessionID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrSessionNotFound
			}
			return fmt.Errorf("failed to load session: %w", err)
		}

		if err := tx.Model(&model.AcademicSession{}).
			Where("is_current = ?", true).
			Update("is_current", false).Error; err != nil {
			return fmt.Errorf("failed to clear current sessions: %w", err)
		}

		if err := tx.Model(&model.AcademicSession{}).
			Where("id = ?", session.ID).
			Update("is_current", true).Error; err != nil {
			return fmt.Errorf("failed to set current session: %w", err)
		}

		// The current-semester flag is global, not per session.
		if err := tx.Model(&model.Semester{}).
			Where("is_current = ?", true).
			Update("is_current", false).Error; err != nil {
			return fmt.Errorf("failed to clear current semesters: %w", err)
		}

		var first model.Semester
		err := tx.Where("session_id = ? AND ordinal = ?", session.ID, 1).First(&first).Error
		if err == nil {
			if err := tx.Model(&model.Semester{}).
				Where("id = ?", first.ID).
				Update("is_current", true).Error; err != nil {
				return fmt.Errorf("failed to set current semester: %w", err)
			}
		} else if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("failed to look up first semester: %w", err)
		}

		// Promote every student in the system by one level.
		if err := tx.Model(&model.Student{}).
			Where("1 = 1").
			Update("current_level", gorm.Expr("current_level + ?", 100)).Error; err != nil {
			return fmt.Errorf("failed to promote students: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	// Invalidate only after the commit succeeded.
	s.period.Invalidate(ctx)
	return nil
}

// ActivateSemester makes the semester the global current one. The
// semester must belong to the given session. If the owning session is
// not already current it is cascade-activated — flag switch only, the
// student promotion step does NOT run again on this path.
func (s *SessionService) ActivateSemester(ctx context.Context, sessionID, semesterID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var semester model.Semester
		if err := tx.First(&semester, semesterID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrSemesterNotFound
			}
			return fmt.Errorf("failed to load semester: %w", err)
		}

		if semester.SessionID != sessionID {
			return ErrSemesterMismatch
		}

		if err := tx.Model(&model.Semester{}).
			Where("is_current = ?", true).
			Update("is_current", false).Error; err != nil {
			return fmt.Errorf("failed to clear current semesters: %w", err)
		}

		if err := tx.Model(&model.Semester{}).
			Where("id = ?", semester.ID).
			Update("is_current", true).Error; err != nil {
			return fmt.Errorf("failed to set current semester: %w", err)
		}

		var session model.AcademicSession
		if err := tx.First(&session, sessionID).Error; err != nil {
			return fmt.Errorf("failed to load owning session: %w", err)
		}

		if !session.IsCurrent {
			if err := tx.Model(&model.AcademicSession{}).
				Where("is_current = ?", true).
				Update("is_current", false).Error; err != nil {
				return fmt.Errorf("failed to clear current sessions: %w", err)
			}
			if err := tx.Model(&model.AcademicSession{}).
				Where("id = ?", session.ID).
				Update("is_current", true).Error; err != nil {
				return fmt.Errorf("failed to cascade-activate session: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.period.Invalidate(ctx)
	return nil
}

// PastSemesterLocked reports whether registration into target is
// blocked because a later semester is already the active one. The
// ordinal comparison replaces the old name-substring check ("Second"
// active blocks "First"): any target ordered before the currently
// active semester is locked, regardless of its own date window.
func PastSemesterLocked(current, target *model.Semester) bool {
	if current == nil || target == nil {
		return false
	}
	if current.ID == target.ID {
		return false
	}
	return target.Ordinal < current.Ordinal
}

// RegistrationWindowOpen checks the target semester's own window and
// the past-semester lock against the currently active semester.
func RegistrationWindowOpen(current, target *model.Semester, now time.Time) error {
	if !target.WindowOpen(now) {
		return ErrRegistrationClosed
	}
	if PastSemesterLocked(current, target) {
		return ErrPastSemesterLocked
	}
	return nil
}
