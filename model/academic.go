package model

import (
	"time"

	"gorm.io/gorm"
)

// AcademicSession represents one academic year (e.g. "2025/2026").
// At most one session system-wide carries IsCurrent = true; the flag is
// only ever toggled through SessionService.Activate, which clears every
// other session inside the same transaction.
type AcademicSession struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
	Name                string         `gorm:"uniqueIndex;not null;type:varchar(20)" json:"name"`
	StartsOn            time.Time      `json:"starts_on"`
	EndsOn              time.Time      `json:"ends_on"`
	IsCurrent           bool           `gorm:"default:false;index" json:"is_current"`
	RegistrationEnabled bool           `gorm:"default:false" json:"registration_enabled"`
	ApplicationsEnabled bool           `gorm:"default:false" json:"applications_enabled"`

	// Relationships
	Semesters []Semester `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"semesters,omitempty"`
}

// TableName specifies the table name for AcademicSession
func (AcademicSession) TableName() string {
	return "academic_sessions"
}

// Semester represents one term within a session. IsCurrent is a global
// singleton across ALL sessions, not per session: activating a semester
// anywhere clears the flag on every other semester row first.
type Semester struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
	SessionID            uint           `gorm:"not null;index" json:"session_id"`
	Name                 string         `gorm:"not null;type:varchar(50)" json:"name"` // e.g. "First Semester"
	Ordinal              int            `gorm:"not null;default:1" json:"ordinal"`     // 1-based position within the session
	IsCurrent            bool           `gorm:"default:false;index" json:"is_current"`
	RegistrationStartsAt *time.Time     `json:"registration_starts_at"` // nil = unbounded
	RegistrationEndsAt   *time.Time     `json:"registration_ends_at"`   // nil = unbounded

	// Relationships
	Session AcademicSession `gorm:"foreignKey:SessionID" json:"session,omitempty"`
}

// TableName specifies the table name for Semester
func (Semester) TableName() string {
	return "semesters"
}

// CourseCode maps the semester's ordinal onto the code stored on Course
// rows ("1" for first-semester courses, "2" for everything later).
func (s *Semester) CourseCode() string {
	if s.Ordinal >= 2 {
		return "2"
	}
	return "1"
}

// WindowOpen reports whether the semester's own registration window
// contains the given instant. A nil bound is unbounded on that side.
func (s *Semester) WindowOpen(now time.Time) bool {
	if s.RegistrationStartsAt != nil && now.Before(*s.RegistrationStartsAt) {
		return false
	}
	if s.RegistrationEndsAt != nil && now.After(*s.RegistrationEndsAt) {
		return false
	}
	return true
}
