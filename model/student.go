package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Student is created exactly once per user by the enrollment pipeline.
// Department and faculty are a snapshot taken at enrollment time; they
// deliberately do not track later changes to the programme's hierarchy.
type Student struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
	UserID            uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	MatricNumber      string         `gorm:"uniqueIndex;not null;type:varchar(30)" json:"matric_number"`
	CurrentLevel      int            `gorm:"not null;default:100" json:"current_level"`
	ApplicationMode   string         `gorm:"type:varchar(10)" json:"application_mode"`
	ProgrammeID       uint           `gorm:"not null;index" json:"programme_id"`
	DepartmentID      uint           `gorm:"not null;index" json:"department_id"`
	FacultyID         uint           `gorm:"not null;index" json:"faculty_id"`
	AdmittedSessionID uint           `gorm:"not null;index" json:"admitted_session_id"`
	StateOfOrigin     string         `gorm:"type:varchar(50)" json:"state_of_origin"`
	LGAOfOrigin       string         `gorm:"type:varchar(50)" json:"lga_of_origin"`

	// Relationships
	User            User                 `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Programme       Programme            `gorm:"foreignKey:ProgrammeID" json:"programme,omitempty"`
	Department      Department           `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Faculty         Faculty              `gorm:"foreignKey:FacultyID" json:"faculty,omitempty"`
	AdmittedSession AcademicSession      `gorm:"foreignKey:AdmittedSessionID" json:"admitted_session,omitempty"`
	Registrations   []CourseRegistration `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Student
func (Student) TableName() string {
	return "students"
}

// MatricSequence is the per (year, faculty, department) counter behind
// matriculation numbers. The composite unique index makes concurrent
// enrollments collide in the database instead of handing out the same
// number twice; callers bump Next with a retry-on-conflict loop.
type MatricSequence struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Year           int       `gorm:"not null;uniqueIndex:idx_matric_seq_scope" json:"year"` // two-digit admission year
	FacultyCode    string    `gorm:"not null;type:varchar(10);uniqueIndex:idx_matric_seq_scope" json:"faculty_code"`
	DepartmentCode string    `gorm:"not null;type:varchar(10);uniqueIndex:idx_matric_seq_scope" json:"department_code"`
	Next           int       `gorm:"not null;default:1" json:"next"`
}

// TableName specifies the table name for MatricSequence
func (MatricSequence) TableName() string {
	return "matric_sequences"
}

// FormatMatricNumber renders "{YY}/{FAC}/{DEPT}/{NNN}".
func FormatMatricNumber(year int, facultyCode, departmentCode string, seq int) string {
	return fmt.Sprintf("%02d/%s/%s/%03d", year%100, facultyCode, departmentCode, seq)
}
