package model

import (
	"time"

	"gorm.io/gorm"
)

// FeeConfiguration is one layered fee rule for a session. Nil scope
// FKs are wildcards: a row with all three nil is a global fee, a row
// with only FacultyID set is a faculty fee, and so on. Matching is
// additive across layers, not most-specific-wins — a student can owe a
// global fee, a faculty fee and a department fee at once.
type FeeConfiguration struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	SessionID    uint           `gorm:"not null;index" json:"session_id"`
	Type         FeeType        `gorm:"type:varchar(20);not null" json:"type"`
	FacultyID    *uint          `gorm:"index" json:"faculty_id"`    // nil = all faculties
	DepartmentID *uint          `gorm:"index" json:"department_id"` // nil = all departments
	ProgrammeID  *uint          `gorm:"index" json:"programme_id"`  // nil = all programmes
	Level        *int           `json:"level"`                      // nil = all levels
	Amount       float64        `gorm:"not null" json:"amount"`
	IsCompulsory bool           `gorm:"default:true" json:"is_compulsory"`

	// Relationships
	Session    AcademicSession `gorm:"foreignKey:SessionID" json:"-"`
	Faculty    *Faculty        `gorm:"foreignKey:FacultyID" json:"faculty,omitempty"`
	Department *Department     `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Programme  *Programme      `gorm:"foreignKey:ProgrammeID" json:"programme,omitempty"`
}

// TableName specifies the table name for FeeConfiguration
func (FeeConfiguration) TableName() string {
	return "fee_configurations"
}
