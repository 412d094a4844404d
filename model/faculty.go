package model

import (
	"time"

	"gorm.io/gorm"
)

// Faculty is the top of the faculty → department → programme tree.
type Faculty struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Name      string         `gorm:"not null" json:"name"`
	Code      string         `gorm:"uniqueIndex;not null;type:varchar(10)" json:"code"` // e.g. "SCI", used in matric numbers
	IsActive  bool           `gorm:"default:true" json:"is_active"`

	// Relationships
	Departments []Department `gorm:"foreignKey:FacultyID;constraint:OnDelete:CASCADE" json:"departments,omitempty"`
}

// TableName specifies the table name for Faculty
func (Faculty) TableName() string {
	return "faculties"
}

// Department belongs to exactly one Faculty.
type Department struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	FacultyID uint           `gorm:"not null;index" json:"faculty_id"`
	Name      string         `gorm:"not null" json:"name"`
	Code      string         `gorm:"uniqueIndex;not null;type:varchar(10)" json:"code"` // e.g. "CSC"
	IsActive  bool           `gorm:"default:true" json:"is_active"`

	// Relationships
	Faculty    Faculty     `gorm:"foreignKey:FacultyID" json:"faculty,omitempty"`
	Programmes []Programme `gorm:"foreignKey:DepartmentID;constraint:OnDelete:CASCADE" json:"programmes,omitempty"`
	Courses    []Course    `gorm:"foreignKey:DepartmentID;constraint:OnDelete:CASCADE" json:"courses,omitempty"`
}

// TableName specifies the table name for Department
func (Department) TableName() string {
	return "departments"
}

// ProgrammeType distinguishes undergraduate from postgraduate programmes
type ProgrammeType string

const (
	ProgrammeTypeUG  ProgrammeType = "UG"
	ProgrammeTypePG  ProgrammeType = "PG"
	ProgrammeTypePHD ProgrammeType = "PHD"
)

// DefaultMaxCreditUnits applies when a programme does not override the cap.
const DefaultMaxCreditUnits = 24

// Programme is a degree course of study within a department.
type Programme struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	DepartmentID   uint           `gorm:"not null;index" json:"department_id"`
	Name           string         `gorm:"not null" json:"name"`
	Type           ProgrammeType  `gorm:"type:varchar(5);default:'UG'" json:"type"`
	MaxCreditUnits int            `gorm:"default:24" json:"max_credit_units"`
	IsActive       bool           `gorm:"default:true" json:"is_active"`

	// Relationships
	Department Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

// TableName specifies the table name for Programme
func (Programme) TableName() string {
	return "programmes"
}

// UnitCap returns the programme's registration unit cap, falling back
// to the system default when unset.
func (p *Programme) UnitCap() int {
	if p == nil || p.MaxCreditUnits <= 0 {
		return DefaultMaxCreditUnits
	}
	return p.MaxCreditUnits
}
