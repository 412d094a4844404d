package model

import (
	"time"

	"gorm.io/gorm"
)

// Course is a unit of teaching owned by a department, offered at a
// fixed level and semester.
type Course struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	DepartmentID uint           `gorm:"not null;index" json:"department_id"`
	Code         string         `gorm:"uniqueIndex;not null;type:varchar(10)" json:"code"` // e.g. "CSC101"
	Title        string         `gorm:"not null" json:"title"`
	Level        int            `gorm:"not null;index" json:"level"`                    // 100, 200, ...
	SemesterCode string         `gorm:"type:varchar(1);not null;index" json:"semester"` // "1" or "2"
	Units        int            `gorm:"not null" json:"units"`
	IsCompulsory bool           `gorm:"default:true" json:"is_compulsory"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`

	// Relationships
	Department Department        `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Programmes []CourseProgramme `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Course
func (Course) TableName() string {
	return "courses"
}

// CourseProgramme overrides a course's compulsory status for one
// programme. When a row exists it wins over Course.IsCompulsory.
type CourseProgramme struct {
	CourseID     uint      `gorm:"primaryKey" json:"course_id"`
	ProgrammeID  uint      `gorm:"primaryKey" json:"programme_id"`
	IsCompulsory bool      `gorm:"not null" json:"is_compulsory"`
	CreatedAt    time.Time `json:"created_at"`

	// Relationships
	Course    Course    `gorm:"foreignKey:CourseID" json:"-"`
	Programme Programme `gorm:"foreignKey:ProgrammeID" json:"-"`
}

// TableName specifies the table name for CourseProgramme
func (CourseProgramme) TableName() string {
	return "course_programmes"
}
