package model

import (
	"time"

	"gorm.io/gorm"
)

// CourseRegistration ties a student to one course for one
// session/semester. Units are snapshotted from the course at submission
// time so later unit changes do not rewrite historic GPA weightings.
// Scores are filled in by the results workflow after the fact.
type CourseRegistration struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	StudentID  uint           `gorm:"not null;index:idx_reg_scope" json:"student_id"`
	CourseID   uint           `gorm:"not null;index" json:"course_id"`
	SessionID  uint           `gorm:"not null;index:idx_reg_scope" json:"session_id"`
	SemesterID uint           `gorm:"not null;index:idx_reg_scope" json:"semester_id"`
	Units      int            `gorm:"not null" json:"units"`
	CAScore    *float64       `json:"ca_score"`
	ExamScore  *float64       `json:"exam_score"`
	Score      *float64       `json:"score"` // ca + exam
	Grade      string         `gorm:"type:varchar(2)" json:"grade"`
	GradePoint *float64       `json:"grade_point"`

	// Relationships
	Student  Student         `gorm:"foreignKey:StudentID" json:"-"`
	Course   Course          `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	Session  AcademicSession `gorm:"foreignKey:SessionID" json:"-"`
	Semester Semester        `gorm:"foreignKey:SemesterID" json:"-"`
}

// TableName specifies the table name for CourseRegistration
func (CourseRegistration) TableName() string {
	return "course_registrations"
}

// Graded reports whether a score has been recorded for this row.
func (r *CourseRegistration) Graded() bool {
	return r.Score != nil && r.GradePoint != nil
}
