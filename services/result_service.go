package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Auwalkay/uni-portal/model"
)

// maxCAScore and maxExamScore cap the two score components before they
// reach the grading bands. The bands themselves never reject input;
// clamping here is the documented caller contract.
const (
	maxCAScore   = 30.0
	maxExamScore = 70.0
)

// ResultService records scores against registrations and computes
// GPA/CGPA transcripts.
type ResultService struct {
	db *gorm.DB
}

// NewResultService creates a new result service
func NewResultService(db *gorm.DB) *ResultService {
	return &ResultService{db: db}
}

// ClampScores bounds the raw components into their valid ranges.
func ClampScores(ca, exam float64) (float64, float64) {
	if ca < 0 {
		ca = 0
	}
	if ca > maxCAScore {
		ca = maxCAScore
	}
	if exam < 0 {
		exam = 0
	}
	if exam > maxExamScore {
		exam = maxExamScore
	}
	return ca, exam
}

// RecordScore writes the CA/exam pair onto a registration and derives
// total, letter grade and grade point.
func (s *ResultService) RecordScore(ctx context.Context, registrationID uint, ca, exam float64) (*model.CourseRegistration, error) {
	var registration model.CourseRegistration
	if err := s.db.WithContext(ctx).First(&registration, registrationID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to load registration: %w", err)
	}

	ca, exam = ClampScores(ca, exam)
	total := ca + exam
	grade := Grade(total)

	if err := s.db.WithContext(ctx).Model(&model.CourseRegistration{}).
		Where("id = ?", registration.ID).
		Updates(map[string]interface{}{
			"ca_score":    ca,
			"exam_score":  exam,
			"score":       total,
			"grade":       grade.Letter,
			"grade_point": grade.Point,
		}).Error; err != nil {
		return nil, fmt.Errorf("failed to record score: %w", err)
	}

	registration.CAScore = &ca
	registration.ExamScore = &exam
	registration.Score = &total
	registration.Grade = grade.Letter
	registration.GradePoint = &grade.Point
	return &registration, nil
}

// Transcript is the per-term and lifetime summary for a student.
type Transcript struct {
	StudentID     uint                       `json:"student_id"`
	Registrations []model.CourseRegistration `json:"registrations"`
	GPA           float64                    `json:"gpa"`  // scope of the query (term)
	CGPA          float64                    `json:"cgpa"` // full lifetime set
}

// ComputeTranscript returns the graded registrations for the given
// scope plus the term GPA and the lifetime CGPA. Zero session/semester
// IDs widen the scope.
func (s *ResultService) ComputeTranscript(ctx context.Context, studentID, sessionID, semesterID uint) (*Transcript, error) {
	scope := s.db.WithContext(ctx).
		Preload("Course").
		Where("student_id = ?", studentID)
	if sessionID != 0 {
		scope = scope.Where("session_id = ?", sessionID)
	}
	if semesterID != 0 {
		scope = scope.Where("semester_id = ?", semesterID)
	}

	var registrations []model.CourseRegistration
	if err := scope.Order("id ASC").Find(&registrations).Error; err != nil {
		return nil, fmt.Errorf("failed to load registrations: %w", err)
	}

	var lifetime []model.CourseRegistration
	if err := s.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Find(&lifetime).Error; err != nil {
		return nil, fmt.Errorf("failed to load lifetime registrations: %w", err)
	}

	return &Transcript{
		StudentID:     studentID,
		Registrations: registrations,
		GPA:           GPA(gradedEntries(registrations)),
		CGPA:          GPA(gradedEntries(lifetime)),
	}, nil
}

// gradedEntries keeps only rows with a recorded grade point.
func gradedEntries(registrations []model.CourseRegistration) []GPAEntry {
	entries := make([]GPAEntry, 0, len(registrations))
	for _, r := range registrations {
		if !r.Graded() {
			continue
		}
		entries = append(entries, GPAEntry{Units: r.Units, GradePoint: *r.GradePoint})
	}
	return entries
}
