package services

import (
	"testing"

	"github.com/Auwalkay/uni-portal/model"
)

func TestClampScores(t *testing.T) {
	cases := []struct {
		ca, exam         float64
		wantCA, wantExam float64
	}{
		{20, 50, 20, 50},
		{35, 50, 30, 50},   // CA capped at 30
		{20, 80, 20, 70},   // exam capped at 70
		{-5, -10, 0, 0},    // negatives floored
		{100, 100, 30, 70}, // both capped, total can never exceed 100
	}

	for _, c := range cases {
		ca, exam := ClampScores(c.ca, c.exam)
		if ca != c.wantCA || exam != c.wantExam {
			t.Errorf("ClampScores(%v, %v) = (%v, %v), want (%v, %v)", c.ca, c.exam, ca, exam, c.wantCA, c.wantExam)
		}
	}
}

func TestGradedEntries(t *testing.T) {
	point := 5.0
	score := 80.0
	registrations := []model.CourseRegistration{
		{Units: 3, Score: &score, GradePoint: &point}, // graded
		{Units: 2},                                    // not graded yet
	}

	entries := gradedEntries(registrations)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1 (ungraded rows excluded)", len(entries))
	}
	if entries[0].Units != 3 || entries[0].GradePoint != 5.0 {
		t.Errorf("unexpected entry %+v", entries[0])
	}
}
