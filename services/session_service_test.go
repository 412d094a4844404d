package services

import (
	"testing"
	"time"

	"github.com/Auwalkay/uni-portal/model"
)

func TestPastSemesterLocked(t *testing.T) {
	first := &model.Semester{ID: 1, Name: "First Semester", Ordinal: 1}
	second := &model.Semester{ID: 2, Name: "Second Semester", Ordinal: 2}

	cases := []struct {
		name    string
		current *model.Semester
		target  *model.Semester
		want    bool
	}{
		{"second active blocks first", second, first, true},
		{"first active allows second", first, second, false},
		{"same semester never locked", second, second, false},
		{"no active semester", nil, first, false},
	}

	for _, c := range cases {
		if got := PastSemesterLocked(c.current, c.target); got != c.want {
			t.Errorf("%s: PastSemesterLocked() = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestRegistrationWindowOpen(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	before := now.Add(-24 * time.Hour)
	after := now.Add(24 * time.Hour)

	t.Run("unbounded window is open", func(t *testing.T) {
		target := &model.Semester{ID: 2, Ordinal: 2}
		if err := RegistrationWindowOpen(nil, target, now); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("window not yet open", func(t *testing.T) {
		target := &model.Semester{ID: 2, Ordinal: 2, RegistrationStartsAt: &after}
		if err := RegistrationWindowOpen(nil, target, now); err != ErrRegistrationClosed {
			t.Errorf("got %v, want ErrRegistrationClosed", err)
		}
	})

	t.Run("window already closed", func(t *testing.T) {
		target := &model.Semester{ID: 2, Ordinal: 2, RegistrationEndsAt: &before}
		if err := RegistrationWindowOpen(nil, target, now); err != ErrRegistrationClosed {
			t.Errorf("got %v, want ErrRegistrationClosed", err)
		}
	})

	t.Run("past lock beats an open window", func(t *testing.T) {
		// Target's own window is wide open, but a later semester is
		// already the active one, so registration stays blocked.
		current := &model.Semester{ID: 9, Name: "Second Semester", Ordinal: 2}
		target := &model.Semester{ID: 8, Name: "First Semester", Ordinal: 1, RegistrationStartsAt: &before, RegistrationEndsAt: &after}
		if err := RegistrationWindowOpen(current, target, now); err != ErrPastSemesterLocked {
			t.Errorf("got %v, want ErrPastSemesterLocked", err)
		}
	})
}

func TestSemesterCourseCode(t *testing.T) {
	if code := (&model.Semester{Ordinal: 1}).CourseCode(); code != "1" {
		t.Errorf("ordinal 1 code = %s, want 1", code)
	}
	if code := (&model.Semester{Ordinal: 2}).CourseCode(); code != "2" {
		t.Errorf("ordinal 2 code = %s, want 2", code)
	}
	if code := (&model.Semester{Ordinal: 3}).CourseCode(); code != "2" {
		t.Errorf("ordinal 3 code = %s, want 2", code)
	}
}
