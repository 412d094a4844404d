package services

import (
	"testing"

	"github.com/Auwalkay/uni-portal/model"
)

func TestStartingLevel(t *testing.T) {
	if got := StartingLevel(model.ApplicationModeDE); got != 200 {
		t.Errorf("direct entry starting level = %d, want 200", got)
	}
	if got := StartingLevel(model.ApplicationModeUTME); got != 100 {
		t.Errorf("UTME starting level = %d, want 100", got)
	}
	if got := StartingLevel(""); got != 100 {
		t.Errorf("unknown mode starting level = %d, want 100", got)
	}
}

func TestFormatMatricNumber(t *testing.T) {
	cases := []struct {
		year int
		fac  string
		dept string
		seq  int
		want string
	}{
		{2026, "SCI", "CSC", 1, "26/SCI/CSC/001"},
		{2026, "SCI", "CSC", 42, "26/SCI/CSC/042"},
		{2031, "MGS", "ACC", 123, "31/MGS/ACC/123"},
		{2026, "SCI", "CSC", 1000, "26/SCI/CSC/1000"}, // overflow past 3 digits keeps going
	}

	for _, c := range cases {
		got := model.FormatMatricNumber(c.year, c.fac, c.dept, c.seq)
		if got != c.want {
			t.Errorf("FormatMatricNumber(%d, %s, %s, %d) = %s, want %s", c.year, c.fac, c.dept, c.seq, got, c.want)
		}
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !isUniqueViolation(errTest("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)")) {
		t.Error("SQLSTATE 23505 must be detected as a unique violation")
	}
	if isUniqueViolation(errTest("connection refused")) {
		t.Error("unrelated error must not read as a unique violation")
	}
	if isUniqueViolation(nil) {
		t.Error("nil error must not read as a unique violation")
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }
