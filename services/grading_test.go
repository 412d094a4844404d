package services

import "testing"

func TestGradeBands(t *testing.T) {
	cases := []struct {
		total  float64
		letter string
		point  float64
	}{
		{0, "F", 0.0},
		{39, "F", 0.0},
		{40, "E", 1.0},
		{44, "E", 1.0},
		{45, "D", 2.0},
		{49, "D", 2.0},
		{50, "C", 3.0},
		{59, "C", 3.0},
		{60, "B", 4.0},
		{69, "B", 4.0},
		{70, "A", 5.0},
		{100, "A", 5.0},
	}

	for _, c := range cases {
		got := Grade(c.total)
		if got.Letter != c.letter || got.Point != c.point {
			t.Errorf("Grade(%v) = %s/%.1f, want %s/%.1f", c.total, got.Letter, got.Point, c.letter, c.point)
		}
	}
}

func TestGradeRoundsBeforeBanding(t *testing.T) {
	// 69.5 rounds to 70 and must land in the A band
	if got := Grade(69.5); got.Letter != "A" {
		t.Errorf("Grade(69.5) = %s, want A", got.Letter)
	}
	// 39.4 rounds to 39 and stays an F
	if got := Grade(39.4); got.Letter != "F" {
		t.Errorf("Grade(39.4) = %s, want F", got.Letter)
	}
}

func TestGradeMonotonic(t *testing.T) {
	prev := Grade(0).Point
	for total := 1; total <= 100; total++ {
		point := Grade(float64(total)).Point
		if point < prev {
			t.Fatalf("grade point decreased at total %d: %.1f < %.1f", total, point, prev)
		}
		prev = point
	}
}

func TestGPA(t *testing.T) {
	cases := []struct {
		name    string
		entries []GPAEntry
		want    float64
	}{
		{"empty set", nil, 0.0},
		{"zero units", []GPAEntry{{Units: 0, GradePoint: 5.0}}, 0.0},
		{
			"weighted average",
			[]GPAEntry{{Units: 3, GradePoint: 5.0}, {Units: 2, GradePoint: 3.0}},
			4.20, // (15+6)/5
		},
		{
			"rounds to two decimals",
			[]GPAEntry{{Units: 3, GradePoint: 5.0}, {Units: 3, GradePoint: 4.0}, {Units: 3, GradePoint: 4.0}},
			4.33,
		},
	}

	for _, c := range cases {
		if got := GPA(c.entries); got != c.want {
			t.Errorf("%s: GPA() = %.2f, want %.2f", c.name, got, c.want)
		}
	}
}
