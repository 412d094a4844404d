package services

import "math"

// GradeResult is the letter/point pair for one total score.
type GradeResult struct {
	Letter string  `json:"letter"`
	Point  float64 `json:"point"`
}

// Grade converts a total score (0..100) into a letter grade and grade
// point. The score is rounded to the nearest integer before the bands
// are checked high-to-low. Scores above 100 are NOT rejected here:
// clamping is the caller's contract (the score-entry handler caps
// CA at 30 and exam at 70 before anything reaches this function).
func Grade(total float64) GradeResult {
	score := int(math.Round(total))
	switch {
	case score >= 70:
		return GradeResult{Letter: "A", Point: 5.0}
	case score >= 60:
		return GradeResult{Letter: "B", Point: 4.0}
	case score >= 50:
		return GradeResult{Letter: "C", Point: 3.0}
	case score >= 45:
		return GradeResult{Letter: "D", Point: 2.0}
	case score >= 40:
		return GradeResult{Letter: "E", Point: 1.0}
	default:
		return GradeResult{Letter: "F", Point: 0.0}
	}
}

// GPAEntry is one graded registration feeding a GPA computation.
type GPAEntry struct {
	Units      int
	GradePoint float64
}

// GPA is the unit-weighted average of grade points, rounded to two
// decimal places. An empty (or zero-unit) set yields 0.00 rather than
// dividing by zero. CGPA is this same function applied to the full
// lifetime registration set.
func GPA(entries []GPAEntry) float64 {
	var totalUnits int
	var weighted float64
	for _, e := range entries {
		totalUnits += e.Units
		weighted += float64(e.Units) * e.GradePoint
	}
	if totalUnits == 0 {
		return 0.0
	}
	return math.Round(weighted/float64(totalUnits)*100) / 100
}
