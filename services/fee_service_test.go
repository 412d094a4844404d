package services

import (
	"testing"

	"github.com/Auwalkay/uni-portal/model"
)

func uintPtr(v uint) *uint { return &v }
func intPtr(v int) *int    { return &v }

func TestMatchConfigurationsAdditive(t *testing.T) {
	placement := StudentPlacement{FacultyID: 1, DepartmentID: 10, ProgrammeID: 100, Level: 100}

	configs := []model.FeeConfiguration{
		{ID: 1, Type: model.FeeTypeSchool, Amount: 1000},                             // global
		{ID: 2, Type: model.FeeTypeSchool, Amount: 500, FacultyID: uintPtr(1)},       // faculty F
		{ID: 3, Type: model.FeeTypeSchool, Amount: 300, DepartmentID: uintPtr(10)},   // dept D
		{ID: 4, Type: model.FeeTypeSchool, Amount: 999, ProgrammeID: uintPtr(999)},   // programme P2 != P
	}

	resolved := MatchConfigurations(placement, configs)

	// Rules are additive, not most-specific-wins: global + faculty +
	// department all apply; the foreign programme rule does not.
	if resolved.Total != 1800 {
		t.Errorf("total = %.0f, want 1800", resolved.Total)
	}
	if len(resolved.Items) != 3 {
		t.Fatalf("matched %d items, want 3", len(resolved.Items))
	}
	for _, item := range resolved.Items {
		if item.FeeConfigurationID == 4 {
			t.Errorf("programme rule for a different programme must not match")
		}
	}
}

func TestMatchConfigurationsLevelScoping(t *testing.T) {
	placement := StudentPlacement{FacultyID: 1, DepartmentID: 10, ProgrammeID: 100, Level: 200}

	configs := []model.FeeConfiguration{
		{ID: 1, Amount: 1000},                     // all levels
		{ID: 2, Amount: 200, Level: intPtr(100)},  // 100 level only
		{ID: 3, Amount: 350, Level: intPtr(200)},  // 200 level only
	}

	resolved := MatchConfigurations(placement, configs)
	if resolved.Total != 1350 {
		t.Errorf("total = %.0f, want 1350 (global + matching level)", resolved.Total)
	}
}

func TestMatchConfigurationsOtherScopesExcluded(t *testing.T) {
	placement := StudentPlacement{FacultyID: 1, DepartmentID: 10, ProgrammeID: 100, Level: 100}

	configs := []model.FeeConfiguration{
		{ID: 1, Amount: 500, FacultyID: uintPtr(2)},     // different faculty
		{ID: 2, Amount: 300, DepartmentID: uintPtr(11)}, // different department
	}

	resolved := MatchConfigurations(placement, configs)
	if len(resolved.Items) != 0 || resolved.Total != 0 {
		t.Errorf("got %d items / total %.0f, want empty match", len(resolved.Items), resolved.Total)
	}
}

func TestConfigurationMatchesProgrammeSpecific(t *testing.T) {
	placement := StudentPlacement{FacultyID: 1, DepartmentID: 10, ProgrammeID: 100, Level: 100}

	// programme rule for the student's own programme
	own := model.FeeConfiguration{ProgrammeID: uintPtr(100)}
	if !ConfigurationMatches(placement, &own) {
		t.Errorf("programme rule for own programme must match")
	}

	// department rule with the faculty also pinned still matches hierarchically
	pinned := model.FeeConfiguration{FacultyID: uintPtr(1), DepartmentID: uintPtr(10)}
	if !ConfigurationMatches(placement, &pinned) {
		t.Errorf("department rule with faculty set must match")
	}
}
