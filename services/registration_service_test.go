package services

import (
	"testing"

	"github.com/Auwalkay/uni-portal/model"
)

func TestCheckUnitCap(t *testing.T) {
	courses := []model.Course{
		{Units: 6}, {Units: 6}, {Units: 6},
	}

	t.Run("under cap passes", func(t *testing.T) {
		programme := &model.Programme{MaxCreditUnits: 24}
		if err := CheckUnitCap(courses, programme); err != nil {
			t.Errorf("18 units under a 24 cap: unexpected %v", err)
		}
	})

	t.Run("at cap passes", func(t *testing.T) {
		programme := &model.Programme{MaxCreditUnits: 18}
		if err := CheckUnitCap(courses, programme); err != nil {
			t.Errorf("18 units at an 18 cap: unexpected %v", err)
		}
	})

	t.Run("over cap fails", func(t *testing.T) {
		programme := &model.Programme{MaxCreditUnits: 12}
		if err := CheckUnitCap(courses, programme); err != ErrUnitCapExceeded {
			t.Errorf("got %v, want ErrUnitCapExceeded", err)
		}
	})

	t.Run("unresolved programme falls back to default cap", func(t *testing.T) {
		// Zero-value programme means no cap configured: default 24.
		var programme model.Programme
		if err := CheckUnitCap(courses, &programme); err != nil {
			t.Errorf("18 units under the default 24 cap: unexpected %v", err)
		}

		heavy := append([]model.Course{}, courses...)
		heavy = append(heavy, model.Course{Units: 9})
		if err := CheckUnitCap(heavy, &programme); err != ErrUnitCapExceeded {
			t.Errorf("27 units over the default cap: got %v, want ErrUnitCapExceeded", err)
		}
	})
}

func TestProgrammeUnitCap(t *testing.T) {
	if cap := (&model.Programme{MaxCreditUnits: 30}).UnitCap(); cap != 30 {
		t.Errorf("explicit cap = %d, want 30", cap)
	}
	if cap := (&model.Programme{}).UnitCap(); cap != model.DefaultMaxCreditUnits {
		t.Errorf("zero-value cap = %d, want default %d", cap, model.DefaultMaxCreditUnits)
	}
	var nilProgramme *model.Programme
	if cap := nilProgramme.UnitCap(); cap != model.DefaultMaxCreditUnits {
		t.Errorf("nil programme cap = %d, want default %d", cap, model.DefaultMaxCreditUnits)
	}
}
