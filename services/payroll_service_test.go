package services

import (
	"math"
	"testing"

	"gorm.io/datatypes"

	"github.com/Auwalkay/uni-portal/model"
)

func TestComputePayslip(t *testing.T) {
	staff := &model.Staff{
		ID:          1,
		BasicSalary: 200000,
		Allowances:  datatypes.JSON(`{"housing": 50000, "transport": 20000}`),
		Deductions:  datatypes.JSON(`{"tax": 15000, "pension": 8000}`),
	}

	comp, err := ComputePayslip(staff)
	if err != nil {
		t.Fatalf("ComputePayslip returned error: %v", err)
	}
	if comp.Gross != 270000 {
		t.Errorf("expected gross 270000, got %.2f", comp.Gross)
	}
	if comp.TotalDeductions != 23000 {
		t.Errorf("expected deductions 23000, got %.2f", comp.TotalDeductions)
	}
	if comp.Net != 247000 {
		t.Errorf("expected net 247000, got %.2f", comp.Net)
	}
}

func TestComputePayslipBasicOnly(t *testing.T) {
	staff := &model.Staff{ID: 2, BasicSalary: 120000}

	comp, err := ComputePayslip(staff)
	if err != nil {
		t.Fatalf("ComputePayslip returned error: %v", err)
	}
	if comp.Gross != 120000 || comp.Net != 120000 {
		t.Errorf("expected gross and net 120000, got %.2f / %.2f", comp.Gross, comp.Net)
	}
	if comp.TotalDeductions != 0 {
		t.Errorf("expected zero deductions, got %.2f", comp.TotalDeductions)
	}
}

func TestComputePayslipDeductionsExceedGross(t *testing.T) {
	staff := &model.Staff{
		ID:          3,
		BasicSalary: 50000,
		Deductions:  datatypes.JSON(`{"loan": 60000}`),
	}

	comp, err := ComputePayslip(staff)
	if err != nil {
		t.Fatalf("ComputePayslip returned error: %v", err)
	}
	if math.Abs(comp.Net-(-10000)) > 1e-9 {
		t.Errorf("expected net -10000, got %.2f", comp.Net)
	}
}

func TestComputePayslipInvalidJSON(t *testing.T) {
	staff := &model.Staff{
		ID:          4,
		BasicSalary: 100000,
		Allowances:  datatypes.JSON(`not json`),
	}

	if _, err := ComputePayslip(staff); err == nil {
		t.Fatal("expected error for malformed allowance structure")
	}
}
