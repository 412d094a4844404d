package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Auwalkay/uni-portal/model"
)

// PayrollService runs monthly payroll over active staff.
type PayrollService struct {
	db *gorm.DB
}

// NewPayrollService creates a new payroll service
func NewPayrollService(db *gorm.DB) *PayrollService {
	return &PayrollService{db: db}
}

// PayslipComputation is the pure per-staff salary breakdown.
type PayslipComputation struct {
	Basic           float64            `json:"basic"`
	Allowances      map[string]float64 `json:"allowances"`
	Deductions      map[string]float64 `json:"deductions"`
	Gross           float64            `json:"gross"`
	TotalDeductions float64            `json:"total_deductions"`
	Net             float64            `json:"net"`
}

// ComputePayslip derives gross, deductions and net pay from a staff
// salary structure. Pure; persistence is Run's job.
func ComputePayslip(staff *model.Staff) (*PayslipComputation, error) {
	comp := &PayslipComputation{
		Basic:      staff.BasicSalary,
		Allowances: map[string]float64{},
		Deductions: map[string]float64{},
	}

	if len(staff.Allowances) > 0 {
		if err := json.Unmarshal(staff.Allowances, &comp.Allowances); err != nil {
			return nil, fmt.Errorf("invalid allowance structure for staff %d: %w", staff.ID, err)
		}
	}
	if len(staff.Deductions) > 0 {
		if err := json.Unmarshal(staff.Deductions, &comp.Deductions); err != nil {
			return nil, fmt.Errorf("invalid deduction structure for staff %d: %w", staff.ID, err)
		}
	}

	comp.Gross = comp.Basic
	for _, amount := range comp.Allowances {
		comp.Gross += amount
	}
	for _, amount := range comp.Deductions {
		comp.TotalDeductions += amount
	}
	comp.Net = comp.Gross - comp.TotalDeductions
	return comp, nil
}

// Run executes payroll for one (month, year). The unique period index
// makes a repeat run fail cleanly; callers get ErrPayrollAlreadyRun.
func (s *PayrollService) Run(ctx context.Context, month, year int, runByUserID uint) (*model.PayrollRun, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid payroll month %d", month)
	}

	var existing model.PayrollRun
	err := s.db.WithContext(ctx).Where("month = ? AND year = ?", month, year).First(&existing).Error
	if err == nil {
		return nil, ErrPayrollAlreadyRun
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to check payroll period: %w", err)
	}

	var staff []model.Staff
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Find(&staff).Error; err != nil {
		return nil, fmt.Errorf("failed to load staff: %w", err)
	}
	if len(staff) == 0 {
		return nil, ErrNoActiveStaff
	}

	run := model.PayrollRun{
		Month:       month,
		Year:        year,
		Status:      model.PayrollRunStatusCompleted,
		StaffCount:  len(staff),
		RunByUserID: runByUserID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&run).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrPayrollAlreadyRun
			}
			return fmt.Errorf("failed to create payroll run: %w", err)
		}

		for i := range staff {
			comp, err := ComputePayslip(&staff[i])
			if err != nil {
				return err
			}

			breakdown, err := json.Marshal(comp)
			if err != nil {
				return fmt.Errorf("failed to marshal payslip breakdown: %w", err)
			}

			payslip := model.Payslip{
				PayrollRunID:    run.ID,
				StaffID:         staff[i].ID,
				BasicSalary:     comp.Basic,
				GrossPay:        comp.Gross,
				TotalDeductions: comp.TotalDeductions,
				NetPay:          comp.Net,
				Breakdown:       datatypes.JSON(breakdown),
			}
			if err := tx.Create(&payslip).Error; err != nil {
				return fmt.Errorf("failed to create payslip: %w", err)
			}

			run.TotalGross += comp.Gross
			run.TotalNet += comp.Net
		}

		return tx.Model(&model.PayrollRun{}).
			Where("id = ?", run.ID).
			Updates(map[string]interface{}{"total_gross": run.TotalGross, "total_net": run.TotalNet}).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Payroll %02d/%d completed: %d staff, net %.2f", month, year, run.StaffCount, run.TotalNet)
	return &run, nil
}

// Payslips lists the payslips of one run.
func (s *PayrollService) Payslips(ctx context.Context, runID uint) ([]model.Payslip, error) {
	var payslips []model.Payslip
	if err := s.db.WithContext(ctx).
		Preload("Staff.User").
		Where("payroll_run_id = ?", runID).
		Order("staff_id ASC").
		Find(&payslips).Error; err != nil {
		return nil, fmt.Errorf("failed to list payslips: %w", err)
	}
	return payslips, nil
}
