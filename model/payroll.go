package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Staff is the payroll record for an employee account.
type Staff struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	UserID       uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	StaffNumber  string         `gorm:"uniqueIndex;not null;type:varchar(20)" json:"staff_number"`
	Designation  string         `gorm:"type:varchar(100)" json:"designation"`
	DepartmentID *uint          `gorm:"index" json:"department_id"` // nil for non-academic staff
	BasicSalary  float64        `gorm:"not null" json:"basic_salary"`
	Allowances   datatypes.JSON `gorm:"type:jsonb" json:"allowances,omitempty"` // {"housing": 50000, "transport": 20000}
	Deductions   datatypes.JSON `gorm:"type:jsonb" json:"deductions,omitempty"` // {"tax": 15000, "pension": 8000}
	IsActive     bool           `gorm:"default:true" json:"is_active"`

	// Relationships
	User       User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

// TableName specifies the table name for Staff
func (Staff) TableName() string {
	return "staff"
}

// PayrollRunStatus tracks a run's lifecycle.
type PayrollRunStatus string

const (
	PayrollRunStatusCompleted PayrollRunStatus = "completed"
	PayrollRunStatusFailed    PayrollRunStatus = "failed"
)

// PayrollRun is one monthly payroll execution. The (month, year) unique
// index makes re-running a month an idempotent no-op.
type PayrollRun struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
	Month       int              `gorm:"not null;uniqueIndex:idx_payroll_period" json:"month"` // 1..12
	Year        int              `gorm:"not null;uniqueIndex:idx_payroll_period" json:"year"`
	Status      PayrollRunStatus `gorm:"type:varchar(10);default:'completed'" json:"status"`
	StaffCount  int              `json:"staff_count"`
	TotalGross  float64          `json:"total_gross"`
	TotalNet    float64          `json:"total_net"`
	RunByUserID uint             `gorm:"index" json:"run_by_user_id"`

	// Relationships
	RunBy    User      `gorm:"foreignKey:RunByUserID" json:"-"`
	Payslips []Payslip `gorm:"foreignKey:PayrollRunID;constraint:OnDelete:CASCADE" json:"payslips,omitempty"`
}

// TableName specifies the table name for PayrollRun
func (PayrollRun) TableName() string {
	return "payroll_runs"
}

// Payslip is one staff member's settlement within a run. Breakdown
// snapshots the allowance/deduction lines as computed at run time.
type Payslip struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time      `json:"created_at"`
	PayrollRunID    uint           `gorm:"not null;index" json:"payroll_run_id"`
	StaffID         uint           `gorm:"not null;index" json:"staff_id"`
	BasicSalary     float64        `gorm:"not null" json:"basic_salary"`
	GrossPay        float64        `gorm:"not null" json:"gross_pay"`
	TotalDeductions float64        `gorm:"not null" json:"total_deductions"`
	NetPay          float64        `gorm:"not null" json:"net_pay"`
	Breakdown       datatypes.JSON `gorm:"type:jsonb" json:"breakdown,omitempty"`

	// Relationships
	PayrollRun PayrollRun `gorm:"foreignKey:PayrollRunID" json:"-"`
	Staff      Staff      `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
}

// TableName specifies the table name for Payslip
func (Payslip) TableName() string {
	return "payslips"
}
