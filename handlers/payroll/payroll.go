package payroll

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Auwalkay/uni-portal/model"
	"github.com/Auwalkay/uni-portal/services"
	"github.com/Auwalkay/uni-portal/utils/middleware"
	"github.com/Auwalkay/uni-portal/utils/response"
	"github.com/Auwalkay/uni-portal/utils/validation"
)

// PayrollHandler serves payroll runs and payslips.
type PayrollHandler struct {
	db        *gorm.DB
	payroll   *services.PayrollService
	validator *validation.Validator
}

// NewPayrollHandler creates a new payroll handler
func NewPayrollHandler(db *gorm.DB, payroll *services.PayrollService) *PayrollHandler {
	return &PayrollHandler{
		db:        db,
		payroll:   payroll,
		validator: validation.NewValidator(),
	}
}

// RunRequest names the month to run payroll for
type RunRequest struct {
	Month int `json:"month" validate:"required,min=1,max=12"`
	Year  int `json:"year" validate:"required,min=2000,max=2100"`
}

// Run handles POST /api/v1/payroll/runs
func (h *PayrollHandler) Run(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req RunRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	run, err := h.payroll.Run(c.Context(), req.Month, req.Year, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPayrollAlreadyRun):
			return response.Conflict(c, "Payroll has already been run for this month")
		case errors.Is(err, services.ErrNoActiveStaff):
			return response.BadRequest(c, "There are no active staff to pay")
		default:
			return response.InternalServerError(c, "Failed to run payroll")
		}
	}

	return response.Created(c, run)
}

// ListRuns handles GET /api/v1/payroll/runs
func (h *PayrollHandler) ListRuns(c *fiber.Ctx) error {
	query := h.db.Model(&model.PayrollRun{})
	if year := c.Query("year"); year != "" {
		query = query.Where("year = ?", year)
	}

	var runs []model.PayrollRun
	if err := query.Order("year DESC, month DESC").Find(&runs).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch payroll runs")
	}
	return response.Success(c, runs)
}

// GetRunPayslips handles GET /api/v1/payroll/runs/:id/payslips
func (h *PayrollHandler) GetRunPayslips(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid payroll run id")
	}

	var run model.PayrollRun
	if err := h.db.First(&run, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Payroll run not found")
		}
		return response.InternalServerError(c, "Failed to fetch payroll run")
	}

	payslips, err := h.payroll.Payslips(c.Context(), run.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch payslips")
	}

	return response.Success(c, fiber.Map{
		"run":      run,
		"payslips": payslips,
	})
}

// ListStaff handles GET /api/v1/payroll/staff
func (h *PayrollHandler) ListStaff(c *fiber.Ctx) error {
	query := h.db.Model(&model.Staff{}).Preload("User").Preload("Department")
	if active := c.Query("active"); active != "" {
		query = query.Where("is_active = ?", active == "true")
	}

	var staff []model.Staff
	if err := query.Order("staff_number").Find(&staff).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch staff")
	}
	return response.Success(c, staff)
}

// UpdateStaffRequest adjusts a staff payroll record
type UpdateStaffRequest struct {
	Designation *string             `json:"designation,omitempty"`
	BasicSalary *float64            `json:"basic_salary,omitempty" validate:"omitempty,min=0"`
	Allowances  *map[string]float64 `json:"allowances,omitempty"`
	Deductions  *map[string]float64 `json:"deductions,omitempty"`
	IsActive    *bool               `json:"is_active,omitempty"`
}

// UpdateStaff handles PATCH /api/v1/payroll/staff/:id
func (h *PayrollHandler) UpdateStaff(c *fiber.Ctx) error {
	var staff model.Staff
	if err := h.db.First(&staff, c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Staff record not found")
		}
		return response.InternalServerError(c, "Failed to fetch staff record")
	}

	var req UpdateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if req.Designation != nil {
		staff.Designation = *req.Designation
	}
	if req.BasicSalary != nil {
		staff.BasicSalary = *req.BasicSalary
	}
	if req.Allowances != nil {
		raw, err := json.Marshal(*req.Allowances)
		if err != nil {
			return response.BadRequest(c, "Invalid allowances")
		}
		staff.Allowances = datatypes.JSON(raw)
	}
	if req.Deductions != nil {
		raw, err := json.Marshal(*req.Deductions)
		if err != nil {
			return response.BadRequest(c, "Invalid deductions")
		}
		staff.Deductions = datatypes.JSON(raw)
	}
	if req.IsActive != nil {
		staff.IsActive = *req.IsActive
	}

	if err := h.db.Save(&staff).Error; err != nil {
		return response.InternalServerError(c, "Failed to update staff record")
	}
	return response.Success(c, staff)
}
