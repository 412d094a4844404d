package faculty

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Auwalkay/uni-portal/model"
	"github.com/Auwalkay/uni-portal/utils/response"
	"github.com/Auwalkay/uni-portal/utils/validation"
)

// FacultyHandler handles the faculty/department/programme tree
type FacultyHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewFacultyHandler creates a new faculty handler
func NewFacultyHandler(db *gorm.DB) *FacultyHandler {
	return &FacultyHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateFacultyRequest represents the request body for creating a faculty
type CreateFacultyRequest struct {
	Name string `json:"name" validate:"required,min=3,max=255"`
	Code string `json:"code" validate:"required,min=2,max=10"`
}

// CreateDepartmentRequest represents the request body for creating a department
type CreateDepartmentRequest struct {
	FacultyID uint   `json:"faculty_id" validate:"required,min=1"`
	Name      string `json:"name" validate:"required,min=3,max=255"`
	Code      string `json:"code" validate:"required,min=2,max=10"`
}

// CreateProgrammeRequest represents the request body for creating a programme
type CreateProgrammeRequest struct {
	DepartmentID   uint   `json:"department_id" validate:"required,min=1"`
	Name           string `json:"name" validate:"required,min=3,max=255"`
	Type           string `json:"type" validate:"omitempty,oneof=UG PG PHD"`
	MaxCreditUnits int    `json:"max_credit_units" validate:"omitempty,min=1,max=48"`
}

// ListFaculties handles GET /api/v1/faculties
func (h *FacultyHandler) ListFaculties(c *fiber.Ctx) error {
	var faculties []model.Faculty
	if err := h.db.Preload("Departments.Programmes").
		Order("name ASC").
		Find(&faculties).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch faculties")
	}
	return response.Success(c, faculties)
}

// CreateFaculty handles POST /api/v1/faculties
func (h *FacultyHandler) CreateFaculty(c *fiber.Ctx) error {
	var req CreateFacultyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	faculty := model.Faculty{Name: req.Name, Code: req.Code}
	if err := h.db.Create(&faculty).Error; err != nil {
		return response.Conflict(c, "A faculty with this code already exists")
	}
	return response.Created(c, faculty)
}

// CreateDepartment handles POST /api/v1/departments
func (h *FacultyHandler) CreateDepartment(c *fiber.Ctx) error {
	var req CreateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var faculty model.Faculty
	if err := h.db.First(&faculty, req.FacultyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Faculty not found")
		}
		return response.InternalServerError(c, "Failed to load faculty")
	}

	department := model.Department{
		FacultyID: faculty.ID,
		Name:      req.Name,
		Code:      req.Code,
	}
	if err := h.db.Create(&department).Error; err != nil {
		return response.Conflict(c, "A department with this code already exists")
	}
	return response.Created(c, department)
}

// CreateProgramme handles POST /api/v1/programmes
func (h *FacultyHandler) CreateProgramme(c *fiber.Ctx) error {
	var req CreateProgrammeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var department model.Department
	if err := h.db.First(&department, req.DepartmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Department not found")
		}
		return response.InternalServerError(c, "Failed to load department")
	}

	programme := model.Programme{
		DepartmentID: department.ID,
		Name:         req.Name,
		Type:         model.ProgrammeTypeUG,
		IsActive:     true,
	}
	if req.Type != "" {
		programme.Type = model.ProgrammeType(req.Type)
	}
	if req.MaxCreditUnits > 0 {
		programme.MaxCreditUnits = req.MaxCreditUnits
	}

	if err := h.db.Create(&programme).Error; err != nil {
		return response.InternalServerError(c, "Failed to create programme")
	}
	return response.Created(c, programme)
}

// ListProgrammes handles GET /api/v1/programmes
func (h *FacultyHandler) ListProgrammes(c *fiber.Ctx) error {
	query := h.db.Model(&model.Programme{}).Preload("Department.Faculty")

	if departmentID := c.Query("department_id"); departmentID != "" {
		query = query.Where("department_id = ?", departmentID)
	}
	if active := c.Query("active"); active != "" {
		query = query.Where("is_active = ?", active == "true")
	}

	var programmes []model.Programme
	if err := query.Order("name ASC").Find(&programmes).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch programmes")
	}
	return response.Success(c, programmes)
}
