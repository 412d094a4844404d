package course

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Auwalkay/uni-portal/model"
	"github.com/Auwalkay/uni-portal/utils/response"
	"github.com/Auwalkay/uni-portal/utils/validation"
)

// CourseHandler handles course catalogue administration
type CourseHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(db *gorm.DB) *CourseHandler {
	return &CourseHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateCourseRequest represents the request body for creating a course
type CreateCourseRequest struct {
	DepartmentID uint   `json:"department_id" validate:"required,min=1"`
	Code         string `json:"code" validate:"required,course_code"`
	Title        string `json:"title" validate:"required,min=3,max=255"`
	Level        int    `json:"level" validate:"required,min=100,max=900"`
	Semester     string `json:"semester" validate:"required,oneof=1 2"`
	Units        int    `json:"units" validate:"required,min=1,max=12"`
	IsCompulsory *bool  `json:"is_compulsory,omitempty"`
}

// UpdateCourseRequest represents the request body for updating a course
type UpdateCourseRequest struct {
	Title        string `json:"title" validate:"omitempty,min=3,max=255"`
	Units        *int   `json:"units" validate:"omitempty,min=1,max=12"`
	IsCompulsory *bool  `json:"is_compulsory,omitempty"`
	IsActive     *bool  `json:"is_active,omitempty"`
}

// AttachProgrammeRequest overrides a course's compulsory flag for one programme
type AttachProgrammeRequest struct {
	ProgrammeID  uint `json:"programme_id" validate:"required,min=1"`
	IsCompulsory bool `json:"is_compulsory"`
}

// ListCourses handles GET /api/v1/courses
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	search := c.Query("search", "")

	query := h.db.Model(&model.Course{})

	if search != "" {
		query = query.Where("code ILIKE ? OR title ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if departmentID := c.Query("department_id"); departmentID != "" {
		query = query.Where("department_id = ?", departmentID)
	}
	if level := c.Query("level"); level != "" {
		query = query.Where("level = ?", level)
	}
	if semester := c.Query("semester"); semester != "" {
		query = query.Where("semester_code = ?", semester)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count courses")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var courses []model.Course
	if err := query.Preload("Department").
		Order("code ASC").
		Limit(limit).
		Offset(offset).
		Find(&courses).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch courses")
	}

	return response.Paginated(c, courses, pagination)
}

// GetCourse handles GET /api/v1/courses/:id
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	id := c.Params("id")

	var course model.Course
	if err := h.db.Preload("Department.Faculty").
		Preload("Programmes").
		First(&course, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to fetch course")
	}

	return response.Success(c, course)
}

// CreateCourse handles POST /api/v1/courses
func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	var req CreateCourseRequest
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

	course := model.Course{
		DepartmentID: department.ID,
		Code:         req.Code,
		Title:        req.Title,
		Level:        req.Level,
		SemesterCode: req.Semester,
		Units:        req.Units,
		IsCompulsory: true,
		IsActive:     true,
	}
	if req.IsCompulsory != nil {
		course.IsCompulsory = *req.IsCompulsory
	}

	if err := h.db.Create(&course).Error; err != nil {
		return response.Conflict(c, "A course with this code already exists")
	}
	return response.Created(c, course)
}

// UpdateCourse handles PATCH /api/v1/courses/:id
func (h *CourseHandler) UpdateCourse(c *fiber.Ctx) error {
	id := c.Params("id")

	var course model.Course
	if err := h.db.First(&course, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to load course")
	}

	var req UpdateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if req.Title != "" {
		course.Title = req.Title
	}
	if req.Units != nil {
		course.Units = *req.Units
	}
	if req.IsCompulsory != nil {
		course.IsCompulsory = *req.IsCompulsory
	}
	if req.IsActive != nil {
		course.IsActive = *req.IsActive
	}

	if err := h.db.Save(&course).Error; err != nil {
		return response.InternalServerError(c, "Failed to update course")
	}
	return response.Success(c, course)
}

// AttachProgramme handles POST /api/v1/courses/:id/programmes
func (h *CourseHandler) AttachProgramme(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	var req AttachProgrammeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var course model.Course
	if err := h.db.First(&course, id).Error; err != nil {
		return response.NotFound(c, "Course not found")
	}
	var programme model.Programme
	if err := h.db.First(&programme, req.ProgrammeID).Error; err != nil {
		return response.NotFound(c, "Programme not found")
	}

	pivot := model.CourseProgramme{
		CourseID:     course.ID,
		ProgrammeID:  programme.ID,
		IsCompulsory: req.IsCompulsory,
	}
	// Upsert on the composite key so re-attaching just updates the flag.
	if err := h.db.Save(&pivot).Error; err != nil {
		return response.InternalServerError(c, "Failed to attach programme")
	}
	return response.Created(c, pivot)
}
