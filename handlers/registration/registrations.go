package registration

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Auwalkay/uni-portal/model"
	"github.com/Auwalkay/uni-portal/services"
	"github.com/Auwalkay/uni-portal/utils/middleware"
	"github.com/Auwalkay/uni-portal/utils/response"
	"github.com/Auwalkay/uni-portal/utils/validation"
)

// RegistrationHandler serves course registration for students.
type RegistrationHandler struct {
	db           *gorm.DB
	registration *services.RegistrationService
	validator    *validation.Validator
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(db *gorm.DB, registration *services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{
		db:           db,
		registration: registration,
		validator:    validation.NewValidator(),
	}
}

// SubmitRequest represents a registration submission
type SubmitRequest struct {
	SessionID  uint   `json:"session_id" validate:"required,min=1"`
	SemesterID uint   `json:"semester_id,omitempty"`
	CourseIDs  []uint `json:"course_ids" validate:"required,min=1,dive,min=1"`
}

func (h *RegistrationHandler) currentStudent(c *fiber.Ctx) (*model.Student, error) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return nil, errors.New("not authenticated")
	}

	var student model.Student
	if err := h.db.Where("user_id = ?", userID).First(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

// EligibleCourses handles GET /api/v1/registrations/eligible-courses
func (h *RegistrationHandler) EligibleCourses(c *fiber.Ctx) error {
	student, err := h.currentStudent(c)
	if err != nil {
		return response.NotFound(c, "No student record found")
	}

	sessionID, err := strconv.ParseUint(c.Query("session_id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "session_id is required")
	}

	opts := services.EligibleCoursesOptions{}
	if v, err := strconv.ParseUint(c.Query("semester_id", "0"), 10, 32); err == nil {
		opts.SemesterID = uint(v)
	}
	if v, err := strconv.Atoi(c.Query("level", "0")); err == nil {
		opts.Level = v
	}
	if v, err := strconv.ParseUint(c.Query("department_id", "0"), 10, 32); err == nil {
		opts.DepartmentID = uint(v)
	}
	if v, err := strconv.ParseUint(c.Query("faculty_id", "0"), 10, 32); err == nil {
		opts.FacultyID = uint(v)
	}

	courses, err := h.registration.EligibleCourses(c.Context(), student, uint(sessionID), opts)
	if err != nil {
		if errors.Is(err, services.ErrSemesterNotFound) {
			return response.NotFound(c, "No semester found for this session")
		}
		return response.InternalServerError(c, "Failed to list eligible courses")
	}

	return response.Success(c, courses)
}

// Submit handles POST /api/v1/registrations
func (h *RegistrationHandler) Submit(c *fiber.Ctx) error {
	student, err := h.currentStudent(c)
	if err != nil {
		return response.NotFound(c, "No student record found")
	}

	var req SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	registrations, err := h.registration.Submit(c.Context(), student, req.SessionID, req.SemesterID, req.CourseIDs)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoCoursesSelected):
			return response.BadRequest(c, "Select at least one course")
		case errors.Is(err, services.ErrSessionNotFound):
			return response.NotFound(c, "Session not found")
		case errors.Is(err, services.ErrRegistrationDisabled):
			return response.Forbidden(c, "Course registration is disabled for this session")
		case errors.Is(err, services.ErrSchoolFeesUnpaid):
			return response.PaymentRequired(c, "School fees must be paid before registering courses")
		case errors.Is(err, services.ErrSemesterNotFound):
			return response.NotFound(c, "No semester found for this session")
		case errors.Is(err, services.ErrPastSemesterLocked):
			return response.Forbidden(c, "Registration for a past semester is locked")
		case errors.Is(err, services.ErrRegistrationClosed):
			return response.Forbidden(c, "The registration window for this semester is closed")
		case errors.Is(err, services.ErrUnitCapExceeded):
			return response.BadRequest(c, "Selected courses exceed your programme's unit cap")
		case errors.Is(err, gorm.ErrRecordNotFound):
			return response.NotFound(c, "One or more selected courses do not exist")
		default:
			return response.InternalServerError(c, "Failed to register courses")
		}
	}

	return response.Created(c, registrations)
}

// ListMine handles GET /api/v1/registrations
func (h *RegistrationHandler) ListMine(c *fiber.Ctx) error {
	student, err := h.currentStudent(c)
	if err != nil {
		return response.NotFound(c, "No student record found")
	}

	sessionID, err := strconv.ParseUint(c.Query("session_id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "session_id is required")
	}
	semesterID, _ := strconv.ParseUint(c.Query("semester_id", "0"), 10, 32)

	rows, err := h.registration.List(c.Context(), student.ID, uint(sessionID), uint(semesterID))
	if err != nil {
		return response.InternalServerError(c, "Failed to list registrations")
	}
	return response.Success(c, rows)
}
