package result

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

// ResultHandler serves score entry and transcripts.
type ResultHandler struct {
	db        *gorm.DB
	results   *services.ResultService
	validator *validation.Validator
}

// NewResultHandler creates a new result handler
func NewResultHandler(db *gorm.DB, results *services.ResultService) *ResultHandler {
	return &ResultHandler{
		db:        db,
		results:   results,
		validator: validation.NewValidator(),
	}
}

// RecordScoreRequest represents a score entry for one registration
type RecordScoreRequest struct {
	CAScore   float64 `json:"ca_score" validate:"min=0,max=30"`
	ExamScore float64 `json:"exam_score" validate:"min=0,max=70"`
}

// RecordScore handles PUT /api/v1/results/registrations/:id
func (h *ResultHandler) RecordScore(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid registration id")
	}

	var req RecordScoreRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	registration, err := h.results.RecordScore(c.Context(), uint(id), req.CAScore, req.ExamScore)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Registration not found")
		}
		return response.InternalServerError(c, "Failed to record score")
	}

	return response.Success(c, registration)
}

// ListCourseScores handles GET /api/v1/results/courses/:courseId
// Staff view of every registration against one course in a session.
func (h *ResultHandler) ListCourseScores(c *fiber.Ctx) error {
	courseID := c.Params("courseId")
	sessionID := c.Query("session_id")
	if sessionID == "" {
		return response.BadRequest(c, "session_id is required")
	}

	var rows []model.CourseRegistration
	if err := h.db.
		Preload("Student.User").
		Where("course_id = ? AND session_id = ?", courseID, sessionID).
		Order("student_id ASC").
		Find(&rows).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch course scores")
	}

	return response.Success(c, rows)
}

// MyTranscript handles GET /api/v1/results/transcript
func (h *ResultHandler) MyTranscript(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var student model.Student
	if err := h.db.Where("user_id = ?", userID).First(&student).Error; err != nil {
		return response.NotFound(c, "No student record found")
	}

	return h.transcript(c, student.ID)
}

// StudentTranscript handles GET /api/v1/results/students/:id/transcript
func (h *ResultHandler) StudentTranscript(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid student id")
	}
	return h.transcript(c, uint(id))
}

func (h *ResultHandler) transcript(c *fiber.Ctx, studentID uint) error {
	sessionID, err := strconv.ParseUint(c.Query("session_id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "session_id is required")
	}
	semesterID, _ := strconv.ParseUint(c.Query("semester_id", "0"), 10, 32)

	transcript, err := h.results.ComputeTranscript(c.Context(), studentID, uint(sessionID), uint(semesterID))
	if err != nil {
		return response.InternalServerError(c, "Failed to compute transcript")
	}
	return response.Success(c, transcript)
}
