package session

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Auwalkay/uni-portal/model"
	"github.com/Auwalkay/uni-portal/services"
	"github.com/Auwalkay/uni-portal/utils/response"
	"github.com/Auwalkay/uni-portal/utils/validation"
)

// SessionHandler handles academic session and semester administration
type SessionHandler struct {
	db        *gorm.DB
	sessions  *services.SessionService
	period    services.CurrentPeriodProvider
	validator *validation.Validator
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(db *gorm.DB, sessions *services.SessionService, period services.CurrentPeriodProvider) *SessionHandler {
	return &SessionHandler{
		db:        db,
		sessions:  sessions,
		period:    period,
		validator: validation.NewValidator(),
	}
}

// CreateSessionRequest represents the request body for creating a session
type CreateSessionRequest struct {
	Name      string              `json:"name" validate:"required,session_name"`
	Semesters []SemesterViewInput `json:"semesters" validate:"omitempty,dive"`
}

// SemesterViewInput is one semester definition inside a session create
type SemesterViewInput struct {
	Name    string `json:"name" validate:"required,min=3,max=50"`
	Ordinal int    `json:"ordinal" validate:"required,min=1"`
}

// UpdateSessionRequest toggles session-scoped switches
type UpdateSessionRequest struct {
	RegistrationEnabled *bool `json:"registration_enabled,omitempty"`
	ApplicationsEnabled *bool `json:"applications_enabled,omitempty"`
}

// SemesterWindowRequest sets a semester's registration window
type SemesterWindowRequest struct {
	RegistrationStartsAt *time.Time `json:"registration_starts_at"`
	RegistrationEndsAt   *time.Time `json:"registration_ends_at"`
}

// ListSessions handles GET /api/v1/sessions
func (h *SessionHandler) ListSessions(c *fiber.Ctx) error {
	var sessions []model.AcademicSession
	if err := h.db.Preload("Semesters", func(db *gorm.DB) *gorm.DB {
		return db.Order("ordinal ASC")
	}).Order("created_at DESC").Find(&sessions).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch sessions")
	}
	return response.Success(c, sessions)
}

// GetCurrent handles GET /api/v1/sessions/current
func (h *SessionHandler) GetCurrent(c *fiber.Ctx) error {
	session, err := h.period.CurrentSession(c.Context())
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			return response.NotFound(c, "No current session is set")
		}
		return response.InternalServerError(c, "Failed to load current session")
	}

	semester, err := h.period.CurrentSemester(c.Context())
	if err != nil && !errors.Is(err, services.ErrSemesterNotFound) {
		return response.InternalServerError(c, "Failed to load current semester")
	}

	return response.Success(c, fiber.Map{
		"session":  session,
		"semester": semester,
	})
}

// CreateSession handles POST /api/v1/sessions
func (h *SessionHandler) CreateSession(c *fiber.Ctx) error {
	var req CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	session := model.AcademicSession{Name: req.Name}
	semesters := req.Semesters
	if len(semesters) == 0 {
		semesters = []SemesterViewInput{
			{Name: "First Semester", Ordinal: 1},
			{Name: "Second Semester", Ordinal: 2},
		}
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&session).Error; err != nil {
			return err
		}
		for _, sem := range semesters {
			row := model.Semester{
				SessionID: session.ID,
				Name:      sem.Name,
				Ordinal:   sem.Ordinal,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return response.Conflict(c, "A session with this name already exists")
	}

	h.db.Preload("Semesters").First(&session, session.ID)
	return response.Created(c, session)
}

// UpdateSession handles PATCH /api/v1/sessions/:id
func (h *SessionHandler) UpdateSession(c *fiber.Ctx) error {
	id := c.Params("id")

	var session model.AcademicSession
	if err := h.db.First(&session, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Session not found")
		}
		return response.InternalServerError(c, "Failed to load session")
	}

	var req UpdateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	updates := map[string]interface{}{}
	if req.RegistrationEnabled != nil {
		updates["registration_enabled"] = *req.RegistrationEnabled
	}
	if req.ApplicationsEnabled != nil {
		updates["applications_enabled"] = *req.ApplicationsEnabled
	}
	if len(updates) == 0 {
		return response.BadRequest(c, "Nothing to update")
	}

	if err := h.db.Model(&session).Updates(updates).Error; err != nil {
		return response.InternalServerError(c, "Failed to update session")
	}

	h.period.Invalidate(c.Context())
	return response.Success(c, session)
}

// Activate handles POST /api/v1/sessions/:id/activate
func (h *SessionHandler) Activate(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid session id")
	}

	if err := h.sessions.Activate(c.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			return response.NotFound(c, "Session not found")
		}
		return response.InternalServerError(c, "Failed to activate session")
	}

	return response.SuccessWithMessage(c, "Session activated", nil)
}

// ActivateSemester handles POST /api/v1/sessions/:id/semesters/:semesterId/activate
func (h *SessionHandler) ActivateSemester(c *fiber.Ctx) error {
	sessionID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid session id")
	}
	semesterID, err := strconv.ParseUint(c.Params("semesterId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid semester id")
	}

	if err := h.sessions.ActivateSemester(c.Context(), uint(sessionID), uint(semesterID)); err != nil {
		switch {
		case errors.Is(err, services.ErrSemesterNotFound):
			return response.NotFound(c, "Semester not found")
		case errors.Is(err, services.ErrSemesterMismatch):
			return response.BadRequest(c, "Semester does not belong to the given session")
		default:
			return response.InternalServerError(c, "Failed to activate semester")
		}
	}

	return response.SuccessWithMessage(c, "Semester activated", nil)
}

// SetSemesterWindow handles PUT /api/v1/sessions/:id/semesters/:semesterId/window
func (h *SessionHandler) SetSemesterWindow(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	semesterID := c.Params("semesterId")

	var semester model.Semester
	if err := h.db.Where("id = ? AND session_id = ?", semesterID, sessionID).First(&semester).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Semester not found")
		}
		return response.InternalServerError(c, "Failed to load semester")
	}

	var req SemesterWindowRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.RegistrationStartsAt != nil && req.RegistrationEndsAt != nil &&
		req.RegistrationEndsAt.Before(*req.RegistrationStartsAt) {
		return response.BadRequest(c, "Window end must be after window start")
	}

	if err := h.db.Model(&semester).Updates(map[string]interface{}{
		"registration_starts_at": req.RegistrationStartsAt,
		"registration_ends_at":   req.RegistrationEndsAt,
	}).Error; err != nil {
		return response.InternalServerError(c, "Failed to update registration window")
	}

	h.period.Invalidate(c.Context())
	return response.Success(c, semester)
}
