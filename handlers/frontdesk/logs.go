package frontdesk

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Auwalkay/uni-portal/model"
	"github.com/Auwalkay/uni-portal/utils/middleware"
	"github.com/Auwalkay/uni-portal/utils/response"
	"github.com/Auwalkay/uni-portal/utils/validation"
)

// FrontDeskHandler serves the visitor log kept at the front desk.
type FrontDeskHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewFrontDeskHandler creates a new front desk handler
func NewFrontDeskHandler(db *gorm.DB) *FrontDeskHandler {
	return &FrontDeskHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateLogRequest records a visitor signing in
type CreateLogRequest struct {
	VisitorName  string `json:"visitor_name" validate:"required,min=2,max=200"`
	VisitorPhone string `json:"visitor_phone" validate:"omitempty,max=20"`
	Purpose      string `json:"purpose" validate:"required,min=3"`
	Notes        string `json:"notes" validate:"omitempty,max=2000"`
}

// CreateLog handles POST /api/v1/front-desk/logs. TimeIn is always
// server-side; the desk clock is not trusted.
func (h *FrontDeskHandler) CreateLog(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req CreateLogRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	log := model.FrontDeskLog{
		VisitorName:  req.VisitorName,
		VisitorPhone: req.VisitorPhone,
		Purpose:      req.Purpose,
		Notes:        req.Notes,
		LoggedByID:   userID,
		TimeIn:       time.Now(),
	}
	if err := h.db.Create(&log).Error; err != nil {
		return response.InternalServerError(c, "Failed to create log entry")
	}
	return response.Created(c, log)
}

// ListLogs handles GET /api/v1/front-desk/logs. Defaults to today's
// entries; pass date=YYYY-MM-DD for another day, or open=true for
// visitors who have not signed out yet.
func (h *FrontDeskHandler) ListLogs(c *fiber.Ctx) error {
	query := h.db.Model(&model.FrontDeskLog{}).Preload("LoggedBy")

	if c.Query("open") == "true" {
		query = query.Where("time_out IS NULL")
	} else {
		day := time.Now()
		if dateStr := c.Query("date"); dateStr != "" {
			parsed, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				return response.BadRequest(c, "date must be YYYY-MM-DD")
			}
			day = parsed
		}
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		query = query.Where("time_in >= ? AND time_in < ?", start, start.Add(24*time.Hour))
	}

	var logs []model.FrontDeskLog
	if err := query.Order("time_in DESC").Find(&logs).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch log entries")
	}
	return response.Success(c, logs)
}

// SignOut handles PATCH /api/v1/front-desk/logs/:id/sign-out
func (h *FrontDeskHandler) SignOut(c *fiber.Ctx) error {
	var log model.FrontDeskLog
	if err := h.db.First(&log, c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Log entry not found")
		}
		return response.InternalServerError(c, "Failed to fetch log entry")
	}

	if log.TimeOut != nil {
		return response.BadRequest(c, "Visitor has already signed out")
	}

	now := time.Now()
	log.TimeOut = &now
	if err := h.db.Save(&log).Error; err != nil {
		return response.InternalServerError(c, "Failed to update log entry")
	}
	return response.Success(c, log)
}
