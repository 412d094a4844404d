package fee

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Auwalkay/uni-portal/model"
	"github.com/Auwalkay/uni-portal/services"
	"github.com/Auwalkay/uni-portal/utils/response"
	"github.com/Auwalkay/uni-portal/utils/validation"
)

// FeeHandler serves fee configuration, invoicing and payments.
type FeeHandler struct {
	db            *gorm.DB
	fees          *services.FeeService
	invoices      *services.InvoiceService
	payments      *services.PaymentService
	webhookSecret string
	validator     *validation.Validator
}

// NewFeeHandler creates a new fee handler. webhookSecret is the Paystack
// secret key used to authenticate webhook deliveries.
func NewFeeHandler(db *gorm.DB, fees *services.FeeService, invoices *services.InvoiceService, payments *services.PaymentService, webhookSecret string) *FeeHandler {
	return &FeeHandler{
		db:            db,
		fees:          fees,
		invoices:      invoices,
		payments:      payments,
		webhookSecret: webhookSecret,
		validator:     validation.NewValidator(),
	}
}

// CreateConfigurationRequest defines one fee rule. Nil scope fields are
// wildcards; every matching rule contributes a line to the invoice.
type CreateConfigurationRequest struct {
	SessionID    uint    `json:"session_id" validate:"required,min=1"`
	Type         string  `json:"type" validate:"required,oneof=application_fee acceptance_fee school_fee"`
	FacultyID    *uint   `json:"faculty_id,omitempty"`
	DepartmentID *uint   `json:"department_id,omitempty"`
	ProgrammeID  *uint   `json:"programme_id,omitempty"`
	Level        *int    `json:"level,omitempty"`
	Amount       float64 `json:"amount" validate:"required,min=0"`
	IsCompulsory *bool   `json:"is_compulsory,omitempty"`
}

// ListConfigurations handles GET /api/v1/fees/configurations
func (h *FeeHandler) ListConfigurations(c *fiber.Ctx) error {
	query := h.db.Model(&model.FeeConfiguration{})

	if sessionID := c.Query("session_id"); sessionID != "" {
		query = query.Where("session_id = ?", sessionID)
	}
	if feeType := c.Query("type"); feeType != "" {
		query = query.Where("type = ?", feeType)
	}

	var configurations []model.FeeConfiguration
	if err := query.Order("id ASC").Find(&configurations).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch fee configurations")
	}
	return response.Success(c, configurations)
}

// CreateConfiguration handles POST /api/v1/fees/configurations
func (h *FeeHandler) CreateConfiguration(c *fiber.Ctx) error {
	var req CreateConfigurationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var session model.AcademicSession
	if err := h.db.First(&session, req.SessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Session not found")
		}
		return response.InternalServerError(c, "Failed to load session")
	}

	configuration := model.FeeConfiguration{
		SessionID:    session.ID,
		Type:         model.FeeType(req.Type),
		FacultyID:    req.FacultyID,
		DepartmentID: req.DepartmentID,
		ProgrammeID:  req.ProgrammeID,
		Level:        req.Level,
		Amount:       req.Amount,
		IsCompulsory: true,
	}
	if req.IsCompulsory != nil {
		configuration.IsCompulsory = *req.IsCompulsory
	}
	if err := h.db.Create(&configuration).Error; err != nil {
		return response.InternalServerError(c, "Failed to create fee configuration")
	}
	return response.Created(c, configuration)
}

// DeleteConfiguration handles DELETE /api/v1/fees/configurations/:id
func (h *FeeHandler) DeleteConfiguration(c *fiber.Ctx) error {
	id := c.Params("id")

	result := h.db.Delete(&model.FeeConfiguration{}, id)
	if result.Error != nil {
		return response.InternalServerError(c, "Failed to delete fee configuration")
	}
	if result.RowsAffected == 0 {
		return response.NotFound(c, "Fee configuration not found")
	}
	return response.NoContent(c)
}
