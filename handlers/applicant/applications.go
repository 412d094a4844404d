package applicant

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Auwalkay/uni-portal/model"
	"github.com/Auwalkay/uni-portal/services"
	"github.com/Auwalkay/uni-portal/utils/middleware"
	"github.com/Auwalkay/uni-portal/utils/response"
	"github.com/Auwalkay/uni-portal/utils/validation"
)

// ApplicantHandler serves the applicant's own view of the admission
// pipeline. Staff-side decisions live in the admission package.
type ApplicantHandler struct {
	db        *gorm.DB
	admission *services.AdmissionService
	documents *services.DocumentService
	validator *validation.Validator
}

// NewApplicantHandler creates a new applicant handler
func NewApplicantHandler(db *gorm.DB, admission *services.AdmissionService, documents *services.DocumentService) *ApplicantHandler {
	return &ApplicantHandler{
		db:        db,
		admission: admission,
		documents: documents,
		validator: validation.NewValidator(),
	}
}

// StartApplicationRequest represents the intake form
type StartApplicationRequest struct {
	SessionID       uint   `json:"session_id" validate:"required,min=1"`
	ProgrammeID     uint   `json:"programme_id" validate:"required,min=1"`
	ApplicationMode string `json:"application_mode" validate:"required,oneof=UTME DE"`
	Gender          string `json:"gender" validate:"omitempty,oneof=male female"`
	StateOfOrigin   string `json:"state_of_origin,omitempty"`
	LGAOfOrigin     string `json:"lga_of_origin,omitempty"`
	Address         string `json:"address,omitempty"`
}

// StartApplication handles POST /api/v1/applications
func (h *ApplicantHandler) StartApplication(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req StartApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	applicant, err := h.admission.StartApplication(c.Context(), services.StartApplicationRequest{
		UserID:          userID,
		SessionID:       req.SessionID,
		ProgrammeID:     req.ProgrammeID,
		ApplicationMode: req.ApplicationMode,
		Gender:          req.Gender,
		StateOfOrigin:   req.StateOfOrigin,
		LGAOfOrigin:     req.LGAOfOrigin,
		Address:         req.Address,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			return response.NotFound(c, "Session not found")
		case errors.Is(err, services.ErrApplicationsClosed):
			return response.Forbidden(c, "Applications are closed for this session")
		case errors.Is(err, gorm.ErrRecordNotFound):
			return response.NotFound(c, "Programme not found")
		default:
			return response.InternalServerError(c, "Failed to start application")
		}
	}

	return response.Created(c, applicant)
}

// GetMyApplication handles GET /api/v1/applications/me
func (h *ApplicantHandler) GetMyApplication(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var applicant model.Applicant
	if err := h.db.
		Preload("Session").
		Preload("ProgrammeChoice1.Department.Faculty").
		Preload("Documents").
		Where("user_id = ?", userID).
		First(&applicant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "No application found")
		}
		return response.InternalServerError(c, "Failed to load application")
	}

	return response.Success(c, applicant)
}

// Submit handles POST /api/v1/applications/submit
func (h *ApplicantHandler) Submit(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	applicant, err := h.admission.Submit(c.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrApplicantNotFound):
			return response.NotFound(c, "No application found")
		case errors.Is(err, services.ErrApplicationFeeUnpaid):
			return response.PaymentRequired(c, "Application fee must be paid before submission")
		case errors.Is(err, services.ErrInvalidStatusChange):
			return response.BadRequest(c, "Application cannot be submitted in its current state")
		default:
			return response.InternalServerError(c, "Failed to submit application")
		}
	}

	return response.Success(c, applicant)
}

// AcceptOffer handles POST /api/v1/applications/accept-offer
func (h *ApplicantHandler) AcceptOffer(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	student, err := h.admission.AcceptOffer(c.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrApplicantNotFound):
			return response.NotFound(c, "No application found")
		case errors.Is(err, services.ErrApplicantNotAdmitted):
			return response.Forbidden(c, "No admission offer to accept")
		case errors.Is(err, services.ErrAcceptanceFeeUnpaid):
			return response.PaymentRequired(c, "Acceptance fee must be paid first")
		default:
			return response.InternalServerError(c, "Failed to accept offer")
		}
	}

	return response.Success(c, student)
}
