package admission

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Auwalkay/uni-portal/model"
	"github.com/Auwalkay/uni-portal/services"
	"github.com/Auwalkay/uni-portal/utils/response"
)

// AdmissionHandler serves the staff side of the admission pipeline.
type AdmissionHandler struct {
	db        *gorm.DB
	admission *services.AdmissionService
}

// NewAdmissionHandler creates a new admission handler
func NewAdmissionHandler(db *gorm.DB, admission *services.AdmissionService) *AdmissionHandler {
	return &AdmissionHandler{db: db, admission: admission}
}

// ListApplicants handles GET /api/v1/admissions/applicants
func (h *AdmissionHandler) ListApplicants(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	query := h.db.Model(&model.Applicant{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if sessionID := c.Query("session_id"); sessionID != "" {
		query = query.Where("session_id = ?", sessionID)
	}
	if programmeID := c.Query("programme_id"); programmeID != "" {
		query = query.Where("programme_choice_1_id = ?", programmeID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count applicants")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var applicants []model.Applicant
	if err := query.
		Preload("User").
		Preload("ProgrammeChoice1.Department").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&applicants).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch applicants")
	}

	return response.Paginated(c, applicants, pagination)
}

// GetApplicant handles GET /api/v1/admissions/applicants/:id
func (h *AdmissionHandler) GetApplicant(c *fiber.Ctx) error {
	id := c.Params("id")

	var applicant model.Applicant
	if err := h.db.
		Preload("User").
		Preload("Session").
		Preload("ProgrammeChoice1.Department.Faculty").
		Preload("Documents").
		First(&applicant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Applicant not found")
		}
		return response.InternalServerError(c, "Failed to fetch applicant")
	}

	return response.Success(c, applicant)
}

// MoveToScreening handles POST /api/v1/admissions/applicants/:id/screen
func (h *AdmissionHandler) MoveToScreening(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid applicant id")
	}

	applicant, err := h.admission.MoveToScreening(c.Context(), uint(id))
	if err != nil {
		return h.decisionError(c, err)
	}
	return response.Success(c, applicant)
}

// Admit handles POST /api/v1/admissions/applicants/:id/admit
func (h *AdmissionHandler) Admit(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid applicant id")
	}

	applicant, err := h.admission.Admit(c.Context(), uint(id))
	if err != nil {
		return h.decisionError(c, err)
	}
	return response.Success(c, applicant)
}

// RejectRequest carries the optional rejection remark
type RejectRequest struct {
	Remark string `json:"remark,omitempty"`
}

// Reject handles POST /api/v1/admissions/applicants/:id/reject
func (h *AdmissionHandler) Reject(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid applicant id")
	}

	var req RejectRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return response.BadRequest(c, "Invalid request body")
	}

	applicant, err := h.admission.Reject(c.Context(), uint(id), req.Remark)
	if err != nil {
		return h.decisionError(c, err)
	}
	return response.Success(c, applicant)
}

func (h *AdmissionHandler) decisionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrApplicantNotFound):
		return response.NotFound(c, "Applicant not found")
	case errors.Is(err, services.ErrInvalidStatusChange):
		return response.BadRequest(c, "Applicant cannot move to that status from its current state")
	default:
		return response.InternalServerError(c, "Failed to update applicant")
	}
}
