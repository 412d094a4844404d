package fee

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Auwalkay/uni-portal/model"
	"github.com/Auwalkay/uni-portal/services"
	"github.com/Auwalkay/uni-portal/utils/middleware"
	"github.com/Auwalkay/uni-portal/utils/response"
)

// GenerateSchoolFeeInvoice handles POST /api/v1/invoices/school-fees.
// The caller must already be an enrolled student; the placement for
// fee resolution comes from their student record.
func (h *FeeHandler) GenerateSchoolFeeInvoice(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var student model.Student
	if err := h.db.Where("user_id = ?", userID).First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "No student record found")
		}
		return response.InternalServerError(c, "Failed to load student")
	}

	var body struct {
		SessionID uint `json:"session_id"`
	}
	if err := c.BodyParser(&body); err != nil || body.SessionID == 0 {
		return response.BadRequest(c, "session_id is required")
	}

	placement := services.StudentPlacement{
		FacultyID:    student.FacultyID,
		DepartmentID: student.DepartmentID,
		ProgrammeID:  student.ProgrammeID,
		Level:        student.CurrentLevel,
	}

	invoice, err := h.invoices.Generate(c.Context(), userID, placement, body.SessionID, model.FeeTypeSchool)
	if err != nil {
		if errors.Is(err, services.ErrNoApplicableFees) {
			return response.NotFound(c, "No school fee is configured for your programme this session")
		}
		return response.InternalServerError(c, "Failed to generate invoice")
	}

	return response.Created(c, invoice)
}

// ListMyInvoices handles GET /api/v1/invoices
func (h *FeeHandler) ListMyInvoices(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	query := h.db.Model(&model.Invoice{}).Where("user_id = ?", userID)
	if sessionID := c.Query("session_id"); sessionID != "" {
		query = query.Where("session_id = ?", sessionID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var invoices []model.Invoice
	if err := query.Preload("Items").Preload("Payments").
		Order("created_at DESC").
		Find(&invoices).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch invoices")
	}
	return response.Success(c, invoices)
}

// GetInvoice handles GET /api/v1/invoices/:id. Students only see their
// own invoices; staff with fee access may view any.
func (h *FeeHandler) GetInvoice(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var invoice model.Invoice
	if err := h.db.Preload("Items").Preload("Payments").
		First(&invoice, c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Invoice not found")
		}
		return response.InternalServerError(c, "Failed to fetch invoice")
	}

	role, _ := middleware.GetUserRole(c)
	if invoice.UserID != userID && !role.Can(model.CapManageFees) {
		return response.Forbidden(c, "Access denied")
	}

	return response.Success(c, invoice)
}

// MarkPaidRequest records an offline settlement
type MarkPaidRequest struct {
	Reference string `json:"reference" validate:"required"`
}

// MarkPaid handles POST /api/v1/invoices/:id/mark-paid. Used for bank
// transfers and other settlements outside the gateway.
func (h *FeeHandler) MarkPaid(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid invoice id")
	}

	var req MarkPaidRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Reference == "" {
		return response.BadRequest(c, "A settlement reference is required")
	}

	invoice, err := h.invoices.MarkPaid(c.Context(), uint(id), req.Reference)
	if err != nil {
		if errors.Is(err, services.ErrInvoiceNotFound) {
			return response.NotFound(c, "Invoice not found")
		}
		return response.InternalServerError(c, "Failed to mark invoice paid")
	}

	return response.Success(c, invoice)
}
