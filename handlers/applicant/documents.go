package applicant

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

// UploadDocument handles POST /api/v1/applications/documents
func (h *ApplicantHandler) UploadDocument(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	if h.documents == nil {
		return response.ServiceUnavailable(c, "Document storage is not configured")
	}

	docType := c.FormValue("type")
	if !services.ValidDocumentType(docType) {
		return response.BadRequest(c, "Unknown document type")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "A file upload is required")
	}

	var applicant model.Applicant
	if err := h.db.Where("user_id = ?", userID).First(&applicant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "No application found")
		}
		return response.InternalServerError(c, "Failed to load application")
	}

	doc, err := h.documents.Upload(c.Context(), applicant.ID, docType, file)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	return response.Created(c, doc)
}

// ListMyDocuments handles GET /api/v1/applications/documents
func (h *ApplicantHandler) ListMyDocuments(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var applicant model.Applicant
	if err := h.db.Where("user_id = ?", userID).First(&applicant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "No application found")
		}
		return response.InternalServerError(c, "Failed to load application")
	}

	docs, err := h.documents.List(c.Context(), applicant.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list documents")
	}
	return response.Success(c, docs)
}

// ReviewDocumentRequest carries a reviewer's verdict
type ReviewDocumentRequest struct {
	Status string `json:"status" validate:"required,oneof=verified rejected"`
	Remark string `json:"remark,omitempty"`
}

// ReviewDocument handles PATCH /api/v1/admissions/documents/:id
func (h *ApplicantHandler) ReviewDocument(c *fiber.Ctx) error {
	if h.documents == nil {
		return response.ServiceUnavailable(c, "Document storage is not configured")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid document id")
	}

	var req ReviewDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	doc, err := h.documents.Review(c.Context(), uint(id), model.DocumentStatus(req.Status), req.Remark)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	return response.Success(c, doc)
}

// DocumentDownloadURL handles GET /api/v1/admissions/documents/:id/url
func (h *ApplicantHandler) DocumentDownloadURL(c *fiber.Ctx) error {
	if h.documents == nil {
		return response.ServiceUnavailable(c, "Document storage is not configured")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid document id")
	}

	url, err := h.documents.DownloadURL(c.Context(), uint(id))
	if err != nil {
		return response.NotFound(c, "Document not found")
	}
	return response.Success(c, fiber.Map{"url": url})
}
