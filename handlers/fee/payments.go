package fee

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Auwalkay/uni-portal/model"
	"github.com/Auwalkay/uni-portal/services"
	"github.com/Auwalkay/uni-portal/services/paystack"
	"github.com/Auwalkay/uni-portal/utils/middleware"
	"github.com/Auwalkay/uni-portal/utils/response"
)

// InitializePaymentRequest starts a gateway checkout for an invoice
type InitializePaymentRequest struct {
	InvoiceID uint `json:"invoice_id" validate:"required,min=1"`
}

// InitializePayment handles POST /api/v1/payments/initialize
func (h *FeeHandler) InitializePayment(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req InitializePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var invoice model.Invoice
	if err := h.db.First(&invoice, req.InvoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Invoice not found")
		}
		return response.InternalServerError(c, "Failed to load invoice")
	}
	if invoice.UserID != userID {
		return response.Forbidden(c, "Access denied")
	}
	if invoice.Status == model.InvoiceStatusPaid {
		return response.BadRequest(c, "Invoice is already settled")
	}

	reference := fmt.Sprintf("UP-%d-%s", invoice.ID, uuid.New().String())
	result, err := h.payments.Initialize(c.Context(), invoice.ID, reference)
	if err != nil {
		if errors.Is(err, services.ErrVerificationFailed) {
			return response.ServiceUnavailable(c, "Payment gateway is unavailable, try again shortly")
		}
		return response.InternalServerError(c, "Failed to initialize payment")
	}

	return response.Success(c, fiber.Map{
		"reference":         result.Reference,
		"authorization_url": result.AuthorizationURL,
		"access_code":       result.AccessCode,
	})
}

// VerifyPayment handles GET /api/v1/payments/verify/:reference. The
// checkout callback lands here; verification is idempotent so a replay
// after the webhook has settled the invoice is harmless.
func (h *FeeHandler) VerifyPayment(c *fiber.Ctx) error {
	reference := c.Params("reference")
	if reference == "" {
		return response.BadRequest(c, "Payment reference is required")
	}

	payment, err := h.payments.Verify(c.Context(), reference)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPaymentNotFound):
			return response.NotFound(c, "No payment matches this reference")
		case errors.Is(err, services.ErrVerificationFailed):
			return response.PaymentRequired(c, "Payment is not yet confirmed")
		default:
			return response.InternalServerError(c, "Failed to verify payment")
		}
	}

	return response.Success(c, payment)
}

// ListMyPayments handles GET /api/v1/payments
func (h *FeeHandler) ListMyPayments(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var payments []model.Payment
	if err := h.db.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(100).
		Find(&payments).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch payments")
	}
	return response.Success(c, payments)
}

// PaystackWebhook handles POST /api/v1/payments/webhook. The body is
// authenticated with the x-paystack-signature HMAC before anything is
// parsed; unauthenticated deliveries get a 401 and no side effects.
// Paystack retries on non-2xx, so transient verify failures return 500.
func (h *FeeHandler) PaystackWebhook(c *fiber.Ctx) error {
	body := c.Body()
	signature := c.Get("x-paystack-signature")
	if !paystack.ValidSignature(h.webhookSecret, body, signature) {
		return response.Unauthorized(c, "Invalid signature")
	}

	event, err := paystack.ParseWebhook(body)
	if err != nil {
		return response.BadRequest(c, "Malformed webhook payload")
	}

	// Acknowledge events we do not act on so Paystack stops retrying.
	if event.Event != paystack.EventChargeSuccess || event.Data.Reference == "" {
		return response.Success(c, fiber.Map{"received": true})
	}

	ctx, cancel := context.WithTimeout(c.Context(), 30*time.Second)
	defer cancel()
	if _, err := h.payments.Verify(ctx, event.Data.Reference); err != nil {
		if errors.Is(err, services.ErrPaymentNotFound) {
			// Not ours; acknowledge so the gateway does not retry forever.
			return response.Success(c, fiber.Map{"received": true})
		}
		return response.InternalServerError(c, "Failed to reconcile payment")
	}

	return response.Success(c, fiber.Map{"received": true})
}
