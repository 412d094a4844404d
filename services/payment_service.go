package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/Auwalkay/uni-portal/model"
	"github.com/Auwalkay/uni-portal/services/paystack"
)

// PaymentGateway is the external collaborator behind checkout and
// verification. Amount conventions: Initialize takes major units in,
// Verify reports minor units (kobo) back.
type PaymentGateway interface {
	Initialize(ctx context.Context, req paystack.InitializeRequest) (*paystack.InitializeResult, error)
	Verify(ctx context.Context, reference string) (*paystack.VerifyResult, error)
}

// PaymentService initializes checkouts and reconciles gateway
// callbacks against local Payment/Invoice state.
type PaymentService struct {
	db            *gorm.DB
	gateway       PaymentGateway
	enrollment    *EnrollmentService
	notifications *NotificationService
	callbackURL   string
}

// NewPaymentService creates a new payment service
func NewPaymentService(db *gorm.DB, gateway PaymentGateway, enrollment *EnrollmentService, notifications *NotificationService, callbackURL string) *PaymentService {
	return &PaymentService{
		db:            db,
		gateway:       gateway,
		enrollment:    enrollment,
		notifications: notifications,
		callbackURL:   callbackURL,
	}
}

// Initialize creates a pending Payment for the invoice's outstanding
// balance and returns the gateway checkout URL.
func (s *PaymentService) Initialize(ctx context.Context, invoiceID uint, reference string) (*paystack.InitializeResult, error) {
	var invoice model.Invoice
	if err := s.db.WithContext(ctx).Preload("User").First(&invoice, invoiceID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to load invoice: %w", err)
	}

	outstanding := invoice.Amount - invoice.PaidAmount
	if outstanding <= 0 {
		return nil, fmt.Errorf("invoice %d has no outstanding balance", invoice.ID)
	}

	payment := model.Payment{
		InvoiceID:        invoice.ID,
		UserID:           invoice.UserID,
		GatewayReference: reference,
		Amount:           outstanding,
		Status:           model.PaymentStatusPending,
	}
	if err := s.db.WithContext(ctx).Create(&payment).Error; err != nil {
		return nil, fmt.Errorf("failed to create pending payment: %w", err)
	}

	result, err := s.gateway.Initialize(ctx, paystack.InitializeRequest{
		Email:       invoice.User.Email,
		Amount:      outstanding,
		Reference:   reference,
		CallbackURL: s.callbackURL,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}
	return result, nil
}

// Verify reconciles one gateway reference. The gateway is called
// exactly once; a non-success report returns ErrVerificationFailed
// with no local mutation, so the caller can retry. A reference whose
// local payment is already successful is absorbed as an idempotent
// no-op — webhook replays must never double-count.
func (s *PaymentService) Verify(ctx context.Context, reference string) (*model.Payment, error) {
	var payment model.Payment
	if err := s.db.WithContext(ctx).
		Where("gateway_reference = ?", reference).
		First(&payment).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}

	// Already processed: return success without touching totals.
	if payment.Status == model.PaymentStatusSuccess {
		return &payment, nil
	}

	result, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}
	if result.Status != "success" {
		return nil, ErrVerificationFailed
	}

	var invoice model.Invoice
	if err := s.db.WithContext(ctx).First(&invoice, payment.InvoiceID).Error; err != nil {
		return nil, fmt.Errorf("failed to load invoice: %w", err)
	}

	paidAt := result.PaidAt
	if paidAt == nil {
		now := time.Now()
		paidAt = &now
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Payment{}).
			Where("id = ?", payment.ID).
			Updates(map[string]interface{}{
				"status":  model.PaymentStatusSuccess,
				"amount":  MinorToMajor(result.AmountMinor),
				"channel": result.Channel,
				"paid_at": paidAt,
			}).Error; err != nil {
			return fmt.Errorf("failed to update payment: %w", err)
		}

		return applyPaymentTotals(tx, &invoice)
	})
	if err != nil {
		return nil, err
	}

	payment.Status = model.PaymentStatusSuccess
	payment.Amount = MinorToMajor(result.AmountMinor)
	payment.Channel = result.Channel
	payment.PaidAt = paidAt

	s.notifications.NotifyWithMetadata(ctx, payment.UserID, model.NotificationTypeSuccess, model.NotificationCategoryPayment,
		"Payment received",
		fmt.Sprintf("Your payment of %.2f was confirmed.", payment.Amount),
		map[string]interface{}{"invoice_id": invoice.ID, "reference": reference})

	// A settled acceptance fee triggers enrollment on the same
	// idempotent path the manual mark-paid action uses.
	if invoice.Status == model.InvoiceStatusPaid && invoice.Type == model.FeeTypeAcceptance {
		if _, err := s.enrollment.Enroll(ctx, invoice.UserID); err != nil {
			// The money is in; enrollment can be replayed. Log loudly
			// instead of failing the reconciliation.
			log.Printf("Payment %s settled but enrollment failed for user %d: %v", reference, invoice.UserID, err)
		}
	}

	return &payment, nil
}

// MinorToMajor converts gateway kobo into naira for storage.
func MinorToMajor(minor int64) float64 {
	return float64(minor) / 100
}
