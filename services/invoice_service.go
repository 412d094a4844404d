package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Auwalkay/uni-portal/model"
)

// InvoiceService persists invoices from resolved fee rules and handles
// the manual mark-paid path.
type InvoiceService struct {
	db         *gorm.DB
	fees       *FeeService
	enrollment *EnrollmentService
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(db *gorm.DB, fees *FeeService, enrollment *EnrollmentService) *InvoiceService {
	return &InvoiceService{db: db, fees: fees, enrollment: enrollment}
}

// Generate resolves the fee rules for the placement and writes the
// invoice plus one item per matched rule. If an unpaid invoice of the
// same type already exists for (user, session) it is returned instead
// of creating a duplicate.
func (s *InvoiceService) Generate(ctx context.Context, userID uint, placement StudentPlacement, sessionID uint, feeType model.FeeType) (*model.Invoice, error) {
	var existing model.Invoice
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND session_id = ? AND type = ?", userID, sessionID, feeType).
		Preload("Items").
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to check for existing invoice: %w", err)
	}

	resolved, err := s.fees.Resolve(ctx, placement, sessionID, feeType)
	if err != nil {
		return nil, err
	}

	invoice := model.Invoice{
		UserID:    userID,
		SessionID: sessionID,
		Type:      feeType,
		Amount:    resolved.Total,
		Status:    model.InvoiceStatusPending,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&invoice).Error; err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}
		for _, item := range resolved.Items {
			row := model.InvoiceItem{
				InvoiceID:          invoice.ID,
				FeeConfigurationID: item.FeeConfigurationID,
				Description:        item.Description,
				Amount:             item.Amount,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to create invoice item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Preload("Items").First(&invoice, invoice.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload invoice: %w", err)
	}
	return &invoice, nil
}

// MarkPaid is the manual admin settlement path: the full balance is
// recorded as one successful offline payment and, for acceptance-fee
// invoices, enrollment is triggered exactly like the gateway path.
func (s *InvoiceService) MarkPaid(ctx context.Context, invoiceID uint, reference string) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := s.db.WithContext(ctx).First(&invoice, invoiceID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to load invoice: %w", err)
	}

	// Already settled: absorb the repeat as a no-op.
	if invoice.Status == model.InvoiceStatusPaid {
		return &invoice, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		outstanding := invoice.Amount - invoice.PaidAmount
		payment := model.Payment{
			InvoiceID:        invoice.ID,
			UserID:           invoice.UserID,
			GatewayReference: reference,
			Amount:           outstanding,
			Status:           model.PaymentStatusSuccess,
			Channel:          "manual",
		}
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("failed to record manual payment: %w", err)
		}

		return applyPaymentTotals(tx, &invoice)
	})
	if err != nil {
		return nil, err
	}

	if invoice.Status == model.InvoiceStatusPaid && invoice.Type == model.FeeTypeAcceptance {
		if _, err := s.enrollment.Enroll(ctx, invoice.UserID); err != nil {
			return nil, fmt.Errorf("invoice settled but enrollment failed: %w", err)
		}
	}

	return &invoice, nil
}

// applyPaymentTotals recomputes the invoice's paid amount from its
// successful payments and derives the status. Runs inside the caller's
// transaction; mutates the passed invoice to the committed values.
func applyPaymentTotals(tx *gorm.DB, invoice *model.Invoice) error {
	var paid float64
	if err := tx.Model(&model.Payment{}).
		Where("invoice_id = ? AND status = ?", invoice.ID, model.PaymentStatusSuccess).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&paid).Error; err != nil {
		return fmt.Errorf("failed to sum payments: %w", err)
	}

	status := invoice.DeriveStatus(paid)
	if err := tx.Model(&model.Invoice{}).
		Where("id = ?", invoice.ID).
		Updates(map[string]interface{}{"paid_amount": paid, "status": status}).Error; err != nil {
		return fmt.Errorf("failed to update invoice totals: %w", err)
	}

	invoice.PaidAmount = paid
	invoice.Status = status
	return nil
}
