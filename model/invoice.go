package model

import (
	"time"

	"gorm.io/gorm"
)

// FeeType classifies what an invoice (or fee configuration) charges for.
type FeeType string

const (
	FeeTypeApplication FeeType = "application_fee"
	FeeTypeAcceptance  FeeType = "acceptance_fee"
	FeeTypeSchool      FeeType = "school_fee"
)

// DisplayName is the human label used on invoice items and receipts.
func (t FeeType) DisplayName() string {
	switch t {
	case FeeTypeApplication:
		return "Application Fee"
	case FeeTypeAcceptance:
		return "Acceptance Fee"
	case FeeTypeSchool:
		return "School Fees"
	}
	return string(t)
}

// InvoiceStatus is derived from the sum of successful payments.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPartial InvoiceStatus = "partial"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

// Invoice is owed by a User, not a Student: applicants must be
// invoiceable before any student record exists.
type Invoice struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	UserID     uint           `gorm:"not null;index" json:"user_id"`
	SessionID  uint           `gorm:"not null;index" json:"session_id"`
	Type       FeeType        `gorm:"type:varchar(20);not null;index" json:"type"`
	Amount     float64        `gorm:"not null" json:"amount"`
	PaidAmount float64        `gorm:"not null;default:0" json:"paid_amount"`
	Status     InvoiceStatus  `gorm:"type:varchar(10);default:'pending';index" json:"status"`

	// Relationships
	User     User            `gorm:"foreignKey:UserID" json:"-"`
	Session  AcademicSession `gorm:"foreignKey:SessionID" json:"-"`
	Items    []InvoiceItem   `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Payments []Payment       `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"payments,omitempty"`
}

// TableName specifies the table name for Invoice
func (Invoice) TableName() string {
	return "invoices"
}

// DeriveStatus returns the invoice status implied by a paid amount.
func (i *Invoice) DeriveStatus(paid float64) InvoiceStatus {
	switch {
	case paid >= i.Amount:
		return InvoiceStatusPaid
	case paid > 0:
		return InvoiceStatusPartial
	default:
		return InvoiceStatusPending
	}
}

// InvoiceItem is one line on an invoice, one per matched fee rule.
type InvoiceItem struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	CreatedAt          time.Time `json:"created_at"`
	InvoiceID          uint      `gorm:"not null;index" json:"invoice_id"`
	FeeConfigurationID uint      `gorm:"index" json:"fee_configuration_id"`
	Description        string    `gorm:"not null" json:"description"`
	Amount             float64   `gorm:"not null" json:"amount"`
}

// TableName specifies the table name for InvoiceItem
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// PaymentStatus is the settlement state of one payment attempt.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
)

// Payment is one settlement event against an invoice. GatewayReference
// is the idempotency key for reconciliation: a webhook replay hits the
// same row and is absorbed as a no-op.
type Payment struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
	InvoiceID        uint           `gorm:"not null;index" json:"invoice_id"`
	UserID           uint           `gorm:"not null;index" json:"user_id"`
	GatewayReference string         `gorm:"uniqueIndex;not null;type:varchar(100)" json:"gateway_reference"`
	Amount           float64        `gorm:"not null" json:"amount"` // major currency units (naira)
	Status           PaymentStatus  `gorm:"type:varchar(10);default:'pending';index" json:"status"`
	Channel          string         `gorm:"type:varchar(30)" json:"channel"` // card, bank_transfer, ussd
	PaidAt           *time.Time     `json:"paid_at"`

	// Relationships
	Invoice Invoice `gorm:"foreignKey:InvoiceID" json:"-"`
	User    User    `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for Payment
func (Payment) TableName() string {
	return "payments"
}
