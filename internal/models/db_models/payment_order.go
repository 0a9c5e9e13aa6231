package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentStatusCreated          PaymentStatus = "created"
	PaymentStatusClientAuthorized PaymentStatus = "client_authorized"
	PaymentStatusSuccess          PaymentStatus = "success"
	PaymentStatusFailed           PaymentStatus = "failed"
	PaymentStatusCancelled        PaymentStatus = "cancelled"
)

// Terminal reports whether the status needs no further gateway reconciliation.
// failed/cancelled are terminal for the client but may still be overwritten by
// a late authoritative webhook; only success is sticky.
func (s PaymentStatus) Terminal() bool {
	switch s {
	case PaymentStatusSuccess, PaymentStatusFailed, PaymentStatusCancelled:
		return true
	}
	return false
}

// PaymentOrder is the sole persistent entity of the payment core: one row per
// Razorpay order. The internal id never leaves the server; the browser only
// ever holds PublicToken.
type PaymentOrder struct {
	BaseModel
	PublicToken string `gorm:"type:uuid;uniqueIndex"`

	// Snapshot at creation time, not a live reference. The product may change
	// or be deleted later without corrupting the order.
	ProductID    string `gorm:"index"`
	ProductTitle string

	Amount      float64 // decimal currency units (product price)
	AmountPaise int64   // integer minor units, the value actually sent to the gateway
	Currency    string  `gorm:"size:3"`

	RazorpayOrderID   string  `gorm:"uniqueIndex"` // immutable once set
	RazorpayPaymentID *string `gorm:"index"`
	RazorpaySignature *string // last verified signature, kept for audit

	Status        PaymentStatus `gorm:"index"`
	FailureReason *string

	// Last event source applied to this row. Diagnostics only, never business logic.
	GatewayPayload datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
}

func (p *PaymentOrder) BeforeCreate(tx *gorm.DB) error {
	if err := p.BaseModel.BeforeCreate(tx); err != nil {
		return err
	}
	if p.PublicToken == "" {
		p.PublicToken = uuid.NewString()
	}
	return nil
}
