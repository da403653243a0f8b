package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PaymentStatusCreated = "created"
	PaymentStatusPaid    = "paid"

	CurrencyINR = "INR"

	ProviderStripe   = "stripe"
	ProviderRazorpay = "razorpay"
)

// Payment is the settlement record for one provider charge. Exactly one of
// StripeSessionID and RazorpayOrderID is set. Status only moves from created
// to paid.
type Payment struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ListingID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"listing_id"`
	OwnerID          string          `gorm:"size:64;not null;index" json:"owner_id"`
	RenterID         string          `gorm:"size:64;not null;index" json:"renter_id"`
	Amount           decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	AmountMinor      int64           `gorm:"not null" json:"amount_minor"`
	Currency         string          `gorm:"size:3;not null;default:'INR'" json:"currency"`
	StripeSessionID  *string         `gorm:"size:255;uniqueIndex" json:"stripe_session_id,omitempty"`
	RazorpayOrderID  *string         `gorm:"size:255;uniqueIndex" json:"razorpay_order_id,omitempty"`
	Status           string          `gorm:"size:20;not null;default:'created';index" json:"status"`
	PaymentIntentRef string          `gorm:"size:255" json:"payment_intent_ref,omitempty"`
	PaidAt           *time.Time      `json:"paid_at,omitempty"`
	CreatedAt        time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *Payment) IsPaid() bool {
	return p.Status == PaymentStatusPaid
}

// ProviderRef returns whichever provider reference the payment carries.
func (p *Payment) ProviderRef() string {
	switch {
	case p.StripeSessionID != nil:
		return *p.StripeSessionID
	case p.RazorpayOrderID != nil:
		return *p.RazorpayOrderID
	}
	return ""
}

// SetProviderRef stores ref in the column owned by provider.
func (p *Payment) SetProviderRef(provider, ref string) {
	switch provider {
	case ProviderStripe:
		p.StripeSessionID = &ref
	case ProviderRazorpay:
		p.RazorpayOrderID = &ref
	}
}

// ProviderRefColumn maps a provider name to the column holding its reference.
func ProviderRefColumn(provider string) (string, bool) {
	switch provider {
	case ProviderStripe:
		return "stripe_session_id", true
	case ProviderRazorpay:
		return "razorpay_order_id", true
	}
	return "", false
}

// IsParty reports whether uid is the renter or the owner of the payment.
func (p *Payment) IsParty(uid string) bool {
	return uid != "" && (p.RenterID == uid || p.OwnerID == uid)
}
