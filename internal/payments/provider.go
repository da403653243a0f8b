// Package payments adapts the external payment providers to one capability:
// open a pending charge for a listing and prove that it completed.
package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/config"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/models"
)

var (
	ErrProviderUnconfigured = errors.New("payment provider not configured")
	ErrUpstream             = errors.New("payment provider request failed")
	ErrInvalidSignature     = errors.New("invalid provider signature")
	ErrNoPayer              = errors.New("payer identity required")
	ErrInvalidAmount        = errors.New("invalid charge amount")
)

// ChargeRequest describes what is being paid for and by whom.
type ChargeRequest struct {
	ListingID uuid.UUID
	Title     string
	Price     decimal.Decimal
	OwnerID   string
	PayerID   string
}

// CheckoutTarget is what the client needs to finish paying: a redirect URL
// for session-style providers, or an order id and public key for
// order-style providers.
type CheckoutTarget struct {
	Provider    string `json:"provider"`
	CheckoutURL string `json:"checkout_url,omitempty"`
	OrderID     string `json:"order_id,omitempty"`
	PublicKey   string `json:"public_key,omitempty"`
}

type Charge struct {
	ExternalRef string
	AmountMinor int64
	Currency    string
	Target      CheckoutTarget
}

// Provider is implemented by every payment backend.
type Provider interface {
	Name() string
	Configured() bool
	CreateCharge(ctx context.Context, req ChargeRequest) (*Charge, error)
}

// Proof is the client-submitted evidence of an order-style completion.
type Proof struct {
	OrderRef   string
	PaymentRef string
	Signature  string
}

// SignatureVerifier is implemented by order-style providers. It never
// errors: a forged or malformed proof simply does not verify.
type SignatureVerifier interface {
	VerifyCompletion(proof Proof) bool
}

// Completion is a verified provider event.
type Completion struct {
	EventID       string
	EventType     string
	ProviderRef   string
	SettlementRef string
	// Completed is true only for events that mean funds were captured.
	Completed bool
}

// EventVerifier is implemented by session-style providers that push
// completion through signed webhooks.
type EventVerifier interface {
	ConstructCompletion(payload []byte, signatureHeader string) (*Completion, error)
}

// New builds the provider selected by configuration.
func New(cfg *config.Config) (Provider, error) {
	switch cfg.PaymentProvider {
	case models.ProviderStripe, "":
		return NewStripe(StripeConfig{
			SecretKey:     cfg.StripeSecretKey,
			WebhookSecret: cfg.StripeWebhookSecret,
			SuccessURL:    cfg.PublicBaseURL + "/?session_id={CHECKOUT_SESSION_ID}",
			CancelURL:     cfg.PublicBaseURL + "/",
		}), nil
	case models.ProviderRazorpay:
		return NewRazorpay(cfg.RazorpayKeyID, cfg.RazorpayKeySecret), nil
	default:
		return nil, fmt.Errorf("unknown PAYMENT_PROVIDER %q", cfg.PaymentProvider)
	}
}
