package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
	"github.com/stripe/stripe-go/v74/webhook"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/models"
)

const (
	eventCheckoutCompleted      = "checkout.session.completed"
	eventCheckoutAsyncSucceeded = "checkout.session.async_payment_succeeded"
)

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
	// Backends overrides the Stripe HTTP backends. Nil uses the defaults.
	Backends *stripe.Backends
}

// StripeProvider opens hosted Checkout sessions and settles them from
// signed webhook events.
type StripeProvider struct {
	api           *client.API
	webhookSecret string
	successURL    string
	cancelURL     string
}

func NewStripe(cfg StripeConfig) *StripeProvider {
	p := &StripeProvider{
		webhookSecret: cfg.WebhookSecret,
		successURL:    cfg.SuccessURL,
		cancelURL:     cfg.CancelURL,
	}
	if cfg.SecretKey != "" {
		p.api = &client.API{}
		p.api.Init(cfg.SecretKey, cfg.Backends)
	}
	return p
}

func (p *StripeProvider) Name() string { return models.ProviderStripe }

func (p *StripeProvider) Configured() bool { return p.api != nil }

func (p *StripeProvider) CreateCharge(ctx context.Context, req ChargeRequest) (*Charge, error) {
	if p.api == nil {
		return nil, ErrProviderUnconfigured
	}
	if req.PayerID == "" {
		return nil, ErrNoPayer
	}
	amount, err := MinorUnits(req.Price)
	if err != nil {
		return nil, err
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(p.successURL),
		CancelURL:  stripe.String(p.cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(strings.ToLower(models.CurrencyINR)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Title),
					},
					UnitAmount: stripe.Int64(amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx
	params.AddMetadata("listing_id", req.ListingID.String())
	params.AddMetadata("owner_id", req.OwnerID)
	params.AddMetadata("renter_id", req.PayerID)

	sess, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: stripe checkout session: %v", ErrUpstream, err)
	}

	return &Charge{
		ExternalRef: sess.ID,
		AmountMinor: amount,
		Currency:    models.CurrencyINR,
		Target: CheckoutTarget{
			Provider:    models.ProviderStripe,
			CheckoutURL: sess.URL,
		},
	}, nil
}

// ConstructCompletion verifies the Stripe-Signature header against the raw
// payload and extracts the checkout session it refers to. Events other than
// checkout completion verify but are returned with Completed=false.
func (p *StripeProvider) ConstructCompletion(payload []byte, signatureHeader string) (*Completion, error) {
	if p.webhookSecret == "" {
		return nil, ErrProviderUnconfigured
	}

	// Endpoints pinned to a newer API version still settle: only the session
	// id, payment_status and payment_intent are read.
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, p.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	c := &Completion{
		EventID:   event.ID,
		EventType: string(event.Type),
	}
	switch c.EventType {
	case eventCheckoutCompleted, eventCheckoutAsyncSucceeded:
	default:
		return c, nil
	}

	if event.Data == nil {
		return nil, errors.New("stripe event has no data")
	}
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("decode checkout session: %w", err)
	}

	c.ProviderRef = sess.ID
	if sess.PaymentIntent != nil {
		c.SettlementRef = sess.PaymentIntent.ID
	}
	// Delayed payment methods complete the session before funds arrive.
	c.Completed = sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusUnpaid
	return c, nil
}
