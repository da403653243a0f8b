// Package settlement owns the payment lifecycle: a pending charge is opened
// with the configured provider, recorded as created, and moved to paid at
// most once when the provider confirms it.
package settlement

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/apperr"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/models"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/payments"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/repository"
)

type ListingFinder interface {
	FindListing(ctx context.Context, id uuid.UUID) (*models.Listing, error)
}

type PaymentStore interface {
	CreatePayment(ctx context.Context, p *models.Payment) error
	FindPaymentByRef(ctx context.Context, provider, ref string) (*models.Payment, error)
	// MarkPaid reports whether this call moved the payment out of created.
	MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time, settlementRef string) (bool, error)
}

// Notifier is told about every payment that transitions to paid. It owns
// its failures.
type Notifier interface {
	Notify(ctx context.Context, p *models.Payment)
}

type Engine struct {
	listings ListingFinder
	store    PaymentStore
	provider payments.Provider
	notifier Notifier
	now      func() time.Time
	sleeper  Sleeper
}

func NewEngine(listings ListingFinder, store PaymentStore, provider payments.Provider, notifier Notifier) *Engine {
	return &Engine{
		listings: listings,
		store:    store,
		provider: provider,
		notifier: notifier,
		now:      time.Now,
		sleeper:  timerSleeper{},
	}
}

// Provider returns the configured payment provider.
func (e *Engine) Provider() payments.Provider { return e.provider }

type PendingCharge struct {
	Payment *models.Payment
	Target  payments.CheckoutTarget
}

// CreatePendingCharge opens a charge for the listing and records it as
// created. Every call opens a new charge.
func (e *Engine) CreatePendingCharge(ctx context.Context, listingID, payerUID string) (*PendingCharge, error) {
	if payerUID == "" {
		return nil, apperr.New(apperr.Unauthenticated, "Sign in to pay")
	}
	listingID = strings.TrimSpace(listingID)
	if listingID == "" {
		return nil, apperr.New(apperr.InvalidArgument, "listing_id is required")
	}
	id, err := uuid.Parse(listingID)
	if err != nil {
		return nil, apperr.New(apperr.InvalidArgument, "listing_id is malformed")
	}
	if !e.provider.Configured() {
		return nil, apperr.New(apperr.FailedPrecondition, "Payment provider is not configured")
	}

	listing, err := e.listings.FindListing(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "Listing not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "load listing", err)
	}

	charge, err := e.provider.CreateCharge(ctx, payments.ChargeRequest{
		ListingID: listing.ID,
		Title:     listing.Title,
		Price:     listing.Price,
		OwnerID:   listing.OwnerID,
		PayerID:   payerUID,
	})
	if err != nil {
		return nil, chargeError(err)
	}

	p := &models.Payment{
		ListingID:   listing.ID,
		OwnerID:     listing.OwnerID,
		RenterID:    payerUID,
		Amount:      listing.Price,
		AmountMinor: charge.AmountMinor,
		Currency:    charge.Currency,
		Status:      models.PaymentStatusCreated,
	}
	p.SetProviderRef(e.provider.Name(), charge.ExternalRef)
	if err := e.store.CreatePayment(ctx, p); err != nil {
		slog.Error("pending payment not recorded",
			"provider_ref", charge.ExternalRef,
			"listing_id", listing.ID,
			"user_id", payerUID,
			"error", err,
		)
		return nil, apperr.Wrap(apperr.Internal, "record payment", err)
	}

	slog.Info("pending charge created",
		"action", "payment.create",
		"payment_id", p.ID,
		"provider_ref", charge.ExternalRef,
		"user_id", payerUID,
	)
	return &PendingCharge{Payment: p, Target: charge.Target}, nil
}

func chargeError(err error) error {
	switch {
	case errors.Is(err, payments.ErrProviderUnconfigured):
		return apperr.Wrap(apperr.FailedPrecondition, "Payment provider is not configured", err)
	case errors.Is(err, payments.ErrNoPayer):
		return apperr.Wrap(apperr.Unauthenticated, "Sign in to pay", err)
	case errors.Is(err, payments.ErrInvalidAmount):
		return apperr.Wrap(apperr.InvalidArgument, "Listing price is invalid", err)
	case errors.Is(err, payments.ErrUpstream):
		return apperr.Wrap(apperr.Upstream, "Payment provider request failed", err)
	default:
		return apperr.Wrap(apperr.Internal, "create charge", err)
	}
}

type ConfirmResult struct {
	// Found is false when no payment carries the provider reference.
	Found bool
	// Transitioned is true only for the call that moved the payment to paid.
	Transitioned bool
	Payment      *models.Payment
}

// ConfirmCharge settles the payment identified by providerRef. Proof must
// already have been verified by the caller. Unknown references and
// payments that are already paid are no-ops.
func (e *Engine) ConfirmCharge(ctx context.Context, providerRef, settlementRef string) (*ConfirmResult, error) {
	p, err := e.store.FindPaymentByRef(ctx, e.provider.Name(), providerRef)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			slog.Warn("confirmation for unknown provider reference",
				"action", "payment.confirm",
				"provider_ref", providerRef,
			)
			return &ConfirmResult{}, nil
		}
		return nil, apperr.Wrap(apperr.Internal, "load payment", err)
	}
	if p.IsPaid() {
		return &ConfirmResult{Found: true, Payment: p}, nil
	}

	paidAt := e.now().UTC()
	won, err := e.store.MarkPaid(ctx, p.ID, paidAt, settlementRef)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "mark payment paid", err)
	}
	if !won {
		// Another confirmation committed between the read and the update.
		return &ConfirmResult{Found: true, Payment: p}, nil
	}

	p.Status = models.PaymentStatusPaid
	p.PaidAt = &paidAt
	p.PaymentIntentRef = settlementRef
	slog.Info("payment settled",
		"action", "payment.confirm",
		"payment_id", p.ID,
		"provider_ref", providerRef,
	)

	if e.notifier != nil {
		e.notifier.Notify(context.WithoutCancel(ctx), p)
	}
	return &ConfirmResult{Found: true, Transitioned: true, Payment: p}, nil
}

// VerifyCompletion checks a client-submitted order signature and settles the
// order when it is genuine.
func (e *Engine) VerifyCompletion(ctx context.Context, payerUID string, proof payments.Proof) (*ConfirmResult, error) {
	if payerUID == "" {
		return nil, apperr.New(apperr.Unauthenticated, "Sign in to verify payments")
	}
	if proof.OrderRef == "" || proof.PaymentRef == "" || proof.Signature == "" {
		return nil, apperr.New(apperr.InvalidArgument, "order_ref, payment_ref and signature are required")
	}
	verifier, ok := e.provider.(payments.SignatureVerifier)
	if !ok || !e.provider.Configured() {
		return nil, apperr.New(apperr.FailedPrecondition, "Signature verification is not configured")
	}
	if !verifier.VerifyCompletion(proof) {
		slog.Warn("rejected payment signature",
			"action", "payment.verify",
			"provider_ref", proof.OrderRef,
			"user_id", payerUID,
		)
		return nil, apperr.New(apperr.PermissionDenied, "Invalid signature")
	}
	return e.ConfirmCharge(ctx, proof.OrderRef, proof.PaymentRef)
}

// HandleProviderEvent authenticates a pushed provider event and settles the
// charge it completes. Events that verify but do not complete a charge are
// acknowledged without effect.
func (e *Engine) HandleProviderEvent(ctx context.Context, payload []byte, signatureHeader string) (*ConfirmResult, error) {
	verifier, ok := e.provider.(payments.EventVerifier)
	if !ok {
		return nil, apperr.New(apperr.FailedPrecondition, "Provider does not deliver webhooks")
	}

	completion, err := verifier.ConstructCompletion(payload, signatureHeader)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrProviderUnconfigured):
			return nil, apperr.Wrap(apperr.FailedPrecondition, "Webhook secret is not configured", err)
		case errors.Is(err, payments.ErrInvalidSignature):
			return nil, apperr.Wrap(apperr.InvalidArgument, "Webhook Error: signature verification failed", err)
		default:
			return nil, apperr.Wrap(apperr.InvalidArgument, "Webhook Error: malformed event", err)
		}
	}

	if !completion.Completed || completion.ProviderRef == "" {
		slog.Info("provider event ignored",
			"action", "payment.webhook",
			"event_type", completion.EventType,
			"provider_ref", completion.ProviderRef,
		)
		return &ConfirmResult{}, nil
	}
	return e.ConfirmCharge(ctx, completion.ProviderRef, completion.SettlementRef)
}
