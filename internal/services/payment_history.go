package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/apperr"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/models"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/repository"
)

// PaymentHistory answers read-only payment queries for owners and renters.
type PaymentHistory struct {
	ledger   *repository.Ledger
	listings *ListingService
}

func NewPaymentHistory(ledger *repository.Ledger, listings *ListingService) *PaymentHistory {
	return &PaymentHistory{ledger: ledger, listings: listings}
}

func (h *PaymentHistory) ForRenter(ctx context.Context, uid string, limit int) ([]models.Payment, error) {
	ps, err := h.ledger.ListPaymentsByRenter(ctx, uid, clampLimit(limit, 50, 200))
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "list payments", err)
	}
	return ps, nil
}

// ForListing lists a listing's payments. Only the owner may see them.
func (h *PaymentHistory) ForListing(ctx context.Context, uid string, listingID uuid.UUID) ([]models.Payment, error) {
	listing, err := h.listings.Get(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.OwnerID != uid {
		return nil, apperr.Wrap(apperr.PermissionDenied, "Only the owner can view listing payments", ErrNotOwner)
	}
	ps, err := h.ledger.ListPaymentsByListing(ctx, listingID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "list payments", err)
	}
	return ps, nil
}
