package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/apperr"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/models"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/repository"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/testutil"
)

func TestChatSendAndSince(t *testing.T) {
	db := testutil.NewDB(t)
	ledger := repository.NewLedger(db)
	filter := NewContentFilter()
	chat := NewChatService(ledger, NewListingService(ledger, nil, filter), filter)
	ctx := context.Background()
	listing := testutil.SeedListing(t, db, "owner-1", "100")

	first, err := chat.Send(ctx, "renter-1", listing.ID, "  is this still available?  ")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if first.Body != "is this still available?" {
		t.Errorf("body = %q, want trimmed", first.Body)
	}

	tests := []struct {
		name      string
		listingID uuid.UUID
		body      string
		want      apperr.Code
	}{
		{"empty", listing.ID, "   ", apperr.InvalidArgument},
		{"link", listing.ID, "pay me at http://scam.example", apperr.InvalidArgument},
		{"unknown listing", uuid.New(), "hello", apperr.NotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := chat.Send(ctx, "renter-1", tt.listingID, tt.body)
			if got := apperr.CodeOf(err); err == nil || got != tt.want {
				t.Errorf("Send err = %v (%s), want %s", err, got, tt.want)
			}
		})
	}

	all, err := chat.Since(ctx, listing.ID, time.Time{})
	if err != nil {
		t.Fatalf("Since: %v", err)
	}
	if len(all) != 1 || all[0].SenderID != "renter-1" {
		t.Errorf("messages = %+v", all)
	}
}

func TestPaymentHistoryOwnerOnly(t *testing.T) {
	db := testutil.NewDB(t)
	ledger := repository.NewLedger(db)
	listings := NewListingService(ledger, nil, NewContentFilter())
	history := NewPaymentHistory(ledger, listings)
	ctx := context.Background()
	listing := testutil.SeedListing(t, db, "owner-1", "75")

	p := &models.Payment{
		ListingID:   listing.ID,
		OwnerID:     "owner-1",
		RenterID:    "renter-1",
		Amount:      listing.Price,
		AmountMinor: 7500,
		Currency:    models.CurrencyINR,
		Status:      models.PaymentStatusCreated,
	}
	p.SetProviderRef(models.ProviderRazorpay, "order_h1")
	if err := ledger.CreatePayment(ctx, p); err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}

	got, err := history.ForListing(ctx, "owner-1", listing.ID)
	if err != nil || len(got) != 1 {
		t.Fatalf("owner ForListing = %d, %v", len(got), err)
	}
	if _, err := history.ForListing(ctx, "renter-1", listing.ID); !apperr.Is(err, apperr.PermissionDenied) {
		t.Errorf("renter ForListing err = %v, want permission-denied", err)
	}

	mine, err := history.ForRenter(ctx, "renter-1", 0)
	if err != nil || len(mine) != 1 {
		t.Fatalf("ForRenter = %d, %v", len(mine), err)
	}
	none, err := history.ForRenter(ctx, "owner-1", 0)
	if err != nil || len(none) != 0 {
		t.Errorf("owner ForRenter = %d, %v", len(none), err)
	}
}
