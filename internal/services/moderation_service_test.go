package services

import (
	"context"
	"testing"

	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/apperr"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/dto"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/models"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/repository"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/testutil"
)

func TestModerationActions(t *testing.T) {
	db := testutil.NewDB(t)
	ledger := repository.NewLedger(db)
	listings := NewListingService(ledger, nil, NewContentFilter())
	mod := NewModerationService(ledger, listings)
	ctx := context.Background()

	testutil.SeedUser(t, db, "reporter")
	testutil.SeedUser(t, db, "owner")
	listing := testutil.SeedListing(t, db, "owner", "100")

	if _, err := mod.CreateReport(ctx, "reporter", &dto.CreateReportRequest{ListingID: listing.ID.String()}); !apperr.Is(err, apperr.InvalidArgument) {
		t.Errorf("empty reason err = %v", err)
	}
	report, err := mod.CreateReport(ctx, "reporter", &dto.CreateReportRequest{ListingID: listing.ID.String(), Reason: "fake item"})
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	reports, total, err := mod.ListReports(ctx, 0, 0)
	if err != nil || total != 1 || len(reports) != 1 {
		t.Fatalf("ListReports = %d/%d, %v", len(reports), total, err)
	}

	if _, err := mod.SuspendReportedUser(ctx, "admin", report.ID); err != nil {
		t.Fatalf("SuspendReportedUser: %v", err)
	}
	reporter, _ := ledger.FindUserByUID(ctx, "reporter")
	owner, _ := ledger.FindUserByUID(ctx, "owner")
	if reporter.Status != models.UserStatusSuspended {
		t.Errorf("reporter status = %q, want suspended", reporter.Status)
	}
	if owner.Status != models.UserStatusActive {
		t.Errorf("owner status = %q, want active", owner.Status)
	}

	if _, err := mod.DeleteReportedListing(ctx, "admin", report.ID); err != nil {
		t.Fatalf("DeleteReportedListing: %v", err)
	}
	if _, err := listings.Get(ctx, listing.ID); !apperr.Is(err, apperr.NotFound) {
		t.Errorf("listing still present: %v", err)
	}
	if _, err := mod.DeleteReportedListing(ctx, "admin", report.ID); !apperr.Is(err, apperr.NotFound) {
		t.Errorf("second delete err = %v", err)
	}
}
