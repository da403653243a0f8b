package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/apperr"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/dto"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/models"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/repository"
)

const maxReasonLength = 500

var ErrReportNotFound = errors.New("report not found")

type ModerationService struct {
	ledger   *repository.Ledger
	listings *ListingService
}

func NewModerationService(ledger *repository.Ledger, listings *ListingService) *ModerationService {
	return &ModerationService{ledger: ledger, listings: listings}
}

func (s *ModerationService) CreateReport(ctx context.Context, reporterUID string, req *dto.CreateReportRequest) (*models.Report, error) {
	listingID, err := ParseListingID(strings.TrimSpace(req.ListingID))
	if err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, apperr.New(apperr.InvalidArgument, "reason is required")
	}
	if len(reason) > maxReasonLength {
		reason = reason[:maxReasonLength]
	}
	if _, err := s.listings.Get(ctx, listingID); err != nil {
		return nil, err
	}

	report := &models.Report{
		ListingID:  listingID,
		ReporterID: reporterUID,
		Reason:     reason,
	}
	if err := s.ledger.CreateReport(ctx, report); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "create report", err)
	}
	slog.Info("listing reported", "action", "report.create", "listing_id", listingID, "user_id", reporterUID)
	return report, nil
}

func (s *ModerationService) ListReports(ctx context.Context, limit, offset int) ([]models.Report, int64, error) {
	if offset < 0 {
		offset = 0
	}
	reports, total, err := s.ledger.ListReports(ctx, clampLimit(limit, 50, 200), offset)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, "list reports", err)
	}
	return reports, total, nil
}

func (s *ModerationService) report(ctx context.Context, reportID uuid.UUID) (*models.Report, error) {
	report, err := s.ledger.FindReport(ctx, reportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Wrap(apperr.NotFound, "Report not found", ErrReportNotFound)
		}
		return nil, apperr.Wrap(apperr.Internal, "load report", err)
	}
	return report, nil
}

// DeleteReportedListing removes the listing a report points at.
func (s *ModerationService) DeleteReportedListing(ctx context.Context, adminUID string, reportID uuid.UUID) (*models.Report, error) {
	report, err := s.report(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if _, err := s.listings.Delete(ctx, report.ListingID, adminUID, true); err != nil {
		return nil, err
	}
	slog.Info("admin deleted reported listing", "action", "admin.delete_listing", "report_id", reportID, "listing_id", report.ListingID, "user_id", adminUID)
	return report, nil
}

// SuspendReportedUser suspends the account recorded as the report's
// reporter and revokes its sessions.
func (s *ModerationService) SuspendReportedUser(ctx context.Context, adminUID string, reportID uuid.UUID) (*models.Report, error) {
	report, err := s.report(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.SetUserStatus(ctx, report.ReporterID, models.UserStatusSuspended); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Wrap(apperr.NotFound, "User not found", ErrUserNotFound)
		}
		return nil, apperr.Wrap(apperr.Internal, "suspend user", err)
	}
	if err := s.ledger.RevokeUserRefreshTokens(ctx, report.ReporterID); err != nil {
		slog.Error("failed to revoke sessions of suspended user", "user_id", report.ReporterID, "error", err)
	}
	slog.Warn("admin suspended user", "action", "admin.suspend_user", "report_id", reportID, "target_uid", report.ReporterID, "user_id", adminUID)
	return report, nil
}
