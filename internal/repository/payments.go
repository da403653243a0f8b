package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/models"
)

func (l *Ledger) CreatePayment(ctx context.Context, p *models.Payment) error {
	if p.ProviderRef() == "" {
		return fmt.Errorf("payment has no provider reference")
	}
	return l.db.WithContext(ctx).Create(p).Error
}

// FindPaymentByRef looks a payment up by the reference issued by provider.
func (l *Ledger) FindPaymentByRef(ctx context.Context, provider, ref string) (*models.Payment, error) {
	column, ok := models.ProviderRefColumn(provider)
	if !ok {
		return nil, fmt.Errorf("unknown payment provider %q", provider)
	}

	var p models.Payment
	if err := l.db.WithContext(ctx).Where(column+" = ?", ref).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// MarkPaid moves a created payment to paid. It reports false when the row
// was already paid, so only one caller ever observes the transition.
func (l *Ledger) MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time, settlementRef string) (bool, error) {
	res := l.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, models.PaymentStatusCreated).
		Updates(map[string]interface{}{
			"status":             models.PaymentStatusPaid,
			"paid_at":            paidAt,
			"payment_intent_ref": settlementRef,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (l *Ledger) ListPaymentsByListing(ctx context.Context, listingID uuid.UUID) ([]models.Payment, error) {
	var payments []models.Payment
	err := l.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

func (l *Ledger) ListPaymentsByRenter(ctx context.Context, renterUID string, limit int) ([]models.Payment, error) {
	var payments []models.Payment
	err := l.db.WithContext(ctx).
		Where("renter_id = ?", renterUID).
		Order("created_at DESC").
		Limit(limit).
		Find(&payments).Error
	return payments, err
}

// ListStalePayments returns payments still in created that were opened
// before cutoff.
func (l *Ledger) ListStalePayments(ctx context.Context, cutoff time.Time, limit int) ([]models.Payment, error) {
	var payments []models.Payment
	err := l.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", models.PaymentStatusCreated, cutoff).
		Order("created_at ASC").
		Limit(limit).
		Find(&payments).Error
	return payments, err
}
