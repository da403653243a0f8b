package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/models"
)

type ListingFilter struct {
	Category string
	Hostel   string
	Type     string
	OwnerID  string
	// Before pages backwards through createdAt; zero means newest first.
	Before time.Time
	Limit  int
}

func (l *Ledger) CreateListing(ctx context.Context, listing *models.Listing) error {
	return l.db.WithContext(ctx).Create(listing).Error
}

func (l *Ledger) FindListing(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	if err := l.db.WithContext(ctx).First(&listing, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &listing, nil
}

func (l *Ledger) ListListings(ctx context.Context, f ListingFilter) ([]models.Listing, error) {
	q := l.db.WithContext(ctx).Model(&models.Listing{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Hostel != "" {
		q = q.Where("hostel = ?", f.Hostel)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.OwnerID != "" {
		q = q.Where("owner_id = ?", f.OwnerID)
	}
	if !f.Before.IsZero() {
		q = q.Where("created_at < ?", f.Before)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var listings []models.Listing
	err := q.Order("created_at DESC").Find(&listings).Error
	return listings, err
}

// DeleteListing removes the listing and returns the deleted row so callers
// can release resources it owned.
func (l *Ledger) DeleteListing(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	listing, err := l.FindListing(ctx, id)
	if err != nil {
		return nil, err
	}
	res := l.db.WithContext(ctx).Delete(&models.Listing{}, "id = ?", id)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return listing, nil
}
