package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/models"
)

func (l *Ledger) CreateMessage(ctx context.Context, m *models.Message) error {
	return l.db.WithContext(ctx).Create(m).Error
}

// ListMessages returns the conversation for a listing in send order, only
// messages newer than after when it is set.
func (l *Ledger) ListMessages(ctx context.Context, listingID uuid.UUID, after time.Time, limit int) ([]models.Message, error) {
	q := l.db.WithContext(ctx).Where("listing_id = ?", listingID)
	if !after.IsZero() {
		q = q.Where("created_at > ?", after)
	}
	var msgs []models.Message
	err := q.Order("created_at ASC").Limit(limit).Find(&msgs).Error
	return msgs, err
}
