package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Report flags a listing for admin review.
type Report struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ListingID  uuid.UUID `gorm:"type:uuid;not null;index" json:"listing_id"`
	ReporterID string    `gorm:"size:64;not null;index" json:"reporter_id"`
	Reason     string    `gorm:"not null;size:500" json:"reason"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
