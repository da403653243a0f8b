package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ListingTypeSale    = "Sale"
	ListingTypeRent    = "Rent"
	ListingTypeService = "Service"
)

var ListingTypes = []string{ListingTypeSale, ListingTypeRent, ListingTypeService}

type Listing struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string          `gorm:"not null;size:200" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Category    string          `gorm:"size:50;index" json:"category"`
	Hostel      string          `gorm:"size:100;index" json:"hostel"`
	Type        string          `gorm:"size:20;index" json:"type"`
	ImageRef    string          `gorm:"size:64" json:"image_ref,omitempty"`
	OwnerID     string          `gorm:"size:64;not null;index" json:"owner_id"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
