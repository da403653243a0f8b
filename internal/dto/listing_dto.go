package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/models"
)

type CreateListingRequest struct {
	Title       string          `json:"title" form:"title"`
	Description string          `json:"description" form:"description"`
	Price       decimal.Decimal `json:"price" form:"-"`
	Category    string          `json:"category" form:"category"`
	Hostel      string          `json:"hostel" form:"hostel"`
	Type        string          `json:"type" form:"type"`
}

type ListingPage struct {
	Listings []models.Listing `json:"listings"`
	// NextBefore is the cursor for the next page, empty on the last page.
	NextBefore *time.Time `json:"next_before,omitempty"`
}

type SendMessageRequest struct {
	Message string `json:"message"`
}

type MessageList struct {
	Messages []models.Message `json:"messages"`
}
