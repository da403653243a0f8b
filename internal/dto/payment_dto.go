package dto

import "time"

type CheckoutRequest struct {
	ListingID string `json:"listing_id"`
}

type CheckoutResponse struct {
	PaymentID   string `json:"payment_id"`
	Provider    string `json:"provider"`
	CheckoutURL string `json:"checkout_url,omitempty"`
	OrderID     string `json:"order_id,omitempty"`
	PublicKey   string `json:"public_key,omitempty"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
}

// VerifyPaymentRequest carries the fields Razorpay Checkout hands back to
// the browser.
type VerifyPaymentRequest struct {
	PaymentRef string `json:"razorpay_payment_id"`
	OrderRef   string `json:"razorpay_order_id"`
	Signature  string `json:"razorpay_signature"`
}

type VerifyPaymentResponse struct {
	Success bool `json:"success"`
}

type PaymentStatusResponse struct {
	Outcome     string     `json:"outcome"`
	Attempts    int        `json:"attempts"`
	Status      string     `json:"status,omitempty"`
	ProviderRef string     `json:"provider_ref"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
}
