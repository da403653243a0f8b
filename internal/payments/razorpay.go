package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/models"
)

// orderAPI is the slice of the Razorpay SDK this package calls.
type orderAPI interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// RazorpayProvider opens Razorpay orders. Completion is proven by the
// client-returned signature over "order_id|payment_id".
type RazorpayProvider struct {
	keyID     string
	keySecret string
	orders    orderAPI
	now       func() time.Time
}

func NewRazorpay(keyID, keySecret string) *RazorpayProvider {
	p := &RazorpayProvider{keyID: keyID, keySecret: keySecret, now: time.Now}
	if keyID != "" && keySecret != "" {
		p.orders = razorpay.NewClient(keyID, keySecret).Order
	}
	return p
}

func (p *RazorpayProvider) Name() string { return models.ProviderRazorpay }

func (p *RazorpayProvider) Configured() bool { return p.orders != nil }

func (p *RazorpayProvider) CreateCharge(ctx context.Context, req ChargeRequest) (*Charge, error) {
	if p.orders == nil {
		return nil, ErrProviderUnconfigured
	}
	if req.PayerID == "" {
		return nil, ErrNoPayer
	}
	amount, err := MinorUnits(req.Price)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := map[string]interface{}{
		"amount":   amount,
		"currency": models.CurrencyINR,
		"receipt":  p.receipt(req),
		"notes": map[string]interface{}{
			"listing_id": req.ListingID.String(),
			"owner_id":   req.OwnerID,
			"renter_id":  req.PayerID,
		},
	}
	order, err := p.orders.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: razorpay order: %v", ErrUpstream, err)
	}
	id, _ := order["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("%w: razorpay order response has no id", ErrUpstream)
	}

	return &Charge{
		ExternalRef: id,
		AmountMinor: amount,
		Currency:    models.CurrencyINR,
		Target: CheckoutTarget{
			Provider:  models.ProviderRazorpay,
			OrderID:   id,
			PublicKey: p.keyID,
		},
	}, nil
}

// receipt stays within Razorpay's 40 character limit.
func (p *RazorpayProvider) receipt(req ChargeRequest) string {
	r := fmt.Sprintf("lst_%s_%d", req.ListingID.String()[:8], p.now().UnixMilli())
	if len(r) > 40 {
		r = r[:40]
	}
	return r
}

func (p *RazorpayProvider) VerifyCompletion(proof Proof) bool {
	if p.keySecret == "" || proof.OrderRef == "" || proof.PaymentRef == "" || proof.Signature == "" {
		return false
	}
	got, err := hex.DecodeString(proof.Signature)
	if err != nil {
		return false
	}
	return hmac.Equal(got, signCompletion(p.keySecret, proof.OrderRef, proof.PaymentRef))
}

func signCompletion(secret, orderRef, paymentRef string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderRef + "|" + paymentRef))
	return mac.Sum(nil)
}
