package payments

import (
	"context"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fakeOrders struct {
	create func(data map[string]interface{}) (map[string]interface{}, error)
	got    map[string]interface{}
}

func (f *fakeOrders) Create(data map[string]interface{}, _ map[string]string) (map[string]interface{}, error) {
	f.got = data
	return f.create(data)
}

func newTestRazorpay(orders orderAPI) *RazorpayProvider {
	return &RazorpayProvider{
		keyID:     "rzp_test_key",
		keySecret: "shh",
		orders:    orders,
		now:       func() time.Time { return time.UnixMilli(1700000000000) },
	}
}

func TestRazorpayCreateCharge(t *testing.T) {
	orders := &fakeOrders{create: func(map[string]interface{}) (map[string]interface{}, error) {
		return map[string]interface{}{"id": "order_abc", "status": "created"}, nil
	}}
	p := newTestRazorpay(orders)
	listingID := uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e")

	charge, err := p.CreateCharge(context.Background(), ChargeRequest{
		ListingID: listingID,
		Title:     "Cycle",
		Price:     decimal.RequireFromString("499.99"),
		OwnerID:   "owner",
		PayerID:   "renter",
	})
	if err != nil {
		t.Fatalf("CreateCharge: %v", err)
	}
	if charge.ExternalRef != "order_abc" || charge.Target.OrderID != "order_abc" {
		t.Errorf("charge = %+v", charge)
	}
	if charge.Target.PublicKey != "rzp_test_key" {
		t.Errorf("PublicKey = %q", charge.Target.PublicKey)
	}
	if orders.got["amount"] != int64(49999) {
		t.Errorf("amount sent = %v, want 49999", orders.got["amount"])
	}
	receipt := orders.got["receipt"].(string)
	if receipt != "lst_0f8fad5b_1700000000000" || len(receipt) > 40 {
		t.Errorf("receipt = %q", receipt)
	}
}

func TestRazorpayCreateChargeErrors(t *testing.T) {
	req := ChargeRequest{ListingID: uuid.New(), Price: decimal.NewFromInt(10), PayerID: "r"}

	unconfigured := NewRazorpay("", "")
	if _, err := unconfigured.CreateCharge(context.Background(), req); !errors.Is(err, ErrProviderUnconfigured) {
		t.Errorf("unconfigured err = %v", err)
	}

	failing := newTestRazorpay(&fakeOrders{create: func(map[string]interface{}) (map[string]interface{}, error) {
		return nil, errors.New("503 from gateway")
	}})
	if _, err := failing.CreateCharge(context.Background(), req); !errors.Is(err, ErrUpstream) {
		t.Errorf("upstream err = %v", err)
	}

	noPayer := req
	noPayer.PayerID = ""
	if _, err := failing.CreateCharge(context.Background(), noPayer); !errors.Is(err, ErrNoPayer) {
		t.Errorf("no payer err = %v", err)
	}
}

func TestRazorpayVerifyCompletion(t *testing.T) {
	p := newTestRazorpay(nil)
	valid := hex.EncodeToString(signCompletion("shh", "order_1", "pay_1"))

	tests := []struct {
		name  string
		proof Proof
		want  bool
	}{
		{"valid", Proof{OrderRef: "order_1", PaymentRef: "pay_1", Signature: valid}, true},
		{"tampered payment", Proof{OrderRef: "order_1", PaymentRef: "pay_2", Signature: valid}, false},
		{"wrong secret", Proof{OrderRef: "order_1", PaymentRef: "pay_1", Signature: hex.EncodeToString(signCompletion("other", "order_1", "pay_1"))}, false},
		{"not hex", Proof{OrderRef: "order_1", PaymentRef: "pay_1", Signature: "zz"}, false},
		{"upper-case hex", Proof{OrderRef: "order_1", PaymentRef: "pay_1", Signature: strings.ToUpper(valid)}, true},
		{"missing order", Proof{PaymentRef: "pay_1", Signature: valid}, false},
		{"empty signature", Proof{OrderRef: "order_1", PaymentRef: "pay_1"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.VerifyCompletion(tt.proof); got != tt.want {
				t.Errorf("VerifyCompletion() = %v, want %v", got, tt.want)
			}
		})
	}
}
