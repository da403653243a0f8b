package payments

import (
	"testing"

	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/config"
)

func TestNewSelectsProvider(t *testing.T) {
	tests := []struct {
		provider string
		want     string
		wantErr  bool
	}{
		{"stripe", "stripe", false},
		{"", "stripe", false},
		{"razorpay", "razorpay", false},
		{"paypal", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			p, err := New(&config.Config{PaymentProvider: tt.provider, RazorpayKeyID: "k", RazorpayKeySecret: "s"})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if p.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", p.Name(), tt.want)
			}
		})
	}
}

func TestProviderCapabilities(t *testing.T) {
	var stripeP Provider = NewStripe(StripeConfig{})
	if _, ok := stripeP.(EventVerifier); !ok {
		t.Error("stripe should verify webhook events")
	}
	var rzp Provider = NewRazorpay("k", "s")
	if _, ok := rzp.(SignatureVerifier); !ok {
		t.Error("razorpay should verify client signatures")
	}
	if !rzp.Configured() {
		t.Error("razorpay with key and secret should be configured")
	}
}
