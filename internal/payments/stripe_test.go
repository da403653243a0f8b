package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v74"
)

const testWebhookSecret = "whsec_test"

func signStripePayload(t *testing.T, payload []byte, secret string) string {
	t.Helper()
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func stripeEvent(eventType, sessionJSON string) []byte {
	return stripeEventVersion(stripe.APIVersion, eventType, sessionJSON)
}

func stripeEventVersion(apiVersion, eventType, sessionJSON string) []byte {
	return []byte(fmt.Sprintf(`{"id":"evt_1","object":"event","api_version":%q,"type":%q,"data":{"object":%s}}`,
		apiVersion, eventType, sessionJSON))
}

func TestStripeConstructCompletion(t *testing.T) {
	p := NewStripe(StripeConfig{WebhookSecret: testWebhookSecret})

	tests := []struct {
		name          string
		payload       []byte
		wantCompleted bool
		wantRef       string
		wantIntent    string
	}{
		{
			name:          "paid session",
			payload:       stripeEvent(eventCheckoutCompleted, `{"id":"cs_test_1","object":"checkout.session","payment_status":"paid","payment_intent":"pi_1"}`),
			wantCompleted: true,
			wantRef:       "cs_test_1",
			wantIntent:    "pi_1",
		},
		{
			name:          "delayed method still unpaid",
			payload:       stripeEvent(eventCheckoutCompleted, `{"id":"cs_test_2","object":"checkout.session","payment_status":"unpaid"}`),
			wantCompleted: false,
			wantRef:       "cs_test_2",
		},
		{
			name:          "async success",
			payload:       stripeEvent(eventCheckoutAsyncSucceeded, `{"id":"cs_test_3","object":"checkout.session","payment_status":"paid","payment_intent":"pi_3"}`),
			wantCompleted: true,
			wantRef:       "cs_test_3",
			wantIntent:    "pi_3",
		},
		{
			name:          "endpoint on a newer api version",
			payload:       stripeEventVersion("2024-06-20", eventCheckoutCompleted, `{"id":"cs_test_4","object":"checkout.session","payment_status":"paid","payment_intent":"pi_4"}`),
			wantCompleted: true,
			wantRef:       "cs_test_4",
			wantIntent:    "pi_4",
		},
		{
			name:    "unrelated event",
			payload: stripeEvent("customer.created", `{"id":"cus_1","object":"customer"}`),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := p.ConstructCompletion(tt.payload, signStripePayload(t, tt.payload, testWebhookSecret))
			if err != nil {
				t.Fatalf("ConstructCompletion: %v", err)
			}
			if c.Completed != tt.wantCompleted || c.ProviderRef != tt.wantRef || c.SettlementRef != tt.wantIntent {
				t.Errorf("completion = %+v", c)
			}
		})
	}
}

func TestStripeConstructCompletionRejects(t *testing.T) {
	payload := stripeEvent(eventCheckoutCompleted, `{"id":"cs_test_1","object":"checkout.session","payment_status":"paid"}`)

	p := NewStripe(StripeConfig{WebhookSecret: testWebhookSecret})
	if _, err := p.ConstructCompletion(payload, signStripePayload(t, payload, "whsec_other")); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("wrong secret err = %v, want ErrInvalidSignature", err)
	}
	if _, err := p.ConstructCompletion(payload, ""); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("missing header err = %v, want ErrInvalidSignature", err)
	}

	tampered := append([]byte{}, payload...)
	sig := signStripePayload(t, payload, testWebhookSecret)
	tampered[len(tampered)-2] = ' '
	if _, err := p.ConstructCompletion(tampered, sig); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("tampered payload err = %v, want ErrInvalidSignature", err)
	}

	noSecret := NewStripe(StripeConfig{})
	if _, err := noSecret.ConstructCompletion(payload, sig); !errors.Is(err, ErrProviderUnconfigured) {
		t.Errorf("no secret err = %v, want ErrProviderUnconfigured", err)
	}
}

func TestStripeCreateCharge(t *testing.T) {
	var form url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/checkout/sessions" {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		form, _ = url.ParseQuery(string(body))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"cs_test_new","object":"checkout.session","url":"https://checkout.stripe.com/c/pay/cs_test_new"}`)
	}))
	defer srv.Close()

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		HTTPClient:        srv.Client(),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelError},
	})
	p := NewStripe(StripeConfig{
		SecretKey:  "sk_test_123",
		SuccessURL: "https://market.example/?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  "https://market.example/",
		Backends:   &stripe.Backends{API: backend, Connect: backend, Uploads: backend},
	})

	charge, err := p.CreateCharge(context.Background(), ChargeRequest{
		ListingID: uuid.New(),
		Title:     "Mini fridge",
		Price:     decimal.RequireFromString("499.99"),
		OwnerID:   "owner",
		PayerID:   "renter",
	})
	if err != nil {
		t.Fatalf("CreateCharge: %v", err)
	}
	if charge.ExternalRef != "cs_test_new" || charge.Target.CheckoutURL == "" {
		t.Errorf("charge = %+v", charge)
	}
	if got := form.Get("line_items[0][price_data][unit_amount]"); got != "49999" {
		t.Errorf("unit_amount = %q, want 49999", got)
	}
	if got := form.Get("line_items[0][price_data][currency]"); got != "inr" {
		t.Errorf("currency = %q, want inr", got)
	}
	if got := form.Get("metadata[renter_id]"); got != "renter" {
		t.Errorf("metadata[renter_id] = %q", got)
	}
}

func TestStripeUnconfigured(t *testing.T) {
	p := NewStripe(StripeConfig{})
	if p.Configured() {
		t.Fatal("provider without secret key should report unconfigured")
	}
	_, err := p.CreateCharge(context.Background(), ChargeRequest{PayerID: "r", Price: decimal.NewFromInt(1)})
	if !errors.Is(err, ErrProviderUnconfigured) {
		t.Errorf("err = %v, want ErrProviderUnconfigured", err)
	}
}
