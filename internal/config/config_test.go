package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PAYMENT_PROVIDER", "ALLOWED_EMAIL_DOMAIN", "STATUS_POLL_ATTEMPTS", "STATUS_POLL_INTERVAL", "PUBLIC_BASE_URL"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.PaymentProvider != "stripe" {
		t.Errorf("PaymentProvider = %q, want stripe", cfg.PaymentProvider)
	}
	if cfg.AllowedEmailDomain != "lpu.in" {
		t.Errorf("AllowedEmailDomain = %q, want lpu.in", cfg.AllowedEmailDomain)
	}
	if cfg.StatusPollAttempts != 20 {
		t.Errorf("StatusPollAttempts = %d, want 20", cfg.StatusPollAttempts)
	}
	if cfg.StatusPollInterval != 2*time.Second {
		t.Errorf("StatusPollInterval = %v, want 2s", cfg.StatusPollInterval)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PAYMENT_PROVIDER", "Razorpay")
	t.Setenv("ALLOWED_EMAIL_DOMAIN", "@campus.edu")
	t.Setenv("STATUS_POLL_ATTEMPTS", "nope")
	t.Setenv("PUBLIC_BASE_URL", "https://market.example/")

	cfg := Load()

	if cfg.PaymentProvider != "razorpay" {
		t.Errorf("PaymentProvider = %q, want razorpay", cfg.PaymentProvider)
	}
	if cfg.AllowedEmailDomain != "campus.edu" {
		t.Errorf("AllowedEmailDomain = %q, want campus.edu", cfg.AllowedEmailDomain)
	}
	if cfg.StatusPollAttempts != 20 {
		t.Errorf("invalid STATUS_POLL_ATTEMPTS should fall back to 20, got %d", cfg.StatusPollAttempts)
	}
	if cfg.PublicBaseURL != "https://market.example" {
		t.Errorf("PublicBaseURL = %q, trailing slash should be trimmed", cfg.PublicBaseURL)
	}
}
