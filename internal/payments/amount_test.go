package payments

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		price string
		want  int64
	}{
		{"499.99", 49999},
		{"0", 0},
		{"0.1", 10},
		{"19.999", 2000},
		{"0.005", 1},
		{"1234567.89", 123456789},
	}
	for _, tt := range tests {
		t.Run(tt.price, func(t *testing.T) {
			got, err := MinorUnits(decimal.RequireFromString(tt.price))
			if err != nil {
				t.Fatalf("MinorUnits: %v", err)
			}
			if got != tt.want {
				t.Errorf("MinorUnits(%s) = %d, want %d", tt.price, got, tt.want)
			}
		})
	}
}

func TestMinorUnitsFromFloat(t *testing.T) {
	// Prices read from float sources must not drift.
	got, err := MinorUnits(decimal.NewFromFloat(499.99))
	if err != nil {
		t.Fatal(err)
	}
	if got != 49999 {
		t.Errorf("MinorUnits(499.99 float) = %d, want 49999", got)
	}
}

func TestMinorUnitsRejectsNegative(t *testing.T) {
	if _, err := MinorUnits(decimal.RequireFromString("-1")); err != ErrInvalidAmount {
		t.Errorf("err = %v, want ErrInvalidAmount", err)
	}
}
