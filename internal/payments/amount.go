package payments

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// MinorUnits converts a major-unit price to the integer minor-unit amount
// (paise for INR), rounding half away from zero.
func MinorUnits(price decimal.Decimal) (int64, error) {
	if price.IsNegative() {
		return 0, ErrInvalidAmount
	}
	return price.Mul(hundred).Round(0).IntPart(), nil
}
