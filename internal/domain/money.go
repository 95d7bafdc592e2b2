package domain

import "github.com/shopspring/decimal"

// CurrencyPlaces is the precision every currency result is normalized to
const CurrencyPlaces = 2

// RoundCurrency rounds to cents, half away from zero.
// Applied at the point of return, never at the point of storage.
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyPlaces)
}

// NonNegative clamps d at zero
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
