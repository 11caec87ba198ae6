package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyPlaces is the number of decimal places of a pound amount.
const CurrencyPlaces int32 = 2

var hundred = decimal.NewFromInt(100)

// RoundCurrency rounds half-up to whole pennies.
func RoundCurrency(amount decimal.Decimal) decimal.Decimal {
	return RoundHalfUp(amount, CurrencyPlaces)
}

// RoundHalfUp rounds towards positive infinity when exactly halfway.
func RoundHalfUp(amount decimal.Decimal, places int32) decimal.Decimal {
	half := decimal.New(5, -(places + 1))
	return amount.Add(half).RoundFloor(places)
}

// ApplySurcharge returns round(base * (1 + pct/100)).
func ApplySurcharge(base decimal.Decimal, pct decimal.Decimal) decimal.Decimal {
	return RoundCurrency(base.Mul(hundred.Add(pct)).Div(hundred))
}

// ParseSurcharge reads a user supplied percentage. Blank means zero.
func ParseSurcharge(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "%"))
	if value == "" {
		return decimal.Zero, nil
	}

	pct, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidSurcharge, value)
	}

	if err := ValidateSurcharge(pct); err != nil {
		return decimal.Zero, err
	}

	return pct, nil
}

func ValidateSurcharge(pct decimal.Decimal) error {
	if pct.IsNegative() {
		return fmt.Errorf("%w: %s%% is negative", ErrInvalidSurcharge, pct)
	}

	return nil
}
