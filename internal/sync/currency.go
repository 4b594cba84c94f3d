package sync

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Accounting happens in EUR. Stripe reports EUR amounts in minor units
// (cents); XPF has no minor unit, so XPF amounts arrive in francs and are
// converted at the CFP franc peg.
var (
	minorUnitDivisor = decimal.NewFromInt(100)

	// Fixed conversion rates to EUR for currencies stored in major units.
	fixedRates = map[string]decimal.Decimal{
		"XPF": decimal.NewFromFloat(119.33),
	}
)

// NormalizeAmount converts a raw payment amount into EUR, rounded to two
// decimals. Unknown currencies and non-positive amounts are per-record
// errors: callers skip the record, not the batch.
func NormalizeAmount(amount float64, currency string) (float64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}

	code := strings.ToUpper(strings.TrimSpace(currency))
	raw := decimal.NewFromFloat(amount)

	switch {
	case code == "EUR":
		return raw.Div(minorUnitDivisor).Round(2).InexactFloat64(), nil
	default:
		rate, ok := fixedRates[code]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, currency)
		}
		return raw.Div(rate).Round(2).InexactFloat64(), nil
	}
}
