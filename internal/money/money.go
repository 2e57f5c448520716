package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// Zero is the additive identity, exported for readability at call sites.
	Zero = decimal.Zero

	hundred    = decimal.NewFromInt(100)
	dayBasis   = decimal.NewFromInt(36500) // percent APR over a 365-day year
	monthBasis = decimal.NewFromInt(1200)  // percent APR over twelve months
)

// Parse reads an exact decimal amount. Thousands separators and a leading
// currency sign are tolerated so values typed by hand can be used directly.
func Parse(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "$")
	clean = strings.ReplaceAll(clean, ",", "")
	if clean == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return d, nil
}

// MustParse is Parse for constants and tests.
func MustParse(s string) decimal.Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Cents quantises to two fractional digits, rounding half away from zero.
func Cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// CeilUnits rounds up to the next whole currency unit.
func CeilUnits(d decimal.Decimal) decimal.Decimal {
	return d.Ceil()
}

// Min returns the smaller of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// PerDiem is the simple daily rate for an APR expressed in percent.
func PerDiem(apr decimal.Decimal) decimal.Decimal {
	return apr.Div(dayBasis)
}

// MonthlyRate is one twelfth of an APR expressed in percent.
func MonthlyRate(apr decimal.Decimal) decimal.Decimal {
	return apr.Div(monthBasis)
}

// Percent returns pct percent of d.
func Percent(d decimal.Decimal, pct int64) decimal.Decimal {
	return d.Mul(decimal.NewFromInt(pct)).Div(hundred)
}

// Format renders an amount for display with two decimals.
func Format(d decimal.Decimal) string {
	return "$" + Cents(d).StringFixed(2)
}
