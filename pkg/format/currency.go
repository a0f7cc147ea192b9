// Package format renders amounts and rates for human-readable output.
// Amounts follow the Spanish convention used on offer sheets: "." groups
// thousands, "," separates decimals and the euro sign trails ("1.234,56 €").
package format

import (
	"math"
	"strings"

	"github.com/iwvelando/mortgage-compare/pkg/constants"
	"github.com/shopspring/decimal"
)

// NotAvailable is rendered in place of values that could not be computed.
const NotAvailable = "N/A"

// Currency returns an amount with thousands separators and a trailing euro sign (e.g., "-1.234,56 €").
func Currency(amount float64) string {
	if !finite(amount) {
		return NotAvailable
	}
	return NumericCurrency(amount) + " €"
}

// NumericCurrency returns an amount without a currency symbol but with separators (e.g., "-1.234,56").
func NumericCurrency(amount float64) string {
	if !finite(amount) {
		return NotAvailable
	}
	return localize(decimal.NewFromFloat(amount), constants.CurrencyDecimals)
}

// Percent returns a percentage with two decimals (e.g., "3,25 %").
func Percent(value float64) string {
	if !finite(value) {
		return NotAvailable
	}
	return localize(decimal.NewFromFloat(value), 2) + " %"
}

// PercentPtr is Percent for optional values; nil renders as NotAvailable.
func PercentPtr(value *float64) string {
	if value == nil {
		return NotAvailable
	}
	return Percent(*value)
}

// Plain returns an amount rounded to cents with a "." decimal point and no
// grouping, for machine-readable output.
func Plain(amount float64) string {
	if !finite(amount) {
		return ""
	}
	return decimal.NewFromFloat(amount).StringFixed(constants.CurrencyDecimals)
}

func localize(value decimal.Decimal, places int32) string {
	formatted := value.Abs().StringFixed(places)
	intPart, decPart, _ := strings.Cut(formatted, ".")

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte('.')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	sign := ""
	if value.Round(places).IsNegative() {
		sign = "-"
	}
	if decPart == "" {
		return sign + intPart
	}
	return sign + intPart + "," + decPart
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
