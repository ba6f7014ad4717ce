// Package naira formats Nigerian Naira amounts for display. The storefront
// shows whole-naira prices with comma grouping, e.g. ₦90,000.
package naira

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Symbol is the currency sign prefixed to every formatted amount.
const Symbol = "₦"

// FormatPrice renders a numeric amount as a naira display string with zero
// fractional digits and comma grouping. Non-finite input cannot be formatted;
// it falls back to the raw numeric string rather than panicking.
func FormatPrice(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Symbol + strconv.FormatFloat(amount, 'f', -1, 64)
	}
	return FormatDecimal(decimal.NewFromFloat(amount))
}

// FormatDecimal renders a decimal amount as a naira display string. Amounts
// are rounded half-up to whole naira before grouping.
func FormatDecimal(amount decimal.Decimal) string {
	rounded := amount.Round(0)

	digits := rounded.Abs().String()
	var b strings.Builder
	if rounded.IsNegative() {
		b.WriteString("-")
	}
	b.WriteString(Symbol)
	b.WriteString(group(digits))
	return b.String()
}

func group(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}

	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteString(",")
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
