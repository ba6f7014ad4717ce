package naira

import (
	"math"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatPriceGrouping(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "₦0"},
		{5, "₦5"},
		{950, "₦950"},
		{1000, "₦1,000"},
		{45000, "₦45,000"},
		{90000, "₦90,000"},
		{1234567, "₦1,234,567"},
		{-45000, "-₦45,000"},
	}

	for _, tt := range tests {
		if got := FormatPrice(tt.amount); got != tt.want {
			t.Fatalf("FormatPrice(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestFormatPriceRoundsToWholeNaira(t *testing.T) {
	if got := FormatPrice(1999.5); got != "₦2,000" {
		t.Fatalf("expected half-up rounding, got %q", got)
	}
	if got := FormatPrice(1999.4); got != "₦1,999" {
		t.Fatalf("expected rounding down, got %q", got)
	}
}

func TestFormatPriceNonFiniteFallsBack(t *testing.T) {
	for _, amount := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		got := FormatPrice(amount)
		if got == "" {
			t.Fatalf("non-finite input must not yield empty output")
		}
		if strings.Contains(got, ",") {
			t.Fatalf("non-finite input should not be grouped: %q", got)
		}
	}
}

func TestFormatDecimal(t *testing.T) {
	amount := decimal.NewFromInt(45000).Mul(decimal.NewFromInt(2))
	if got := FormatDecimal(amount); got != "₦90,000" {
		t.Fatalf("FormatDecimal = %q, want ₦90,000", got)
	}
}
