package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatRupiah formats an amount in Indonesian Rupiah notation.
// Example: 15000.5 -> "Rp 15.000,50", 35000 -> "Rp 35.000"
func FormatRupiah(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	fixed := amount.StringFixed(2)
	integerPart, decimalPart, _ := strings.Cut(fixed, ".")

	// Tambahkan pemisah ribuan
	var groups []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{integerPart[start:i]}, groups...)
	}

	out := "Rp " + sign + strings.Join(groups, ".")
	if decimalPart != "00" {
		out += "," + decimalPart
	}
	return out
}
