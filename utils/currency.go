package utils

import (
	"github.com/shopspring/decimal"
)

// FormatCurrency renders an amount as dollars with two decimals.
// Example: 25 -> "$25.00"
func FormatCurrency(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-$" + amount.Neg().StringFixed(2)
	}
	return "$" + amount.StringFixed(2)
}
