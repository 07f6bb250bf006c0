package render

import "github.com/shopspring/decimal"

// Currency formats d as dollars rounded to cents.
func Currency(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// Percent formats d rounded to two decimals with a trailing "%".
func Percent(d decimal.Decimal) string {
	return d.StringFixed(2) + "%"
}
