package decimal

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

// DisplayPlaces is the number of fractional digits shown for amounts
const DisplayPlaces = 2

// Mul multiplies two decimals exactly, no rounding
func Mul(a, b decimal.Decimal) decimal.Decimal {
	return a.Mul(b)
}

// Sum sums a slice of decimals
func Sum(values []decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}

// FormatComma renders d with exactly places fractional digits (half away
// from zero) and a comma as the decimal separator.
func FormatComma(d decimal.Decimal, places int32) string {
	return strings.Replace(d.StringFixed(places), ".", ",", 1)
}

// FormatPLN renders an amount the way Polish invoices print it: 1234,50
func FormatPLN(d decimal.Decimal) string {
	return FormatComma(d, DisplayPlaces)
}
