package finance

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/clientmgr/internal/constants"
)

// FormatCurrency renders an amount with the default prefix, no fraction
// digits and thousands separators, e.g. "Rs. 1,200,000".
func FormatCurrency(v decimal.Decimal) string {
	return FormatCurrencyWithPrefix(v, constants.DefaultCurrencyPrefix)
}

// FormatCurrencyWithPrefix is FormatCurrency with a caller-chosen prefix.
func FormatCurrencyWithPrefix(v decimal.Decimal, prefix string) string {
	rounded := v.Round(0)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}
	return sign + prefix + " " + group(rounded.StringFixed(0))
}

func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
