package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount rounded half away from zero to two decimals
// with comma thousand separators, e.g. 1234.5 -> "1,234.50". Stored amounts
// keep full precision; rounding happens here only.
func FormatMoney(amount float64) string {
	formatted := decimal.NewFromFloat(amount).StringFixed(2)

	negative := strings.HasPrefix(formatted, "-")
	formatted = strings.TrimPrefix(formatted, "-")

	parts := strings.SplitN(formatted, ".", 2)
	integerPart := parts[0]

	var groups []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{integerPart[start:i]}, groups...)
	}

	result := strings.Join(groups, ",") + "." + parts[1]
	if negative {
		return "-" + result
	}
	return result
}
