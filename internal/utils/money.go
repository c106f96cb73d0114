package utils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatVND renders an amount in đồng with thousand separators, e.g. "1.250.000 ₫".
// Fractions of a đồng are rounded away.
func FormatVND(amount decimal.Decimal) string {
	rounded := amount.Round(0)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}
	return fmt.Sprintf("%s%s ₫", sign, formatThousand(rounded.String()))
}

func formatThousand(digits string) string {
	if digits == "" || digits == "0" {
		return "0"
	}
	var out strings.Builder
	for i, c := range digits {
		if i != 0 && (len(digits)-i)%3 == 0 {
			out.WriteByte('.')
		}
		out.WriteRune(c)
	}
	return out.String()
}
