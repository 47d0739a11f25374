// Package utils provides shared formatting helpers.
package utils

import (
	"fmt"
	"strings"
)

// FormatQuantity formats a signed quantity with thousands separators.
func FormatQuantity(qty int64) string {
	negative := qty < 0
	if negative {
		qty = -qty
	}
	s := groupThousands(fmt.Sprintf("%d", qty))
	if negative {
		return "-" + s
	}
	return s
}

func groupThousands(s string) string {
	var groups []string
	for len(s) > 3 {
		groups = append([]string{s[len(s)-3:]}, groups...)
		s = s[:len(s)-3]
	}
	groups = append([]string{s}, groups...)
	return strings.Join(groups, ",")
}

// FormatCompact renders a quantity in millions when large enough,
// e.g. 2500000 -> "2.5M".
func FormatCompact(qty int64) string {
	abs := qty
	if abs < 0 {
		abs = -abs
	}
	if abs >= 1000000 {
		return fmt.Sprintf("%.1fM", float64(qty)/1000000)
	}
	return FormatQuantity(qty)
}
