package common

import (
	"fmt"
	"math"
	"strings"
)

// FormatMoney formats a value as a dollar amount with thousands separators.
// Non-finite values render as n/a.
func FormatMoney(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.2f", v)
	parts := strings.SplitN(s, ".", 2)
	intPart := parts[0]

	var sb strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}

	out := "$" + sb.String() + "." + parts[1]
	if neg {
		return "-" + out
	}
	return out
}

// FormatSignedPct formats a percentage with an explicit sign.
func FormatSignedPct(v float64) string {
	if v > 0 {
		return fmt.Sprintf("+%.2f%%", v)
	}
	return fmt.Sprintf("%.2f%%", v)
}

// FormatMarketCap formats a market cap into a compact $xB / $xM string.
func FormatMarketCap(v float64) string {
	switch {
	case v <= 0:
		return "n/a"
	case v >= 1e12:
		return fmt.Sprintf("$%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	default:
		return FormatMoney(v)
	}
}

// FormatRatio formats a ratio, rendering missing (zero) values as n/a.
// Negative ratios print as-is; a negative P/E is information, not absence.
func FormatRatio(v float64) string {
	if v == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

// FormatVolume formats a share volume with thousands separators.
func FormatVolume(v int64) string {
	s := fmt.Sprintf("%d", v)
	var sb strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
