package ui

import (
	"fmt"
	"strconv"
)

// FormatMB renders a byte count in mebibytes with one decimal, e.g. "1.0 MB".
func FormatMB(bytes uint64) string {
	return fmt.Sprintf("%.1f MB", float64(bytes)/1024/1024)
}

// formatNumber prints v the shortest way that round-trips, so 12.5 stays
// "12.5" and 40 stays "40".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatPercent(v float64) string {
	return formatNumber(v) + "%"
}

func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen < 4 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
