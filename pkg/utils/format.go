package utils

import (
	"fmt"
	"strings"
)

// Truncate shortens s to at most maxLen characters, appending an ellipsis
// when it cuts.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// Bar renders a simple mention-volume bar capped at width characters.
func Bar(count, width int) string {
	n := count
	if n > width {
		n = width
	}
	if n < 0 {
		n = 0
	}
	return strings.Repeat("=", n)
}

// FormatScore renders a narrative score with one decimal place, dropping
// the fraction when it is whole.
func FormatScore(score float64) string {
	if score == float64(int64(score)) {
		return fmt.Sprintf("%d", int64(score))
	}
	return fmt.Sprintf("%.1f", score)
}
