package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// truncStr truncates a string to maxLen runes, appending an ellipsis if
// needed. Widths of one or less collapse to the ellipsis alone, so callers
// can pass terminal-derived widths without clamping first.
func truncStr(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return "…"
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// formatPrice renders a price in the store currency, e.g. "3.49 лв".
func formatPrice(v float64) string {
	return fmt.Sprintf("%.2f лв", v)
}

// formatValidity renders a brochure/promo validity window.
func formatValidity(from, to *time.Time) string {
	const layout = "02.01"
	switch {
	case from != nil && to != nil:
		return from.Format(layout) + " - " + to.Format(layout)
	case to != nil:
		return "until " + to.Format(layout)
	default:
		return ""
	}
}

// barcodePatterns maps each digit to a bar pattern. Purely decorative: the
// terminal cannot render a scannable barcode, so this just has to look like
// one and be stable for a given number.
var barcodePatterns = [10]string{
	"█ ▌", "▌█ ", "█▐ ", "▌ █", "█ ▐",
	"▐█ ", "▌▐█", "█▌ ", " █▌", "▐ █",
}

// renderBarcode renders a pseudo-barcode for a card number, digits spelled
// out underneath in groups of four.
func renderBarcode(ccnum string) string {
	var bars strings.Builder
	bars.WriteString("▐")
	for _, r := range ccnum {
		if r < '0' || r > '9' {
			continue
		}
		bars.WriteString(barcodePatterns[r-'0'])
	}
	bars.WriteString("▌")

	var digits strings.Builder
	for i, r := range ccnum {
		if i > 0 && i%4 == 0 {
			digits.WriteString(" ")
		}
		digits.WriteRune(r)
	}

	return barcodeStyle.Render(bars.String()) + "\n " + ccnumStyle.Render(digits.String())
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}
