// Package format holds pure display formatters for prices, dates and order status.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Money renders an amount as a euro price string, e.g. "€1,234.50".
// Non-finite amounts render as €0.00.
func Money(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	neg := amount < 0
	if neg {
		amount = -amount
	}
	// round to cents before splitting to avoid 9.999 → "9.100"
	cents := int64(math.Round(amount * 100))
	whole := cents / 100
	frac := cents % 100

	digits := fmt.Sprintf("%d", whole)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	s := fmt.Sprintf("€%s.%02d", b.String(), frac)
	if neg {
		return "-" + s
	}
	return s
}

// Date renders a timestamp as a short human date, e.g. "25 Aug 2026".
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02 Jan 2006")
}

// DateTime renders a timestamp with time of day, e.g. "25 Aug 2026 14:03".
func DateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02 Jan 2006 15:04")
}

// Status renders an order status for display: "pending_payment" → "Pending payment".
func Status(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "_", " "))
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
