// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatMoney formats a dollar amount with separators and cents.
// e.g., 12000 -> "$12,000.00", -5.5 -> "-$5.50"
func FormatMoney(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "∞"
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	whole := math.Floor(v)
	cents := int64(math.Round((v - whole) * 100))
	if cents == 100 {
		whole++
		cents = 0
	}
	return fmt.Sprintf("%s$%s.%02d", sign, humanize.Comma(int64(whole)), cents)
}

// FormatSigned formats a money delta with an explicit sign.
func FormatSigned(v float64) string {
	if v > 0 {
		return "+" + FormatMoney(v)
	}
	if v == 0 {
		return "±" + FormatMoney(0)
	}
	return FormatMoney(v)
}

// FormatCompact formats money with human-readable suffixes.
// e.g., 1234 -> "$1.2K", 1234567 -> "$1.2M"
func FormatCompact(v float64) string {
	abs := math.Abs(v)
	sign := ""
	if v < 0 {
		sign = "-"
	}
	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("%s$%.1fB", sign, abs/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("%s$%.1fM", sign, abs/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%s$%.1fK", sign, abs/1_000)
	default:
		return fmt.Sprintf("%s$%.0f", sign, abs)
	}
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatPercent formats a scenario variable, already in percent units.
// e.g., 12.5 -> "12.5%", 10 -> "10%"
func FormatPercent(v float64) string {
	return humanize.FtoaWithDigits(v, 2) + "%"
}

// FormatRatio formats a coverage ratio. +Inf renders as "∞".
func FormatRatio(r float64) string {
	if math.IsInf(r, 1) {
		return "∞"
	}
	return fmt.Sprintf("%.2fx", r)
}

// FormatMultiplier formats an item multiplier.
// e.g., 1 -> "x1", 1.25 -> "x1.25"
func FormatMultiplier(m float64) string {
	return "x" + humanize.FtoaWithDigits(m, 2)
}

// FormatCadence describes how often an item contributes.
func FormatCadence(c int) string {
	if c <= 1 {
		return "every tick"
	}
	return fmt.Sprintf("every %d ticks", c)
}

// FormatInterval formats a tick interval in milliseconds as seconds.
// e.g., 2000 -> "2.0s", 250 -> "0.25s"
func FormatInterval(ms int) string {
	if ms%100 == 0 {
		return fmt.Sprintf("%.1fs", float64(ms)/1000)
	}
	return fmt.Sprintf("%.2fs", float64(ms)/1000)
}

// FormatAgo formats a timestamp relative to now, e.g. "3 minutes ago".
func FormatAgo(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}

// FormatDelta formats the change from previous to current.
func FormatDelta(current, previous float64) string {
	return FormatSigned(current - previous)
}
