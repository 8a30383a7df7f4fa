package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/capflow/internal/tui/theme"
)

// ColorForLevel returns gain/warn/loss colors for a 0..1 risk level.
func ColorForLevel(pct float64) lipgloss.Color {
	t := theme.Active
	switch {
	case pct >= 0.75:
		return t.Loss
	case pct >= 0.4:
		return t.Warn
	default:
		return t.Gain
	}
}

// Gauge renders a labeled meter for value out of maxValue with the value
// printed after the bar. The fill color tracks how close value is to max.
func Gauge(label string, value, maxValue float64, suffix string, labelW, barW int) string {
	t := theme.Active

	pct := 0.0
	if maxValue > 0 {
		pct = value / maxValue
	}
	pct = min(max(pct, 0), 1)

	color := ColorForLevel(pct)
	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barW),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(color).Bold(true)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) + " " +
		bar.ViewAs(pct) + " " +
		valueStyle.Render(suffix)
}

// CoverageBar renders income/expense coverage on a 0..2x scale; 1x sits in
// the middle of the bar.
func CoverageBar(ratio float64, barW int) string {
	pct := ratio / 2
	pct = min(max(pct, 0), 1)

	// Inverse of ColorForLevel: more coverage is safer.
	color := ColorForLevel(1 - pct)
	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barW),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(theme.Active.TextDim)
	return bar.ViewAs(pct)
}
