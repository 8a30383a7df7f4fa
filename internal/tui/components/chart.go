package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/capflow/internal/tui/theme"
)

var blocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders values as one row of block characters scaled between
// the series minimum and maximum.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := bounds(values)

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		buf.WriteRune(blocks[level(v, lo, hi, len(blocks)-1)])
	}
	return lipgloss.NewStyle().Foreground(color).Render(buf.String())
}

// HistoryChart renders the capital series as a filled area chart of the given
// size. The vertical axis spans the series range so small swings on a large
// balance stay visible. Older points are dropped when there are more values
// than columns.
func HistoryChart(values []float64, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active
	if width < 20 || height < 3 {
		return Sparkline(values, t.Accent)
	}

	lo, hi := bounds(values)
	if hi == lo {
		// Flat series: center it on a band around the value.
		pad := math.Max(1, math.Abs(hi)*0.01)
		lo, hi = lo-pad, hi+pad
	}

	topLabel := FormatAxis(hi)
	bottomLabel := FormatAxis(lo)
	labelW := max(len(topLabel), len(bottomLabel)) + 1

	chartW := width - labelW - 1
	if len(values) > chartW {
		values = values[len(values)-chartW:]
	}

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	rising := values[len(values)-1] >= values[0]
	color := t.Gain
	if !rising {
		color = t.Loss
	}
	barStyle := lipgloss.NewStyle().Foreground(color)

	// Each column is filled up to its value in eighths of a row.
	steps := height * len(blocks)
	var b strings.Builder
	for row := height - 1; row >= 0; row-- {
		label := ""
		switch row {
		case height - 1:
			label = topLabel
		case 0:
			label = bottomLabel
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s│", labelW, label)))

		var line strings.Builder
		for _, v := range values {
			filled := level(v, lo, hi, steps-1) + 1
			inRow := filled - row*len(blocks)
			switch {
			case inRow >= len(blocks):
				line.WriteRune('█')
			case inRow > 0:
				line.WriteRune(blocks[inRow-1])
			default:
				line.WriteRune(' ')
			}
		}
		b.WriteString(barStyle.Render(line.String()))
		b.WriteString("\n")
	}
	b.WriteString(axisStyle.Render(strings.Repeat(" ", labelW) + "└" + strings.Repeat("─", len(values))))
	return b.String()
}

// FlowBar renders one labeled horizontal bar for a budget line.
func FlowBar(label string, value, maxValue float64, labelW, barW int, color lipgloss.Color) string {
	t := theme.Active
	n := 0
	if maxValue > 0 && value > 0 {
		n = int(math.Round(value / maxValue * float64(barW)))
	}
	if n > barW {
		n = barW
	}
	return lipgloss.NewStyle().Foreground(t.TextMuted).Render(fmt.Sprintf("%-*s ", labelW, truncate(label, labelW))) +
		lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", n)) +
		lipgloss.NewStyle().Foreground(t.TextDim).Render(strings.Repeat("·", barW-n))
}

// FormatAxis renders an axis label in compact dollars.
func FormatAxis(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	switch {
	case v >= 1e6:
		return fmt.Sprintf("%s%.1fM", sign, v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%s%.1fk", sign, v/1e3)
	default:
		return fmt.Sprintf("%s%.0f", sign, v)
	}
}

func bounds(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// level maps v in [lo, hi] onto 0..top.
func level(v, lo, hi float64, top int) int {
	if hi <= lo {
		return 0
	}
	idx := int((v - lo) / (hi - lo) * float64(top))
	return min(max(idx, 0), top)
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
