package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/capflow/internal/cli"
	"github.com/theirongolddev/capflow/internal/engine"
	"github.com/theirongolddev/capflow/internal/insight"
	"github.com/theirongolddev/capflow/internal/tui/components"
	"github.com/theirongolddev/capflow/internal/tui/theme"
)

// feedPreviewLines is how many recent log lines the dashboard shows.
const feedPreviewLines = 6

func (a App) renderDashboardTab(cw int) string {
	t := theme.Active
	st := a.state()
	r := insight.Summarize(st)
	var b strings.Builder

	// Row 1: headline metrics
	runwayNote := "net flow positive"
	if !r.Runway.Unbounded {
		runwayNote = "until capital hits zero"
	}
	coverageTone := t.Gain
	if r.Coverage < 1 {
		coverageTone = t.Loss
	}
	metrics := []components.Metric{
		{Label: "Capital", Value: cli.FormatMoney(st.Capital), Note: "last " + cli.FormatSigned(r.LastDelta), Tone: theme.ForDelta(r.LastDelta)},
		{Label: "Net / cycle", Value: cli.FormatSigned(r.Totals.Net), Note: fmt.Sprintf("in %s · out %s", cli.FormatCompact(r.Totals.Income), cli.FormatCompact(r.Totals.Expense)), Tone: theme.ForDelta(r.Totals.Net)},
		{Label: "Coverage", Value: cli.FormatRatio(r.Coverage), Note: "income / expense", Tone: coverageTone},
		{Label: "Runway", Value: r.Runway.String(), Note: runwayNote},
		{Label: fmt.Sprintf("Trend (%d)", insight.TrendWindow), Value: cli.FormatSigned(r.Trend), Tone: theme.ForDelta(r.Trend)},
	}
	if a.isCompactLayout() {
		metrics = metrics[:4]
	}
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	// Row 2: capital history
	history := engine.HistoryValues(st)
	chartH := 10
	if a.isCompactLayout() {
		chartH = 6
	}
	b.WriteString(components.ContentCard(
		fmt.Sprintf("Capital history (%d points)", len(history)),
		components.HistoryChart(history, components.CardInnerWidth(cw), chartH),
		cw, false,
	))
	b.WriteString("\n")

	// Row 3: scenario gauges + recent feed
	halves := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		components.ContentCard("Scenario", a.renderGauges(components.CardInnerWidth(halves[0])), halves[0], false),
		components.ContentCard("Recent activity", a.renderFeedPreview(components.CardInnerWidth(halves[1])), halves[1], false),
	}))
	return b.String()
}

func (a App) renderGauges(innerW int) string {
	t := theme.Active
	v := a.state().Variables
	labelW := 14
	barW := max(innerW-labelW-10, 8)

	lines := []string{
		components.Gauge("Growth boost", v.GrowthBoost, 100, cli.FormatPercent(v.GrowthBoost), labelW, barW),
		components.Gauge("Cost pressure", v.CostPressure, 100, cli.FormatPercent(v.CostPressure), labelW, barW),
		components.Gauge("Volatility", v.Volatility, engine.MaxShockVolatility, cli.FormatPercent(v.Volatility), labelW, barW),
	}
	if totals := insight.ComputeTotals(a.state()); totals.Expense > 0 {
		ratio := totals.Income / totals.Expense
		lines = append(lines, lipgloss.NewStyle().Foreground(t.TextMuted).Render(fmt.Sprintf("%-*s", labelW, "Coverage"))+" "+
			components.CoverageBar(ratio, barW)+" "+cli.FormatRatio(ratio))
	}
	// Ambient events fire when a uniform draw is below volatility/500.
	chance := math.Min(v.Volatility/500, 1) * 100
	muted := lipgloss.NewStyle().Foreground(t.TextMuted)
	lines = append(lines, muted.Render(fmt.Sprintf("Event chance per tick: %s", cli.FormatPercent(chance))))
	if note := a.state().ScenarioNote; note != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.TextDim).Italic(true).Render(truncStr(note, innerW)))
	}
	return strings.Join(lines, "\n")
}

func (a App) renderFeedPreview(innerW int) string {
	logs := a.state().Logs.Tail(feedPreviewLines)
	if len(logs) == 0 {
		return lipgloss.NewStyle().Foreground(theme.Active.TextDim).Render("Nothing yet.")
	}
	lines := make([]string, 0, len(logs))
	for i := len(logs) - 1; i >= 0; i-- {
		lines = append(lines, renderLogLine(logs[i].Time, logs[i].Message, innerW))
	}
	return strings.Join(lines, "\n")
}
