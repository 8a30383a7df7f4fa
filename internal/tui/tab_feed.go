package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/capflow/internal/model"
	"github.com/theirongolddev/capflow/internal/tui/components"
	"github.com/theirongolddev/capflow/internal/tui/theme"
)

func (a *App) feedKey(key string) (bool, tea.Cmd) {
	if key != "C" {
		return false, nil
	}
	if a.changed(a.eng.ClearLogs()) {
		a.setStatus("feed cleared")
	}
	return true, nil
}

// renderLogLine colors a feed entry by what it describes.
func renderLogLine(at, msg string, width int) string {
	t := theme.Active
	color := t.TextPrimary
	switch {
	case strings.HasPrefix(msg, "Auto flow:"):
		if strings.Contains(msg, ": -") {
			color = t.Loss
		} else {
			color = t.Gain
		}
	case strings.HasPrefix(msg, "Boost:"), strings.HasPrefix(msg, "Trim:"), strings.HasPrefix(msg, "Shock:"):
		color = t.Warn
	case strings.Contains(msg, ":"):
		color = t.Info
	}
	timeStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	return timeStyle.Render(at) + " " + lipgloss.NewStyle().Foreground(color).Render(truncStr(msg, width-len(at)-1))
}

func (a App) renderFeedTab(cw, height int) string {
	logs := a.state().Logs.Items()
	inner := components.CardInnerWidth(cw)

	// Card border and title take 3 lines, the hint 1.
	visible := max(height-4, 1)
	var b strings.Builder
	if len(logs) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Active.TextDim).Render("The feed is empty."))
	}
	for i, n := len(logs)-1, 0; i >= 0 && n < visible; i, n = i-1, n+1 {
		if n > 0 {
			b.WriteString("\n")
		}
		b.WriteString(renderLogLine(logs[i].Time, logs[i].Message, inner))
	}

	title := fmt.Sprintf("Feed (%d/%d, newest first)", len(logs), model.LogCap)
	hint := lipgloss.NewStyle().Foreground(theme.Active.TextDim).Render("C clear")
	return components.ContentCard(title, b.String(), cw, true) + "\n  " + hint
}
