package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/capflow/internal/tui/theme"
)

// Status is what the bottom bar shows on the right.
type Status struct {
	Flowing  bool
	Interval string
	Tick     int
	Saved    string // relative time of the last save, empty if never
	Message  string // transient prompt, replaces the key hints
	Error    bool   // Message is an error
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, st Status) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)

	left := " [?]help  [space]pause  [q]uit"
	if st.Message != "" {
		msgStyle := lipgloss.NewStyle().Foreground(t.Warn).Background(t.Surface).Bold(true)
		if st.Error {
			msgStyle = msgStyle.Foreground(t.Loss)
		}
		left = " " + msgStyle.Render(st.Message)
	}

	flow := lipgloss.NewStyle().Foreground(t.Gain).Background(t.Surface).Render("● flowing")
	if !st.Flowing {
		flow = lipgloss.NewStyle().Foreground(t.Warn).Background(t.Surface).Render("❚❚ paused")
	}
	right := flow + " · " + st.Interval + " · tick " + strconv.Itoa(st.Tick)
	if st.Saved != "" {
		right += " · saved " + st.Saved
	}
	right += " "

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return style.Render(left + strings.Repeat(" ", padding) + right)
}
