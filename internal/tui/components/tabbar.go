package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/capflow/internal/tui/theme"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // position of the shortcut letter in the name
}

// Tabs defines all available tabs, in order.
var Tabs = []Tab{
	{Name: "Dashboard", Key: 'd', KeyPos: 0},
	{Name: "Budget", Key: 'b', KeyPos: 0},
	{Name: "Scenario", Key: 's', KeyPos: 0},
	{Name: "Snapshots", Key: 'n', KeyPos: 1},
	{Name: "Feed", Key: 'f', KeyPos: 0},
}

func renderTab(tab Tab, active bool) string {
	t := theme.Active
	pad := lipgloss.NewStyle().Padding(0, 1)

	if active {
		return pad.
			Foreground(t.AccentBright).
			Background(t.SurfaceHover).
			Bold(true).
			Render(tab.Name)
	}

	inactive := lipgloss.NewStyle().Foreground(t.TextMuted)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	dim := lipgloss.NewStyle().Foreground(t.TextDim)

	before := tab.Name[:tab.KeyPos]
	key := string(tab.Name[tab.KeyPos])
	after := tab.Name[tab.KeyPos+1:]
	return pad.Render(inactive.Render(before) +
		dim.Render("[") + keyStyle.Render(key) + dim.Render("]") +
		inactive.Render(after))
}

// TabVisualWidth is the rendered width of tab, used for mouse hit testing.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(renderTab(tab, active))
}

// RenderTabBar renders the tab bar with the given active index and a right
// aligned title.
func RenderTabBar(activeIdx int, width int, title string) string {
	t := theme.Active

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		parts[i] = renderTab(tab, i == activeIdx)
	}
	row := strings.Join(parts, " ")

	right := lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Render(title) + " "
	gap := width - lipgloss.Width(row) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return row + strings.Repeat(" ", gap) + right
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
