package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/capflow/internal/cli"
	"github.com/theirongolddev/capflow/internal/model"
	"github.com/theirongolddev/capflow/internal/tui/components"
	"github.com/theirongolddev/capflow/internal/tui/theme"
)

func (a *App) snapshotKey(key string) (bool, tea.Cmd) {
	snaps := a.state().Snapshots.Items()
	var sel *model.Snapshot
	if a.snapCursor < len(snaps) {
		sel = &snaps[a.snapCursor]
	}

	switch key {
	case "j", "down":
		a.moveCursor(1)
	case "k", "up":
		a.moveCursor(-1)
	case "w":
		snap := a.eng.SaveSnapshot()
		a.persist()
		a.snapCursor = a.state().Snapshots.Len() - 1
		a.setStatus(fmt.Sprintf("saved snapshot %q", snap.Name))
	case "enter":
		if sel != nil && a.changed(a.eng.LoadSnapshot(sel.ID)) {
			a.setStatus(fmt.Sprintf("loaded snapshot %q", sel.Name))
		}
	case "x", "delete", "backspace":
		if sel != nil {
			a.changed(a.eng.DeleteSnapshot(sel.ID))
			a.moveCursor(0)
		}
	default:
		return false, nil
	}
	return true, nil
}

func (a App) renderSnapshotsTab(cw int) string {
	t := theme.Active
	snaps := a.state().Snapshots.Items()
	dim := lipgloss.NewStyle().Foreground(t.TextDim)

	var b strings.Builder
	if len(snaps) == 0 {
		b.WriteString(dim.Render("  No snapshots. Press w to capture the current state."))
	} else {
		b.WriteString(dim.Render(fmt.Sprintf("  %-24s %14s %8s %9s  %s", "Name", "Capital", "Incomes", "Expenses", "Saved")))
	}
	for i, s := range snaps {
		text := fmt.Sprintf("%-24s %14s %8d %9d  %s",
			truncStr(s.Name, 24), cli.FormatMoney(s.Capital), len(s.Incomes), len(s.Expenses), s.Meta)
		b.WriteString("\n")
		if i == a.snapCursor {
			b.WriteString(lipgloss.NewStyle().Foreground(t.Accent).Render("▸ "))
			b.WriteString(lipgloss.NewStyle().Background(t.SurfaceHover).Bold(true).Render(text))
		} else {
			b.WriteString("  " + text)
		}
	}

	title := fmt.Sprintf("Snapshots (%d/%d)", len(snaps), model.SnapshotCap)
	hint := dim.Render("w save · enter load · x delete · oldest is dropped past the limit")
	return components.ContentCard(title, b.String(), cw, true) + "\n  " + hint
}
