package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/capflow/internal/cli"
	"github.com/theirongolddev/capflow/internal/engine"
	"github.com/theirongolddev/capflow/internal/model"
	"github.com/theirongolddev/capflow/internal/money"
	"github.com/theirongolddev/capflow/internal/tui/components"
	"github.com/theirongolddev/capflow/internal/tui/theme"
)

type scenarioRowKind int

const (
	rowVariable scenarioRowKind = iota
	rowNote
	rowPreset
)

type scenarioRow struct {
	kind   scenarioRowKind
	key    string // variable name or preset key
	label  string
	value  string
	preset model.Variables
}

// scenarioRows lists the three variables, the note, then every preset.
func (a App) scenarioRows() []scenarioRow {
	st := a.state()
	v := st.Variables
	rows := []scenarioRow{
		{kind: rowVariable, key: engine.VarGrowthBoost, label: "Growth boost", value: cli.FormatPercent(v.GrowthBoost)},
		{kind: rowVariable, key: engine.VarCostPressure, label: "Cost pressure", value: cli.FormatPercent(v.CostPressure)},
		{kind: rowVariable, key: engine.VarVolatility, label: "Volatility", value: cli.FormatPercent(v.Volatility)},
		{kind: rowNote, label: "Note", value: st.ScenarioNote},
	}
	for _, p := range a.eng.Presets() {
		rows = append(rows, scenarioRow{kind: rowPreset, key: p.Key, label: p.Key, preset: p.Variables})
	}
	return rows
}

func variableValue(v model.Variables, name string) float64 {
	switch name {
	case engine.VarGrowthBoost:
		return v.GrowthBoost
	case engine.VarCostPressure:
		return v.CostPressure
	default:
		return v.Volatility
	}
}

func (a *App) scenarioKey(key string) (bool, tea.Cmd) {
	switch key {
	case "j", "down":
		a.moveCursor(1)
		return true, nil
	case "k", "up":
		a.moveCursor(-1)
		return true, nil
	case "enter":
	default:
		return false, nil
	}

	rows := a.scenarioRows()
	if a.scenarioCursor >= len(rows) {
		return true, nil
	}
	row := rows[a.scenarioCursor]
	switch row.kind {
	case rowVariable:
		cur := variableValue(a.state().Variables, row.key)
		return true, a.startEdit(editState{
			target: editVariable,
			label:  row.label + " (%)",
			field:  row.key,
		}, money.FormatPlain(cur))
	case rowNote:
		return true, a.startEdit(editState{
			target: editNote,
			label:  fmt.Sprintf("Scenario note (max %d characters)", model.NoteMaxRunes),
		}, a.state().ScenarioNote)
	case rowPreset:
		if a.changed(a.eng.ApplyPreset(row.key)) {
			a.setStatus(fmt.Sprintf("preset %q applied", row.key))
		}
	}
	return true, nil
}

func (a App) renderScenarioTab(cw int) string {
	t := theme.Active
	rows := a.scenarioRows()

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	inner := components.CardInnerWidth(cw)

	line := func(i int, text string) string {
		if i == a.scenarioCursor {
			return lipgloss.NewStyle().Foreground(t.Accent).Render("▸ ") +
				lipgloss.NewStyle().Background(t.SurfaceHover).Bold(true).Render(text)
		}
		return "  " + text
	}

	var vars, presets strings.Builder
	current := a.state().Variables
	for i, r := range rows {
		switch r.kind {
		case rowVariable:
			vars.WriteString(line(i, labelStyle.Render(fmt.Sprintf("%-14s", r.label))+valueStyle.Render(r.value)))
			vars.WriteString("\n")
		case rowNote:
			note := r.value
			if note == "" {
				note = dimStyle.Render("(empty, snapshots get numbered names)")
			} else {
				note = valueStyle.Render(truncStr(note, inner-18))
			}
			vars.WriteString(line(i, labelStyle.Render(fmt.Sprintf("%-14s", r.label))+note))
		case rowPreset:
			marker := " "
			if r.preset == current {
				marker = lipgloss.NewStyle().Foreground(t.Gain).Render("●")
			}
			text := fmt.Sprintf("%s %-12s growth %6s  pressure %6s  volatility %6s",
				marker, r.label,
				cli.FormatPercent(r.preset.GrowthBoost),
				cli.FormatPercent(r.preset.CostPressure),
				cli.FormatPercent(r.preset.Volatility))
			if !engine.IsBuiltinPreset(r.key) {
				text += dimStyle.Render("  custom")
			}
			presets.WriteString(line(i, text))
			presets.WriteString("\n")
		}
	}

	pulses := dimStyle.Render("enter edit / apply · B boost · T trim · S shock · E random event")
	return components.ContentCard("Variables", vars.String(), cw, a.scenarioCursor < 4) + "\n" +
		components.ContentCard("Presets", strings.TrimRight(presets.String(), "\n"), cw, a.scenarioCursor >= 4) + "\n" +
		"  " + pulses
}
