package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/capflow/internal/cli"
	"github.com/theirongolddev/capflow/internal/engine"
	"github.com/theirongolddev/capflow/internal/model"
	"github.com/theirongolddev/capflow/internal/money"
	"github.com/theirongolddev/capflow/internal/tui/components"
	"github.com/theirongolddev/capflow/internal/tui/theme"
)

type budgetRow struct {
	kind model.Kind
	item model.BudgetItem
}

// budgetRows flattens both registries, incomes first, for cursor movement.
func (a App) budgetRows() []budgetRow {
	st := a.state()
	rows := make([]budgetRow, 0, st.ItemCount())
	for _, it := range st.Incomes {
		rows = append(rows, budgetRow{kind: model.Income, item: it})
	}
	for _, it := range st.Expenses {
		rows = append(rows, budgetRow{kind: model.Expense, item: it})
	}
	return rows
}

func (a *App) budgetKey(key string) (bool, tea.Cmd) {
	rows := a.budgetRows()
	var sel *budgetRow
	if a.budgetCursor < len(rows) {
		sel = &rows[a.budgetCursor]
	}

	switch key {
	case "j", "down":
		a.moveCursor(1)
	case "k", "up":
		a.moveCursor(-1)
	case "a":
		return true, a.openItemForm(model.Income)
	case "A":
		return true, a.openItemForm(model.Expense)
	case "enter", "m", "c":
		if sel == nil {
			return true, nil
		}
		field, value := engine.FieldAmount, money.FormatPlain(sel.item.Amount)
		switch key {
		case "m":
			field, value = engine.FieldMultiplier, strconv.FormatFloat(sel.item.Multiplier, 'f', -1, 64)
		case "c":
			field, value = engine.FieldCadence, strconv.Itoa(sel.item.Cadence)
		}
		return true, a.startEdit(editState{
			target: editItemField,
			label:  fmt.Sprintf("%s · %s", sel.item.Name, field),
			kind:   sel.kind,
			id:     sel.item.ID,
			field:  field,
		}, value)
	case "x", "delete", "backspace":
		if sel == nil {
			return true, nil
		}
		a.changed(a.eng.RemoveItem(sel.kind, sel.item.ID))
		a.moveCursor(0)
	default:
		return false, nil
	}
	return true, nil
}

func (a App) renderBudgetTab(cw int) string {
	t := theme.Active
	st := a.state()
	rows := a.budgetRows()

	// Bars are scaled against the largest per-cycle contribution.
	peak := 0.0
	for _, r := range rows {
		peak = max(peak, engine.PerCycleContribution(r.item))
	}

	inner := components.CardInnerWidth(cw)
	nameW := 18
	barW := max(inner-nameW-54, 6)

	header := lipgloss.NewStyle().Foreground(t.TextDim).Render(
		fmt.Sprintf("  %-*s %12s %6s %-16s %11s", nameW, "Name", "Amount", "Mult", "Cadence", "Per cycle"))

	section := func(kind model.Kind, offset int, items []model.BudgetItem) string {
		var b strings.Builder
		b.WriteString(header)
		if len(items) == 0 {
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Render("  none yet"))
		}
		color := t.Gain
		if kind == model.Expense {
			color = t.Loss
		}
		for i, it := range items {
			line := fmt.Sprintf("%-*s %12s %6s %-16s %11s ",
				nameW, truncStr(it.Name, nameW),
				cli.FormatMoney(it.Amount),
				cli.FormatMultiplier(it.Multiplier),
				cli.FormatCadence(it.Cadence),
				cli.FormatMoney(engine.PerCycleContribution(it)))
			bar := components.FlowBar("", engine.PerCycleContribution(it), peak, 0, barW, color)

			style := lipgloss.NewStyle().Foreground(t.TextPrimary)
			marker := "  "
			if offset+i == a.budgetCursor {
				style = style.Background(t.SurfaceHover).Bold(true)
				marker = lipgloss.NewStyle().Foreground(t.Accent).Render("▸ ")
			}
			b.WriteString("\n")
			b.WriteString(marker + style.Render(line) + bar)
		}
		return b.String()
	}

	totals := fmt.Sprintf("%d incomes · %d expenses", len(st.Incomes), len(st.Expenses))
	hint := lipgloss.NewStyle().Foreground(t.TextDim).Render(
		"a add income · A add expense · enter amount · m multiplier · c cadence · x remove")

	return components.ContentCard("Incomes", section(model.Income, 0, st.Incomes), cw, a.budgetCursor < len(st.Incomes)) + "\n" +
		components.ContentCard("Expenses", section(model.Expense, len(st.Incomes), st.Expenses), cw, a.budgetCursor >= len(st.Incomes) && len(st.Expenses) > 0) + "\n" +
		"  " + lipgloss.NewStyle().Foreground(t.TextMuted).Render(totals) + "   " + hint
}

// ─── Add-item form ──────────────────────────────────────────────

type itemValues struct {
	kind       model.Kind
	name       string
	amount     string
	multiplier string
	cadence    string
}

func newItemForm(v *itemValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder(model.DefaultName(v.kind)).
				CharLimit(64).
				Value(&v.name),
			huh.NewInput().
				Title("Amount").
				Description("Dollars per occurrence").
				Value(&v.amount).
				Validate(validatePositive),
			huh.NewInput().
				Title("Multiplier").
				Description("Scales the amount, minimum 0.1").
				Value(&v.multiplier).
				Validate(validateNumber),
			huh.NewInput().
				Title("Cadence").
				Description("Contributes once every N ticks").
				Value(&v.cadence).
				Validate(validateNumber),
		),
	).WithShowHelp(false)
}

func (a *App) openItemForm(kind model.Kind) tea.Cmd {
	a.itemVals = &itemValues{kind: kind, multiplier: "1", cadence: "1"}
	a.itemForm = newItemForm(a.itemVals).WithWidth(min(max(a.width, 40), 60))
	return a.itemForm.Init()
}

func (a App) updateItemForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		a.itemForm, a.itemVals = nil, nil
		return a, nil
	}

	form, cmd := a.itemForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.itemForm = f
	}

	switch a.itemForm.State {
	case huh.StateCompleted:
		v := a.itemVals
		amount, _ := parseNumber(v.amount)
		mult, _ := parseNumber(v.multiplier)
		cadence, _ := parseNumber(v.cadence)
		if item, ok := a.eng.AddItem(v.kind, v.name, amount, mult, cadence); ok {
			a.persist()
			a.setStatus(fmt.Sprintf("added %s %q", v.kind, item.Name))
			if v.kind == model.Income {
				a.budgetCursor = len(a.state().Incomes) - 1
			} else {
				a.budgetCursor = len(a.budgetRows()) - 1
			}
		} else {
			a.setError("item rejected: amount must be positive")
		}
		a.itemForm, a.itemVals = nil, nil
		return a, nil
	case huh.StateAborted:
		a.itemForm, a.itemVals = nil, nil
		return a, nil
	}
	return a, cmd
}

var errNotNumber = errors.New("enter a number")

func parseNumber(s string) (float64, bool) {
	v, err := money.Parse(s)
	if err != nil || !money.Finite(v) {
		return 0, false
	}
	return v, true
}

func validateNumber(s string) error {
	if _, ok := parseNumber(s); !ok {
		return errNotNumber
	}
	return nil
}

func validatePositive(s string) error {
	v, ok := parseNumber(s)
	if !ok {
		return errNotNumber
	}
	if v <= 0 {
		return errors.New("must be greater than zero")
	}
	return nil
}
