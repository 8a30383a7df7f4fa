package engine

import (
	"math"
	"strings"

	"github.com/theirongolddev/capflow/internal/model"
	"github.com/theirongolddev/capflow/internal/money"
)

// Editable budget item fields.
const (
	FieldAmount     = "amount"
	FieldMultiplier = "multiplier"
	FieldCadence    = "cadence"
)

// AddItem appends a new item to the registry for kind. The amount must be a
// positive finite number; multiplier and cadence are clamped.
func (e *Engine) AddItem(kind model.Kind, name string, amount, multiplier, cadence float64) (model.BudgetItem, bool) {
	if !kind.Valid() || !money.Finite(amount) || amount <= 0 {
		return model.BudgetItem{}, false
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = model.DefaultName(kind)
	}
	item := model.BudgetItem{
		ID:         e.newID(),
		Name:       name,
		Amount:     money.Round2(money.Clamp(amount)),
		Multiplier: model.ClampMultiplier(multiplier),
		Cadence:    model.ClampCadence(cadence),
		Type:       kind,
	}
	list := e.state.Items(kind)
	*list = append(*list, item)
	e.logf("Added %s %q at %s (%s, every %d)", kind.Label(), item.Name, formatAmount(item.Amount),
		formatFactor(item.Multiplier), item.Cadence)
	return item, true
}

// UpdateField sets one numeric field of an existing item.
func (e *Engine) UpdateField(kind model.Kind, id, field string, value float64) bool {
	if !money.Finite(value) {
		return false
	}
	idx := e.state.FindItem(kind, id)
	if idx < 0 {
		return false
	}
	item := &(*e.state.Items(kind))[idx]
	switch field {
	case FieldAmount:
		item.Amount = money.Round2(money.Clamp(math.Max(0, value)))
	case FieldMultiplier:
		item.Multiplier = model.ClampMultiplier(value)
	case FieldCadence:
		item.Cadence = model.ClampCadence(value)
	default:
		return false
	}
	e.logf("Updated %s %q (%s)", kind.Label(), item.Name, field)
	return true
}

// RemoveItem deletes an item by id.
func (e *Engine) RemoveItem(kind model.Kind, id string) bool {
	idx := e.state.FindItem(kind, id)
	if idx < 0 {
		return false
	}
	list := e.state.Items(kind)
	removed := (*list)[idx]
	*list = append((*list)[:idx], (*list)[idx+1:]...)
	e.logf("Removed %q from %ss", removed.Name, kind.Label())
	return true
}
