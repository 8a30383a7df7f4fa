package engine

import (
	"math"
	"testing"

	"github.com/theirongolddev/capflow/internal/model"
	"github.com/theirongolddev/capflow/internal/money"
)

func TestAddItemValidation(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		ok     bool
	}{
		{"positive", 100, true},
		{"zero", 0, false},
		{"negative", -5, false},
		{"nan", math.NaN(), false},
		{"inf", math.Inf(1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t)
			_, ok := e.AddItem(model.Income, "x", tt.amount, 1, 1)
			if ok != tt.ok {
				t.Fatalf("AddItem(amount=%v) ok = %v, want %v", tt.amount, ok, tt.ok)
			}
			if want := map[bool]int{true: 1, false: 0}[tt.ok]; len(e.State().Incomes) != want {
				t.Errorf("incomes len = %d, want %d", len(e.State().Incomes), want)
			}
		})
	}
}

func TestAddItemClamps(t *testing.T) {
	e := newTestEngine(t)
	item, ok := e.AddItem(model.Expense, "   ", 50, 0.01, 0.2)
	if !ok {
		t.Fatal("AddItem rejected a positive amount")
	}
	if item.Multiplier != 0.1 || item.Cadence != 1 {
		t.Errorf("item = %+v, want multiplier 0.1 cadence 1", item)
	}
	if item.Name != "Untitled expense" || item.Type != model.Expense {
		t.Errorf("item = %+v, want default expense name", item)
	}
	other, _ := e.AddItem(model.Income, "b", 50, math.Inf(1), 2.6)
	if other.Multiplier != 1 || other.Cadence != 3 {
		t.Errorf("item = %+v, want multiplier 1 cadence 3", other)
	}
	if item.ID == other.ID {
		t.Error("ids collided")
	}
}

func TestUpdateFieldClamps(t *testing.T) {
	tests := []struct {
		field string
		value float64
		check func(model.BudgetItem) bool
	}{
		{FieldAmount, -20, func(it model.BudgetItem) bool { return it.Amount == 0 }},
		{FieldAmount, 12.345, func(it model.BudgetItem) bool { return it.Amount == 12.35 }},
		{FieldMultiplier, 0, func(it model.BudgetItem) bool { return it.Multiplier == 0.1 }},
		{FieldMultiplier, 2.5, func(it model.BudgetItem) bool { return it.Multiplier == 2.5 }},
		{FieldCadence, 0.4, func(it model.BudgetItem) bool { return it.Cadence == 1 }},
		{FieldCadence, 4.5, func(it model.BudgetItem) bool { return it.Cadence == 5 }},
	}
	for _, tt := range tests {
		e := newTestEngine(t)
		item, _ := e.AddItem(model.Income, "Salary", 100, 1, 1)
		if !e.UpdateField(model.Income, item.ID, tt.field, tt.value) {
			t.Errorf("UpdateField(%s, %v) returned false", tt.field, tt.value)
			continue
		}
		if got := e.State().Incomes[0]; !tt.check(got) {
			t.Errorf("UpdateField(%s, %v) -> %+v", tt.field, tt.value, got)
		}
	}
}

func TestUpdateFieldRejects(t *testing.T) {
	e := newTestEngine(t)
	item, _ := e.AddItem(model.Income, "Salary", 100, 1, 1)
	logs := e.State().Logs.Len()
	if e.UpdateField(model.Income, item.ID, FieldAmount, math.NaN()) {
		t.Error("NaN accepted")
	}
	if e.UpdateField(model.Expense, item.ID, FieldAmount, 5) {
		t.Error("lookup in the wrong registry succeeded")
	}
	if e.UpdateField(model.Income, item.ID, "name", 5) {
		t.Error("unknown field accepted")
	}
	if e.State().Logs.Len() != logs {
		t.Error("rejected updates wrote log lines")
	}
}

func TestRemoveItem(t *testing.T) {
	e := newTestEngine(t)
	a, _ := e.AddItem(model.Expense, "Rent", 100, 1, 1)
	b, _ := e.AddItem(model.Expense, "Food", 50, 1, 1)
	if e.RemoveItem(model.Expense, "missing") {
		t.Fatal("removing a missing id reported success")
	}
	if !e.RemoveItem(model.Expense, a.ID) {
		t.Fatal("RemoveItem failed")
	}
	if got := e.State().Expenses; len(got) != 1 || got[0].ID != b.ID {
		t.Fatalf("expenses = %+v, want only %s", got, b.ID)
	}
	if lastLog(t, e) != `Removed "Rent" from expenses` {
		t.Errorf("log = %q", lastLog(t, e))
	}
}

func TestHugeCadenceStaysSilent(t *testing.T) {
	e := newTestEngine(t)
	item, _ := e.AddItem(model.Income, "Rare", 100, 1, 1)
	if !e.UpdateField(model.Income, item.ID, FieldCadence, 1e20) {
		t.Fatal("UpdateField rejected a finite cadence")
	}
	if got := e.State().Incomes[0].Cadence; got != model.MaxCadence {
		t.Fatalf("cadence = %d, want %d", got, model.MaxCadence)
	}
	e.Tick()
	if got := e.State().Capital; got != model.DefaultCapital {
		t.Errorf("capital = %v, want %v from a cadence-silent item", got, model.DefaultCapital)
	}
}

func TestHugeAmountsKeepCapitalFinite(t *testing.T) {
	e := newTestEngine(t)
	if _, ok := e.AddItem(model.Income, "huge", 1e308, 2, 1); !ok {
		t.Fatal("AddItem rejected a finite amount")
	}
	e.SetVariable(VarGrowthBoost, 1e300)
	for range 3 {
		e.Tick()
	}
	for range 10 {
		e.Pulse(PulseBoost)
	}
	s := e.State()
	if s.Capital != money.MaxAmount {
		t.Errorf("capital = %v, want saturation at %v", s.Capital, money.MaxAmount)
	}
	if a := s.Incomes[0].Amount; math.IsInf(a, 0) || a > money.MaxAmount {
		t.Errorf("amount = %v, want at most %v", a, money.MaxAmount)
	}
}
