package planfile

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/capflow/internal/engine"
	"github.com/theirongolddev/capflow/internal/model"
)

const samplePlan = `
note: lean month
variables:
  growth_boost: 5
  cost_pressure: 12
  volatility: 20
incomes:
  - name: Salary
    amount: 3000
  - name: Broken
    amount: 0
expenses:
  - name: Rent
    amount: 1200
    cadence: 4
presets:
  recover:
    growth_boost: 30
    cost_pressure: 0
    volatility: 5
`

func writePlan(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestApplyPlan(t *testing.T) {
	p, err := Load(writePlan(t, samplePlan))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	e := engine.New(nil, engine.WithSource(engine.NewSource(1)))
	res := p.Apply(e, false)
	if res.Added != 2 || res.Skipped != 1 || res.Presets != 1 {
		t.Errorf("result = %+v, want 2 added, 1 skipped, 1 preset", res)
	}

	s := e.State()
	if len(s.Incomes) != 1 || s.Incomes[0].Multiplier != 1 || s.Incomes[0].Cadence != 1 {
		t.Errorf("incomes = %+v", s.Incomes)
	}
	if len(s.Expenses) != 1 || s.Expenses[0].Cadence != 4 {
		t.Errorf("expenses = %+v", s.Expenses)
	}
	if s.Variables != (model.Variables{GrowthBoost: 5, CostPressure: 12, Volatility: 20}) {
		t.Errorf("variables = %+v", s.Variables)
	}
	if s.ScenarioNote != "lean month" {
		t.Errorf("note = %q", s.ScenarioNote)
	}
	if !e.ApplyPreset("recover") {
		t.Error("custom preset not merged")
	}
}

func TestApplyReplaceRemovesExisting(t *testing.T) {
	e := engine.New(nil, engine.WithSource(engine.NewSource(2)))
	e.AddItem(model.Expense, "Old", 10, 1, 1)
	p := &Plan{Incomes: []Item{{Name: "New", Amount: 5}}}
	res := p.Apply(e, true)
	if res.Removed != 1 || res.Added != 1 {
		t.Errorf("result = %+v, want 1 removed, 1 added", res)
	}
	if len(e.State().Expenses) != 0 {
		t.Error("replace kept old expenses")
	}
}

func TestSaveExportsCustomPresetsOnly(t *testing.T) {
	e := engine.New(nil, engine.WithSource(engine.NewSource(3)))
	e.AddItem(model.Income, "Salary", 2500, 1.2, 2)
	e.MergePresets(map[string]model.Variables{"mine": {Volatility: 3}})

	path := filepath.Join(t.TempDir(), "out", "plan.yaml")
	if err := Save(path, FromState(e.State(), e.Presets())); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "growth_boost") || !strings.Contains(out, "Salary") {
		t.Errorf("export missing fields:\n%s", out)
	}
	if strings.Contains(out, "turbulent") {
		t.Errorf("built-in preset exported:\n%s", out)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if keys := p.PresetKeys(); len(keys) != 1 || keys[0] != "mine" {
		t.Errorf("preset keys = %v, want [mine]", keys)
	}
	if p.Incomes[0].Cadence != 2 || p.Incomes[0].Multiplier != 1.2 {
		t.Errorf("income = %+v", p.Incomes[0])
	}
}

func TestLoadPresetsMissingFile(t *testing.T) {
	got, err := LoadPresets(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil || got != nil {
		t.Fatalf("LoadPresets(missing) = %v, %v; want nil, nil", got, err)
	}
	if _, err := LoadPresets(writePlan(t, "presets: [1, 2")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEncodeWritesYAML(t *testing.T) {
	e := engine.New(nil, engine.WithSource(engine.NewSource(3)))
	e.AddItem(model.Expense, "Rent", 900, 1, 1)

	var buf bytes.Buffer
	if err := Encode(&buf, FromState(e.State(), e.Presets())); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"expenses:", "name: Rent", "amount: 900", "volatility: 10"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
