package engine

import (
	"math"
	"strings"
	"testing"

	"github.com/theirongolddev/capflow/internal/model"
)

func TestApplyPreset(t *testing.T) {
	e := newTestEngine(t)
	if !e.ApplyPreset("turbulent") {
		t.Fatal("turbulent preset missing")
	}
	want := model.Variables{GrowthBoost: 10, CostPressure: 10, Volatility: 45}
	if got := e.State().Variables; got != want {
		t.Errorf("variables = %+v, want %+v", got, want)
	}
	before := e.State().Variables
	if e.ApplyPreset("nope") {
		t.Error("unknown preset applied")
	}
	if e.State().Variables != before {
		t.Error("unknown preset changed variables")
	}
}

func TestMergePresetsOverridesAndAppends(t *testing.T) {
	e := newTestEngine(t)
	e.MergePresets(map[string]model.Variables{
		"calm":    {GrowthBoost: 1, CostPressure: 1, Volatility: 1},
		"recover": {GrowthBoost: 30, CostPressure: -5, Volatility: 5},
	})
	presets := e.Presets()
	if presets[0].Key != "balanced" {
		t.Errorf("first preset = %q, want balanced", presets[0].Key)
	}
	last := presets[len(presets)-1]
	if last.Key != "recover" || last.Variables.CostPressure != 0 {
		t.Errorf("custom preset = %+v, want recover with clamped pressure", last)
	}
	e.ApplyPreset("calm")
	if e.State().Variables.Volatility != 1 {
		t.Errorf("calm override not applied: %+v", e.State().Variables)
	}
}

func TestSetVariable(t *testing.T) {
	e := newTestEngine(t)
	if !e.SetVariable(VarCostPressure, -12) || e.State().Variables.CostPressure != 0 {
		t.Error("negative value not clamped to 0")
	}
	if !e.SetVariable(VarVolatility, 250) || e.State().Variables.Volatility != 250 {
		t.Error("volatility has no upper bound outside shock")
	}
	if e.SetVariable(VarGrowthBoost, math.Inf(1)) {
		t.Error("non-finite value accepted")
	}
	if e.SetVariable("bogus", 1) {
		t.Error("unknown variable accepted")
	}
}

func TestSetNote(t *testing.T) {
	e := newTestEngine(t)
	if !e.SetNote(strings.Repeat("a", 300)) {
		t.Fatal("SetNote returned false")
	}
	if n := len(e.State().ScenarioNote); n != model.NoteMaxRunes {
		t.Errorf("note len = %d, want %d", n, model.NoteMaxRunes)
	}
	if e.SetNote(e.State().ScenarioNote) {
		t.Error("unchanged note reported a change")
	}
}
