package engine

import (
	"math"
	"sort"

	"github.com/theirongolddev/capflow/internal/model"
	"github.com/theirongolddev/capflow/internal/money"
)

// Scenario variable names.
const (
	VarGrowthBoost  = "growthBoost"
	VarCostPressure = "costPressure"
	VarVolatility   = "volatility"
)

// Preset is a named scenario variable triple.
type Preset struct {
	Key       string
	Variables model.Variables
}

func builtinPresets() (map[string]model.Variables, []string) {
	builtins := []Preset{
		{"balanced", model.Variables{GrowthBoost: 0, CostPressure: 0, Volatility: 10}},
		{"growth", model.Variables{GrowthBoost: 25, CostPressure: 5, Volatility: 15}},
		{"squeeze", model.Variables{GrowthBoost: 0, CostPressure: 25, Volatility: 20}},
		{"turbulent", model.Variables{GrowthBoost: 10, CostPressure: 10, Volatility: 45}},
		{"calm", model.Variables{GrowthBoost: 5, CostPressure: 2, Volatility: 2}},
	}
	m := make(map[string]model.Variables, len(builtins))
	order := make([]string, 0, len(builtins))
	for _, p := range builtins {
		m[p.Key] = p.Variables
		order = append(order, p.Key)
	}
	return m, order
}

// IsBuiltinPreset reports whether key ships with capflow.
func IsBuiltinPreset(key string) bool {
	m, _ := builtinPresets()
	_, ok := m[key]
	return ok
}

// MergePresets adds custom presets; an existing key is overridden in place.
func (e *Engine) MergePresets(custom map[string]model.Variables) {
	keys := make([]string, 0, len(custom))
	for k := range custom {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, ok := e.presets[k]; !ok {
			e.order = append(e.order, k)
		}
		v := custom[k]
		e.presets[k] = model.Variables{
			GrowthBoost:  math.Max(0, v.GrowthBoost),
			CostPressure: math.Max(0, v.CostPressure),
			Volatility:   math.Max(0, v.Volatility),
		}
	}
}

// Presets returns every known preset, built-ins first.
func (e *Engine) Presets() []Preset {
	out := make([]Preset, 0, len(e.order))
	for _, k := range e.order {
		out = append(out, Preset{Key: k, Variables: e.presets[k]})
	}
	return out
}

// ApplyPreset overwrites the scenario variables with a named preset.
func (e *Engine) ApplyPreset(key string) bool {
	v, ok := e.presets[key]
	if !ok {
		return false
	}
	e.state.Variables = v
	e.logf("Preset %q applied (growth %s%%, pressure %s%%, volatility %s%%)", key,
		fmtPercent(v.GrowthBoost), fmtPercent(v.CostPressure), fmtPercent(v.Volatility))
	return true
}

// SetVariable assigns one scenario variable, clamped at zero.
func (e *Engine) SetVariable(name string, value float64) bool {
	if !money.Finite(value) {
		return false
	}
	value = math.Max(0, value)
	v := &e.state.Variables
	switch name {
	case VarGrowthBoost:
		v.GrowthBoost = value
	case VarCostPressure:
		v.CostPressure = value
	case VarVolatility:
		v.Volatility = value
	default:
		return false
	}
	e.logf("Set %s to %s%%", name, fmtPercent(value))
	return true
}

// SetNote replaces the scenario note, trimmed and capped.
func (e *Engine) SetNote(note string) bool {
	note = model.CapNote(note)
	if note == e.state.ScenarioNote {
		return false
	}
	e.state.ScenarioNote = note
	return true
}
