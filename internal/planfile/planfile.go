// Package planfile reads and writes YAML scenario plans: budget items,
// scenario variables and custom presets that can be shared between sandboxes.
package planfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/theirongolddev/capflow/internal/engine"
	"github.com/theirongolddev/capflow/internal/model"

	"gopkg.in/yaml.v3"
)

// Plan is the YAML document.
type Plan struct {
	Note      string               `yaml:"note,omitempty"`
	Variables *Variables           `yaml:"variables,omitempty"`
	Incomes   []Item               `yaml:"incomes,omitempty"`
	Expenses  []Item               `yaml:"expenses,omitempty"`
	Presets   map[string]Variables `yaml:"presets,omitempty"`
}

// Variables mirrors model.Variables with snake_case keys.
type Variables struct {
	GrowthBoost  float64 `yaml:"growth_boost"`
	CostPressure float64 `yaml:"cost_pressure"`
	Volatility   float64 `yaml:"volatility"`
}

// Item is one budget stream. Zero multiplier or cadence means 1.
type Item struct {
	Name       string  `yaml:"name"`
	Amount     float64 `yaml:"amount"`
	Multiplier float64 `yaml:"multiplier,omitempty"`
	Cadence    int     `yaml:"cadence,omitempty"`
}

func (v Variables) model() model.Variables {
	return model.Variables{GrowthBoost: v.GrowthBoost, CostPressure: v.CostPressure, Volatility: v.Volatility}
}

func fromModel(v model.Variables) Variables {
	return Variables{GrowthBoost: v.GrowthBoost, CostPressure: v.CostPressure, Volatility: v.Volatility}
}

// Load reads a plan file.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan: %w", err)
	}
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing plan: %w", err)
	}
	return &p, nil
}

// LoadPresets reads only the presets section. A missing file yields none.
func LoadPresets(path string) (map[string]model.Variables, error) {
	if path == "" {
		return nil, nil
	}
	p, err := Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return p.CustomPresets(), nil
}

// Save writes p to path.
func Save(path string, p *Plan) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating plan dir: %w", err)
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding plan: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing plan: %w", err)
	}
	return nil
}

// Encode writes p as YAML to w.
func Encode(w io.Writer, p *Plan) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encoding plan: %w", err)
	}
	return enc.Close()
}

// CustomPresets converts the presets section.
func (p *Plan) CustomPresets() map[string]model.Variables {
	if len(p.Presets) == 0 {
		return nil
	}
	out := make(map[string]model.Variables, len(p.Presets))
	for k, v := range p.Presets {
		out[k] = v.model()
	}
	return out
}

// FromState captures the registries, variables and note of s. Presets that
// are not built in are exported too.
func FromState(s *model.State, presets []engine.Preset) *Plan {
	vars := fromModel(s.Variables)
	p := &Plan{Note: s.ScenarioNote, Variables: &vars}
	for _, it := range s.Incomes {
		p.Incomes = append(p.Incomes, Item{Name: it.Name, Amount: it.Amount, Multiplier: it.Multiplier, Cadence: it.Cadence})
	}
	for _, it := range s.Expenses {
		p.Expenses = append(p.Expenses, Item{Name: it.Name, Amount: it.Amount, Multiplier: it.Multiplier, Cadence: it.Cadence})
	}
	for _, pr := range presets {
		if engine.IsBuiltinPreset(pr.Key) {
			continue
		}
		if p.Presets == nil {
			p.Presets = make(map[string]Variables)
		}
		p.Presets[pr.Key] = fromModel(pr.Variables)
	}
	return p
}

// Result counts what Apply changed.
type Result struct {
	Added   int
	Skipped int
	Removed int
	Presets int
}

// Apply feeds the plan through the engine. With replace set, existing items
// are removed first. Items with a non-positive amount are skipped.
func (p *Plan) Apply(e *engine.Engine, replace bool) Result {
	var res Result
	if replace {
		s := e.State()
		for _, kind := range []model.Kind{model.Income, model.Expense} {
			for _, it := range model.CloneItems(*s.Items(kind)) {
				if e.RemoveItem(kind, it.ID) {
					res.Removed++
				}
			}
		}
	}

	add := func(kind model.Kind, items []Item) {
		for _, it := range items {
			mult := it.Multiplier
			if mult == 0 {
				mult = 1
			}
			cadence := it.Cadence
			if cadence == 0 {
				cadence = 1
			}
			if _, ok := e.AddItem(kind, it.Name, it.Amount, mult, float64(cadence)); ok {
				res.Added++
			} else {
				res.Skipped++
			}
		}
	}
	add(model.Income, p.Incomes)
	add(model.Expense, p.Expenses)

	if p.Variables != nil {
		v := *p.Variables
		e.SetVariable(engine.VarGrowthBoost, v.GrowthBoost)
		e.SetVariable(engine.VarCostPressure, v.CostPressure)
		e.SetVariable(engine.VarVolatility, v.Volatility)
	}
	if p.Note != "" {
		e.SetNote(p.Note)
	}
	if custom := p.CustomPresets(); len(custom) > 0 {
		e.MergePresets(custom)
		res.Presets = len(custom)
	}
	return res
}

// PresetKeys returns the plan's preset names in sorted order.
func (p *Plan) PresetKeys() []string {
	keys := make([]string, 0, len(p.Presets))
	for k := range p.Presets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
