package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/theirongolddev/capflow/internal/money"
)

// wireState is the persisted JSON form. Pointer fields distinguish "missing"
// from "zero" so defaults can be merged in.
type wireState struct {
	Capital      *float64       `json:"capital"`
	Incomes      []BudgetItem   `json:"incomes"`
	Expenses     []BudgetItem   `json:"expenses"`
	Variables    *wireVariables `json:"variables"`
	History      []HistoryPoint `json:"history"`
	Logs         []LogEntry     `json:"logs"`
	Snapshots    []Snapshot     `json:"snapshots"`
	Transactions []Transaction  `json:"transactions"`
	Events       []CustomEvent  `json:"events"`
	TickCount    *int           `json:"tickCount"`
	TickInterval *float64       `json:"tickInterval"`
	IsFlowing    *bool          `json:"isFlowing"`
	ScenarioNote *string        `json:"scenarioNote"`
}

type wireVariables struct {
	GrowthBoost  *float64 `json:"growthBoost"`
	CostPressure *float64 `json:"costPressure"`
	Volatility   *float64 `json:"volatility"`
}

// MarshalJSON encodes the state in its persisted camelCase form.
func (s *State) MarshalJSON() ([]byte, error) {
	vars := s.Variables
	capital := s.Capital
	tickCount := s.TickCount
	interval := float64(s.TickInterval)
	flowing := s.IsFlowing
	note := s.ScenarioNote
	return json.Marshal(wireState{
		Capital:  &capital,
		Incomes:  CloneItems(s.Incomes),
		Expenses: CloneItems(s.Expenses),
		Variables: &wireVariables{
			GrowthBoost:  &vars.GrowthBoost,
			CostPressure: &vars.CostPressure,
			Volatility:   &vars.Volatility,
		},
		History:      s.History.Items(),
		Logs:         s.Logs.Items(),
		Snapshots:    s.Snapshots.Items(),
		Transactions: s.Ledger.Items(),
		Events:       append([]CustomEvent{}, s.CustomEvents...),
		TickCount:    &tickCount,
		TickInterval: &interval,
		IsFlowing:    &flowing,
		ScenarioNote: &note,
	})
}

// Decode parses a persisted blob. Malformed input is an error; the caller
// decides whether to fall back to NewState.
func Decode(data []byte) (*State, error) {
	var w wireState
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decoding state: %w", err)
	}
	return merge(&w), nil
}

// Encode serializes s to its persisted form.
func Encode(s *State) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding state: %w", err)
	}
	return data, nil
}

func merge(w *wireState) *State {
	s := NewState()

	if w.Capital != nil && money.Finite(*w.Capital) {
		s.Capital = money.Round2(money.Clamp(*w.Capital))
	}
	if w.Variables != nil {
		s.Variables.GrowthBoost = mergeVar(w.Variables.GrowthBoost, s.Variables.GrowthBoost)
		s.Variables.CostPressure = mergeVar(w.Variables.CostPressure, s.Variables.CostPressure)
		s.Variables.Volatility = mergeVar(w.Variables.Volatility, s.Variables.Volatility)
	}
	if w.TickCount != nil && *w.TickCount >= 0 {
		s.TickCount = *w.TickCount
	}
	if w.TickInterval != nil && money.Finite(*w.TickInterval) && *w.TickInterval >= 1 {
		s.TickInterval = int(math.Round(*w.TickInterval))
	}
	if w.IsFlowing != nil {
		s.IsFlowing = *w.IsFlowing
	}
	if w.ScenarioNote != nil {
		s.ScenarioNote = CapNote(*w.ScenarioNote)
	}

	seen := make(map[string]bool)
	s.Incomes = sanitizeItems(w.Incomes, Income, seen)
	s.Expenses = sanitizeItems(w.Expenses, Expense, seen)

	s.Logs.Reset(w.Logs)
	snaps := make([]Snapshot, 0, len(w.Snapshots))
	for _, snap := range w.Snapshots {
		snapSeen := make(map[string]bool)
		snap.Incomes = sanitizeItems(snap.Incomes, Income, snapSeen)
		snap.Expenses = sanitizeItems(snap.Expenses, Expense, snapSeen)
		if !money.Finite(snap.Capital) {
			snap.Capital = DefaultCapital
		}
		snap.Capital = money.Round2(money.Clamp(snap.Capital))
		snap.Variables = clampVariables(snap.Variables)
		if snap.ID == "" {
			snap.ID = uuid.NewString()
		}
		snaps = append(snaps, snap)
	}
	s.Snapshots.Reset(snaps)

	s.Ledger.Reset(sanitizeLedger(w.Transactions))
	s.CustomEvents = sanitizeCustomEvents(w.Events)

	history := make([]HistoryPoint, 0, len(w.History))
	for _, p := range w.History {
		if money.Finite(p.Value) {
			history = append(history, p)
		}
	}
	if len(history) == 0 {
		s.SeedHistory()
	} else {
		s.History.Reset(history)
	}
	return s
}

func mergeVar(v *float64, def float64) float64 {
	if v == nil || !money.Finite(*v) {
		return def
	}
	return math.Max(0, *v)
}

func clampVariables(v Variables) Variables {
	def := DefaultVariables()
	return Variables{
		GrowthBoost:  mergeVar(&v.GrowthBoost, def.GrowthBoost),
		CostPressure: mergeVar(&v.CostPressure, def.CostPressure),
		Volatility:   mergeVar(&v.Volatility, def.Volatility),
	}
}

// sanitizeItems clamps persisted items into their valid ranges and replaces
// empty or duplicate ids.
func sanitizeItems(items []BudgetItem, kind Kind, seen map[string]bool) []BudgetItem {
	out := make([]BudgetItem, 0, len(items))
	for _, it := range items {
		it.Type = kind
		if !money.Finite(it.Amount) || it.Amount < 0 {
			it.Amount = 0
		}
		it.Amount = money.Clamp(it.Amount)
		it.Multiplier = ClampMultiplier(it.Multiplier)
		it.Cadence = min(max(it.Cadence, 1), MaxCadence)
		if strings.TrimSpace(it.Name) == "" {
			it.Name = DefaultName(kind)
		}
		if it.ID == "" || seen[it.ID] {
			it.ID = uuid.NewString()
		}
		seen[it.ID] = true
		out = append(out, it)
	}
	return out
}

// ClampMultiplier floors m at 0.1; non-finite values become 1.
func ClampMultiplier(m float64) float64 {
	if !money.Finite(m) {
		return 1
	}
	return math.Max(0.1, m)
}

// ClampCadence rounds c to the nearest integer within [1, MaxCadence].
func ClampCadence(c float64) int {
	if !money.Finite(c) {
		return 1
	}
	r := math.Round(c)
	if r < 1 {
		return 1
	}
	if r > MaxCadence {
		return MaxCadence
	}
	return int(r)
}

// DefaultName is the name given to items created without one.
func DefaultName(kind Kind) string {
	return "Untitled " + kind.Label()
}

// CapNote trims surrounding whitespace and truncates to NoteMaxRunes runes.
func CapNote(note string) string {
	note = strings.TrimSpace(note)
	if utf8.RuneCountInString(note) <= NoteMaxRunes {
		return note
	}
	return string([]rune(note)[:NoteMaxRunes])
}

// sanitizeLedger drops transactions that could not have been recorded.
func sanitizeLedger(txs []Transaction) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if !tx.Type.Valid() || !money.Finite(tx.Amount) || tx.Amount <= 0 {
			continue
		}
		tx.Amount = money.Clamp(tx.Amount)
		out = append(out, tx)
	}
	return out
}

// sanitizeCustomEvents keeps the first CustomEventCap valid events with
// unique ids.
func sanitizeCustomEvents(events []CustomEvent) []CustomEvent {
	out := make([]CustomEvent, 0, len(events))
	seen := make(map[string]bool)
	for _, ev := range events {
		if len(out) == CustomEventCap {
			break
		}
		ev.Title = strings.TrimSpace(ev.Title)
		if ev.Title == "" || !money.Finite(ev.Value) || ev.Value <= 0 {
			continue
		}
		ev.Value = money.Round2(money.Clamp(ev.Value))
		if ev.Impact != Decrease {
			ev.Impact = Increase
		}
		ev.Note = CapNote(ev.Note)
		if ev.ID == "" || seen[ev.ID] {
			ev.ID = uuid.NewString()
		}
		seen[ev.ID] = true
		out = append(out, ev)
	}
	return out
}
