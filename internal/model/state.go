// Package model defines the capflow simulation state and its persisted form.
package model

import (
	"math"
	"time"

	"github.com/theirongolddev/capflow/internal/ring"
)

// Buffer capacities and defaults.
const (
	HistoryCap     = 240
	LogCap         = 120
	SnapshotCap    = 8
	LedgerCap      = 200
	CustomEventCap = 32

	NoteMaxRunes = 280
	MaxCadence   = math.MaxInt32

	DefaultCapital      = 12000.0
	DefaultTickInterval = 2000
	DefaultVolatility   = 10.0
)

// Kind distinguishes the two budget registries.
type Kind string

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

// Label returns the human name of the kind.
func (k Kind) Label() string {
	if k == Expense {
		return "expense"
	}
	return "income"
}

// Valid reports whether k names one of the two registries.
func (k Kind) Valid() bool { return k == Income || k == Expense }

// BudgetItem is one recurring income or expense stream.
type BudgetItem struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	Multiplier float64 `json:"multiplier"`
	Cadence    int     `json:"cadence"`
	Type       Kind    `json:"type"`
}

// Variables are the global scenario modifiers, expressed as percentages.
type Variables struct {
	GrowthBoost  float64 `json:"growthBoost"`
	CostPressure float64 `json:"costPressure"`
	Volatility   float64 `json:"volatility"`
}

// DefaultVariables returns the built-in scenario variables.
func DefaultVariables() Variables {
	return Variables{Volatility: DefaultVolatility}
}

// HistoryPoint is one sample of the capital time series.
type HistoryPoint struct {
	Value float64 `json:"value"`
}

// LogEntry is one line of the simulation feed.
type LogEntry struct {
	Message string `json:"message"`
	Time    string `json:"time"`
}

// Transaction is one manual capital change recorded in the ledger. Amount is
// always positive; Type carries the direction.
type Transaction struct {
	ID     string    `json:"id"`
	Type   Kind      `json:"type"`
	Name   string    `json:"name"`
	Amount float64   `json:"amount"`
	At     time.Time `json:"timestamp"`
}

// Signed returns the transaction's effect on capital.
func (t Transaction) Signed() float64 {
	if t.Type == Expense {
		return -t.Amount
	}
	return t.Amount
}

// Impact is the direction a custom event moves capital.
type Impact string

const (
	Increase Impact = "increase"
	Decrease Impact = "decrease"
)

// CustomEvent is a user-authored event that joins the random event pool.
type CustomEvent struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Value   float64   `json:"value"`
	Impact  Impact    `json:"impact"`
	Note    string    `json:"note"`
	Created time.Time `json:"timestamp"`
}

// Delta returns the capital change the event applies when it fires.
func (c CustomEvent) Delta() float64 {
	if c.Impact == Decrease {
		return -c.Value
	}
	return c.Value
}

// Snapshot is an immutable copy of the mutable simulation fields.
type Snapshot struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Capital   float64      `json:"capital"`
	Variables Variables    `json:"variables"`
	Incomes   []BudgetItem `json:"incomes"`
	Expenses  []BudgetItem `json:"expenses"`
	Meta      string       `json:"meta"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	s.Incomes = CloneItems(s.Incomes)
	s.Expenses = CloneItems(s.Expenses)
	return s
}

// State is the whole simulation. It is owned by a single goroutine.
type State struct {
	Capital      float64
	Incomes      []BudgetItem
	Expenses     []BudgetItem
	Variables    Variables
	History      *ring.Buffer[HistoryPoint]
	Logs         *ring.Buffer[LogEntry]
	Snapshots    *ring.Buffer[Snapshot]
	Ledger       *ring.Buffer[Transaction]
	CustomEvents []CustomEvent
	TickCount    int
	TickInterval int
	IsFlowing    bool
	ScenarioNote string
}

// NewState returns a fresh default state with history seeded by the
// starting capital.
func NewState() *State {
	s := &State{
		Capital:      DefaultCapital,
		Incomes:      []BudgetItem{},
		Expenses:     []BudgetItem{},
		Variables:    DefaultVariables(),
		History:      ring.New[HistoryPoint](HistoryCap),
		Logs:         ring.New[LogEntry](LogCap),
		Snapshots:    ring.New[Snapshot](SnapshotCap),
		Ledger:       ring.New[Transaction](LedgerCap),
		CustomEvents: []CustomEvent{},
		TickInterval: DefaultTickInterval,
		IsFlowing:    true,
	}
	s.SeedHistory()
	return s
}

// SeedHistory resets the history to a single point at the current capital.
func (s *State) SeedHistory() {
	s.History.Reset([]HistoryPoint{{Value: s.Capital}})
}

// Items returns a pointer to the registry for kind.
func (s *State) Items(kind Kind) *[]BudgetItem {
	if kind == Expense {
		return &s.Expenses
	}
	return &s.Incomes
}

// ItemCount returns the number of live budget items across both registries.
func (s *State) ItemCount() int {
	return len(s.Incomes) + len(s.Expenses)
}

// FindItem returns the index of id in the registry for kind, or -1.
func (s *State) FindItem(kind Kind, id string) int {
	for i, it := range *s.Items(kind) {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// HasID reports whether any live item or snapshot already uses id.
func (s *State) HasID(id string) bool {
	if s.FindItem(Income, id) >= 0 || s.FindItem(Expense, id) >= 0 {
		return true
	}
	for _, snap := range s.Snapshots.Items() {
		if snap.ID == id {
			return true
		}
	}
	return s.FindCustomEvent(id) >= 0
}

// FindCustomEvent returns the index of id among the custom events, or -1.
func (s *State) FindCustomEvent(id string) int {
	for i, ev := range s.CustomEvents {
		if ev.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the whole state. Nothing in the copy aliases s.
func (s *State) Clone() *State {
	c := *s
	c.Incomes = CloneItems(s.Incomes)
	c.Expenses = CloneItems(s.Expenses)
	c.History = ring.New[HistoryPoint](HistoryCap)
	c.History.Reset(s.History.Items())
	c.Logs = ring.New[LogEntry](LogCap)
	c.Logs.Reset(s.Logs.Items())
	snaps := s.Snapshots.Items()
	for i := range snaps {
		snaps[i] = snaps[i].Clone()
	}
	c.Snapshots = ring.New[Snapshot](SnapshotCap)
	c.Snapshots.Reset(snaps)
	c.Ledger = ring.New[Transaction](LedgerCap)
	c.Ledger.Reset(s.Ledger.Items())
	c.CustomEvents = append([]CustomEvent{}, s.CustomEvents...)
	return &c
}

// CloneItems returns a copy of items that shares no backing array with it.
// A nil input yields an empty, non-nil slice.
func CloneItems(items []BudgetItem) []BudgetItem {
	out := make([]BudgetItem, len(items))
	copy(out, items)
	return out
}
