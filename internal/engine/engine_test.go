package engine

import (
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/capflow/internal/model"
)

// seqSource replays draws in order and falls back to a value that never
// triggers an ambient event.
type seqSource struct {
	draws []float64
	pos   int
	ids   int
}

func (s *seqSource) Float64() float64 {
	if s.pos >= len(s.draws) {
		return 0.999
	}
	v := s.draws[s.pos]
	s.pos++
	return v
}

func (s *seqSource) NewID() string {
	s.ids++
	return fmt.Sprintf("id-%d", s.ids)
}

func newTestEngine(t *testing.T, draws ...float64) *Engine {
	t.Helper()
	clock := func() time.Time { return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC) }
	return New(model.NewState(), WithSource(&seqSource{draws: draws}), WithClock(clock))
}

func lastLog(t *testing.T, e *Engine) string {
	t.Helper()
	entry, ok := e.State().Logs.Last()
	if !ok {
		t.Fatal("expected a log entry")
	}
	return entry.Message
}

func TestPerCycleContribution(t *testing.T) {
	tests := []model.BudgetItem{
		{Amount: 1000, Multiplier: 1, Cadence: 1},
		{Amount: 900, Multiplier: 1.5, Cadence: 3},
		{Amount: 12.5, Multiplier: 0.1, Cadence: 7},
	}
	for _, it := range tests {
		want := it.Amount * it.Multiplier / float64(it.Cadence)
		if got := PerCycleContribution(it); got != want {
			t.Errorf("PerCycleContribution(%+v) = %v, want %v", it, got, want)
		}
	}
}

func TestRuntimeDeltaCadenceSilent(t *testing.T) {
	items := []model.BudgetItem{
		{Amount: 100, Multiplier: 1, Cadence: 3},
		{Amount: 10, Multiplier: 2, Cadence: 1},
	}
	for tick := 1; tick <= 9; tick++ {
		want := 20.0
		if tick%3 == 0 {
			want += 100
		}
		if got := RuntimeDelta(items, tick); got != want {
			t.Errorf("tick %d: RuntimeDelta = %v, want %v", tick, got, want)
		}
	}
}

func TestTickEndToEnd(t *testing.T) {
	e := newTestEngine(t)
	if _, ok := e.AddItem(model.Income, "Salary", 1000, 1, 1); !ok {
		t.Fatal("AddItem rejected a valid income")
	}
	if !e.SetVariable(VarGrowthBoost, 10) {
		t.Fatal("SetVariable rejected growthBoost")
	}

	res := e.Tick()
	if res.Skipped {
		t.Fatal("tick skipped while flowing")
	}
	if got := e.State().Capital; got != 13100 {
		t.Fatalf("capital = %v, want 13100", got)
	}
	if res.Delta != 1100 || res.Tick != 1 {
		t.Errorf("result = %+v, want delta 1100 at tick 1", res)
	}
	if !strings.Contains(lastLog(t, e), "+$1,100") {
		t.Errorf("log = %q, want auto flow line", lastLog(t, e))
	}
	if p, _ := e.State().History.Last(); p.Value != 13100 {
		t.Errorf("history tail = %v, want 13100", p.Value)
	}
}

func TestTickZeroDeltaWritesNoLog(t *testing.T) {
	e := newTestEngine(t)
	e.AddItem(model.Income, "Quarterly", 500, 1, 3)
	before := e.State().Logs.Len()
	e.Tick()
	if e.State().Logs.Len() != before {
		t.Fatalf("cadence-silent tick wrote %d log lines", e.State().Logs.Len()-before)
	}
	if e.State().History.Len() != 2 {
		t.Errorf("history len = %d, want 2 (seed + tick)", e.State().History.Len())
	}
}

func TestTickPausedSkips(t *testing.T) {
	e := newTestEngine(t)
	e.AddItem(model.Income, "Salary", 1000, 1, 1)
	e.ToggleFlow()
	res := e.Tick()
	if !res.Skipped {
		t.Fatal("expected skipped result while paused")
	}
	if e.State().TickCount != 0 || e.State().Capital != model.DefaultCapital {
		t.Errorf("paused tick mutated state: tick=%d capital=%v", e.State().TickCount, e.State().Capital)
	}
}

func TestTickNoDriftOver1000Ticks(t *testing.T) {
	e := newTestEngine(t)
	e.AddItem(model.Income, "Odd income", 33.33, 1.15, 1)
	e.AddItem(model.Expense, "Odd expense", 12.07, 1.3, 3)
	e.SetVariable(VarGrowthBoost, 7.5)
	e.SetVariable(VarCostPressure, 3.3)
	e.SetVariable(VarVolatility, 0)

	for i := 0; i < 1000; i++ {
		prev := e.State().Capital
		res := e.Tick()
		got := e.State().Capital
		cents := got * 100
		if math.Abs(cents-math.Round(cents)) > 1e-6 {
			t.Fatalf("tick %d: capital %v is not cent-rounded", res.Tick, got)
		}
		want := math.Round((prev+res.Delta)*100) / 100
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("tick %d: capital = %v, want %v", res.Tick, got, want)
		}
	}
	if n := e.State().History.Len(); n != model.HistoryCap {
		t.Errorf("history len = %d, want %d", n, model.HistoryCap)
	}
}

func TestAmbientEventFiresBelowThreshold(t *testing.T) {
	// 0.05 < 50/500, then pick windfall (index 0), then the low end of 150..600.
	e := newTestEngine(t, 0.05, 0.0, 0.0)
	e.SetVariable(VarVolatility, 50)
	res := e.Tick()
	if res.Event == "" {
		t.Fatal("expected ambient event")
	}
	if got := e.State().Capital; got != 12150 {
		t.Errorf("capital = %v, want 12150", got)
	}
	// Seed, the post-accrual point, then the event's capital change.
	got := e.State().History.Items()
	want := []model.HistoryPoint{{Value: 12000}, {Value: 12000}, {Value: 12150}}
	if len(got) != len(want) {
		t.Fatalf("history = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("history[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestAmbientEventSkippedAtThreshold(t *testing.T) {
	e := newTestEngine(t, 0.02)
	res := e.Tick()
	if res.Event != "" {
		t.Fatalf("draw equal to volatility/500 fired %q", res.Event)
	}
}

func TestEventFallbacksOnEmptyRegistries(t *testing.T) {
	tests := []struct {
		idx   int
		delta float64
	}{
		{2, 200},
		{3, -150},
		{4, 120},
		{5, -250},
		{6, -80},
	}
	for _, tt := range tests {
		t.Run(eventPool[tt.idx].name, func(t *testing.T) {
			e := newTestEngine(t)
			msg := eventPool[tt.idx].run(e)
			if msg == "" {
				t.Error("event returned an empty message")
			}
			if got := e.State().Capital; got != model.DefaultCapital+tt.delta {
				t.Errorf("capital = %v, want %v", got, model.DefaultCapital+tt.delta)
			}
		})
	}
}

func TestWindfallAndRepairRanges(t *testing.T) {
	e := newTestEngine(t, 0.9999)
	e.eventWindfall()
	if got := e.State().Capital; got != model.DefaultCapital+600 {
		t.Errorf("windfall high end = %v, want +600", got-model.DefaultCapital)
	}
	e = newTestEngine(t, 0)
	e.eventRepair()
	if got := e.State().Capital; got != model.DefaultCapital-100 {
		t.Errorf("repair low end = %v, want -100", got-model.DefaultCapital)
	}
}

func TestScheduleShuffleSwapsDistinctItems(t *testing.T) {
	e := newTestEngine(t, 0.0, 0.0)
	e.AddItem(model.Income, "Weekly", 100, 1, 7)
	e.AddItem(model.Expense, "Monthly", 100, 1, 30)
	e.eventScheduleShuffle()
	s := e.State()
	if s.Incomes[0].Cadence != 30 || s.Expenses[0].Cadence != 7 {
		t.Errorf("cadences = %d/%d, want 30/7", s.Incomes[0].Cadence, s.Expenses[0].Cadence)
	}
	if s.Capital != model.DefaultCapital {
		t.Error("shuffle with two items should not touch capital")
	}
}

func TestTriggerEventAlwaysFiresAndRecords(t *testing.T) {
	e := newTestEngine(t, 0.0, 0.5)
	msg := e.TriggerEvent()
	if !strings.HasPrefix(msg, "Windfall") {
		t.Fatalf("message = %q, want windfall", msg)
	}
	if lastLog(t, e) != msg {
		t.Errorf("event not logged")
	}
	if e.State().History.Len() != 2 {
		t.Errorf("history len = %d, want 2", e.State().History.Len())
	}
}

func TestPulseTrimWithoutExpenses(t *testing.T) {
	e := newTestEngine(t)
	if !e.Pulse(PulseTrim) {
		t.Fatal("trim rejected")
	}
	if got := e.State().Capital; got != model.DefaultCapital+300 {
		t.Fatalf("capital = %v, want %v", got, model.DefaultCapital+300)
	}
	if !strings.Contains(strings.ToLower(lastLog(t, e)), "trim") {
		t.Errorf("log = %q, want a trim message", lastLog(t, e))
	}
}

func TestPulseTrimCutsEveryExpense(t *testing.T) {
	e := newTestEngine(t)
	e.AddItem(model.Expense, "Rent", 1000, 1, 1)
	e.AddItem(model.Expense, "Food", 250, 1, 1)
	e.Pulse(PulseTrim)
	s := e.State()
	if s.Expenses[0].Amount != 920 || s.Expenses[1].Amount != 230 {
		t.Errorf("amounts = %v/%v, want 920/230", s.Expenses[0].Amount, s.Expenses[1].Amount)
	}
	if s.Capital != model.DefaultCapital {
		t.Error("trim with expenses should not touch capital")
	}
}

func TestPulseBoost(t *testing.T) {
	e := newTestEngine(t)
	e.Pulse(PulseBoost)
	s := e.State()
	if len(s.Incomes) != 1 || s.Incomes[0].Name != "Side gig" || s.Incomes[0].Amount != 250 {
		t.Fatalf("incomes = %+v, want a Side gig at 250", s.Incomes)
	}
	e.Pulse(PulseBoost)
	if got := s.Incomes[0].Amount; got != 312.5 {
		t.Errorf("boosted amount = %v, want 312.5", got)
	}
}

func TestPulseShockClampsVolatility(t *testing.T) {
	e := newTestEngine(t, 0.0, 0.0)
	e.SetVariable(VarVolatility, 55)
	logsBefore := e.State().Logs.Len()
	e.Pulse(PulseShock)
	if got := e.State().Variables.Volatility; got != MaxShockVolatility {
		t.Errorf("volatility = %v, want %v", got, MaxShockVolatility)
	}
	if e.State().Logs.Len() != logsBefore+2 {
		t.Errorf("shock wrote %d lines, want shock + event", e.State().Logs.Len()-logsBefore)
	}
	if e.Pulse("unknown") {
		t.Error("unknown pulse should be a no-op")
	}
}

func TestSeededSourceIsReproducible(t *testing.T) {
	a, b := NewSource(42), NewSource(42)
	for i := 0; i < 5; i++ {
		if a.Float64() != b.Float64() {
			t.Fatal("seeded draws diverged")
		}
	}
	if a.NewID() != b.NewID() {
		t.Fatal("seeded ids diverged")
	}
	f := NewSource(7).Float64()
	if f < 0 || f >= 1 {
		t.Fatalf("draw %v outside [0,1)", f)
	}
}

func TestResetReplacesState(t *testing.T) {
	e := newTestEngine(t)
	e.AddItem(model.Income, "Salary", 1000, 1, 1)
	e.Tick()
	old := e.State()
	e.Reset()
	s := e.State()
	if s == old {
		t.Fatal("Reset should replace the state wholesale")
	}
	if s.Capital != model.DefaultCapital || len(s.Incomes) != 0 || s.TickCount != 0 {
		t.Errorf("state not reset: %+v", s)
	}
	if lastLog(t, e) != "Sandbox reset" {
		t.Errorf("log = %q, want Sandbox reset", lastLog(t, e))
	}
	if s.History.Len() != 1 {
		t.Errorf("history len = %d, want seeded point", s.History.Len())
	}
}

func TestAdjustCapital(t *testing.T) {
	e := newTestEngine(t)
	if e.AdjustCapital(0, "nothing") || e.AdjustCapital(math.NaN(), "nan") {
		t.Fatal("zero and NaN adjustments should be rejected")
	}
	if !e.AdjustCapital(-500.555, "") {
		t.Fatal("valid adjustment rejected")
	}
	if got := e.State().Capital; got != 11499.44 {
		t.Errorf("capital = %v, want 11499.44", got)
	}
	if !strings.HasPrefix(lastLog(t, e), "Manual adjustment: -$") {
		t.Errorf("log = %q", lastLog(t, e))
	}
	if e.State().History.Len() != 2 {
		t.Errorf("history len = %d, want 2", e.State().History.Len())
	}
	tx, ok := e.State().Ledger.Last()
	if !ok {
		t.Fatal("adjustment not recorded in the ledger")
	}
	if tx.Type != model.Expense || tx.Amount != 500.56 || tx.Name != "Manual adjustment" {
		t.Errorf("ledger entry = %+v", tx)
	}
	if tx.Signed() != -500.56 {
		t.Errorf("Signed = %v, want -500.56", tx.Signed())
	}
}

func TestSetTickInterval(t *testing.T) {
	e := newTestEngine(t)
	if e.SetTickInterval(0) || e.SetTickInterval(-10) {
		t.Error("non-positive interval accepted")
	}
	if !e.SetTickInterval(500) || e.State().TickInterval != 500 {
		t.Error("valid interval rejected")
	}
}

func TestClearLogs(t *testing.T) {
	e := newTestEngine(t)
	if e.ClearLogs() {
		t.Error("clearing an empty feed should report no change")
	}
	e.AdjustCapital(10, "tip")
	if !e.ClearLogs() || e.State().Logs.Len() != 0 {
		t.Error("logs not cleared")
	}
}
