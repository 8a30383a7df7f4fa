package engine

import (
	"math"
	"strings"

	"github.com/theirongolddev/capflow/internal/model"
	"github.com/theirongolddev/capflow/internal/money"
)

// QuickDeltas are the one-key capital adjustments offered by the dashboard.
var QuickDeltas = []float64{-1000, -500, -100, 100, 500, 1000}

// AdjustCapital applies a manual capital change. Zero and non-finite deltas
// are rejected.
func (e *Engine) AdjustCapital(delta float64, reason string) bool {
	if !money.Finite(delta) || money.Round2(delta) == 0 {
		return false
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "Manual adjustment"
	}
	delta = money.Round2(money.Clamp(delta))
	e.shiftCapital(delta)
	e.logf("%s: %s", reason, signed(delta))
	e.recordHistory()
	e.recordTransaction(delta, reason)
	return true
}

func (e *Engine) recordTransaction(delta float64, name string) {
	kind := model.Income
	if delta < 0 {
		kind = model.Expense
	}
	e.state.Ledger.Push(model.Transaction{
		ID:     e.newID(),
		Type:   kind,
		Name:   name,
		Amount: math.Abs(delta),
		At:     e.now(),
	})
}

// ClearLogs empties the simulation feed.
func (e *Engine) ClearLogs() bool {
	if e.state.Logs.Len() == 0 {
		return false
	}
	e.state.Logs.Clear()
	return true
}

// ToggleFlow pauses or resumes accrual and reports the new flowing state.
func (e *Engine) ToggleFlow() bool {
	s := e.state
	s.IsFlowing = !s.IsFlowing
	if s.IsFlowing {
		e.logf("Auto flow resumed")
	} else {
		e.logf("Auto flow paused")
	}
	return s.IsFlowing
}

// SetTickInterval changes the scheduler period in milliseconds.
func (e *Engine) SetTickInterval(ms int) bool {
	if ms <= 0 || ms == e.state.TickInterval {
		return false
	}
	e.state.TickInterval = ms
	return true
}

// Reset replaces the whole state with fresh defaults.
func (e *Engine) Reset() {
	e.state = model.NewState()
	e.logf("Sandbox reset")
}
