package engine

import (
	"github.com/theirongolddev/capflow/internal/model"
	"github.com/theirongolddev/capflow/internal/money"
)

// TickResult describes what one scheduler tick did.
type TickResult struct {
	Skipped bool
	Tick    int
	Delta   float64
	Capital float64
	Event   string
}

// PerCycleContribution is the amortized per-tick value of an item. It is used
// for display and insight only; Tick never accrues fractional amounts.
func PerCycleContribution(item model.BudgetItem) float64 {
	return item.Amount * item.Multiplier / float64(max(1, item.Cadence))
}

// RuntimeDelta sums amount*multiplier over the items whose cadence aligns
// with tick. Misaligned items contribute exactly zero.
func RuntimeDelta(items []model.BudgetItem, tick int) float64 {
	var sum float64
	for _, it := range items {
		if tick%max(1, it.Cadence) == 0 {
			sum += it.Amount * it.Multiplier
		}
	}
	return sum
}

// NetDelta is one tick's capital change before it is applied.
func NetDelta(s *model.State, tick int) float64 {
	v := s.Variables
	income := RuntimeDelta(s.Incomes, tick) * (1 + v.GrowthBoost/100)
	expense := RuntimeDelta(s.Expenses, tick) * (1 + v.CostPressure/100)
	return money.Round2(money.Clamp(income) - money.Clamp(expense))
}

// Tick advances the simulation by one step. A paused engine returns a
// skipped result without touching the tick counter.
func (e *Engine) Tick() TickResult {
	s := e.state
	if !s.IsFlowing {
		return TickResult{Skipped: true, Tick: s.TickCount, Capital: s.Capital}
	}

	s.TickCount++
	res := TickResult{Tick: s.TickCount}
	res.Delta = NetDelta(s, s.TickCount)
	if res.Delta != 0 {
		e.shiftCapital(res.Delta)
		e.logf("Auto flow: %s", signed(res.Delta))
	}

	e.recordHistory()

	if e.src.Float64() < s.Variables.Volatility/500 {
		before := s.Capital
		res.Event = e.fireRandomEvent()
		if s.Capital != before {
			e.recordHistory()
		}
	}
	res.Capital = s.Capital
	return res
}
