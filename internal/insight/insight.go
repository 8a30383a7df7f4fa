// Package insight derives summary metrics from a simulation state. Nothing
// here mutates state or is stored; every value is recomputed on demand.
package insight

import (
	"fmt"
	"math"

	"github.com/theirongolddev/capflow/internal/engine"
	"github.com/theirongolddev/capflow/internal/model"
)

// TrendWindow is the number of recent history points Trend looks at.
const TrendWindow = 8

// Totals are per-cycle flows with the scenario modifiers applied.
type Totals struct {
	Income  float64
	Expense float64
	Net     float64
}

// Runway is the number of ticks until capital reaches zero at the current
// net flow. Unbounded means the net flow is not negative.
type Runway struct {
	Ticks     int
	Unbounded bool
}

func (r Runway) String() string {
	if r.Unbounded {
		return "∞"
	}
	if r.Ticks == 1 {
		return "1 tick"
	}
	return fmt.Sprintf("%d ticks", r.Ticks)
}

// Report bundles every metric for one render.
type Report struct {
	Totals    Totals
	Trend     float64
	Coverage  float64
	Runway    Runway
	LastDelta float64
}

// Summarize computes all metrics for s.
func Summarize(s *model.State) Report {
	t := ComputeTotals(s)
	history := engine.HistoryValues(s)
	return Report{
		Totals:    t,
		Trend:     Trend(history),
		Coverage:  Coverage(t.Income, t.Expense),
		Runway:    ComputeRunway(s.Capital, t.Net),
		LastDelta: LastDelta(history),
	}
}

// ComputeTotals sums per-cycle contributions and applies growth boost to
// income and cost pressure to expenses.
func ComputeTotals(s *model.State) Totals {
	var in, out float64
	for _, it := range s.Incomes {
		in += engine.PerCycleContribution(it)
	}
	for _, it := range s.Expenses {
		out += engine.PerCycleContribution(it)
	}
	in *= 1 + s.Variables.GrowthBoost/100
	out *= 1 + s.Variables.CostPressure/100
	return Totals{Income: in, Expense: out, Net: in - out}
}

// Trend is last minus first over the most recent TrendWindow points.
func Trend(history []float64) float64 {
	if len(history) > TrendWindow {
		history = history[len(history)-TrendWindow:]
	}
	if len(history) < 2 {
		return 0
	}
	return history[len(history)-1] - history[0]
}

// Coverage is income over expense. Zero expense yields +Inf when there is
// income and 0 when there is none.
func Coverage(income, expense float64) float64 {
	if expense == 0 {
		if income == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return income / expense
}

// ComputeRunway returns the ticks of runway left at the given net flow.
func ComputeRunway(capital, net float64) Runway {
	if capital <= 0 {
		return Runway{}
	}
	if net >= 0 {
		return Runway{Unbounded: true}
	}
	ticks := math.Floor(capital / math.Abs(net))
	if ticks >= math.MaxInt {
		return Runway{Ticks: math.MaxInt}
	}
	return Runway{Ticks: int(ticks)}
}

// LastDelta is the difference between the two newest history points.
func LastDelta(history []float64) float64 {
	if len(history) < 2 {
		return 0
	}
	return history[len(history)-1] - history[len(history)-2]
}
