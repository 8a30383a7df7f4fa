package engine

import (
	"fmt"
	"math"

	"github.com/theirongolddev/capflow/internal/model"
	"github.com/theirongolddev/capflow/internal/money"
)

// Pulse actions.
const (
	PulseBoost = "boost"
	PulseTrim  = "trim"
	PulseShock = "shock"
)

// MaxShockVolatility caps volatility after a shock pulse.
const MaxShockVolatility = 60.0

// event mutates the state and describes what happened. Every event must
// handle empty registries with a capital-only fallback.
type event struct {
	name string
	run  func(e *Engine) string
}

var eventPool = []event{
	{"windfall", (*Engine).eventWindfall},
	{"repair", (*Engine).eventRepair},
	{"income-upgrade", (*Engine).eventIncomeUpgrade},
	{"expense-relief", (*Engine).eventExpenseRelief},
	{"momentum", (*Engine).eventMomentum},
	{"cost-spike", (*Engine).eventCostSpike},
	{"schedule-shuffle", (*Engine).eventScheduleShuffle},
}

// EventNames lists the built-in pool in selection order.
func EventNames() []string {
	names := make([]string, len(eventPool))
	for i, ev := range eventPool {
		names[i] = ev.name
	}
	return names
}

// fireRandomEvent runs one uniformly chosen event and logs its message.
// Custom events share the draw with the built-in pool, after it.
// It does not append history; callers decide when a point is recorded.
func (e *Engine) fireRandomEvent() string {
	idx := pickIndex(e.src, len(eventPool)+len(e.state.CustomEvents))
	if idx >= len(eventPool) {
		return e.fireCustomEvent(e.state.CustomEvents[idx-len(eventPool)])
	}
	ev := eventPool[idx]
	msg := ev.run(e)
	e.logf("%s", msg)
	e.logger.Info("event fired", "event", ev.name, "tick", e.state.TickCount)
	return msg
}

// TriggerEvent fires one random event unconditionally.
func (e *Engine) TriggerEvent() string {
	before := e.state.Capital
	msg := e.fireRandomEvent()
	if e.state.Capital != before {
		e.recordHistory()
	}
	return msg
}

// Pulse applies one of the hand-authored scenario nudges.
func (e *Engine) Pulse(action string) bool {
	before := e.state.Capital
	switch action {
	case PulseBoost:
		e.pulseBoost()
	case PulseTrim:
		e.pulseTrim()
	case PulseShock:
		v := &e.state.Variables
		v.Volatility = math.Min(v.Volatility+10, MaxShockVolatility)
		e.logf("Shock: volatility now %s%%", fmtPercent(v.Volatility))
		e.fireRandomEvent()
	default:
		return false
	}
	if e.state.Capital != before {
		e.recordHistory()
	}
	return true
}

func (e *Engine) pulseBoost() {
	s := e.state
	if len(s.Incomes) == 0 {
		item := model.BudgetItem{
			ID:         e.newID(),
			Name:       "Side gig",
			Amount:     250,
			Multiplier: 1,
			Cadence:    1,
			Type:       model.Income,
		}
		s.Incomes = append(s.Incomes, item)
		e.logf("Boost: started %q at %s every tick", item.Name, formatAmount(item.Amount))
		return
	}
	it := &s.Incomes[pickIndex(e.src, len(s.Incomes))]
	it.Amount = money.Scale(it.Amount, 1.25)
	e.logf("Boost: %q amount raised 25%% to %s", it.Name, formatAmount(it.Amount))
}

func (e *Engine) pulseTrim() {
	s := e.state
	if len(s.Expenses) == 0 {
		e.shiftCapital(300)
		e.logf("Trim: no expenses to cut, capital %s", signed(300))
		return
	}
	for i := range s.Expenses {
		s.Expenses[i].Amount = money.Scale(s.Expenses[i].Amount, 0.92)
	}
	e.logf("Trim: %d expenses cut by 8%%", len(s.Expenses))
}

func (e *Engine) eventWindfall() string {
	amount := float64(randomBetween(e.src, 150, 600))
	e.shiftCapital(amount)
	return fmt.Sprintf("Windfall: unexpected bonus %s", signed(amount))
}

func (e *Engine) eventRepair() string {
	amount := float64(randomBetween(e.src, 100, 400))
	e.shiftCapital(-amount)
	return fmt.Sprintf("Emergency repair: %s", signed(-amount))
}

func (e *Engine) eventIncomeUpgrade() string {
	s := e.state
	if len(s.Incomes) == 0 {
		e.shiftCapital(200)
		return fmt.Sprintf("Freelance gig paid out %s", signed(200))
	}
	it := &s.Incomes[pickIndex(e.src, len(s.Incomes))]
	it.Amount = money.Scale(it.Amount, 1.15)
	return fmt.Sprintf("Raise: %q now pays %s", it.Name, formatAmount(it.Amount))
}

func (e *Engine) eventExpenseRelief() string {
	s := e.state
	if len(s.Expenses) == 0 {
		e.shiftCapital(-150)
		return fmt.Sprintf("Surprise fee: %s", signed(-150))
	}
	it := &s.Expenses[pickIndex(e.src, len(s.Expenses))]
	it.Amount = money.Scale(it.Amount, 0.9)
	return fmt.Sprintf("Negotiated discount: %q down to %s", it.Name, formatAmount(it.Amount))
}

func (e *Engine) eventMomentum() string {
	s := e.state
	if len(s.Incomes) == 0 {
		e.shiftCapital(120)
		return fmt.Sprintf("Small win: %s", signed(120))
	}
	it := &s.Incomes[pickIndex(e.src, len(s.Incomes))]
	it.Multiplier = money.Round2(it.Multiplier + 0.25)
	return fmt.Sprintf("Momentum: %q multiplier now %s", it.Name, formatFactor(it.Multiplier))
}

func (e *Engine) eventCostSpike() string {
	s := e.state
	if len(s.Expenses) == 0 {
		e.shiftCapital(-250)
		return fmt.Sprintf("Unplanned purchase: %s", signed(-250))
	}
	it := &s.Expenses[pickIndex(e.src, len(s.Expenses))]
	it.Amount = money.Scale(it.Amount, 1.2)
	return fmt.Sprintf("Cost spike: %q jumped to %s", it.Name, formatAmount(it.Amount))
}

func (e *Engine) eventScheduleShuffle() string {
	s := e.state
	refs := make([]*model.BudgetItem, 0, s.ItemCount())
	for i := range s.Incomes {
		refs = append(refs, &s.Incomes[i])
	}
	for i := range s.Expenses {
		refs = append(refs, &s.Expenses[i])
	}
	if len(refs) < 2 {
		e.shiftCapital(-80)
		return fmt.Sprintf("Late fee: %s", signed(-80))
	}
	i := pickIndex(e.src, len(refs))
	j := pickIndex(e.src, len(refs)-1)
	if j >= i {
		j++
	}
	a, b := refs[i], refs[j]
	a.Cadence, b.Cadence = b.Cadence, a.Cadence
	return fmt.Sprintf("Schedule shuffle: %q and %q swapped cadence", a.Name, b.Name)
}

func fmtPercent(v float64) string {
	return money.FormatPlain(v)
}
