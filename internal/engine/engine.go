// Package engine implements the capflow simulation: the budget registry,
// per-tick accrual, random events, scenario presets and snapshots.
//
// An Engine is not safe for concurrent use. Exactly one goroutine (the
// scheduler or the dashboard's update loop) may call its methods. Invalid
// input and lookup misses are reported as a false return, never as an error.
package engine

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/theirongolddev/capflow/internal/model"
	"github.com/theirongolddev/capflow/internal/money"
)

// LogTimeFormat is the clock format stamped on feed entries.
const LogTimeFormat = "15:04"

// SnapshotTimeFormat is the human timestamp stored in Snapshot.Meta.
const SnapshotTimeFormat = "Jan 2 15:04:05"

// Engine owns one simulation state and mutates it in place.
type Engine struct {
	state   *model.State
	src     Source
	now     func() time.Time
	logger  *slog.Logger
	presets map[string]model.Variables
	order   []string
}

// Option configures an Engine.
type Option func(*Engine)

// WithSource sets the randomness source.
func WithSource(src Source) Option {
	return func(e *Engine) { e.src = src }
}

// WithClock overrides time.Now, used for feed and snapshot timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the operator logger. Feed entries are mirrored at debug.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithPresets merges custom presets over the built-in ones.
func WithPresets(p map[string]model.Variables) Option {
	return func(e *Engine) { e.MergePresets(p) }
}

// New creates an engine around state. A nil state starts from defaults.
func New(state *model.State, opts ...Option) *Engine {
	if state == nil {
		state = model.NewState()
	}
	e := &Engine{
		state:  state,
		now:    time.Now,
		logger: slog.New(slog.DiscardHandler),
	}
	e.presets, e.order = builtinPresets()
	for _, opt := range opts {
		opt(e)
	}
	if e.src == nil {
		e.src = NewSource(0)
	}
	return e
}

// State returns the live state. Callers on the owning goroutine may read it;
// mutation goes through Engine methods.
func (e *Engine) State() *model.State { return e.state }

// logf appends a line to the simulation feed.
func (e *Engine) logf(format string, args ...any) string {
	msg := fmt.Sprintf(format, args...)
	e.state.Logs.Push(model.LogEntry{Message: msg, Time: e.now().Format(LogTimeFormat)})
	e.logger.Debug("feed", "tick", e.state.TickCount, "message", msg)
	return msg
}

// shiftCapital adds delta to capital at cent precision.
func (e *Engine) shiftCapital(delta float64) {
	e.state.Capital = money.Add(e.state.Capital, delta)
}

func (e *Engine) newID() string {
	for {
		id := e.src.NewID()
		if id != "" && !e.state.HasID(id) {
			return id
		}
	}
}

// formatAmount renders v as dollars with thousands separators.
func formatAmount(v float64) string {
	return "$" + humanize.CommafWithDigits(math.Abs(v), 2)
}

// signed renders v with an explicit sign.
func signed(v float64) string {
	if v < 0 {
		return "-" + formatAmount(v)
	}
	return "+" + formatAmount(v)
}

func formatFactor(v float64) string {
	return "x" + humanize.FtoaWithDigits(v, 2)
}
