// Package scheduler owns the goroutine that mutates a simulation. Ticks,
// submitted tasks and cron checkpoints are serialized through one loop so
// the engine never sees concurrent calls.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/theirongolddev/capflow/internal/engine"
	"github.com/theirongolddev/capflow/internal/logging"
	"github.com/theirongolddev/capflow/internal/model"
)

// ErrStopped is returned when submitting to a scheduler that is not running.
var ErrStopped = errors.New("scheduler stopped")

// Task mutates the engine on the scheduler goroutine.
type Task func(e *engine.Engine)

// Hook observes the state after a tick or task. It runs on the scheduler
// goroutine and must not retain s.
type Hook func(s *model.State)

// Config wires the scheduler's collaborators. Every field is optional.
type Config struct {
	// Checkpoint is a cron spec ("@every 1m", "*/5 * * * *"). Empty disables it.
	Checkpoint string
	// OnTick receives every tick result, including skipped ones.
	OnTick func(res engine.TickResult)
	// After runs after every tick and every task (render + persist).
	After Hook
	// OnCheckpoint runs on the scheduler goroutine when the cron job fires.
	OnCheckpoint Hook
	Logger       *slog.Logger
}

type job struct {
	run  Task
	done chan struct{}
}

// Scheduler drives one engine.
type Scheduler struct {
	eng   *engine.Engine
	cfg   Config
	cron  *cron.Cron
	jobs  chan job
	stop  chan struct{}
	armed atomic.Int64
	ticks atomic.Int64
}

// New prepares a scheduler for eng. The checkpoint spec is validated here.
func New(eng *engine.Engine, cfg Config) (*Scheduler, error) {
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	s := &Scheduler{
		eng:  eng,
		cfg:  cfg,
		jobs: make(chan job, 16),
		stop: make(chan struct{}),
	}
	if cfg.Checkpoint != "" {
		s.cron = cron.New()
		if _, err := s.cron.AddFunc(cfg.Checkpoint, s.submitCheckpoint); err != nil {
			return nil, fmt.Errorf("register checkpoint %q: %w", cfg.Checkpoint, err)
		}
	}
	return s, nil
}

// Submit queues task without waiting for it to run.
func (s *Scheduler) Submit(ctx context.Context, task Task) error {
	return s.enqueue(ctx, job{run: task})
}

// Do queues task and waits until it, the After hook and any interval
// re-arm have completed.
func (s *Scheduler) Do(ctx context.Context, task Task) error {
	j := job{run: task, done: make(chan struct{})}
	if err := s.enqueue(ctx, j); err != nil {
		return err
	}
	select {
	case <-j.done:
		return nil
	case <-s.stop:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) enqueue(ctx context.Context, j job) error {
	select {
	case s.jobs <- j:
		return nil
	case <-s.stop:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Interval returns the period the ticker is currently armed with.
func (s *Scheduler) Interval() time.Duration {
	return time.Duration(s.armed.Load())
}

// Ticks returns how many ticker fires have been handled.
func (s *Scheduler) Ticks() int64 {
	return s.ticks.Load()
}

// Run processes ticks and tasks until ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) error {
	interval := s.stateInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	s.armed.Store(int64(interval))

	if s.cron != nil {
		s.cron.Start()
		defer func() { <-s.cron.Stop().Done() }()
	}
	defer close(s.stop)
	s.cfg.Logger.Info("scheduler started", "interval", interval, "checkpoint", s.cfg.Checkpoint)

	for {
		select {
		case <-ctx.Done():
			s.cfg.Logger.Info("scheduler stopped", "ticks", s.ticks.Load())
			return nil
		case <-ticker.C:
			res := s.eng.Tick()
			s.ticks.Add(1)
			logging.Trace(s.cfg.Logger, "tick", "tick", res.Tick, "delta", res.Delta, "skipped", res.Skipped)
			if s.cfg.OnTick != nil {
				s.cfg.OnTick(res)
			}
			s.after(ticker)
		case j := <-s.jobs:
			j.run(s.eng)
			s.after(ticker)
			if j.done != nil {
				close(j.done)
			}
		}
	}
}

// after runs the After hook and re-arms the ticker if the state's interval
// changed. Reset replaces the pending fire, so missed ticks are not caught up.
func (s *Scheduler) after(ticker *time.Ticker) {
	if s.cfg.After != nil {
		s.cfg.After(s.eng.State())
	}
	want := s.stateInterval()
	if time.Duration(s.armed.Load()) != want {
		ticker.Reset(want)
		s.armed.Store(int64(want))
		s.cfg.Logger.Debug("ticker re-armed", "interval", want)
	}
}

func (s *Scheduler) stateInterval() time.Duration {
	ms := s.eng.State().TickInterval
	if ms <= 0 {
		ms = model.DefaultTickInterval
	}
	return time.Duration(ms) * time.Millisecond
}

// submitCheckpoint runs on the cron goroutine. It only queues work.
func (s *Scheduler) submitCheckpoint() {
	err := s.Submit(context.Background(), func(e *engine.Engine) {
		st := e.State()
		s.cfg.Logger.Info("checkpoint", "tick", st.TickCount, "capital", st.Capital)
		if s.cfg.OnCheckpoint != nil {
			s.cfg.OnCheckpoint(st)
		}
	})
	if err != nil && !errors.Is(err, ErrStopped) {
		s.cfg.Logger.Warn("checkpoint not queued", "error", err)
	}
}
