// Package store persists the simulation state and its tick journal.
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/theirongolddev/capflow/internal/engine"
	"github.com/theirongolddev/capflow/internal/model"
)

// ErrNoState is returned by Load when nothing has been saved yet.
var ErrNoState = errors.New("no saved state")

// Persister loads and saves the whole state as one opaque blob.
type Persister interface {
	Load() (*model.State, error)
	Save(s *model.State) error
	Close() error
}

// JournalEntry is one recorded tick.
type JournalEntry struct {
	Tick       int
	Delta      float64
	Capital    float64
	Event      string
	RecordedAt time.Time
}

// Journal records tick results for later inspection.
type Journal interface {
	RecordTick(res engine.TickResult) error
	Entries(limit int) ([]JournalEntry, error)
	Clear() error
}

// Open returns the persister for backend at path.
func Open(backend, path string) (Persister, error) {
	switch backend {
	case "sqlite", "":
		return OpenSQLite(path)
	case "json":
		return NewFile(path), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// JournalOf returns p's journal, or a no-op journal when p keeps none.
func JournalOf(p Persister) Journal {
	if j, ok := p.(Journal); ok {
		return j
	}
	return NoopJournal{}
}

// LoadOrDefault loads the saved state, falling back to defaults when nothing
// is stored or the stored blob is unreadable. Failures go to logger only.
func LoadOrDefault(p Persister, logger *slog.Logger) *model.State {
	s, err := p.Load()
	if err == nil && s != nil {
		return s
	}
	if err != nil && !errors.Is(err, ErrNoState) {
		logger.Warn("saved state unreadable, starting from defaults", "error", err)
	}
	return model.NewState()
}

// NoopJournal discards every record.
type NoopJournal struct{}

func (NoopJournal) RecordTick(_ engine.TickResult) error  { return nil }
func (NoopJournal) Entries(_ int) ([]JournalEntry, error) { return nil, nil }
func (NoopJournal) Clear() error                          { return nil }
