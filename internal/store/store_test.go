package store

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/capflow/internal/engine"
	"github.com/theirongolddev/capflow/internal/logging"
	"github.com/theirongolddev/capflow/internal/model"
)

func sampleState() *model.State {
	s := model.NewState()
	s.Capital = 4321.5
	s.Incomes = append(s.Incomes, model.BudgetItem{ID: "i1", Name: "Salary", Amount: 1000, Multiplier: 1, Cadence: 1, Type: model.Income})
	s.Logs.Push(model.LogEntry{Message: "Added income", Time: "10:00"})
	return s
}

func TestSQLiteRoundTrip(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "capflow.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Load(); err != ErrNoState {
		t.Fatalf("Load on empty db = %v, want ErrNoState", err)
	}

	want := sampleState()
	if err := db.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	want.Capital = 99
	if err := db.Save(want); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, err := db.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Capital != 99 || len(got.Incomes) != 1 || got.Logs.Len() != 1 {
		t.Errorf("loaded state = capital %v, %d incomes, %d logs", got.Capital, len(got.Incomes), got.Logs.Len())
	}
}

func TestSQLiteJournal(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "capflow.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer func() { _ = db.Close() }()

	results := []engine.TickResult{
		{Tick: 1, Delta: 100, Capital: 12100},
		{Skipped: true, Tick: 1, Capital: 12100},
		{Tick: 2, Delta: -50, Capital: 12050, Event: "Late fee: -$80"},
		{Tick: 3, Delta: 0, Capital: 12050},
	}
	for _, r := range results {
		if err := db.RecordTick(r); err != nil {
			t.Fatalf("RecordTick: %v", err)
		}
	}

	n, err := db.JournalCount()
	if err != nil {
		t.Fatalf("JournalCount: %v", err)
	}
	if n != 3 {
		t.Fatalf("journal rows = %d, want 3 (skipped tick excluded)", n)
	}

	entries, err := db.Entries(2)
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 2 || entries[0].Tick != 2 || entries[1].Tick != 3 {
		t.Fatalf("Entries(2) = %+v, want ticks 2 and 3", entries)
	}
	if entries[0].Event == "" || entries[1].Event != "" {
		t.Errorf("event columns = %q/%q", entries[0].Event, entries[1].Event)
	}
	if entries[0].RecordedAt.IsZero() {
		t.Error("recorded_at not parsed")
	}

	all, _ := db.Entries(0)
	if len(all) != 3 {
		t.Errorf("Entries(0) len = %d, want 3", len(all))
	}

	if err := db.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n, _ := db.JournalCount(); n != 0 {
		t.Errorf("journal rows after Clear = %d", n)
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "state.json")
	f := NewFile(path)
	if _, err := f.Load(); err != ErrNoState {
		t.Fatalf("Load on missing file = %v, want ErrNoState", err)
	}
	if err := f.Save(sampleState()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("perm = %o, want 600", perm)
	}
	got, err := f.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Capital != 4321.5 {
		t.Errorf("capital = %v, want 4321.5", got.Capital)
	}
	if _, ok := JournalOf(f).(NoopJournal); !ok {
		t.Error("file backend should use the no-op journal")
	}
}

func TestLoadOrDefaultFallsBackOnMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	s := LoadOrDefault(NewFile(path), logging.NewLogger("info", &buf))
	if s.Capital != model.DefaultCapital {
		t.Errorf("capital = %v, want default", s.Capital)
	}
	if !strings.Contains(buf.String(), "unreadable") {
		t.Errorf("expected a warning, got %q", buf.String())
	}
	if s.Logs.Len() != 0 {
		t.Error("warning leaked into the simulation feed")
	}
}

func TestLoadOrDefaultQuietWhenMissing(t *testing.T) {
	var buf bytes.Buffer
	s := LoadOrDefault(NewFile(filepath.Join(t.TempDir(), "none.json")), logging.NewLogger("info", &buf))
	if s == nil || s.Capital != model.DefaultCapital {
		t.Fatal("expected default state")
	}
	if buf.Len() != 0 {
		t.Errorf("missing state should not warn, got %q", buf.String())
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open("redis", "x"); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
