package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/capflow/internal/engine"
	"github.com/theirongolddev/capflow/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// SQLite keeps the state blob and the tick journal in one database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at dbPath.
func OpenSQLite(dbPath string) (*SQLite, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating state dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Load reads the saved state. It returns ErrNoState when the table is empty.
func (s *SQLite) Load() (*model.State, error) {
	var data string
	err := s.db.QueryRow("SELECT data FROM state WHERE id = 1").Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoState
	}
	if err != nil {
		return nil, fmt.Errorf("reading state: %w", err)
	}
	return model.Decode([]byte(data))
}

// Save replaces the saved state.
func (s *SQLite) Save(st *model.State) error {
	data, err := model.Encode(st)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.Exec(`INSERT INTO state (id, data, saved_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, saved_at = excluded.saved_at`,
		string(data), now)
	if err != nil {
		return fmt.Errorf("writing state: %w", err)
	}
	return nil
}

// RecordTick appends one journal row. Skipped ticks are not recorded.
func (s *SQLite) RecordTick(res engine.TickResult) error {
	if res.Skipped {
		return nil
	}
	var event sql.NullString
	if res.Event != "" {
		event = sql.NullString{String: res.Event, Valid: true}
	}
	_, err := s.db.Exec(`INSERT INTO journal (tick, delta, capital, event, recorded_at)
		VALUES (?, ?, ?, ?, ?)`,
		res.Tick, res.Delta, res.Capital, event, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("recording tick: %w", err)
	}
	return nil
}

// Entries returns the newest limit journal rows, oldest first.
// A non-positive limit returns everything.
func (s *SQLite) Entries(limit int) ([]JournalEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`SELECT tick, delta, capital, event, recorded_at FROM (
		SELECT id, tick, delta, capital, event, recorded_at FROM journal ORDER BY id DESC LIMIT ?
	) ORDER BY id ASC`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []JournalEntry
	for rows.Next() {
		var e JournalEntry
		var event sql.NullString
		var recorded string
		if err := rows.Scan(&e.Tick, &e.Delta, &e.Capital, &event, &recorded); err != nil {
			return nil, err
		}
		if event.Valid {
			e.Event = event.String
		}
		e.RecordedAt, _ = time.Parse(time.RFC3339Nano, recorded)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Clear empties the journal.
func (s *SQLite) Clear() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM journal"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM sqlite_sequence WHERE name = 'journal'"); err != nil {
		return err
	}
	return tx.Commit()
}

// JournalCount returns the number of journal rows.
func (s *SQLite) JournalCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM journal").Scan(&count)
	return count, err
}
