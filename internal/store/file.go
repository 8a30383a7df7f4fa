package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/theirongolddev/capflow/internal/model"
)

// File persists the state as a JSON document.
type File struct {
	path string
}

// NewFile returns a file persister rooted at path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Load reads the state file. A missing file yields ErrNoState.
func (f *File) Load() (*model.State, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoState
		}
		return nil, fmt.Errorf("reading state file: %w", err)
	}
	return model.Decode(data)
}

// Save writes the state via a temp file and rename so readers never see a
// partial document.
func (f *File) Save(s *model.State) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o750); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}
	data, err := model.Encode(s)
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replacing state file: %w", err)
	}
	return nil
}

// Close is a no-op.
func (f *File) Close() error { return nil }
