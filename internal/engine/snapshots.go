package engine

import (
	"fmt"

	"github.com/theirongolddev/capflow/internal/model"
)

// SaveSnapshot captures a deep copy of capital, variables and both
// registries. The oldest snapshot is evicted beyond model.SnapshotCap.
func (e *Engine) SaveSnapshot() model.Snapshot {
	s := e.state
	name := s.ScenarioNote
	if name == "" {
		name = fmt.Sprintf("Snapshot #%d", s.Snapshots.Len()+1)
	}
	snap := model.Snapshot{
		ID:        e.newID(),
		Name:      name,
		Capital:   s.Capital,
		Variables: s.Variables,
		Incomes:   model.CloneItems(s.Incomes),
		Expenses:  model.CloneItems(s.Expenses),
		Meta:      e.now().Format(SnapshotTimeFormat),
	}
	s.Snapshots.Push(snap)
	e.logf("Saved snapshot %q", name)
	return snap.Clone()
}

// FindSnapshot returns the snapshot with id.
func (e *Engine) FindSnapshot(id string) (model.Snapshot, bool) {
	for _, snap := range e.state.Snapshots.Items() {
		if snap.ID == id {
			return snap.Clone(), true
		}
	}
	return model.Snapshot{}, false
}

// LoadSnapshot overwrites the live capital, variables and registries with
// copies from snapshot id, then re-seeds history at the restored capital.
func (e *Engine) LoadSnapshot(id string) bool {
	snap, ok := e.FindSnapshot(id)
	if !ok {
		return false
	}
	s := e.state
	s.Capital = snap.Capital
	s.Variables = snap.Variables
	s.Incomes = model.CloneItems(snap.Incomes)
	s.Expenses = model.CloneItems(snap.Expenses)
	s.SeedHistory()
	e.logf("Loaded snapshot %q", snap.Name)
	return true
}

// DeleteSnapshot removes snapshot id.
func (e *Engine) DeleteSnapshot(id string) bool {
	var name string
	n := e.state.Snapshots.RemoveFunc(func(snap model.Snapshot) bool {
		if snap.ID == id {
			name = snap.Name
			return true
		}
		return false
	})
	if n == 0 {
		return false
	}
	e.logf("Deleted snapshot %q", name)
	return true
}
