package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/theirongolddev/capflow/internal/engine"
	"github.com/theirongolddev/capflow/internal/model"
	"github.com/theirongolddev/capflow/internal/store"
	"github.com/theirongolddev/capflow/internal/tui/components"
)

func newTestApp(t *testing.T) (App, *store.File) {
	t.Helper()
	fs := store.NewFile(filepath.Join(t.TempDir(), "state.json"))
	eng := engine.New(nil, engine.WithSource(engine.NewSource(7)))
	return NewApp(Options{Engine: eng, Store: fs}), fs
}

func send(t *testing.T, a App, msgs ...tea.Msg) App {
	t.Helper()
	for _, msg := range msgs {
		m, _ := a.Update(msg)
		a = m.(App)
	}
	return a
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
)

func TestStaleTickIsDropped(t *testing.T) {
	a, _ := newTestApp(t)
	a = send(t, a, keySpace, keySpace) // pause, resume: generation 2
	if !a.state().IsFlowing {
		t.Fatal("expected flowing after pause + resume")
	}
	if a.gen != 2 {
		t.Fatalf("gen = %d, want 2", a.gen)
	}

	a = send(t, a, tickMsg{gen: 0})
	if got := a.state().TickCount; got != 0 {
		t.Fatalf("stale tick advanced the simulation to %d", got)
	}
	a = send(t, a, tickMsg{gen: 2})
	if got := a.state().TickCount; got != 1 {
		t.Fatalf("tick count = %d, want 1", got)
	}
}

func TestPausedAppArmsNoTimer(t *testing.T) {
	a, _ := newTestApp(t)
	if a.scheduleTick() == nil {
		t.Fatal("flowing app should arm a timer")
	}
	a = send(t, a, keySpace)
	if a.state().IsFlowing {
		t.Fatal("space should pause")
	}
	if a.scheduleTick() != nil {
		t.Error("paused app armed a timer")
	}
}

func TestSpeedControlClamps(t *testing.T) {
	a, _ := newTestApp(t)
	for i := 0; i < 10; i++ {
		a = send(t, a, runes("+"))
	}
	if got := a.state().TickInterval; got != minIntervalMs {
		t.Errorf("interval = %d, want %d", got, minIntervalMs)
	}

	a.eng.SetTickInterval(9900)
	a = send(t, a, runes("-"), runes("-"))
	if got := a.state().TickInterval; got != maxIntervalMs {
		t.Errorf("interval = %d, want %d", got, maxIntervalMs)
	}
}

func TestQuickDeltaPersists(t *testing.T) {
	a, fs := newTestApp(t)
	a = send(t, a, runes("4"), runes("6"))
	if got := a.state().Capital; got != 13100 {
		t.Fatalf("capital = %v, want 13100", got)
	}
	saved, err := fs.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if saved.Capital != 13100 {
		t.Errorf("persisted capital = %v, want 13100", saved.Capital)
	}
}

func TestResetNeedsConfirmation(t *testing.T) {
	a, _ := newTestApp(t)
	a = send(t, a, runes("1"))
	a = send(t, a, runes("R"), runes("n"))
	if a.state().Capital != 11000 {
		t.Fatalf("declined reset changed capital to %v", a.state().Capital)
	}
	a = send(t, a, runes("R"), runes("y"))
	if a.state().Capital != model.DefaultCapital {
		t.Errorf("capital after reset = %v, want %v", a.state().Capital, model.DefaultCapital)
	}
}

func TestTabKeys(t *testing.T) {
	a, _ := newTestApp(t)
	a = send(t, a, runes("b"))
	if a.activeTab != tabBudget {
		t.Fatalf("activeTab = %d, want budget", a.activeTab)
	}
	a = send(t, a, runes("n"))
	if a.activeTab != tabSnapshots {
		t.Fatalf("activeTab = %d, want snapshots", a.activeTab)
	}
	a = send(t, a, runes("w"))
	if a.state().Snapshots.Len() != 1 {
		t.Error("w on the snapshots tab should save a snapshot")
	}
}

func TestInlineEditUpdatesItem(t *testing.T) {
	a, _ := newTestApp(t)
	if _, ok := a.eng.AddItem(model.Expense, "Rent", 900, 1, 1); !ok {
		t.Fatal("AddItem failed")
	}
	a = send(t, a, runes("b"), keyEnter)
	if a.edit == nil {
		t.Fatal("enter on a budget row should open the editor")
	}
	a.edit.input.SetValue("1,250")
	a = send(t, a, keyEnter)
	if a.edit != nil {
		t.Error("editor still open after enter")
	}
	if got := a.state().Expenses[0].Amount; got != 1250 {
		t.Errorf("amount = %v, want 1250", got)
	}
}

func TestTabAtXMatchesTabWidths(t *testing.T) {
	for active := range components.Tabs {
		a := App{activeTab: active}
		pos := 0
		for i, tab := range components.Tabs {
			w := len(tab.Name) + 2 // horizontal padding
			if i != active {
				w += 2 // "[" and "]" around the shortcut
			}
			if got := a.tabAtX(pos + w/2); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, pos+w/2, got, i)
			}
			pos += w + 1
		}
	}
}

func TestViewRendersEveryTab(t *testing.T) {
	a, _ := newTestApp(t)
	a.eng.AddItem(model.Income, "Salary", 1000, 1, 2)
	a = send(t, a, tea.WindowSizeMsg{Width: 130, Height: 45})
	want := map[int]string{
		tabDashboard: "Capital",
		tabBudget:    "Salary",
		tabScenario:  "turbulent",
		tabSnapshots: "No snapshots",
		tabFeed:      "Added income",
	}
	for tab, text := range want {
		a.activeTab = tab
		if out := a.View(); !strings.Contains(out, text) {
			t.Errorf("tab %d view missing %q", tab, text)
		}
	}
}
