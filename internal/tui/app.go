// Package tui provides the interactive Bubble Tea dashboard for capflow.
package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/capflow/internal/cli"
	"github.com/theirongolddev/capflow/internal/config"
	"github.com/theirongolddev/capflow/internal/engine"
	"github.com/theirongolddev/capflow/internal/logging"
	"github.com/theirongolddev/capflow/internal/model"
	"github.com/theirongolddev/capflow/internal/store"
	"github.com/theirongolddev/capflow/internal/tui/components"
	"github.com/theirongolddev/capflow/internal/tui/theme"
)

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 160
	minContentHeight = 5

	// Speed control bounds for the tick interval, in milliseconds.
	minIntervalMs  = 250
	maxIntervalMs  = 10000
	intervalStepMs = 250
)

const (
	tabDashboard = iota
	tabBudget
	tabScenario
	tabSnapshots
	tabFeed
)

// Options wires the dashboard to a simulation and its storage.
type Options struct {
	Engine  *engine.Engine
	Store   store.Persister // nil disables persistence
	Journal store.Journal
	Logger  *slog.Logger
	// NeedSetup shows the first-run wizard before the dashboard.
	NeedSetup bool
	Config    config.Config
}

// tickMsg carries the generation it was scheduled under. Any change to the
// interval or flow state bumps the generation, so a stale timer is dropped
// instead of producing a second tick stream.
type tickMsg struct{ gen int }

// App is the root Bubble Tea model.
type App struct {
	eng     *engine.Engine
	store   store.Persister
	journal store.Journal
	logger  *slog.Logger
	cfg     config.Config

	gen      int
	lastSave time.Time

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	spinner   spinner.Model

	// Transient status line; cleared on the next key press.
	status    string
	statusErr bool

	// Reset asks for confirmation first.
	confirmReset bool

	// Per-tab cursors
	budgetCursor   int
	scenarioCursor int
	snapCursor     int

	// Inline numeric/text editing
	edit *editState

	// Modal huh forms: add-item and first-run setup.
	itemForm  *huh.Form
	itemVals  *itemValues
	setupForm *huh.Form
	setupVals *SetupValues
}

// NewApp creates a new dashboard model.
func NewApp(opts Options) App {
	if opts.Engine == nil {
		opts.Engine = engine.New(nil)
	}
	if opts.Journal == nil {
		opts.Journal = store.NoopJournal{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	a := App{
		eng:     opts.Engine,
		store:   opts.Store,
		journal: opts.Journal,
		logger:  opts.Logger,
		cfg:     opts.Config,
		spinner: sp,
	}
	if opts.NeedSetup {
		a.setupVals = SetupValuesFrom(opts.Config)
		a.setupForm = NewSetupForm(a.setupVals)
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnableMouseCellMotion,
		a.spinner.Tick,
		a.scheduleTick(),
	}
	if a.setupForm != nil {
		cmds = append(cmds, a.setupForm.Init())
	}
	return tea.Batch(cmds...)
}

func (a App) state() *model.State { return a.eng.State() }

// scheduleTick arms one timer for the current generation. Paused
// simulations arm nothing; resuming re-arms.
func (a App) scheduleTick() tea.Cmd {
	st := a.state()
	if !st.IsFlowing {
		return nil
	}
	gen := a.gen
	interval := time.Duration(st.TickInterval) * time.Millisecond
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

// rearm discards any pending timer and schedules a fresh one.
func (a *App) rearm() tea.Cmd {
	a.gen++
	return a.scheduleTick()
}

// persist saves the state after a mutation. Failures surface in the status
// bar and the operator log; the simulation keeps running.
func (a *App) persist() {
	if a.store == nil {
		return
	}
	if err := a.store.Save(a.state()); err != nil {
		a.logger.Warn("saving state", "error", err)
		a.setError("save failed: " + err.Error())
		return
	}
	a.lastSave = time.Now()
}

// changed persists when ok and returns ok, so call sites read as
// `a.changed(a.eng.SomeMutation())`.
func (a *App) changed(ok bool) bool {
	if ok {
		a.persist()
	}
	return ok
}

func (a *App) setStatus(msg string) {
	a.status, a.statusErr = msg, false
}

func (a *App) setError(msg string) {
	a.status, a.statusErr = msg, true
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		if a.itemForm != nil {
			a.itemForm = a.itemForm.WithWidth(min(msg.Width, 60))
		}
		return a, nil

	case tickMsg:
		if msg.gen != a.gen {
			return a, nil
		}
		res := a.eng.Tick()
		if err := a.journal.RecordTick(res); err != nil {
			a.logger.Warn("recording tick", "error", err)
		}
		if !res.Skipped {
			a.persist()
		}
		return a, a.scheduleTick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.MouseMsg:
		if a.modal() || a.showHelp {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.setupForm != nil {
			return a.updateSetupForm(msg)
		}
		if a.itemForm != nil {
			return a.updateItemForm(msg)
		}
		if a.edit != nil {
			return a.updateEdit(msg)
		}
		return a.updateKey(msg)
	}

	// Forward cursor blinks and the like to whichever modal is open.
	switch {
	case a.setupForm != nil:
		return a.updateSetupForm(msg)
	case a.itemForm != nil:
		return a.updateItemForm(msg)
	case a.edit != nil:
		var cmd tea.Cmd
		a.edit.input, cmd = a.edit.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) modal() bool {
	return a.setupForm != nil || a.itemForm != nil || a.edit != nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	a.status = ""

	if a.confirmReset {
		a.confirmReset = false
		if key == "y" || key == "Y" {
			a.eng.Reset()
			a.budgetCursor, a.scenarioCursor, a.snapCursor = 0, 0, 0
			a.persist()
			if err := a.journal.Clear(); err != nil {
				a.logger.Warn("clearing journal", "error", err)
			}
			a.setStatus("sandbox reset")
			return a, a.rearm()
		}
		a.setStatus("reset cancelled")
		return a, nil
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	// Tab-specific bindings take precedence over globals.
	var (
		handled bool
		cmd     tea.Cmd
	)
	switch a.activeTab {
	case tabBudget:
		handled, cmd = a.budgetKey(key)
	case tabScenario:
		handled, cmd = a.scenarioKey(key)
	case tabSnapshots:
		handled, cmd = a.snapshotKey(key)
	case tabFeed:
		handled, cmd = a.feedKey(key)
	}
	if handled {
		return a, cmd
	}

	switch key {
	case "q":
		return a, tea.Quit
	case " ", "p":
		flowing := a.eng.ToggleFlow()
		a.persist()
		if flowing {
			a.setStatus("auto flow resumed")
		} else {
			a.setStatus("auto flow paused")
		}
		return a, a.rearm()
	case "+", "=":
		return a, a.stepInterval(-intervalStepMs)
	case "-", "_":
		return a, a.stepInterval(intervalStepMs)
	case "1", "2", "3", "4", "5", "6":
		delta := engine.QuickDeltas[key[0]-'1']
		a.changed(a.eng.AdjustCapital(delta, ""))
		return a, nil
	case "E":
		text := a.eng.TriggerEvent()
		a.persist()
		a.setStatus(text)
		return a, nil
	case "B":
		a.changed(a.eng.Pulse(engine.PulseBoost))
		return a, nil
	case "T":
		a.changed(a.eng.Pulse(engine.PulseTrim))
		return a, nil
	case "S":
		a.changed(a.eng.Pulse(engine.PulseShock))
		return a, nil
	case "R":
		a.confirmReset = true
		a.setStatus("reset the sandbox? press y to confirm")
		return a, nil
	case "left", "h":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "l", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			a.activeTab = idx
		}
	}
	return a, nil
}

// stepInterval moves the tick interval by delta ms within the speed bounds.
// Negative delta speeds the simulation up.
func (a *App) stepInterval(delta int) tea.Cmd {
	cur := a.state().TickInterval
	next := min(max(cur+delta, minIntervalMs), maxIntervalMs)
	if !a.changed(a.eng.SetTickInterval(next)) {
		return nil
	}
	a.setStatus("tick interval " + cli.FormatInterval(next))
	return a.rearm()
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		a.moveCursor(-1)
	case tea.MouseButtonWheelDown:
		a.moveCursor(1)
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

// moveCursor moves the active tab's list cursor by d, clamped to its rows.
func (a *App) moveCursor(d int) {
	clamp := func(v, n int) int {
		if n == 0 {
			return 0
		}
		return min(max(v, 0), n-1)
	}
	switch a.activeTab {
	case tabBudget:
		a.budgetCursor = clamp(a.budgetCursor+d, len(a.budgetRows()))
	case tabScenario:
		a.scenarioCursor = clamp(a.scenarioCursor+d, len(a.scenarioRows()))
	case tabSnapshots:
		a.snapCursor = clamp(a.snapCursor+d, a.state().Snapshots.Len())
	}
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same widths RenderTabBar draws.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1 // one-column separator
	}
	return -1
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  capflow needs at least %d columns.\n",
		a.width, minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height
	st := a.state()

	title := "◈ capflow"
	if st.IsFlowing {
		title = a.spinner.View() + " capflow"
	}
	header := components.RenderTabBar(a.activeTab, w, title)

	saved := ""
	if !a.lastSave.IsZero() {
		saved = cli.FormatAgo(a.lastSave)
	}
	statusBar := components.RenderStatusBar(w, components.Status{
		Flowing:  st.IsFlowing,
		Interval: cli.FormatInterval(st.TickInterval),
		Tick:     st.TickCount,
		Saved:    saved,
		Message:  a.status,
		Error:    a.statusErr,
	})

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabDashboard:
		content = a.renderDashboardTab(cw)
	case tabBudget:
		content = a.renderBudgetTab(cw)
	case tabScenario:
		content = a.renderScenarioTab(cw)
	case tabSnapshots:
		content = a.renderSnapshotsTab(cw)
	case tabFeed:
		content = a.renderFeedTab(cw, contentH)
	}

	// Modal overlays render in place of the tab body.
	switch {
	case a.itemForm != nil:
		content = components.ContentCard("Add "+a.itemVals.kind.Label(), a.itemForm.View(), min(cw, 64), true)
	case a.edit != nil:
		content += "\n" + a.renderEdit(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Info).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	sections := []struct {
		name     string
		bindings [][2]string
	}{
		{"Navigation", [][2]string{
			{"d b s n f", "Jump to tab"},
			{"← →", "Previous / next tab"},
			{"j k", "Move in lists"},
		}},
		{"Simulation", [][2]string{
			{"space", "Pause / resume"},
			{"+ -", "Faster / slower"},
			{"1 … 6", "Capital −1000 −500 −100 +100 +500 +1000"},
			{"E", "Trigger random event"},
			{"B T S", "Pulse: boost, trim, shock"},
			{"R", "Reset sandbox"},
		}},
		{"Tabs", [][2]string{
			{"a A", "Budget: add income / expense"},
			{"enter m c", "Budget: edit amount, multiplier, cadence"},
			{"x", "Budget / Snapshots: remove"},
			{"enter", "Scenario: edit or apply · Snapshots: load"},
			{"w", "Snapshots: save current state"},
			{"C", "Feed: clear"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.name))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind[0])),
				descStyle.Render(bind[1]))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Inline editing ─────────────────────────────────────────────

type editTarget int

const (
	editItemField editTarget = iota
	editVariable
	editNote
)

type editState struct {
	target editTarget
	label  string
	kind   model.Kind
	id     string
	field  string
	input  textinput.Model
}

func (a *App) startEdit(e editState, value string) tea.Cmd {
	ti := textinput.New()
	ti.CharLimit = model.NoteMaxRunes
	ti.Width = 40
	ti.SetValue(value)
	ti.Focus()
	e.input = ti
	a.edit = &e
	return ti.Cursor.BlinkCmd()
}

func (a App) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.edit = nil
		return a, nil
	case "enter":
		ok := a.commitEdit()
		if !ok {
			a.setError("invalid value")
		}
		a.edit = nil
		return a, nil
	}
	var cmd tea.Cmd
	a.edit.input, cmd = a.edit.input.Update(msg)
	return a, cmd
}

// commitEdit applies the edit through the engine and persists on success.
func (a *App) commitEdit() bool {
	e := a.edit
	raw := strings.TrimSpace(e.input.Value())
	switch e.target {
	case editNote:
		a.changed(a.eng.SetNote(raw))
		return true
	case editItemField:
		v, ok := parseNumber(raw)
		return ok && a.changed(a.eng.UpdateField(e.kind, e.id, e.field, v))
	case editVariable:
		v, ok := parseNumber(raw)
		return ok && a.changed(a.eng.SetVariable(e.field, v))
	}
	return false
}

func (a App) renderEdit(cw int) string {
	body := a.edit.input.View() + "\n" +
		lipgloss.NewStyle().Foreground(theme.Active.TextDim).Render("enter to apply · esc to cancel")
	return components.ContentCard(a.edit.label, body, min(cw, 64), true)
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}
