package tui

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/theirongolddev/capflow/internal/config"
	"github.com/theirongolddev/capflow/internal/tui/theme"
)

// SetupValues holds the first-run wizard answers.
type SetupValues struct {
	Theme      string
	IntervalMs int
	Backend    string
	Checkpoint string
	PlanFile   string
}

var intervalOptions = []int{500, 1000, 2000, 5000}

// SetupValuesFrom seeds the wizard with the current config.
func SetupValuesFrom(cfg config.Config) *SetupValues {
	return &SetupValues{
		Theme:      cfg.Appearance.Theme,
		IntervalMs: cfg.General.TickIntervalMs,
		Backend:    cfg.Storage.Backend,
		Checkpoint: cfg.Schedule.Checkpoint,
		PlanFile:   cfg.Scenario.PlanFile,
	}
}

// Apply copies the answers into cfg.
func (v *SetupValues) Apply(cfg *config.Config) {
	cfg.Appearance.Theme = v.Theme
	cfg.General.TickIntervalMs = v.IntervalMs
	cfg.Storage.Backend = v.Backend
	cfg.Schedule.Checkpoint = v.Checkpoint
	cfg.Scenario.PlanFile = v.PlanFile
}

// NewSetupForm builds the first-run wizard. It is shared by the dashboard and
// `capflow setup`.
func NewSetupForm(v *SetupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	intervalOpts := make([]huh.Option[int], 0, len(intervalOptions))
	for _, ms := range intervalOptions {
		label := fmt.Sprintf("every %ss", strconv.FormatFloat(float64(ms)/1000, 'f', -1, 64))
		intervalOpts = append(intervalOpts, huh.NewOption(label, ms))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to capflow").
				Description("A toy capital sandbox: define incomes and expenses,\ntune the scenario, and watch capital move tick by tick."),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&v.Theme),
			huh.NewSelect[int]().
				Title("Default tick speed").
				Options(intervalOpts...).
				Value(&v.IntervalMs),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Where to keep state").
				Options(
					huh.NewOption("SQLite database (with tick journal)", config.BackendSQLite),
					huh.NewOption("JSON file", config.BackendJSON),
				).
				Value(&v.Backend),
			huh.NewInput().
				Title("Checkpoint schedule for `capflow watch`").
				Description("Cron spec, e.g. @every 1m or */5 * * * *").
				Value(&v.Checkpoint),
			huh.NewInput().
				Title("Scenario plan file (optional)").
				Description("YAML with custom presets").
				Value(&v.PlanFile),
		),
	).WithShowHelp(false)
}

// SaveSetup writes the wizard answers to the config file.
func SaveSetup(v *SetupValues) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	v.Apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if err := config.Save(cfg); err != nil {
		return cfg, fmt.Errorf("saving config: %w", err)
	}
	return cfg, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		cfg, err := SaveSetup(a.setupVals)
		if err != nil {
			a.logger.Warn("saving setup", "error", err)
			a.setError("settings apply to this session only: " + err.Error())
		} else {
			a.setStatus("saved " + config.ConfigPath())
		}
		a.cfg = cfg
		theme.SetActive(cfg.Appearance.Theme)
		a.setupForm, a.setupVals = nil, nil
		if a.changed(a.eng.SetTickInterval(cfg.General.TickIntervalMs)) {
			return a, a.rearm()
		}
		return a, nil
	case huh.StateAborted:
		a.setupForm, a.setupVals = nil, nil
		return a, nil
	}
	return a, cmd
}
