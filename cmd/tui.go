package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/theirongolddev/capflow/internal/config"
	"github.com/theirongolddev/capflow/internal/tui"
	"github.com/theirongolddev/capflow/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	// The alt screen owns the terminal while the dashboard runs.
	logPath := filepath.Join(config.DataDir(), "capflow.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0o750); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	//nolint:gosec // log path derives from the user's data directory
	logf, err := os.OpenFile(logPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	s, err := openSessionLogging(logf)
	if err != nil {
		return err
	}
	defer s.close()
	if pid := runningWatcher(s.cfg); pid != 0 {
		return errWatcherOwns(pid)
	}

	theme.SetActive(s.cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(tui.Options{
		Engine:    s.eng,
		Store:     s.store,
		Journal:   s.journal,
		Logger:    s.logger,
		NeedSetup: !config.Exists(),
		Config:    s.cfg,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
