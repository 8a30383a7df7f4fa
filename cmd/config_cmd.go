// Package cmd implements the capflow CLI commands.
package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/capflow/internal/config"
	"github.com/theirongolddev/capflow/internal/tui/theme"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Tick interval: %d ms\n", cfg.General.TickIntervalMs)
	if cfg.General.Seed != 0 {
		fmt.Printf("    Seed:          %d\n", cfg.General.Seed)
	} else {
		fmt.Println("    Seed:          time based")
	}
	fmt.Println()

	fmt.Println("  [Storage]")
	fmt.Printf("    Backend: %s\n", cfg.Storage.Backend)
	fmt.Printf("    Path:    %s\n", cfg.StatePath())
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Printf("    Available: %s\n", strings.Join(theme.Names(), ", "))
	fmt.Println()

	fmt.Println("  [Logging]")
	fmt.Printf("    Level: %s\n", cfg.Logging.Level)
	fmt.Println()

	fmt.Println("  [Schedule]")
	if cfg.Schedule.Checkpoint != "" {
		fmt.Printf("    Checkpoint: %s\n", cfg.Schedule.Checkpoint)
	} else {
		fmt.Println("    Checkpoint: disabled")
	}
	fmt.Println()

	fmt.Println("  [Scenario]")
	if cfg.Scenario.PlanFile != "" {
		fmt.Printf("    Plan file: %s\n", cfg.Scenario.PlanFile)
	} else {
		fmt.Println("    Plan file: not set")
	}
	fmt.Println()

	fmt.Println("  Run `capflow setup` to reconfigure.")
	return nil
}
