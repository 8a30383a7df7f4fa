package cmd

import (
	"fmt"

	"github.com/theirongolddev/capflow/internal/config"
	"github.com/theirongolddev/capflow/internal/tui"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	values := tui.SetupValuesFrom(cfg)
	if err := tui.NewSetupForm(values).Run(); err != nil {
		return fmt.Errorf("setup: %w", err)
	}

	if _, err := tui.SaveSetup(values); err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `capflow setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
