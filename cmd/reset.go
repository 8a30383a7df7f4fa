package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var flagResetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the sandbox and start from defaults",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&flagResetYes, "yes", "y", false, "Confirm the reset")
	rootCmd.AddCommand(resetCmd)
}

func runReset(_ *cobra.Command, _ []string) error {
	if !flagResetYes {
		return errors.New("reset discards capital, budget, history and snapshots; rerun with --yes")
	}
	return mutate(func(s *session) (bool, error) {
		s.eng.Reset()
		if err := s.journal.Clear(); err != nil {
			return false, fmt.Errorf("clearing journal: %w", err)
		}
		say("Sandbox reset to defaults")
		return true, nil
	})
}
