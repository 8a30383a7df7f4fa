package cmd

import (
	"fmt"

	"github.com/theirongolddev/capflow/internal/cli"

	"github.com/spf13/cobra"
)

var (
	flagLogsLimit int
	flagLogsClear bool
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the simulation feed",
	Args:  cobra.NoArgs,
	RunE:  runLogs,
}

func init() {
	logsCmd.Flags().IntVarP(&flagLogsLimit, "limit", "n", 30, "Number of most recent entries to show (0 = all)")
	logsCmd.Flags().BoolVar(&flagLogsClear, "clear", false, "Empty the feed")
	rootCmd.AddCommand(logsCmd)
}

func runLogs(_ *cobra.Command, _ []string) error {
	if flagLogsClear {
		return mutate(func(s *session) (bool, error) {
			changed := s.eng.ClearLogs()
			say("Feed cleared")
			return changed, nil
		})
	}

	return withSession(func(s *session) error {
		logs := s.eng.State().Logs
		entries := logs.Items()
		if flagLogsLimit > 0 {
			entries = logs.Tail(flagLogsLimit)
		}
		if len(entries) == 0 {
			fmt.Println("\n  The feed is empty.")
			return nil
		}
		fmt.Println()
		for _, e := range entries {
			fmt.Printf("  %s  %s\n", cli.Muted(e.Time), e.Message)
		}
		return nil
	})
}
