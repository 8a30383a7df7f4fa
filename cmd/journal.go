package cmd

import (
	"fmt"

	"github.com/theirongolddev/capflow/internal/cli"
	"github.com/theirongolddev/capflow/internal/config"

	"github.com/spf13/cobra"
)

var (
	flagJournalLimit int
	flagJournalClear bool
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show recorded ticks (sqlite backend only)",
	Args:  cobra.NoArgs,
	RunE:  runJournal,
}

func init() {
	journalCmd.Flags().IntVarP(&flagJournalLimit, "limit", "n", 20, "Number of most recent ticks to show (0 = all)")
	journalCmd.Flags().BoolVar(&flagJournalClear, "clear", false, "Delete every recorded tick")
	rootCmd.AddCommand(journalCmd)
}

func runJournal(_ *cobra.Command, _ []string) error {
	return withSession(func(s *session) error {
		if s.cfg.Storage.Backend != config.BackendSQLite {
			fmt.Println("\n  The json backend keeps no tick journal.")
			fmt.Println("  Switch with: capflow --backend sqlite, or storage.backend in the config.")
			return nil
		}

		if flagJournalClear {
			if err := s.journal.Clear(); err != nil {
				return fmt.Errorf("clearing journal: %w", err)
			}
			say("Journal cleared")
			return nil
		}

		entries, err := s.journal.Entries(flagJournalLimit)
		if err != nil {
			return fmt.Errorf("reading journal: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("\n  No ticks recorded yet. Run `capflow run` or `capflow watch`.")
			return nil
		}

		rows := make([][]string, 0, len(entries))
		values := make([]float64, 0, len(entries))
		for _, e := range entries {
			event := e.Event
			if event == "" {
				event = cli.Muted("·")
			}
			rows = append(rows, []string{
				cli.FormatNumber(int64(e.Tick)),
				cli.Colorize(e.Delta, cli.FormatSigned(e.Delta)),
				cli.FormatMoney(e.Capital),
				event,
				cli.FormatAgo(e.RecordedAt),
			})
			values = append(values, e.Capital)
		}

		title := "Journal"
		if counter, ok := s.journal.(interface{ JournalCount() (int, error) }); ok {
			if total, err := counter.JournalCount(); err == nil {
				title = fmt.Sprintf("Journal (last %d of %s ticks)", len(entries), cli.FormatNumber(int64(total)))
			}
		}

		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   title,
			Headers: []string{"Tick", "Delta", "Capital", "Event", "Recorded"},
			Rows:    rows,
		}))
		if len(values) > 1 {
			fmt.Printf("\n  Capital  %s\n", cli.RenderSparkline(values))
		}
		return nil
	})
}
