package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/capflow/internal/cli"
	"github.com/theirongolddev/capflow/internal/insight"

	"github.com/spf13/cobra"
)

var (
	flagRunTicks  int
	flagRunResume bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Advance the simulation N ticks without waiting",
	Args:  cobra.NoArgs,
	RunE:  runTicks,
}

func init() {
	runCmd.Flags().IntVarP(&flagRunTicks, "ticks", "n", 10, "Number of ticks to run")
	runCmd.Flags().BoolVar(&flagRunResume, "resume", false, "Resume a paused sandbox first")
	rootCmd.AddCommand(runCmd)
}

func runTicks(_ *cobra.Command, _ []string) error {
	if flagRunTicks <= 0 {
		return errors.New("--ticks must be positive")
	}
	return mutate(func(s *session) (bool, error) {
		st := s.eng.State()
		if !st.IsFlowing {
			if !flagRunResume {
				return false, errors.New("flow is paused; rerun with --resume")
			}
			s.eng.ToggleFlow()
		}

		start := st.Capital
		events := 0
		for i := 0; i < flagRunTicks; i++ {
			res := s.eng.Tick()
			if err := s.journal.RecordTick(res); err != nil {
				s.logger.Warn("recording tick", "error", err)
			}
			if res.Event != "" {
				events++
			}
			if !flagQuiet {
				fmt.Println(formatTickLine(res))
			}
		}

		st = s.eng.State()
		rep := insight.Summarize(st)
		fmt.Println()
		fmt.Printf("  %d ticks, %d events: %s -> %s (%s)\n", flagRunTicks, events,
			cli.FormatMoney(start), cli.FormatMoney(st.Capital),
			cli.Colorize(st.Capital-start, cli.FormatDelta(st.Capital, start)))
		fmt.Printf("  Net/cycle %s, runway %s\n",
			cli.Colorize(rep.Totals.Net, cli.FormatSigned(rep.Totals.Net)), rep.Runway)
		return true, nil
	})
}
