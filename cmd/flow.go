package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/capflow/internal/cli"

	"github.com/spf13/cobra"
)

var flowCmd = &cobra.Command{
	Use:       "flow [on|off]",
	Short:     "Pause or resume automatic accrual (toggles without an argument)",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE:      runFlow,
}

var speedCmd = &cobra.Command{
	Use:   "speed <ms>",
	Short: "Set the tick interval in milliseconds",
	Args:  cobra.ExactArgs(1),
	RunE:  runSpeed,
}

func init() {
	rootCmd.AddCommand(flowCmd, speedCmd)
}

func runFlow(_ *cobra.Command, args []string) error {
	return mutate(func(s *session) (bool, error) {
		flowing := s.eng.State().IsFlowing
		want := !flowing
		if len(args) == 1 {
			switch strings.ToLower(args[0]) {
			case "on", "resume":
				want = true
			case "off", "pause":
				want = false
			default:
				return false, fmt.Errorf("unknown flow state %q (want on or off)", args[0])
			}
		}
		if want == flowing {
			say("Flow already %s", flowWord(flowing))
			return false, nil
		}
		say("Flow %s", flowWord(s.eng.ToggleFlow()))
		return true, nil
	})
}

func flowWord(flowing bool) string {
	if flowing {
		return "on"
	}
	return "off"
}

func runSpeed(_ *cobra.Command, args []string) error {
	ms, err := strconv.Atoi(strings.TrimSuffix(args[0], "ms"))
	if err != nil || ms <= 0 {
		return fmt.Errorf("interval must be a positive number of milliseconds, got %q", args[0])
	}
	return mutate(func(s *session) (bool, error) {
		changed := s.eng.SetTickInterval(ms)
		say("Ticking every %s", cli.FormatInterval(s.eng.State().TickInterval))
		return changed, nil
	})
}
