package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/capflow/internal/cli"
	"github.com/theirongolddev/capflow/internal/engine"
	"github.com/theirongolddev/capflow/internal/money"

	"github.com/spf13/cobra"
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Inspect and tune the scenario variables",
	RunE:  runScenarioShow,
}

var scenarioPresetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List built-in and custom presets",
	Args:  cobra.NoArgs,
	RunE:  runScenarioPresets,
}

var scenarioPresetCmd = &cobra.Command{
	Use:   "preset <name>",
	Short: "Apply a preset",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenarioPreset,
}

var scenarioSetCmd = &cobra.Command{
	Use:   "set <growth|pressure|volatility> <percent>",
	Short: "Set one scenario variable",
	Args:  cobra.ExactArgs(2),
	RunE:  runScenarioSet,
}

var scenarioNoteCmd = &cobra.Command{
	Use:   "note [text...]",
	Short: "Set the scenario note (no text clears it)",
	RunE:  runScenarioNote,
}

var scenarioPulseCmd = &cobra.Command{
	Use:       "pulse <boost|trim|shock>",
	Short:     "Apply a pulse action",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{engine.PulseBoost, engine.PulseTrim, engine.PulseShock},
	RunE:      runScenarioPulse,
}

var scenarioEventCmd = &cobra.Command{
	Use:   "event",
	Short: "Fire one random event",
	Args:  cobra.NoArgs,
	RunE:  runScenarioEvent,
}

func init() {
	scenarioCmd.AddCommand(scenarioPresetsCmd, scenarioPresetCmd, scenarioSetCmd,
		scenarioNoteCmd, scenarioPulseCmd, scenarioEventCmd)
	rootCmd.AddCommand(scenarioCmd)
}

// variableNames maps accepted spellings to engine variable names.
var variableNames = map[string]string{
	"growth":        engine.VarGrowthBoost,
	"growthboost":   engine.VarGrowthBoost,
	"growth-boost":  engine.VarGrowthBoost,
	"pressure":      engine.VarCostPressure,
	"costpressure":  engine.VarCostPressure,
	"cost-pressure": engine.VarCostPressure,
	"volatility":    engine.VarVolatility,
}

func runScenarioShow(_ *cobra.Command, _ []string) error {
	return withSession(func(s *session) error {
		st := s.eng.State()
		v := st.Variables
		note := st.ScenarioNote
		if note == "" {
			note = cli.Muted("(none)")
		}
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Scenario",
			Headers: []string{"Variable", "Value"},
			Rows: [][]string{
				{"Growth boost", cli.FormatPercent(v.GrowthBoost)},
				{"Cost pressure", cli.FormatPercent(v.CostPressure)},
				{"Volatility", cli.RenderMeter(v.Volatility, engine.MaxShockVolatility, 12) + " " + cli.FormatPercent(v.Volatility)},
				{"Event chance", cli.FormatPercent(v.Volatility/500*100) + " per tick"},
				{"Event pool", strings.Join(engine.EventNames(), ", ")},
				{"Custom events", fmt.Sprintf("%d (see capflow events)", len(st.CustomEvents))},
				{"---"},
				{"Note", note},
			},
		}))
		return nil
	})
}

func runScenarioPresets(_ *cobra.Command, _ []string) error {
	return withSession(func(s *session) error {
		current := s.eng.State().Variables
		rows := [][]string{}
		for _, p := range s.eng.Presets() {
			origin := "built-in"
			if !engine.IsBuiltinPreset(p.Key) {
				origin = "custom"
			}
			mark := ""
			if p.Variables == current {
				mark = "●"
			}
			rows = append(rows, []string{
				mark,
				p.Key,
				cli.FormatPercent(p.Variables.GrowthBoost),
				cli.FormatPercent(p.Variables.CostPressure),
				cli.FormatPercent(p.Variables.Volatility),
				origin,
			})
		}
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Presets",
			Headers: []string{"", "Name", "Growth", "Pressure", "Volatility", "Origin"},
			Rows:    rows,
		}))
		return nil
	})
}

func runScenarioPreset(_ *cobra.Command, args []string) error {
	return mutate(func(s *session) (bool, error) {
		if !s.eng.ApplyPreset(args[0]) {
			keys := make([]string, 0)
			for _, p := range s.eng.Presets() {
				keys = append(keys, p.Key)
			}
			return false, fmt.Errorf("unknown preset %q (have %s)", args[0], strings.Join(keys, ", "))
		}
		say("Applied preset %q", args[0])
		return true, nil
	})
}

func runScenarioSet(_ *cobra.Command, args []string) error {
	name, ok := variableNames[strings.ToLower(args[0])]
	if !ok {
		return fmt.Errorf("unknown variable %q (want growth, pressure or volatility)", args[0])
	}
	value, err := money.Parse(strings.TrimSuffix(args[1], "%"))
	if err != nil {
		return err
	}
	return mutate(func(s *session) (bool, error) {
		if !s.eng.SetVariable(name, value) {
			return false, fmt.Errorf("could not set %s to %s", name, args[1])
		}
		say("Set %s", name)
		return true, nil
	})
}

func runScenarioNote(_ *cobra.Command, args []string) error {
	return mutate(func(s *session) (bool, error) {
		changed := s.eng.SetNote(strings.Join(args, " "))
		if note := s.eng.State().ScenarioNote; note != "" {
			say("Note: %s", note)
		} else {
			say("Note cleared")
		}
		return changed, nil
	})
}

func runScenarioPulse(_ *cobra.Command, args []string) error {
	action := strings.ToLower(args[0])
	return mutate(func(s *session) (bool, error) {
		before := s.eng.State().Capital
		if !s.eng.Pulse(action) {
			return false, fmt.Errorf("unknown pulse %q (want boost, trim or shock)", args[0])
		}
		after := s.eng.State().Capital
		say("Pulse %s applied, capital %s (%s)", action, cli.FormatMoney(after),
			cli.FormatDelta(after, before))
		return true, nil
	})
}

func runScenarioEvent(_ *cobra.Command, _ []string) error {
	return mutate(func(s *session) (bool, error) {
		say("%s", s.eng.TriggerEvent())
		return true, nil
	})
}
