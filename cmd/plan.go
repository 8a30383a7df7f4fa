package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/theirongolddev/capflow/internal/planfile"

	"github.com/spf13/cobra"
)

var flagPlanReplace bool

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Export or import YAML scenario plans",
}

var planExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write budget, scenario and custom presets as YAML (stdout without a file)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPlanExport,
}

var planImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Add a plan's items and apply its scenario",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlanImport,
}

func init() {
	planImportCmd.Flags().BoolVar(&flagPlanReplace, "replace", false, "Remove existing budget items first")
	planCmd.AddCommand(planExportCmd, planImportCmd)
	rootCmd.AddCommand(planCmd)
}

func runPlanExport(_ *cobra.Command, args []string) error {
	return withSession(func(s *session) error {
		p := planfile.FromState(s.eng.State(), s.eng.Presets())
		if len(args) == 0 || args[0] == "-" {
			return planfile.Encode(os.Stdout, p)
		}
		if err := planfile.Save(args[0], p); err != nil {
			return err
		}
		say("Exported %d incomes, %d expenses to %s", len(p.Incomes), len(p.Expenses), args[0])
		return nil
	})
}

func runPlanImport(_ *cobra.Command, args []string) error {
	p, err := planfile.Load(args[0])
	if err != nil {
		return err
	}
	return mutate(func(s *session) (bool, error) {
		res := p.Apply(s.eng, flagPlanReplace)
		if flagPlanReplace {
			say("Removed %d existing items", res.Removed)
		}
		say("Added %d items, skipped %d", res.Added, res.Skipped)
		if res.Presets > 0 {
			say("Custom presets in this plan (%s) apply to this run only; set scenario.plan_file to keep them",
				strings.Join(p.PresetKeys(), ", "))
		}
		return true, nil
	})
}
