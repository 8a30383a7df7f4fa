package cmd

import (
	"fmt"

	"github.com/theirongolddev/capflow/internal/cli"
	"github.com/theirongolddev/capflow/internal/engine"
	"github.com/theirongolddev/capflow/internal/insight"
	"github.com/theirongolddev/capflow/internal/model"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show capital, flows and scenario at a glance",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	return withSession(func(s *session) error {
		st := s.eng.State()
		rep := insight.Summarize(st)

		flow := "paused"
		if st.IsFlowing {
			flow = "flowing"
		}
		note := st.ScenarioNote
		if note == "" {
			note = cli.Muted("(none)")
		}

		fmt.Println()
		fmt.Println(cli.RenderTitle(fmt.Sprintf("CAPFLOW  tick %s", cli.FormatNumber(int64(st.TickCount)))))
		fmt.Println()

		rows := [][]string{
			{"Capital", cli.FormatMoney(st.Capital)},
			{"Last change", cli.Colorize(rep.LastDelta, cli.FormatSigned(rep.LastDelta))},
			{"---"},
			{"Income/cycle", cli.FormatMoney(rep.Totals.Income)},
			{"Expense/cycle", cli.FormatMoney(rep.Totals.Expense)},
			{"Net/cycle", cli.Colorize(rep.Totals.Net, cli.FormatSigned(rep.Totals.Net))},
			{"Coverage", cli.FormatRatio(rep.Coverage)},
			{"Runway", rep.Runway.String()},
			{"Trend", cli.Colorize(rep.Trend, cli.FormatSigned(rep.Trend))},
			{"---"},
			{"Growth boost", cli.FormatPercent(st.Variables.GrowthBoost)},
			{"Cost pressure", cli.FormatPercent(st.Variables.CostPressure)},
			{"Volatility", cli.FormatPercent(st.Variables.Volatility)},
			{"Scenario note", note},
			{"---"},
			{"Flow", fmt.Sprintf("%s, every %s", flow, cli.FormatInterval(st.TickInterval))},
			{"Budget items", fmt.Sprintf("%d incomes, %d expenses", len(st.Incomes), len(st.Expenses))},
			{"Snapshots", snapshotSummary(st)},
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"Metric", "Value"},
			Rows:    rows,
		}))

		if scale := max(rep.Totals.Income, rep.Totals.Expense); scale > 0 {
			fmt.Println()
			fmt.Println(cli.RenderHorizontalBar("Income", rep.Totals.Income, scale, 30))
			fmt.Println(cli.RenderHorizontalBar("Expense", rep.Totals.Expense, scale, 30))
		}

		if values := engine.HistoryValues(st); len(values) > 1 {
			fmt.Println()
			fmt.Printf("  History  %s\n", cli.RenderSparkline(values))
		}
		return nil
	})
}

func snapshotSummary(st *model.State) string {
	out := fmt.Sprintf("%d of %d saved", st.Snapshots.Len(), st.Snapshots.Cap())
	if last, ok := st.Snapshots.Last(); ok {
		out += fmt.Sprintf(", latest %q", last.Name)
	}
	return out
}
