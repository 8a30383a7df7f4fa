package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/capflow/internal/cli"
	"github.com/theirongolddev/capflow/internal/insight"
	"github.com/theirongolddev/capflow/internal/money"

	"github.com/spf13/cobra"
)

var (
	flagAdjustReason string
	flagLedgerLimit  int
)

var capitalCmd = &cobra.Command{
	Use:   "capital",
	Short: "Manually change capital",
}

var capitalAdjustCmd = &cobra.Command{
	Use:   "adjust <delta>",
	Short: "Add a signed amount to capital",
	Long:  "Negative deltas need a `--` separator: capflow capital adjust -- -500",
	Args:  cobra.ExactArgs(1),
	RunE:  runCapitalAdjust,
}

var capitalDepositCmd = &cobra.Command{
	Use:   "deposit <amount>",
	Short: "Add to capital",
	Args:  cobra.ExactArgs(1),
	RunE:  func(_ *cobra.Command, args []string) error { return adjustCapital(args[0], 1) },
}

var capitalWithdrawCmd = &cobra.Command{
	Use:   "withdraw <amount>",
	Short: "Take from capital",
	Args:  cobra.ExactArgs(1),
	RunE:  func(_ *cobra.Command, args []string) error { return adjustCapital(args[0], -1) },
}

var capitalLedgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "List manual capital changes with activity counts",
	Args:  cobra.NoArgs,
	RunE:  runCapitalLedger,
}

func init() {
	capitalCmd.PersistentFlags().StringVar(&flagAdjustReason, "reason", "", "Feed label for the change")
	capitalLedgerCmd.Flags().IntVarP(&flagLedgerLimit, "limit", "n", 20, "Number of most recent entries to show (0 = all)")
	capitalCmd.AddCommand(capitalAdjustCmd, capitalDepositCmd, capitalWithdrawCmd, capitalLedgerCmd)
	rootCmd.AddCommand(capitalCmd)
}

func runCapitalAdjust(_ *cobra.Command, args []string) error {
	return adjustCapital(args[0], 1)
}

func adjustCapital(arg string, sign float64) error {
	v, err := money.Parse(arg)
	if err != nil {
		return err
	}
	if sign < 0 && v < 0 {
		return fmt.Errorf("withdraw takes a positive amount, got %s", arg)
	}
	delta := v * sign
	return mutate(func(s *session) (bool, error) {
		if !s.eng.AdjustCapital(delta, flagAdjustReason) {
			return false, fmt.Errorf("delta must be a non-zero amount, got %s", arg)
		}
		say("Capital %s (%s)", cli.FormatMoney(s.eng.State().Capital), cli.FormatSigned(money.Round2(delta)))
		return true, nil
	})
}

func runCapitalLedger(_ *cobra.Command, _ []string) error {
	return withSession(func(s *session) error {
		txs := s.eng.State().Ledger.Items()
		if len(txs) == 0 {
			fmt.Println("\n  No manual changes yet. Try: capflow capital deposit 500 --reason Bonus")
			return nil
		}
		shown := txs
		if flagLedgerLimit > 0 && len(shown) > flagLedgerLimit {
			shown = shown[len(shown)-flagLedgerLimit:]
		}

		rows := make([][]string, 0, len(shown))
		for i := len(shown) - 1; i >= 0; i-- {
			tx := shown[i]
			rows = append(rows, []string{
				tx.At.Local().Format("Jan 2 15:04"),
				tx.Type.Label(),
				tx.Name,
				cli.Colorize(tx.Signed(), cli.FormatSigned(tx.Signed())),
			})
		}
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Ledger",
			Headers: []string{"When", "Type", "Reason", "Amount"},
			Rows:    rows,
		}))

		act := insight.LedgerActivity(txs, time.Now())
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"Activity", "Value"},
			Rows: [][]string{
				{"Today", cli.FormatNumber(int64(act.Today))},
				{"Last 7 days", cli.FormatNumber(int64(act.Week))},
				{"All time", cli.FormatNumber(int64(act.Total))},
				{"---"},
				{"Deposited", cli.FormatMoney(act.Income)},
				{"Withdrawn", cli.FormatMoney(act.Expense)},
				{"Income share", cli.RenderMeter(act.IncomeShare(), 1, 12) + " " + cli.FormatPercent(act.IncomeShare()*100)},
			},
		}))
		return nil
	})
}
