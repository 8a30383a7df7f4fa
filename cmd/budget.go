package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/capflow/internal/cli"
	"github.com/theirongolddev/capflow/internal/engine"
	"github.com/theirongolddev/capflow/internal/model"
	"github.com/theirongolddev/capflow/internal/money"

	"github.com/spf13/cobra"
)

var (
	flagItemMultiplier float64
	flagItemCadence    int
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Manage recurring incomes and expenses",
	RunE:  runBudgetList,
}

var budgetListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List budget items",
	Args:  cobra.NoArgs,
	RunE:  runBudgetList,
}

var budgetAddCmd = &cobra.Command{
	Use:   "add <income|expense> <name> <amount>",
	Short: "Add a budget item",
	Args:  cobra.ExactArgs(3),
	RunE:  runBudgetAdd,
}

var budgetSetCmd = &cobra.Command{
	Use:   "set <item> <amount|multiplier|cadence> <value>",
	Short: "Change one field of a budget item",
	Long:  "Items are matched by id prefix or by exact name.",
	Args:  cobra.ExactArgs(3),
	RunE:  runBudgetSet,
}

var budgetRemoveCmd = &cobra.Command{
	Use:     "rm <item>",
	Aliases: []string{"remove"},
	Short:   "Remove a budget item",
	Args:    cobra.ExactArgs(1),
	RunE:    runBudgetRemove,
}

func init() {
	budgetAddCmd.Flags().Float64VarP(&flagItemMultiplier, "multiplier", "m", 1, "Amount multiplier (minimum 0.1)")
	budgetAddCmd.Flags().IntVarP(&flagItemCadence, "cadence", "c", 1, "Contribute once every N ticks")

	budgetCmd.AddCommand(budgetListCmd, budgetAddCmd, budgetSetCmd, budgetRemoveCmd)
	rootCmd.AddCommand(budgetCmd)
}

func parseKind(s string) (model.Kind, error) {
	k := model.Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("unknown item type %q (want income or expense)", s)
	}
	return k, nil
}

var errAmbiguous = errors.New("ambiguous reference")

// resolveItem finds an item by exact name (case-insensitive) or id prefix
// across both registries.
func resolveItem(st *model.State, ref string) (model.Kind, model.BudgetItem, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", model.BudgetItem{}, errors.New("empty item reference")
	}

	type hit struct {
		kind model.Kind
		item model.BudgetItem
	}
	var byName, byID []hit
	for _, kind := range []model.Kind{model.Income, model.Expense} {
		for _, it := range *st.Items(kind) {
			if strings.EqualFold(it.Name, ref) {
				byName = append(byName, hit{kind, it})
			}
			if strings.HasPrefix(it.ID, ref) {
				byID = append(byID, hit{kind, it})
			}
		}
	}

	for _, hits := range [][]hit{byID, byName} {
		switch len(hits) {
		case 0:
			continue
		case 1:
			return hits[0].kind, hits[0].item, nil
		default:
			return "", model.BudgetItem{}, fmt.Errorf("%w: %q matches %d items", errAmbiguous, ref, len(hits))
		}
	}
	return "", model.BudgetItem{}, fmt.Errorf("no budget item matches %q", ref)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func runBudgetList(_ *cobra.Command, _ []string) error {
	return withSession(func(s *session) error {
		st := s.eng.State()
		if st.ItemCount() == 0 {
			fmt.Println("\n  No budget items yet.")
			fmt.Println("  Add one with: capflow budget add income Salary 1200")
			return nil
		}

		fmt.Println()
		for _, kind := range []model.Kind{model.Income, model.Expense} {
			items := *st.Items(kind)
			if len(items) == 0 {
				continue
			}
			rows := make([][]string, 0, len(items))
			total := 0.0
			for _, it := range items {
				per := engine.PerCycleContribution(it)
				total += per
				rows = append(rows, []string{
					shortID(it.ID),
					it.Name,
					cli.FormatMoney(it.Amount),
					cli.FormatMultiplier(it.Multiplier),
					cli.FormatCadence(it.Cadence),
					cli.FormatMoney(per),
				})
			}
			rows = append(rows, []string{"---"}, []string{"", "Total", "", "", "", cli.FormatMoney(total)})

			title := "Incomes"
			if kind == model.Expense {
				title = "Expenses"
			}
			fmt.Print(cli.RenderTable(cli.Table{
				Title:   title,
				Headers: []string{"ID", "Name", "Amount", "Mult", "Cadence", "Per cycle"},
				Rows:    rows,
			}))
			fmt.Println()
		}
		return nil
	})
}

func runBudgetAdd(_ *cobra.Command, args []string) error {
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}
	amount, err := money.Parse(args[2])
	if err != nil {
		return err
	}
	return mutate(func(s *session) (bool, error) {
		item, ok := s.eng.AddItem(kind, args[1], amount, flagItemMultiplier, float64(flagItemCadence))
		if !ok {
			return false, fmt.Errorf("amount must be a positive number, got %s", args[2])
		}
		say("Added %s %q (%s)", kind.Label(), item.Name, shortID(item.ID))
		return true, nil
	})
}

func runBudgetSet(_ *cobra.Command, args []string) error {
	field := strings.ToLower(args[1])
	switch field {
	case engine.FieldAmount, engine.FieldMultiplier, engine.FieldCadence:
	default:
		return fmt.Errorf("unknown field %q (want amount, multiplier or cadence)", args[1])
	}
	value, err := money.Parse(args[2])
	if err != nil {
		return err
	}
	return mutate(func(s *session) (bool, error) {
		kind, item, err := resolveItem(s.eng.State(), args[0])
		if err != nil {
			return false, err
		}
		if !s.eng.UpdateField(kind, item.ID, field, value) {
			return false, fmt.Errorf("could not set %s on %q", field, item.Name)
		}
		say("Updated %s %q (%s)", kind.Label(), item.Name, field)
		return true, nil
	})
}

func runBudgetRemove(_ *cobra.Command, args []string) error {
	return mutate(func(s *session) (bool, error) {
		kind, item, err := resolveItem(s.eng.State(), args[0])
		if err != nil {
			return false, err
		}
		if !s.eng.RemoveItem(kind, item.ID) {
			return false, fmt.Errorf("could not remove %q", item.Name)
		}
		say("Removed %s %q", kind.Label(), item.Name)
		return true, nil
	})
}
