package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/capflow/internal/cli"
	"github.com/theirongolddev/capflow/internal/model"

	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:     "snapshot",
	Aliases: []string{"snap"},
	Short:   "Save and restore sandbox snapshots",
	RunE:    runSnapshotList,
}

var snapshotListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List saved snapshots, newest first",
	Args:  cobra.NoArgs,
	RunE:  runSnapshotList,
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Snapshot capital, scenario and budget",
	Long:  "The snapshot is named after the scenario note, or numbered when there is none.",
	Args:  cobra.NoArgs,
	RunE:  runSnapshotSave,
}

var snapshotLoadCmd = &cobra.Command{
	Use:   "load <snapshot>",
	Short: "Restore a snapshot by id prefix or name",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotLoad,
}

var snapshotRemoveCmd = &cobra.Command{
	Use:     "rm <snapshot>",
	Aliases: []string{"remove"},
	Short:   "Delete a snapshot",
	Args:    cobra.ExactArgs(1),
	RunE:    runSnapshotRemove,
}

func init() {
	snapshotCmd.AddCommand(snapshotListCmd, snapshotSaveCmd, snapshotLoadCmd, snapshotRemoveCmd)
	rootCmd.AddCommand(snapshotCmd)
}

// resolveSnapshot matches ref against snapshot ids (prefix) and names.
func resolveSnapshot(st *model.State, ref string) (model.Snapshot, error) {
	var byID, byName []model.Snapshot
	for _, snap := range st.Snapshots.Items() {
		if strings.HasPrefix(snap.ID, ref) {
			byID = append(byID, snap)
		}
		if strings.EqualFold(snap.Name, ref) {
			byName = append(byName, snap)
		}
	}
	for _, hits := range [][]model.Snapshot{byID, byName} {
		switch len(hits) {
		case 0:
			continue
		case 1:
			return hits[0], nil
		default:
			return model.Snapshot{}, fmt.Errorf("%w: %q matches %d snapshots", errAmbiguous, ref, len(hits))
		}
	}
	return model.Snapshot{}, fmt.Errorf("no snapshot matches %q", ref)
}

func runSnapshotList(_ *cobra.Command, _ []string) error {
	return withSession(func(s *session) error {
		snaps := s.eng.State().Snapshots.Items()
		if len(snaps) == 0 {
			fmt.Println("\n  No snapshots yet. Save one with: capflow snapshot save")
			return nil
		}

		rows := make([][]string, 0, len(snaps))
		for i := len(snaps) - 1; i >= 0; i-- {
			snap := snaps[i]
			rows = append(rows, []string{
				shortID(snap.ID),
				snap.Name,
				cli.FormatMoney(snap.Capital),
				fmt.Sprintf("%d/%d", len(snap.Incomes), len(snap.Expenses)),
				snap.Meta,
			})
		}
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   fmt.Sprintf("Snapshots (%d/%d)", len(snaps), model.SnapshotCap),
			Headers: []string{"ID", "Name", "Capital", "In/Out", "Saved"},
			Rows:    rows,
		}))
		return nil
	})
}

func runSnapshotSave(_ *cobra.Command, _ []string) error {
	return mutate(func(s *session) (bool, error) {
		snap := s.eng.SaveSnapshot()
		say("Saved snapshot %q (%s)", snap.Name, shortID(snap.ID))
		return true, nil
	})
}

func runSnapshotLoad(_ *cobra.Command, args []string) error {
	return mutate(func(s *session) (bool, error) {
		snap, err := resolveSnapshot(s.eng.State(), args[0])
		if err != nil {
			return false, err
		}
		if !s.eng.LoadSnapshot(snap.ID) {
			return false, fmt.Errorf("could not load %q", snap.Name)
		}
		say("Loaded snapshot %q, capital %s", snap.Name, cli.FormatMoney(snap.Capital))
		return true, nil
	})
}

func runSnapshotRemove(_ *cobra.Command, args []string) error {
	return mutate(func(s *session) (bool, error) {
		snap, err := resolveSnapshot(s.eng.State(), args[0])
		if err != nil {
			return false, err
		}
		if !s.eng.DeleteSnapshot(snap.ID) {
			return false, fmt.Errorf("could not delete %q", snap.Name)
		}
		say("Deleted snapshot %q", snap.Name)
		return true, nil
	})
}
