package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/capflow/internal/cli"
	"github.com/theirongolddev/capflow/internal/model"
	"github.com/theirongolddev/capflow/internal/money"

	"github.com/spf13/cobra"
)

var (
	flagEventDecrease bool
	flagEventNote     string
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Manage custom events that join the random pool",
	RunE:  runEventsList,
}

var eventsListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List custom events",
	Args:  cobra.NoArgs,
	RunE:  runEventsList,
}

var eventsAddCmd = &cobra.Command{
	Use:   "add <title> <value>",
	Short: "Add a custom event (raises capital unless --decrease)",
	Args:  cobra.ExactArgs(2),
	RunE:  runEventsAdd,
}

var eventsRemoveCmd = &cobra.Command{
	Use:     "rm <event>",
	Aliases: []string{"remove"},
	Short:   "Delete a custom event by id prefix or title",
	Args:    cobra.ExactArgs(1),
	RunE:    runEventsRemove,
}

func init() {
	eventsAddCmd.Flags().BoolVarP(&flagEventDecrease, "decrease", "d", false, "The event lowers capital")
	eventsAddCmd.Flags().StringVar(&flagEventNote, "note", "", "Free-form note")
	eventsCmd.AddCommand(eventsListCmd, eventsAddCmd, eventsRemoveCmd)
	rootCmd.AddCommand(eventsCmd)
}

// resolveCustomEvent matches ref against event ids (prefix) and titles.
func resolveCustomEvent(st *model.State, ref string) (model.CustomEvent, error) {
	var byID, byTitle []model.CustomEvent
	for _, ev := range st.CustomEvents {
		if strings.HasPrefix(ev.ID, ref) {
			byID = append(byID, ev)
		}
		if strings.EqualFold(ev.Title, ref) {
			byTitle = append(byTitle, ev)
		}
	}
	for _, hits := range [][]model.CustomEvent{byID, byTitle} {
		switch len(hits) {
		case 0:
			continue
		case 1:
			return hits[0], nil
		default:
			return model.CustomEvent{}, fmt.Errorf("%w: %q matches %d events", errAmbiguous, ref, len(hits))
		}
	}
	return model.CustomEvent{}, fmt.Errorf("no custom event matches %q", ref)
}

func runEventsList(_ *cobra.Command, _ []string) error {
	return withSession(func(s *session) error {
		events := s.eng.State().CustomEvents
		if len(events) == 0 {
			fmt.Println("\n  No custom events. Add one with: capflow events add \"Roof leak\" 900 --decrease")
			return nil
		}
		rows := make([][]string, 0, len(events))
		for i := len(events) - 1; i >= 0; i-- {
			ev := events[i]
			note := ev.Note
			if note == "" {
				note = cli.Muted("·")
			}
			rows = append(rows, []string{
				shortID(ev.ID),
				ev.Title,
				cli.Colorize(ev.Delta(), cli.FormatSigned(ev.Delta())),
				note,
				cli.FormatAgo(ev.Created),
			})
		}
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   fmt.Sprintf("Custom events (%d/%d)", len(events), model.CustomEventCap),
			Headers: []string{"ID", "Title", "Impact", "Note", "Added"},
			Rows:    rows,
		}))
		return nil
	})
}

func runEventsAdd(_ *cobra.Command, args []string) error {
	value, err := money.Parse(args[1])
	if err != nil {
		return err
	}
	impact := model.Increase
	if flagEventDecrease {
		impact = model.Decrease
	}
	return mutate(func(s *session) (bool, error) {
		ev, ok := s.eng.AddCustomEvent(args[0], value, impact, flagEventNote)
		if !ok {
			if len(s.eng.State().CustomEvents) >= model.CustomEventCap {
				return false, fmt.Errorf("the event pool is full (%d custom events)", model.CustomEventCap)
			}
			return false, fmt.Errorf("event needs a title and a positive value, got %q %s", args[0], args[1])
		}
		say("Added event %q (%s)", ev.Title, cli.FormatSigned(ev.Delta()))
		return true, nil
	})
}

func runEventsRemove(_ *cobra.Command, args []string) error {
	return mutate(func(s *session) (bool, error) {
		ev, err := resolveCustomEvent(s.eng.State(), args[0])
		if err != nil {
			return false, err
		}
		if !s.eng.RemoveCustomEvent(ev.ID) {
			return false, fmt.Errorf("could not delete %q", ev.Title)
		}
		say("Deleted event %q", ev.Title)
		return true, nil
	})
}
