package cmd

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwarden/timeline/internal/parser"
	"github.com/cwarden/timeline/internal/store"
	"github.com/cwarden/timeline/internal/timeline"
)

var (
	listFrom string
	listTo   string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List events and exit",
	Long: `List the events overlapping a range of days in a simple text format.
Without flags the range is today. Dates accept the same forms as the
goto prompt, for example 2024-05-01, next fri or +2w.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listFrom, "from", "today", "First day of the range")
	listCmd.Flags().StringVar(&listTo, "to", "", "Last day of the range (default: same as --from)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	p := parser.NewDateParser()
	from, err := p.Parse(listFrom)
	if err != nil {
		return fmt.Errorf("invalid --from: %w", err)
	}
	to := from
	if listTo != "" {
		if to, err = p.ParseFrom(listTo, from); err != nil {
			return fmt.Errorf("invalid --to: %w", err)
		}
	}
	if to.Before(from) {
		return fmt.Errorf("--to %s is before --from %s", timeline.FormatDate(to), timeline.FormatDate(from))
	}

	st, _, err := openStore()
	if err != nil {
		return err
	}

	printEvents(cmd.OutOrStdout(), st.Events(), from, to, cfg.DateFormat)
	return nil
}

func printEvents(w io.Writer, events []store.Event, from, to time.Time, dateFormat string) {
	rng := timeline.Span{Start: timeline.FormatDate(from), End: timeline.FormatDate(to)}

	if rng.Start == rng.End {
		fmt.Fprintf(w, "Events for %s:\n", from.Format(dateFormat))
	} else {
		fmt.Fprintf(w, "Events from %s to %s:\n", from.Format(dateFormat), to.Format(dateFormat))
	}

	sorted := make([]store.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartDate < sorted[j].StartDate
	})

	found := 0
	for _, e := range sorted {
		if !e.Span().Overlaps(rng) {
			continue
		}
		found++

		when := e.StartDate
		if e.EndDate != e.StartDate {
			when += " → " + e.EndDate
		}
		fmt.Fprintf(w, "  %s - %s\n", when, e.Title)
		if e.Description != "" {
			fmt.Fprintf(w, "    %s\n", e.Description)
		}
	}

	if found == 0 {
		fmt.Fprintln(w, "No events found.")
	}
}
