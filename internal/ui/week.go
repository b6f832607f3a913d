package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/prepwise/internal/dateutil"
	"github.com/javiermolinar/prepwise/internal/locale"
	"github.com/javiermolinar/prepwise/internal/summary"
)

func (a *App) weekCmd() *cobra.Command {
	var date string
	var noColor bool

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show the week calendar",
		Long: `Display Monday through Sunday of a week: the deadlines due on each
day first, then the preparation slots sorted by start time.

Slots placed on top of another slot and whole-duration fallbacks are
flagged below the calendar.`,
		Example: `  prepwise week
  prepwise week --date 2025-01-20`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}

			ref := a.now()
			if date != "" {
				d, err := dateutil.ParseDate(date)
				if err != nil {
					return fmt.Errorf("invalid --date %q: %w", date, err)
				}
				ref = d
			}

			ws, err := summary.BuildWeekSummary(context.Background(), a.repo, summary.BuildWeekSummaryOptions{
				WeekStart: ref,
			})
			if err != nil {
				return fmt.Errorf("building week summary: %w", err)
			}

			printWeek(a.out, ws, a.labeler())
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Any date in the week to show (YYYY-MM-DD, default: today)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

func printWeek(w io.Writer, ws *summary.WeekSummary, l *locale.Labeler) {
	header := fmt.Sprintf("WEEK: %s - %s", ws.Start.Format("Mon Jan 2"), ws.End.Format("Mon Jan 2, 2006"))
	fmt.Fprintf(w, "\n  %s\n", formatHeader(header))
	fmt.Fprintln(w, strings.Repeat("─", ruleWidth))

	if len(ws.Tasks) == 0 {
		fmt.Fprintln(w, "  Nothing planned this week.")
		fmt.Fprintln(w)
		return
	}

	for i, day := range ws.Week.Days {
		if day.IsEmpty() && len(day.Deadlines()) == 0 {
			continue
		}
		fmt.Fprintf(w, "  %s\n", formatHeader(fmt.Sprintf("%s %s", l.WeekdayShort(i), day.Date.Format("02-01"))))
		for _, t := range day.Deadlines() {
			fmt.Fprintf(w, "  ⚑  deadline  %s\n", t.Name)
		}
		for _, s := range day.Slots() {
			printSlotRow(w, s, true)
		}
	}

	fmt.Fprintln(w, strings.Repeat("─", ruleWidth))
	printWeekStats(w, ws.Stats, l.WeekdayShort)

	if len(ws.Flagged) > 0 {
		fmt.Fprintf(w, "\n  %s\n", formatWarning(fmt.Sprintf("%d slot(s) need attention:", len(ws.Flagged))))
		for _, s := range ws.Flagged {
			fmt.Fprintf(w, "    %s %s %s %s\n", s.DateKey(), s.Start, s.TaskName, formatMuted("("+outcomeNote(s.Outcome)+")"))
		}
	}
	fmt.Fprintln(w)
}
