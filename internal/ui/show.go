package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/prepwise/internal/dateutil"
)

func (a *App) showCmd() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show today's preparation slots",
		Long: `Display the preparation slots planned for today.

Use 'prepwise week' for the whole week.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}

			today := dateutil.TruncateToDay(a.now())
			slots, err := a.repo.ListSlotsByDateRange(context.Background(), today, today)
			if err != nil {
				return fmt.Errorf("fetching slots: %w", err)
			}

			if len(slots) == 0 {
				fmt.Fprintln(a.out, "Nothing to prepare today.")
				return nil
			}

			fmt.Fprintf(a.out, "\n  %s\n", formatHeader("TODAY: "+today.Format("Monday, January 2")))
			fmt.Fprintln(a.out, strings.Repeat("─", ruleWidth))

			total := 0
			for _, s := range slots {
				printSlotRow(a.out, s, true)
				total += s.Duration
			}

			fmt.Fprintln(a.out, strings.Repeat("─", ruleWidth))
			fmt.Fprintf(a.out, "  Total: %s in %d slot(s)\n\n", formatStats(FormatDuration(total)), len(slots))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}
