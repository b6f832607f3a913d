package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/prepwise/internal/dateutil"
	"github.com/javiermolinar/prepwise/internal/task"
)

func (a *App) listCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all tasks",
		Long: `List every task in creation order with its deadline, preparation
time and planned slots.

Use --verbose to print each slot below its task.`,
		Example: `  prepwise list
  prepwise list -v`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			tasks, err := a.repo.ListTasks(context.Background())
			if err != nil {
				return fmt.Errorf("listing tasks: %w", err)
			}

			if len(tasks) == 0 {
				fmt.Fprintln(a.out, "No tasks yet. Add one with 'prepwise add'.")
				return nil
			}

			now := a.now()
			for _, t := range tasks {
				fmt.Fprintf(a.out, "  %s #%d %s  due %s  prep %s  %d slot(s)\n",
					taskSymbol(t, now),
					t.ID,
					t.Name,
					dateutil.FormatDate(t.Deadline),
					FormatDuration(t.PrepMinutes),
					len(t.Slots),
				)
				if verbose {
					for _, s := range t.Slots {
						fmt.Fprint(a.out, "    ")
						printSlotRow(a.out, s, false)
					}
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show the slots of each task")

	return cmd
}

// taskSymbol summarizes a task: overdue, fallback, overlap or clean.
func taskSymbol(t *task.Task, now time.Time) string {
	if t.IsOverdue(now) {
		return formatMuted("✗")
	}
	worst := task.OutcomePlaced
	for _, s := range t.Slots {
		switch s.Outcome {
		case task.OutcomeFallbackWholeDuration:
			worst = s.Outcome
		case task.OutcomePlacedWithOverlap:
			if worst == task.OutcomePlaced {
				worst = s.Outcome
			}
		}
	}
	return outcomeSymbol(worst)
}
