package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/prepwise/internal/task"
)

func (a *App) regenerateCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "regenerate",
		Short: "Re-plan the slots of every task",
		Long: `Recompute the preparation slots of all tasks from today.

Tasks are re-planned in creation order, each one around the slots of
the tasks re-planned before it. Overdue tasks get a whole-duration
slot on today.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			ctx := context.Background()
			tasks, err := a.repo.ListTasks(ctx)
			if err != nil {
				return fmt.Errorf("listing tasks: %w", err)
			}
			if len(tasks) == 0 {
				fmt.Fprintln(a.out, "No tasks to regenerate.")
				return nil
			}

			regenerated := a.planner().Regenerate(tasks)
			changed := countChanged(tasks, regenerated)

			for _, t := range regenerated {
				fmt.Fprintf(a.out, "  #%d %s\n", t.ID, t.Name)
				for _, s := range t.Slots {
					fmt.Fprint(a.out, "  ")
					printSlotRow(a.out, s, false)
				}
			}

			if dryRun {
				fmt.Fprintf(a.out, "\n(Dry run - %d of %d task(s) would change)\n", changed, len(tasks))
				return nil
			}

			if err := a.repo.ReplaceSlots(ctx, regenerated); err != nil {
				return fmt.Errorf("saving slots: %w", err)
			}

			a.log().Info("regenerated slots", "tasks", len(regenerated), "changed", changed)
			fmt.Fprintf(a.out, "\nRegenerated %d task(s), %d changed\n", len(regenerated), changed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the new slots without saving")
	return cmd
}

// countChanged compares slot placement (date, start, duration) of tasks
// before and after regeneration. Both slices are in the same order.
func countChanged(before, after []*task.Task) int {
	changed := 0
	for i := range after {
		if i >= len(before) || !sameSlots(before[i].Slots, after[i].Slots) {
			changed++
		}
	}
	return changed
}

func sameSlots(a, b []task.Slot) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].DateKey() != b[i].DateKey() || a[i].Start != b[i].Start ||
			a[i].Duration != b[i].Duration || a[i].Outcome != b[i].Outcome {
			return false
		}
	}
	return true
}
