package ui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func (a *App) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete [task-id]",
		Aliases: []string{"rm"},
		Short:   "Delete a task and its slots",
		Long: `Delete a task by its ID. Its preparation slots are removed too,
which frees their time for tasks planned afterwards.

The slots of other tasks are not re-planned; run 'prepwise regenerate'
for that.

Example:
  prepwise delete 42`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid task ID: %w", err)
			}

			ctx := context.Background()
			if err := a.repo.DeleteTask(ctx, id); err != nil {
				return fmt.Errorf("deleting task: %w", err)
			}

			a.log().Info("task deleted", "id", id)
			fmt.Fprintf(a.out, "Deleted task #%d\n", id)
			return nil
		},
	}
}
