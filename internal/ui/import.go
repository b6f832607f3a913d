package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/prepwise/internal/exchange"
	"github.com/javiermolinar/prepwise/internal/planner"
	"github.com/javiermolinar/prepwise/internal/task"
)

func (a *App) importCmd() *cobra.Command {
	var (
		format    string
		keepSlots bool
	)

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import tasks from a JSON or YAML document",
		Long: `Import tasks from an exchange document, as written by 'prepwise export'
or by the browser version of the planner.

Imported tasks are appended after the existing ones and their slots are
planned again from today, in document order, around everything already
stored. Use --keep-slots to store the document's slots unchanged.

Example:
  prepwise import tasks.json
  prepwise import backup.yaml --keep-slots`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			path, err := resolvePath(args[0])
			if err != nil {
				return err
			}

			info, err := os.Stat(path)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("file does not exist: %s", path)
				}
				return fmt.Errorf("checking file: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("path is a directory: %s", path)
			}

			f := exchange.FormatFromPath(path)
			if format != "" {
				if f, err = exchange.ParseFormat(format); err != nil {
					return err
				}
			}

			tasks, err := exchange.ReadFile(path, f)
			if err != nil {
				return err
			}

			count, err := importTasks(context.Background(), a.repo, a.planner(), tasks, a.now(), keepSlots)
			if err != nil {
				return err
			}

			a.log().Info("imported tasks", "path", path, "count", count, "keep_slots", keepSlots)
			fmt.Fprintf(a.out, "Imported %d tasks from %s\n", count, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Document format: json or yaml (default: from file extension)")
	cmd.Flags().BoolVar(&keepSlots, "keep-slots", false, "Store the document's slots instead of planning again")

	return cmd
}

// importTasks stores tasks after the existing ones. Unless keepSlots is set,
// every imported task is planned against the stored tasks and the imported
// tasks before it.
func importTasks(ctx context.Context, dest task.Repository, p *planner.Planner, tasks []*task.Task, now time.Time, keepSlots bool) (int, error) {
	if len(tasks) == 0 {
		return 0, nil
	}

	existing, err := dest.ListTasks(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing tasks: %w", err)
	}

	pool := existing
	for _, t := range tasks {
		t.ID = 0
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}
		if !keepSlots {
			res := p.PlanAt(planner.RequestFor(t), pool, now)
			t.AssignSlots(res.Slots)
		}
		pool = append(pool, t)
	}

	if err := dest.CreateTasks(ctx, tasks); err != nil {
		return 0, fmt.Errorf("importing tasks: %w", err)
	}
	return len(tasks), nil
}

func resolvePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path is required")
	}
	if path == "~" || (len(path) > 1 && path[:2] == "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return filepath.Clean(abs), nil
}
