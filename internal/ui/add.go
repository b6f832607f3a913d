package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/prepwise/internal/dateutil"
	"github.com/javiermolinar/prepwise/internal/planner"
	"github.com/javiermolinar/prepwise/internal/task"
)

func (a *App) addCmd() *cobra.Command {
	var (
		prep     int
		deadline string
		desc     string
		yes      bool
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Plan preparation time for a new task",
		Long: `Add a task and spread its preparation time over the days before
the deadline, one slot per day.

The deadline accepts YYYY-MM-DD, today, tomorrow, a weekday name,
next-<weekday> or next-week.

Interactive mode:
  After the proposal is shown you can:
  - [a]pprove: Save the task and its slots
  - [e]dit: Change the preparation time or deadline and plan again
  - [c]ancel: Exit without saving`,
		Example: `  prepwise add "Exam statistics" --prep 180 --deadline friday
  prepwise add "Talk" --prep 90 --deadline 2025-01-20 --yes`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			now := a.now()
			t, err := task.New(strings.Join(args, " "), desc, prep, deadline, now)
			if err != nil {
				return err
			}

			existing, err := a.repo.ListTasks(ctx)
			if err != nil {
				return fmt.Errorf("listing tasks: %w", err)
			}

			p := a.planner()
			reader := bufio.NewReader(a.in)
			for {
				res := p.PlanAt(planner.RequestFor(t), existing, now)
				printPreview(a.out, t.Name, t.PrepMinutes, res)

				if dryRun {
					fmt.Fprintln(a.out, "\n(Dry run - task not saved)")
					return nil
				}
				if yes {
					return a.commitTask(ctx, p, t, existing, now)
				}

				fmt.Fprint(a.out, "\n[a]pprove / [e]dit / [c]ancel: ")
				choice, err := readLine(reader)
				if errors.Is(err, io.EOF) {
					fmt.Fprintln(a.out, "\nCancelled.")
					return nil
				}
				if err != nil {
					return fmt.Errorf("reading input: %w", err)
				}

				switch strings.ToLower(choice) {
				case "a", "approve":
					return a.commitTask(ctx, p, t, existing, now)

				case "e", "edit":
					edited, err := a.editTask(reader, t, now)
					if err != nil {
						fmt.Fprintf(a.out, "%s\n", formatWarning(err.Error()))
						continue
					}
					t = edited

				case "c", "cancel":
					fmt.Fprintln(a.out, "Cancelled.")
					return nil

				default:
					fmt.Fprintln(a.out, "Invalid choice. Please enter 'a', 'e', or 'c'.")
				}
			}
		},
	}

	cmd.Flags().IntVar(&prep, "prep", 0, "Preparation time in minutes (required)")
	cmd.Flags().StringVar(&deadline, "deadline", "", "Deadline (YYYY-MM-DD, today, tomorrow, friday, next-week, ...)")
	cmd.Flags().StringVar(&desc, "desc", "", "Optional description")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Save without asking for approval")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the proposed slots without saving")

	_ = cmd.MarkFlagRequired("prep")
	_ = cmd.MarkFlagRequired("deadline")

	return cmd
}

// commitTask plans t again with the instant captured at submit, so the
// stored slots are the ones the preview showed, and saves it.
func (a *App) commitTask(ctx context.Context, p *planner.Planner, t *task.Task, existing []*task.Task, now time.Time) error {
	res := p.PlanAt(planner.RequestFor(t), existing, now)
	t.AssignSlots(res.Slots)

	if err := a.repo.CreateTask(ctx, t); err != nil {
		return fmt.Errorf("creating task: %w", err)
	}

	a.log().Info("task created", "id", t.ID, "name", t.Name, "slots", len(t.Slots), "fallback", res.Fallback)
	fmt.Fprintf(a.out, "Created task #%d: %s, %d slot(s) before %s\n",
		t.ID, t.Name, len(t.Slots), dateutil.FormatDate(t.Deadline))
	return nil
}

// editTask asks for a new preparation time and deadline.
// Empty answers keep the current value.
func (a *App) editTask(r *bufio.Reader, t *task.Task, now time.Time) (*task.Task, error) {
	fmt.Fprintf(a.out, "Preparation minutes [%d]: ", t.PrepMinutes)
	line, err := readLine(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	prep := t.PrepMinutes
	if line != "" {
		prep, err = strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("invalid number: %s", line)
		}
	}

	fmt.Fprintf(a.out, "Deadline [%s]: ", dateutil.FormatDate(t.Deadline))
	line, err = readLine(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	deadline := dateutil.FormatDate(t.Deadline)
	if line != "" {
		deadline = line
	}

	return task.New(t.Name, t.Description, prep, deadline, now)
}

// readLine reads one trimmed line. A final line without newline is returned
// without error.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
