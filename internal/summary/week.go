// Package summary provides shared week summary utilities.
package summary

import (
	"context"
	"fmt"
	"time"

	"github.com/javiermolinar/prepwise/internal/dateutil"
	"github.com/javiermolinar/prepwise/internal/task"
)

// WeekSummary holds the calendar and aggregated data for one week.
type WeekSummary struct {
	Start time.Time
	End   time.Time
	Week  *task.Week
	Tasks []*task.Task
	Stats task.WeekStats

	// Flagged lists slots in the week that were not placed cleanly:
	// accepted overlaps and whole-duration fallbacks.
	Flagged []task.Slot
}

// BuildWeekSummaryOptions configures the repository-backed summary builder.
type BuildWeekSummaryOptions struct {
	WeekStart time.Time
}

// SummarizeWeek builds week summary data from tasks and a reference date.
// Tasks with neither a slot nor a deadline in the week are dropped.
func SummarizeWeek(weekStart time.Time, tasks []*task.Task) *WeekSummary {
	start, end := dateutil.WeekRange(weekStart)
	week := task.NewWeekFromTasks(start, tasks)

	s := &WeekSummary{
		Start: start,
		End:   end,
		Week:  week,
		Stats: week.Stats(),
	}

	for _, t := range tasks {
		if t == nil {
			continue
		}
		in := week.DayByDate(t.Deadline) != nil
		for _, sl := range t.Slots {
			if week.DayByDate(sl.Date) == nil {
				continue
			}
			in = true
			if sl.Outcome == task.OutcomePlacedWithOverlap || sl.Outcome == task.OutcomeFallbackWholeDuration {
				s.Flagged = append(s.Flagged, sl)
			}
		}
		if in {
			s.Tasks = append(s.Tasks, t)
		}
	}

	return s
}

// BuildWeekSummary loads tasks for the requested week.
func BuildWeekSummary(ctx context.Context, repo task.Repository, opts BuildWeekSummaryOptions) (*WeekSummary, error) {
	weekStart := opts.WeekStart
	if weekStart.IsZero() {
		weekStart = time.Now()
	}

	start, end := dateutil.WeekRange(weekStart)
	tasks, err := repo.ListTasksInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetching tasks: %w", err)
	}

	return SummarizeWeek(start, tasks), nil
}
