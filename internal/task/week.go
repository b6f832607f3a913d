package task

import (
	"time"
)

// Week holds 7 days starting from Monday.
type Week struct {
	StartDate time.Time // Monday of the week
	Days      [7]*Day   // Monday (0) through Sunday (6)
}

// NewWeek creates a Week starting from the Monday of the given date.
func NewWeek(date time.Time) *Week {
	monday := startOfWeek(date)
	w := &Week{StartDate: monday}

	for i := 0; i < 7; i++ {
		w.Days[i] = NewDay(monday.AddDate(0, 0, i))
	}

	return w
}

// NewWeekFromTasks creates a Week and distributes slots and deadlines to
// their respective days. Anything outside the week's date range is ignored.
func NewWeekFromTasks(date time.Time, tasks []*Task) *Week {
	w := NewWeek(date)

	for _, t := range tasks {
		if t == nil {
			continue
		}
		if day := w.DayByDate(t.Deadline); day != nil {
			day.AddDeadline(t)
		}
		for _, s := range t.Slots {
			if day := w.DayByDate(s.Date); day != nil {
				day.AddSlot(s)
			}
		}
	}

	return w
}

// Day returns the Day for the given weekday (0=Monday, 6=Sunday).
// Returns nil if weekday is out of range.
func (w *Week) Day(weekday int) *Day {
	if weekday < 0 || weekday > 6 {
		return nil
	}
	return w.Days[weekday]
}

// DayByDate returns the Day for the given date, nil if not in this week.
func (w *Week) DayByDate(date time.Time) *Day {
	y, m, d := date.Date()
	for _, day := range w.Days {
		dy, dm, dd := day.Date.Date()
		if y == dy && m == dm && d == dd {
			return day
		}
	}
	return nil
}

// AllSlots returns all slots across all days, sorted by date and start time.
func (w *Week) AllSlots() []Slot {
	var result []Slot
	for _, day := range w.Days {
		result = append(result, day.Slots()...)
	}
	return result
}

// EndDate returns the Sunday of the week.
func (w *Week) EndDate() time.Time {
	return w.StartDate.AddDate(0, 0, 6)
}

// WeekStats holds aggregated statistics for the week.
type WeekStats struct {
	TotalMinutes int
	Slots        int
	Deadlines    int
	Conflicts    int
	DayMinutes   [7]int
}

// BusiestDay returns the weekday (0=Monday) with the most planned minutes.
// Returns -1 when nothing is planned.
func (s WeekStats) BusiestDay() (weekday int, minutes int) {
	weekday = -1
	for i, m := range s.DayMinutes {
		if m > minutes {
			minutes = m
			weekday = i
		}
	}
	return weekday, minutes
}

// Stats calculates statistics for the week.
func (w *Week) Stats() WeekStats {
	var stats WeekStats
	for i, day := range w.Days {
		minutes := day.TotalMinutes()
		stats.DayMinutes[i] = minutes
		stats.TotalMinutes += minutes
		stats.Slots += day.Len()
		stats.Deadlines += len(day.deadlines)
		stats.Conflicts += day.ConflictCount()
	}
	return stats
}

// startOfWeek returns the Monday of the week containing the given date.
func startOfWeek(t time.Time) time.Time {
	t = truncateToDay(t)
	weekday := int(t.Weekday())
	// Convert Sunday (0) to 7 for easier calculation
	if weekday == 0 {
		weekday = 7
	}
	return t.AddDate(0, 0, -(weekday - 1))
}
