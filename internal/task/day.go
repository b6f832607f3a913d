package task

import (
	"slices"
	"time"
)

// Day holds the slots and deadlines that fall on a single date.
type Day struct {
	Date      time.Time
	slots     []Slot  // sorted by Start
	deadlines []*Task // tasks due on this date
}

// NewDay creates a Day for the given date.
func NewDay(date time.Time) *Day {
	return &Day{
		Date:  truncateToDay(date),
		slots: make([]Slot, 0),
	}
}

// Slots returns a copy of the slot slice, sorted by start time.
func (d *Day) Slots() []Slot {
	result := make([]Slot, len(d.slots))
	copy(result, d.slots)
	return result
}

// Deadlines returns the tasks due on this day.
func (d *Day) Deadlines() []*Task {
	result := make([]*Task, len(d.deadlines))
	copy(result, d.deadlines)
	return result
}

// AddSlot adds a slot, maintaining sorted order by start time.
// Slots with equal start keep insertion order.
func (d *Day) AddSlot(s Slot) {
	d.slots = append(d.slots, s)
	slices.SortStableFunc(d.slots, func(a, b Slot) int {
		return a.StartMinutes() - b.StartMinutes()
	})
}

// AddDeadline records a task as due on this day.
func (d *Day) AddDeadline(t *Task) {
	if t == nil {
		return
	}
	d.deadlines = append(d.deadlines, t)
}

// FindOverlappingSlot returns the first slot overlapping [start, start+duration),
// or nil if none does.
func (d *Day) FindOverlappingSlot(start string, duration int) *Slot {
	s := TimeToMinutes(start)
	for i := range d.slots {
		other := d.slots[i]
		if IntervalsOverlap(s, s+duration, other.StartMinutes(), other.EndMinutes()) {
			return &d.slots[i]
		}
	}
	return nil
}

// ConflictCount returns the number of slot pairs on this day that overlap.
func (d *Day) ConflictCount() int {
	count := 0
	for i := 0; i < len(d.slots); i++ {
		for j := i + 1; j < len(d.slots); j++ {
			if d.slots[i].OverlapsWith(d.slots[j]) {
				count++
			}
		}
	}
	return count
}

// TotalMinutes returns the sum of slot durations.
func (d *Day) TotalMinutes() int {
	total := 0
	for _, s := range d.slots {
		total += s.Duration
	}
	return total
}

// IsEmpty returns true if nothing is scheduled or due on this day.
func (d *Day) IsEmpty() bool {
	return len(d.slots) == 0 && len(d.deadlines) == 0
}

// Len returns the number of slots in the day.
func (d *Day) Len() int {
	return len(d.slots)
}

// truncateToDay removes the time component from a time.Time.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
