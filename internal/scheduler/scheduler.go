// Package scheduler places a single day's preparation slot around the
// slots that are already committed.
package scheduler

import (
	"time"

	"github.com/javiermolinar/prepwise/internal/task"
)

// Placement defaults.
const (
	// DefaultStart is where probing begins on every candidate day.
	DefaultStart = "16:00"
	// ShiftMinutes is how far the probe moves after a collision.
	ShiftMinutes = 30
	// CutoffHour is the last hour probing may start in. Once the probe hour
	// exceeds it, the current candidate is accepted as is.
	CutoffHour = 22
)

// Policy configures the probing window.
type Policy struct {
	Start        string // "HH:MM"
	ShiftMinutes int
	CutoffHour   int
}

// DefaultPolicy returns the fixed 16:00 / 30 min / 22:00 policy.
func DefaultPolicy() Policy {
	return Policy{
		Start:        DefaultStart,
		ShiftMinutes: ShiftMinutes,
		CutoffHour:   CutoffHour,
	}
}

// Labeler produces the human readable label for a slot's day.
type Labeler interface {
	DayLabel(date time.Time) string
}

// Owner identifies the task a slot is placed for.
type Owner struct {
	ID   int64
	Name string
}

// Placement is the result of placing one day.
type Placement struct {
	Slot    task.Slot
	Outcome task.Outcome
	Probes  int        // number of candidate starts tested
	Blocker *task.Slot // last committed slot that collided, if any
}

// Placer finds the earliest non-overlapping start on a day.
type Placer struct {
	start     int // minutes since midnight
	step      int
	cutoff    int // hour
	maxProbes int
	labeler   Labeler
}

// New creates a Placer for the given policy.
// Invalid policy values fall back to the defaults.
func New(p Policy, labeler Labeler) *Placer {
	def := DefaultPolicy()
	if !task.ValidTime(p.Start) {
		p.Start = def.Start
	}
	if p.ShiftMinutes <= 0 {
		p.ShiftMinutes = def.ShiftMinutes
	}
	if p.CutoffHour <= 0 || p.CutoffHour > 23 {
		p.CutoffHour = def.CutoffHour
	}

	start := parseTime(p.Start)
	return &Placer{
		start:     start,
		step:      p.ShiftMinutes,
		cutoff:    p.CutoffHour,
		maxProbes: probeLimit(start, p.ShiftMinutes, p.CutoffHour),
		labeler:   labeler,
	}
}

// probeLimit returns how many candidate starts are tested before the probe
// hour passes the cutoff. At least one candidate is always tested.
func probeLimit(start, step, cutoffHour int) int {
	escapeAt := (cutoffHour + 1) * 60
	if start >= escapeAt {
		return 1
	}
	return (escapeAt - start + step - 1) / step
}

// MaxProbes returns the upper bound on candidates tested per day.
func (p *Placer) MaxProbes() int {
	return p.maxProbes
}

// Window returns the first probe start and the escape start as "HH:MM".
func (p *Placer) Window() (first, escape string) {
	return task.ClockTime(p.start), task.ClockTime(p.start + p.maxProbes*p.step)
}

// PlaceDay finds a start for a slot of the given minutes on date.
//
// Candidates are tested from the policy start in fixed increments against
// every committed slot on the same date; touching endpoints do not count as
// overlap. When every candidate up to the cutoff collides, the next
// candidate is accepted regardless and tagged OutcomePlacedWithOverlap if it
// collides too.
// PlaceDay always returns a usable slot.
func (p *Placer) PlaceDay(owner Owner, date time.Time, minutes int, pool *task.Pool) Placement {
	existing := pool.On(date.Format("2006-01-02"))

	candidate := p.start
	placement := Placement{Outcome: task.OutcomePlacedWithOverlap}
	for range p.maxProbes {
		placement.Probes++
		blocker := findOverlap(existing, candidate, candidate+minutes)
		if blocker == nil {
			placement.Outcome = task.OutcomePlaced
			break
		}
		placement.Blocker = blocker
		candidate += p.step
	}

	// The escape candidate is accepted either way; tag it by what it hits.
	if placement.Outcome == task.OutcomePlacedWithOverlap && findOverlap(existing, candidate, candidate+minutes) == nil {
		placement.Outcome = task.OutcomePlaced
		placement.Blocker = nil
	}

	placement.Slot = task.Slot{
		TaskID:   owner.ID,
		TaskName: owner.Name,
		Date:     date,
		Start:    task.ClockTime(candidate),
		Duration: minutes,
		Label:    p.label(date),
		Outcome:  placement.Outcome,
	}
	return placement
}

func (p *Placer) label(date time.Time) string {
	if p.labeler == nil {
		return date.Format("Monday 2 Jan")
	}
	return p.labeler.DayLabel(date)
}

// findOverlap returns the first slot intersecting [start, end), or nil.
func findOverlap(slots []task.Slot, start, end int) *task.Slot {
	for i := range slots {
		if task.IntervalsOverlap(start, end, slots[i].StartMinutes(), slots[i].EndMinutes()) {
			s := slots[i]
			return &s
		}
	}
	return nil
}

// parseTime parses "HH:MM" to minutes since midnight.
func parseTime(s string) int {
	if len(s) < 5 {
		return 0
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	return h*60 + m
}
