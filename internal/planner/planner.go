// Package planner spreads a task's preparation time over the days before
// its deadline and places one slot per day around committed slots.
package planner

import (
	"log/slog"
	"time"

	"github.com/javiermolinar/prepwise/internal/dateutil"
	"github.com/javiermolinar/prepwise/internal/locale"
	"github.com/javiermolinar/prepwise/internal/scheduler"
	"github.com/javiermolinar/prepwise/internal/task"
)

// MaxSpreadDays caps how many days preparation is spread across.
const MaxSpreadDays = 7

// Spread is the day count and per-day minutes for one planning run.
type Spread struct {
	Days          int
	MinutesPerDay int
}

// ComputeSpread decides how many days to spread prepMinutes across.
// See ComputeSpreadLimit.
func ComputeSpread(deadline time.Time, prepMinutes int, now time.Time) Spread {
	return ComputeSpreadLimit(deadline, prepMinutes, now, MaxSpreadDays)
}

// ComputeSpreadLimit returns clamp(days until deadline, 1, maxDays) and
// ceil(prepMinutes / days). Days are counted between calendar dates, so a
// deadline of today yields 0 before clamping. Rounding up means the total
// planned minutes may exceed prepMinutes by at most Days-1.
func ComputeSpreadLimit(deadline time.Time, prepMinutes int, now time.Time, maxDays int) Spread {
	if maxDays < 1 {
		maxDays = MaxSpreadDays
	}
	days := min(max(dateutil.DaysBetween(now, deadline), 1), maxDays)
	return Spread{
		Days:          days,
		MinutesPerDay: (prepMinutes + days - 1) / days,
	}
}

// Request describes the task being planned.
type Request struct {
	OwnerID     int64 // 0 for a task that has not been stored yet
	Name        string
	PrepMinutes int
	Deadline    time.Time
}

// RequestFor builds a Request from an existing task.
func RequestFor(t *task.Task) Request {
	return Request{
		OwnerID:     t.ID,
		Name:        t.Name,
		PrepMinutes: t.PrepMinutes,
		Deadline:    t.Deadline,
	}
}

// Result is the outcome of one planning run.
type Result struct {
	Spread     Spread
	Slots      []task.Slot
	Placements []scheduler.Placement
	Skipped    int  // candidate days past the deadline
	Fallback   bool // true when the whole-duration fallback fired
}

// Overlapping returns how many slots were accepted despite a collision.
func (r Result) Overlapping() int {
	n := 0
	for _, pl := range r.Placements {
		if pl.Outcome == task.OutcomePlacedWithOverlap {
			n++
		}
	}
	return n
}

// Planner combines the day spread with per-day slot placement.
type Planner struct {
	policy  scheduler.Policy
	maxDays int
	labeler *locale.Labeler
	logger  *slog.Logger
	now     func() time.Time
	placer  *scheduler.Placer
}

// Option configures a Planner.
type Option func(*Planner)

// WithPolicy overrides the probing policy.
func WithPolicy(p scheduler.Policy) Option {
	return func(pl *Planner) { pl.policy = p }
}

// WithMaxSpreadDays overrides the spread cap.
func WithMaxSpreadDays(n int) Option {
	return func(pl *Planner) {
		if n > 0 {
			pl.maxDays = n
		}
	}
}

// WithLabeler sets the day label formatter.
func WithLabeler(l *locale.Labeler) Option {
	return func(pl *Planner) {
		if l != nil {
			pl.labeler = l
		}
	}
}

// WithLogger sets the logger used for placement diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(pl *Planner) {
		if l != nil {
			pl.logger = l
		}
	}
}

// WithClock sets the source of the current instant.
func WithClock(now func() time.Time) Option {
	return func(pl *Planner) {
		if now != nil {
			pl.now = now
		}
	}
}

// New creates a Planner with the default policy, English labels and a
// discarding logger.
func New(opts ...Option) *Planner {
	p := &Planner{
		policy:  scheduler.DefaultPolicy(),
		maxDays: MaxSpreadDays,
		labeler: locale.New(locale.Default),
		logger:  slog.New(slog.DiscardHandler),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.placer = scheduler.New(p.policy, p.labeler)
	return p
}

// Now returns the planner's current instant.
func (p *Planner) Now() time.Time {
	return p.now()
}

// Plan plans req against the committed tasks using the planner's clock.
func (p *Planner) Plan(req Request, existing []*task.Task) Result {
	return p.PlanAt(req, existing, p.now())
}

// PlanAt plans req against the committed tasks as of now.
//
// Candidate day i (0-based) is today+i+1. Candidate days after the deadline
// produce no slot. If no slot is produced at all, a single fallback slot is
// placed on today with the whole preparation time and no collision check.
// existing is read only; slots of existing tasks with req.OwnerID are
// ignored so a stored task can be re-planned.
func (p *Planner) PlanAt(req Request, existing []*task.Task, now time.Time) Result {
	today := dateutil.TruncateToDay(now)
	deadlineEnd := dateutil.EndOfDay(req.Deadline)
	spread := ComputeSpreadLimit(req.Deadline, req.PrepMinutes, now, p.maxDays)
	pool := task.NewPool(existing, req.OwnerID)
	owner := scheduler.Owner{ID: req.OwnerID, Name: req.Name}

	result := Result{Spread: spread}
	for i := range spread.Days {
		day := today.AddDate(0, 0, i+1)
		if day.After(deadlineEnd) {
			result.Skipped++
			continue
		}

		pl := p.placer.PlaceDay(owner, day, spread.MinutesPerDay, pool)
		result.Placements = append(result.Placements, pl)
		result.Slots = append(result.Slots, pl.Slot)

		if pl.Outcome == task.OutcomePlacedWithOverlap {
			p.logger.Warn("no free start before cutoff, accepting overlap",
				"task", req.Name,
				"date", dateutil.FormatDate(day),
				"start", pl.Slot.Start,
				"probes", pl.Probes,
			)
		} else {
			p.logger.Debug("placed slot",
				"task", req.Name,
				"date", dateutil.FormatDate(day),
				"start", pl.Slot.Start,
				"probes", pl.Probes,
			)
		}
	}

	if len(result.Slots) == 0 {
		result.Fallback = true
		result.Slots = []task.Slot{{
			TaskID:   req.OwnerID,
			TaskName: req.Name,
			Date:     today,
			Start:    p.fallbackStart(),
			Duration: req.PrepMinutes,
			Label:    p.labeler.Today(),
			Outcome:  task.OutcomeFallbackWholeDuration,
		}}
		p.logger.Info("no candidate day before deadline, using whole-duration fallback",
			"task", req.Name,
			"deadline", dateutil.FormatDate(req.Deadline),
			"minutes", req.PrepMinutes,
		)
	}

	return result
}

func (p *Planner) fallbackStart() string {
	if task.ValidTime(p.policy.Start) {
		return p.policy.Start
	}
	return scheduler.DefaultStart
}

// Regenerate recomputes the slots of every task using the planner's clock.
func (p *Planner) Regenerate(tasks []*task.Task) []*task.Task {
	return p.RegenerateAt(tasks, p.now())
}

// RegenerateAt recomputes the slots of every task in the given order, each
// against the tasks regenerated before it. Inputs are not modified; the
// returned tasks are copies.
func (p *Planner) RegenerateAt(tasks []*task.Task, now time.Time) []*task.Task {
	out := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t == nil {
			continue
		}
		res := p.PlanAt(RequestFor(t), out, now)
		c := t.Clone()
		c.AssignSlots(res.Slots)
		out = append(out, c)
	}
	return out
}

// PlanSlots plans a new task with the default policy and English labels.
// It is deterministic for identical arguments.
func PlanSlots(name string, prepMinutes int, deadline time.Time, existing []*task.Task, now time.Time) []task.Slot {
	return New().PlanAt(Request{
		Name:        name,
		PrepMinutes: prepMinutes,
		Deadline:    deadline,
	}, existing, now).Slots
}
