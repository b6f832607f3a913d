package planner

import (
	"bytes"
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/prepwise/internal/locale"
	"github.com/javiermolinar/prepwise/internal/scheduler"
	"github.com/javiermolinar/prepwise/internal/task"
)

// Friday 10 January 2025, mid-morning.
var now = time.Date(2025, 1, 10, 10, 30, 0, 0, time.UTC)

func date(offset int) time.Time {
	return time.Date(2025, 1, 10+offset, 0, 0, 0, 0, time.UTC)
}

func committedTask(id int64, name string, slots ...task.Slot) *task.Task {
	t := &task.Task{ID: id, Name: name, PrepMinutes: 60, Deadline: date(7), CreatedAt: now}
	t.AssignSlots(slots)
	return t
}

func TestComputeSpread(t *testing.T) {
	tests := []struct {
		name     string
		deadline time.Time
		prep     int
		wantDays int
		wantMin  int
	}{
		{"deadline today", date(0), 90, 1, 90},
		{"deadline tomorrow", date(1), 90, 1, 90},
		{"three days", date(3), 120, 3, 40},
		{"rounds up", date(3), 100, 3, 34},
		{"capped at seven", date(10), 70, 7, 10},
		{"past deadline", date(-2), 30, 1, 30},
		{"one minute over many days", date(5), 1, 5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeSpread(tt.deadline, tt.prep, now)
			if got.Days != tt.wantDays || got.MinutesPerDay != tt.wantMin {
				t.Errorf("ComputeSpread = %+v, want {%d %d}", got, tt.wantDays, tt.wantMin)
			}
		})
	}
}

func TestComputeSpreadLimit_Custom(t *testing.T) {
	got := ComputeSpreadLimit(date(10), 90, now, 3)
	if got.Days != 3 || got.MinutesPerDay != 30 {
		t.Errorf("got %+v, want {3 30}", got)
	}
	// Non-positive limits fall back to the default cap.
	got = ComputeSpreadLimit(date(10), 70, now, 0)
	if got.Days != MaxSpreadDays {
		t.Errorf("days = %d, want %d", got.Days, MaxSpreadDays)
	}
}

func TestPlan_BasicSpread(t *testing.T) {
	p := New()
	res := p.PlanAt(Request{Name: "Exam", PrepMinutes: 120, Deadline: date(3)}, nil, now)

	if res.Fallback {
		t.Fatal("unexpected fallback")
	}
	if len(res.Slots) != 3 {
		t.Fatalf("got %d slots, want 3", len(res.Slots))
	}
	wantLabels := []string{"Saturday 11 Jan", "Sunday 12 Jan", "Monday 13 Jan"}
	for i, s := range res.Slots {
		if !s.Date.Equal(date(i + 1)) {
			t.Errorf("slot %d date = %s, want %s", i, s.Date, date(i+1))
		}
		if s.Start != "16:00" || s.Duration != 40 {
			t.Errorf("slot %d = %s/%d, want 16:00/40", i, s.Start, s.Duration)
		}
		if s.Label != wantLabels[i] {
			t.Errorf("slot %d label = %q, want %q", i, s.Label, wantLabels[i])
		}
		if s.Outcome != task.OutcomePlaced {
			t.Errorf("slot %d outcome = %s", i, s.Outcome)
		}
		if s.TaskName != "Exam" {
			t.Errorf("slot %d task name = %q", i, s.TaskName)
		}
	}
}

func TestPlan_FallbackWholeDuration(t *testing.T) {
	p := New()
	res := p.PlanAt(Request{Name: "Talk", PrepMinutes: 90, Deadline: date(0)}, nil, now)

	if !res.Fallback {
		t.Fatal("expected fallback")
	}
	if res.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", res.Skipped)
	}
	want := task.Slot{
		TaskName: "Talk",
		Date:     date(0),
		Start:    "16:00",
		Duration: 90,
		Label:    "Today",
		Outcome:  task.OutcomeFallbackWholeDuration,
	}
	if len(res.Slots) != 1 || res.Slots[0] != want {
		t.Errorf("slots = %+v, want [%+v]", res.Slots, want)
	}
}

func TestPlan_FallbackIgnoresCollisions(t *testing.T) {
	busy := committedTask(1, "Busy", task.Slot{Date: date(0), Start: "16:00", Duration: 120})
	res := New().PlanAt(Request{Name: "Talk", PrepMinutes: 45, Deadline: date(0)}, []*task.Task{busy}, now)

	if len(res.Slots) != 1 || res.Slots[0].Start != "16:00" {
		t.Errorf("fallback should not probe, got %+v", res.Slots)
	}
}

func TestPlan_FallbackLocalized(t *testing.T) {
	p := New(WithLabeler(locale.New("nl")))
	res := p.PlanAt(Request{Name: "Toets", PrepMinutes: 30, Deadline: date(0)}, nil, now)
	if res.Slots[0].Label != "Vandaag" {
		t.Errorf("label = %q, want Vandaag", res.Slots[0].Label)
	}
}

func TestPlan_DeadlineTomorrow(t *testing.T) {
	res := New().PlanAt(Request{Name: "Quiz", PrepMinutes: 50, Deadline: date(1)}, nil, now)
	if res.Fallback || len(res.Slots) != 1 {
		t.Fatalf("got %+v", res)
	}
	if !res.Slots[0].Date.Equal(date(1)) || res.Slots[0].Duration != 50 {
		t.Errorf("slot = %+v", res.Slots[0])
	}
}

func TestPlan_Properties(t *testing.T) {
	p := New()
	for offset := -1; offset <= 10; offset++ {
		for _, prep := range []int{1, 7, 30, 59, 60, 61, 100, 240, 601} {
			deadline := date(offset)
			res := p.PlanAt(Request{Name: "P", PrepMinutes: prep, Deadline: deadline}, nil, now)

			if len(res.Slots) == 0 {
				t.Fatalf("offset %d prep %d: no slots", offset, prep)
			}
			if len(res.Slots) > MaxSpreadDays {
				t.Errorf("offset %d prep %d: %d slots exceed spread bound", offset, prep, len(res.Slots))
			}

			total := 0
			for _, s := range res.Slots {
				total += s.Duration
				if s.Duration <= 0 {
					t.Errorf("offset %d prep %d: non-positive duration %d", offset, prep, s.Duration)
				}
				if !s.Outcome.Valid() {
					t.Errorf("offset %d prep %d: invalid outcome %q", offset, prep, s.Outcome)
				}
				if !res.Fallback && s.Date.After(deadline) {
					t.Errorf("offset %d prep %d: slot on %s after deadline", offset, prep, s.Date)
				}
			}

			if res.Fallback {
				if total != prep {
					t.Errorf("offset %d prep %d: fallback total %d", offset, prep, total)
				}
				continue
			}
			// Every candidate day lands on or before the deadline here, so the
			// full spread is planned and rounding adds less than one minute per day.
			if total < prep || total-prep >= res.Spread.Days {
				t.Errorf("offset %d prep %d: total %d, days %d", offset, prep, total, res.Spread.Days)
			}
		}
	}
}

func TestPlan_Deterministic(t *testing.T) {
	existing := []*task.Task{
		committedTask(1, "A", task.Slot{Date: date(1), Start: "16:00", Duration: 45}),
		committedTask(2, "B", task.Slot{Date: date(2), Start: "16:30", Duration: 90}),
	}
	p := New()
	req := Request{Name: "C", PrepMinutes: 200, Deadline: date(4)}

	a := p.PlanAt(req, existing, now)
	b := p.PlanAt(req, existing, now)
	if !reflect.DeepEqual(a.Slots, b.Slots) {
		t.Errorf("plans differ:\n%+v\n%+v", a.Slots, b.Slots)
	}

	c := PlanSlots("C", 200, date(4), existing, now)
	if !reflect.DeepEqual(a.Slots, c) {
		t.Errorf("PlanSlots differs from Planner.PlanAt:\n%+v\n%+v", a.Slots, c)
	}
}

func TestPlan_DoesNotMutateExisting(t *testing.T) {
	a := committedTask(1, "A", task.Slot{Date: date(1), Start: "16:00", Duration: 60})
	before := a.Clone()

	New().PlanAt(Request{Name: "B", PrepMinutes: 60, Deadline: date(1)}, []*task.Task{a}, now)
	if !reflect.DeepEqual(a, before) {
		t.Errorf("existing task modified: %+v", a)
	}
}

func TestPlan_AvoidsCommittedSlots(t *testing.T) {
	p := New()
	first := p.PlanAt(Request{Name: "A", PrepMinutes: 150, Deadline: date(3)}, nil, now)
	a := committedTask(1, "A")
	a.AssignSlots(first.Slots)

	second := p.PlanAt(Request{Name: "B", PrepMinutes: 150, Deadline: date(3)}, []*task.Task{a}, now)
	for _, s := range second.Slots {
		if s.Outcome != task.OutcomePlaced {
			t.Fatalf("unexpected outcome %s", s.Outcome)
		}
		for _, other := range a.Slots {
			if s.OverlapsWith(other) {
				t.Errorf("slot %s %s overlaps %s %s", s.DateKey(), s.Start, other.DateKey(), other.Start)
			}
		}
	}
	// A holds 16:00-16:50 each day; 16:30 still collides.
	if second.Slots[0].Start != "17:00" {
		t.Errorf("first slot start = %s, want 17:00", second.Slots[0].Start)
	}
}

func TestPlan_EscapeAcceptsOverlap(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	busy := committedTask(1, "Busy", task.Slot{Date: date(1), Start: "16:00", Duration: 450})

	res := New(WithLogger(logger)).PlanAt(Request{Name: "B", PrepMinutes: 30, Deadline: date(1)}, []*task.Task{busy}, now)

	if len(res.Slots) != 1 {
		t.Fatalf("got %d slots", len(res.Slots))
	}
	s := res.Slots[0]
	if s.Start != "23:00" || s.Outcome != task.OutcomePlacedWithOverlap {
		t.Errorf("slot = %s %s, want 23:00 placed_with_overlap", s.Start, s.Outcome)
	}
	if res.Overlapping() != 1 {
		t.Errorf("Overlapping = %d, want 1", res.Overlapping())
	}
	if !strings.Contains(buf.String(), "accepting overlap") {
		t.Errorf("expected warning in log, got %q", buf.String())
	}
}

func TestPlan_OwnerExcludedFromPool(t *testing.T) {
	self := committedTask(5, "Self", task.Slot{Date: date(1), Start: "16:00", Duration: 60})

	res := New().PlanAt(Request{OwnerID: 5, Name: "Self", PrepMinutes: 60, Deadline: date(1)}, []*task.Task{self}, now)
	if res.Slots[0].Start != "16:00" {
		t.Errorf("start = %s, want 16:00 (own slots ignored)", res.Slots[0].Start)
	}
	if res.Slots[0].TaskID != 5 {
		t.Errorf("task id = %d, want 5", res.Slots[0].TaskID)
	}
}

func TestPlan_Options(t *testing.T) {
	p := New(
		WithPolicy(scheduler.Policy{Start: "18:00", ShiftMinutes: 15, CutoffHour: 21}),
		WithMaxSpreadDays(2),
		WithClock(func() time.Time { return now }),
	)
	res := p.Plan(Request{Name: "X", PrepMinutes: 90, Deadline: date(5)}, nil)

	if res.Spread.Days != 2 || len(res.Slots) != 2 {
		t.Fatalf("spread = %+v, slots = %d", res.Spread, len(res.Slots))
	}
	if res.Slots[0].Start != "18:00" || res.Slots[0].Duration != 45 {
		t.Errorf("slot = %s/%d, want 18:00/45", res.Slots[0].Start, res.Slots[0].Duration)
	}

	fb := p.Plan(Request{Name: "Y", PrepMinutes: 20, Deadline: date(0)}, nil)
	if fb.Slots[0].Start != "18:00" {
		t.Errorf("fallback start = %s, want policy start", fb.Slots[0].Start)
	}
}

func TestRegenerate(t *testing.T) {
	// Both tasks were stored with the same stale slots.
	stale := task.Slot{Date: date(-3), Start: "16:00", Duration: 60}
	a := committedTask(1, "A", stale)
	a.Deadline = date(2)
	b := committedTask(2, "B", stale)
	b.Deadline = date(2)
	b.CreatedAt = now.Add(time.Minute)

	p := New(WithClock(func() time.Time { return now }))
	out := p.Regenerate([]*task.Task{a, b})

	if len(out) != 2 {
		t.Fatalf("got %d tasks", len(out))
	}
	for _, in := range []*task.Task{a, b} {
		if len(in.Slots) != 1 || !in.Slots[0].Date.Equal(date(-3)) {
			t.Errorf("input task %s was modified: %+v", in.Name, in.Slots)
		}
	}

	for _, s := range out[0].Slots {
		if s.Start != "16:00" || s.TaskID != 1 {
			t.Errorf("A slot = %+v", s)
		}
	}
	for _, s := range out[1].Slots {
		if s.Start != "16:30" || s.TaskID != 2 || s.TaskName != "B" {
			t.Errorf("B slot = %+v", s)
		}
	}
}

func TestRegenerate_Overdue(t *testing.T) {
	old := committedTask(1, "Old")
	old.Deadline = date(-4)
	old.PrepMinutes = 75

	out := New().RegenerateAt([]*task.Task{old, nil}, now)
	if len(out) != 1 {
		t.Fatalf("got %d tasks", len(out))
	}
	if !out[0].HasFallback() || out[0].Slots[0].Duration != 75 {
		t.Errorf("overdue task should get the whole-duration fallback, got %+v", out[0].Slots)
	}
}
