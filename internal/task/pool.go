package task

// Pool is a read-only snapshot of committed slots, indexed by date.
// The planner consumes it as overlap input; it is never mutated after
// construction.
type Pool struct {
	byDate map[string][]Slot
	size   int
}

// NewPool flattens the slots of all tasks into a snapshot.
// Tasks whose ID appears in exclude are skipped, which lets a task be
// re-planned without colliding with its own previous slots.
func NewPool(tasks []*Task, exclude ...int64) *Pool {
	skip := make(map[int64]bool, len(exclude))
	for _, id := range exclude {
		if id != 0 {
			skip[id] = true
		}
	}

	p := &Pool{byDate: make(map[string][]Slot)}
	for _, t := range tasks {
		if t == nil || skip[t.ID] {
			continue
		}
		for _, s := range t.Slots {
			key := s.DateKey()
			p.byDate[key] = append(p.byDate[key], s)
			p.size++
		}
	}
	return p
}

// NewPoolFromSlots builds a snapshot directly from slots.
func NewPoolFromSlots(slots []Slot) *Pool {
	p := &Pool{byDate: make(map[string][]Slot)}
	for _, s := range slots {
		key := s.DateKey()
		p.byDate[key] = append(p.byDate[key], s)
		p.size++
	}
	return p
}

// On returns the committed slots on the given date key (YYYY-MM-DD).
// The returned slice must not be modified.
func (p *Pool) On(dateKey string) []Slot {
	if p == nil {
		return nil
	}
	return p.byDate[dateKey]
}

// Len returns the total number of slots in the snapshot.
func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	return p.size
}
