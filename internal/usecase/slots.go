package usecase

import "sync"

// Ticket identifies one initiated request for a slot.
type Ticket struct {
	Slot  string
	Seq   uint64
	Epoch uint64
}

// SlotTracker orders requests per slot by initiation. A result is applied
// only when its ticket is still the newest one begun for the slot and no
// Reset happened in between; results arriving late are dropped regardless of
// arrival order.
type SlotTracker struct {
	mu     sync.Mutex
	epoch  uint64
	latest map[string]uint64
}

func NewSlotTracker() *SlotTracker {
	return &SlotTracker{latest: make(map[string]uint64)}
}

// Begin issues the next ticket for slot.
func (t *SlotTracker) Begin(slot string) Ticket {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.beginLocked(slot)
}

func (t *SlotTracker) beginLocked(slot string) Ticket {
	t.latest[slot]++
	return Ticket{Slot: slot, Seq: t.latest[slot], Epoch: t.epoch}
}

// Commit runs apply under the tracker lock if tk is current and reports
// whether it did.
func (t *SlotTracker) Commit(tk Ticket, apply func()) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.commitLocked(tk, apply)
}

func (t *SlotTracker) commitLocked(tk Ticket, apply func()) bool {
	if tk.Epoch != t.epoch || t.latest[tk.Slot] != tk.Seq {
		return false
	}
	apply()
	return true
}

// Current reports whether tk would still commit.
func (t *SlotTracker) Current(tk Ticket) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return tk.Epoch == t.epoch && t.latest[tk.Slot] == tk.Seq
}

// Reset invalidates every outstanding ticket.
func (t *SlotTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetLocked()
}

func (t *SlotTracker) resetLocked() {
	t.epoch++
	clear(t.latest)
}

// Do runs fn under the tracker lock.
func (t *SlotTracker) Do(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn()
}
