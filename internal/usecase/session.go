package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"AdPulse/internal/domain/models"
	"AdPulse/internal/service/cache"
)

// SlotDashboard is the slot a full dashboard refresh commits under.
const SlotDashboard = "dashboard"

// Session holds what one viewer currently sees: the selected period, the last
// applied snapshot and the chart in every slot. All state is guarded by the
// tracker lock so that commits and reads never interleave.
type Session struct {
	ID string

	tracker  *SlotTracker
	period   models.Period
	snapshot *Snapshot
	charts   map[string]models.ChartData
	forecast *ForecastResult
}

func NewSession() *Session {
	return newSessionWithID(uuid.NewString())
}

func newSessionWithID(id string) *Session {
	return &Session{
		ID:      id,
		tracker: NewSlotTracker(),
		charts:  make(map[string]models.ChartData),
	}
}

// Period returns the selected period, empty before the first refresh.
func (s *Session) Period() models.Period {
	var p models.Period
	s.tracker.Do(func() { p = s.period })
	return p
}

// SetPeriod selects p. Changing the period drops every applied chart and
// invalidates requests still in flight. It reports whether p differed.
func (s *Session) SetPeriod(p models.Period) bool {
	changed := false
	s.tracker.Do(func() { changed = s.setPeriodLocked(p) })
	return changed
}

func (s *Session) setPeriodLocked(p models.Period) bool {
	if s.period == p {
		return false
	}
	s.period = p
	s.snapshot = nil
	s.forecast = nil
	clear(s.charts)
	s.tracker.resetLocked()
	return true
}

// BeginPeriod selects p and starts a request for slot in one step, so a
// period change made by a concurrent request always lands before or after
// the ticket, never between.
func (s *Session) BeginPeriod(p models.Period, slot string) Ticket {
	var tk Ticket
	s.tracker.Do(func() {
		s.setPeriodLocked(p)
		tk = s.tracker.beginLocked(slot)
	})
	return tk
}

// Begin starts a request for slot.
func (s *Session) Begin(slot string) Ticket {
	return s.tracker.Begin(slot)
}

// LastSnapshot returns a copy of the applied snapshot, or nil.
func (s *Session) LastSnapshot() *Snapshot {
	var out *Snapshot
	s.tracker.Do(func() {
		if s.snapshot != nil {
			cp := *s.snapshot
			out = &cp
		}
	})
	return out
}

// LastForecast returns a copy of the applied forecast, or nil.
func (s *Session) LastForecast() *ForecastResult {
	var out *ForecastResult
	s.tracker.Do(func() {
		if s.forecast != nil {
			cp := *s.forecast
			out = &cp
		}
	})
	return out
}

// Chart returns the chart currently applied in slot.
func (s *Session) Chart(slot string) (models.ChartData, bool) {
	var (
		cd models.ChartData
		ok bool
	)
	s.tracker.Do(func() { cd, ok = s.charts[slot] })
	return cd, ok
}

// applySnapshot commits snap if tk is current. A snapshot of any period other
// than the selected one is never applied.
func (s *Session) applySnapshot(tk Ticket, snap *Snapshot) bool {
	applied := false
	s.tracker.Do(func() {
		if snap.Period != s.period {
			return
		}
		applied = s.tracker.commitLocked(tk, func() {
			s.snapshot = snap
			for _, cd := range snap.Charts {
				s.charts[cd.Slot] = cd
			}
		})
	})
	return applied
}

func (s *Session) applyChart(tk Ticket, cd models.ChartData) bool {
	return s.tracker.Commit(tk, func() { s.charts[cd.Slot] = cd })
}

func (s *Session) applyForecast(tk Ticket, fr *ForecastResult) bool {
	return s.tracker.Commit(tk, func() { s.forecast = fr })
}

// SessionManager keeps sessions alive for a sliding TTL.
type SessionManager struct {
	store *cache.TTLCache[*Session]
	ttl   time.Duration
}

func NewSessionManager(ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionManager{store: cache.NewTTLCache[*Session](), ttl: ttl}
}

// Create starts a new session.
func (m *SessionManager) Create() *Session {
	s := NewSession()
	m.store.Set(s.ID, s, m.ttl)
	return s
}

// Get returns a live session and extends its lifetime.
func (m *SessionManager) Get(id string) (*Session, bool) {
	s, ok := m.store.Get(id)
	if !ok {
		return nil, false
	}
	m.store.Set(id, s, m.ttl)
	return s, true
}

// Resolve returns the session for id, creating one when id is empty or has
// expired. A well-formed unknown id is kept so the client's id stays stable.
func (m *SessionManager) Resolve(id string) *Session {
	if id != "" {
		if s, ok := m.Get(id); ok {
			return s
		}
		if _, err := uuid.Parse(id); err == nil {
			s := newSessionWithID(id)
			m.store.Set(id, s, m.ttl)
			return s
		}
	}
	return m.Create()
}

// Len reports the number of live sessions.
func (m *SessionManager) Len() int { return m.store.Len() }

// Run evicts expired sessions every interval until ctx ends.
func (m *SessionManager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.store.Sweep()
		}
	}
}
