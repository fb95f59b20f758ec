package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AdPulse/internal/domain/models"
	"AdPulse/internal/services/chart"
	"AdPulse/internal/services/period"
	"AdPulse/internal/services/series"
)

var testNow = time.Date(2025, 3, 15, 14, 0, 0, 0, time.UTC)

func newDashboard(t *testing.T, p *switchProvider, m *recordingMetrics) *DashboardUseCase {
	t.Helper()
	resolver := period.NewResolver(period.FixedClock{T: testNow}, time.UTC)
	return NewDashboardUseCase(resolver, p, "synthetic", m, nil)
}

// switchProvider delegates to the synthetic provider and can be made to fail
// or to block its next call.
type switchProvider struct {
	inner *series.SyntheticProvider

	mu    sync.Mutex
	err   error
	gate  chan struct{}
	ready chan struct{}
}

func newSwitchProvider() *switchProvider {
	return &switchProvider{inner: series.NewSyntheticProvider(series.NewSeededGenerator(11))}
}

func (p *switchProvider) Provide(ctx context.Context, pd models.Period, dates []time.Time) (*models.MetricSet, error) {
	p.mu.Lock()
	err, gate, ready := p.err, p.gate, p.ready
	p.gate, p.ready = nil, nil
	p.mu.Unlock()

	if gate != nil {
		close(ready)
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return p.inner.Provide(ctx, pd, dates)
}

func (p *switchProvider) blockNext() (ready, release chan struct{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gate, p.ready = make(chan struct{}), make(chan struct{})
	return p.ready, p.gate
}

func (p *switchProvider) setErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func TestRefreshWeek(t *testing.T) {
	m := newRecordingMetrics()
	uc := newDashboard(t, newSwitchProvider(), m)
	sess := NewSession()

	snap, err := uc.Refresh(context.Background(), sess, "week")
	require.NoError(t, err)
	assert.Equal(t, models.PeriodWeek, snap.Period)
	assert.Equal(t, sess.ID, snap.SessionID)
	require.Len(t, snap.Dates, 7)
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), snap.Dates[6])
	assert.Len(t, snap.Cards, 7)
	assert.Len(t, snap.Charts, len(chart.DashboardSlots()))
	assert.Empty(t, snap.Error)
	assert.False(t, snap.Stale)

	cd, ok := sess.Chart(chart.SlotROI)
	require.True(t, ok)
	assert.Len(t, cd.Traces, 2)
	assert.Equal(t, 1, m.refreshes)
}

func TestRefreshInvalidPeriod(t *testing.T) {
	m := newRecordingMetrics()
	uc := newDashboard(t, newSwitchProvider(), m)
	sess := NewSession()
	_, err := uc.Refresh(context.Background(), sess, "week")
	require.NoError(t, err)

	_, err = uc.Refresh(context.Background(), sess, "fortnight")
	assert.ErrorIs(t, err, models.ErrInvalidPeriod)
	assert.Equal(t, models.PeriodWeek, sess.Period(), "session untouched")
	assert.NotNil(t, sess.LastSnapshot())
	assert.Equal(t, 1, m.errors["invalid_period"])
}

func TestRefreshFailureKeepsPreviousSnapshot(t *testing.T) {
	p := newSwitchProvider()
	uc := newDashboard(t, p, newRecordingMetrics())
	sess := NewSession()

	good, err := uc.Refresh(context.Background(), sess, "month")
	require.NoError(t, err)

	p.setErr(errServiceDown)
	snap, err := uc.Refresh(context.Background(), sess, "month")
	require.NoError(t, err)
	assert.True(t, snap.Stale)
	assert.Contains(t, snap.Error, "connection refused")
	assert.Equal(t, good.Cards, snap.Cards)
}

func TestRefreshFailureWithoutHistoryShowsPlaceholders(t *testing.T) {
	p := newSwitchProvider()
	p.setErr(errServiceDown)
	uc := newDashboard(t, p, newRecordingMetrics())

	snap, err := uc.Refresh(context.Background(), NewSession(), "today")
	require.NoError(t, err)
	assert.True(t, snap.Stale)
	assert.Empty(t, snap.Cards)
	for _, cd := range snap.Charts {
		assert.True(t, cd.NoData, cd.Slot)
		assert.NotEmpty(t, cd.Error)
		assert.NotEqual(t, cd.Slot, cd.Title)
	}
}

func TestRefreshDiscardsStaleResult(t *testing.T) {
	p := newSwitchProvider()
	m := newRecordingMetrics()
	uc := newDashboard(t, p, m)
	sess := NewSession()

	ready, release := p.blockNext()
	first := make(chan *Snapshot, 1)
	go func() {
		snap, _ := uc.Refresh(context.Background(), sess, "week")
		first <- snap
	}()
	<-ready

	second, err := uc.Refresh(context.Background(), sess, "week")
	require.NoError(t, err)
	require.False(t, second.Superseded)

	close(release)
	late := <-first
	assert.True(t, late.Superseded)
	assert.Equal(t, second.GeneratedAt, late.GeneratedAt, "the newer snapshot stays applied")
	assert.Equal(t, second.GeneratedAt, sess.LastSnapshot().GeneratedAt)
	assert.Equal(t, 1, m.discarded(SlotDashboard))
}

func TestRefreshPeriodChangeDropsInFlight(t *testing.T) {
	p := newSwitchProvider()
	uc := newDashboard(t, p, newRecordingMetrics())
	sess := NewSession()

	ready, release := p.blockNext()
	first := make(chan *Snapshot, 1)
	go func() {
		snap, _ := uc.Refresh(context.Background(), sess, "week")
		first <- snap
	}()
	<-ready

	year, err := uc.Refresh(context.Background(), sess, "year")
	require.NoError(t, err)
	close(release)
	<-first

	last := sess.LastSnapshot()
	require.NotNil(t, last)
	assert.Equal(t, models.PeriodYear, last.Period)
	assert.Len(t, year.Dates, 12)
}

func TestConcurrentPeriodChangesKeepSessionConsistent(t *testing.T) {
	uc := newDashboard(t, newSwitchProvider(), newRecordingMetrics())
	sess := NewSession()

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		keyword := "week"
		if i%2 == 1 {
			keyword = "month"
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Refresh(context.Background(), sess, keyword)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	if snap := sess.LastSnapshot(); snap != nil {
		assert.Equal(t, sess.Period(), snap.Period)
	}
}
