package usecase

import (
	"context"
	"fmt"
	"time"

	"AdPulse/internal/domain/models"
	domrepo "AdPulse/internal/domain/repository"
	"AdPulse/internal/services/chart"
	"AdPulse/internal/services/derive"
	"AdPulse/internal/services/period"
	"AdPulse/internal/services/trend"
	"AdPulse/pkg/logger"
)

// Snapshot is the complete dashboard state produced by one refresh.
type Snapshot struct {
	SessionID   string               `json:"session_id"`
	Period      models.Period        `json:"period"`
	Source      string               `json:"source"`
	GeneratedAt time.Time            `json:"generated_at"`
	Dates       []time.Time          `json:"dates"`
	Cards       []models.SummaryCard `json:"cards"`
	Charts      []models.ChartData   `json:"charts"`
	Error       string               `json:"error,omitempty"`
	// Stale is set when the refresh failed and an earlier snapshot is shown.
	Stale bool `json:"stale,omitempty"`
	// Superseded is set when a newer refresh was started before this one
	// finished; the snapshot returned is the newest applied one.
	Superseded bool `json:"superseded,omitempty"`
}

// DashboardUseCase runs the resolve, provide, derive and assemble cycle.
type DashboardUseCase struct {
	resolver *period.Resolver
	provider domrepo.SeriesProvider
	source   string
	metrics  domrepo.Metrics
	log      *logger.Logger
}

func NewDashboardUseCase(resolver *period.Resolver, provider domrepo.SeriesProvider, source string, metrics domrepo.Metrics, log *logger.Logger) *DashboardUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardUseCase{resolver: resolver, provider: provider, source: source, metrics: metrics, log: log}
}

// Refresh recomputes the dashboard of sess for the period named by keyword.
// An unknown keyword is returned as ErrInvalidPeriod and leaves the session
// untouched. Provider failures are reported inside the snapshot.
func (uc *DashboardUseCase) Refresh(ctx context.Context, sess *Session, keyword string) (*Snapshot, error) {
	start := time.Now()
	p, dates, err := uc.resolver.ResolveKeyword(keyword)
	if err != nil {
		uc.metrics.RecordError(ErrorKind(err))
		return nil, err
	}

	tk := sess.BeginPeriod(p, SlotDashboard)

	snap, err := uc.build(ctx, p, dates)
	if err != nil {
		uc.metrics.RecordError(ErrorKind(err))
		uc.log.Warn("dashboard refresh failed",
			logger.String("session", sess.ID),
			logger.String("period", string(p)),
			logger.Error(err))
		return uc.fallback(sess, p, dates, err), nil
	}
	snap.SessionID = sess.ID

	if !sess.applySnapshot(tk, snap) {
		uc.metrics.RecordDiscard(SlotDashboard)
		uc.log.Debug("stale dashboard refresh discarded",
			logger.String("session", sess.ID),
			logger.Uint64("seq", tk.Seq))
		if cur := sess.LastSnapshot(); cur != nil {
			cur.Superseded = true
			return cur, nil
		}
		snap.Superseded = true
		return snap, nil
	}

	uc.metrics.RecordRefresh(string(p), uc.source)
	uc.metrics.RecordLatency("dashboard_refresh", time.Since(start).Seconds())
	return snap, nil
}

func (uc *DashboardUseCase) build(ctx context.Context, p models.Period, dates []time.Time) (*Snapshot, error) {
	ms, err := uc.provider.Provide(ctx, p, dates)
	if err != nil {
		return nil, fmt.Errorf("provide %s: %w", p, err)
	}
	if err := derive.ApplySet(ms); err != nil {
		return nil, fmt.Errorf("derive: %w", err)
	}
	cards, err := trend.SummaryCards(ms)
	if err != nil {
		return nil, fmt.Errorf("summary cards: %w", err)
	}
	charts, err := chart.DashboardCharts(ms)
	if err != nil {
		return nil, fmt.Errorf("charts: %w", err)
	}
	return &Snapshot{
		Period:      p,
		Source:      uc.source,
		GeneratedAt: time.Now().UTC(),
		Dates:       ms.Dates,
		Cards:       cards,
		Charts:      charts,
	}, nil
}

// fallback keeps the last good snapshot of the same period on screen, or
// shows placeholders when there is none.
func (uc *DashboardUseCase) fallback(sess *Session, p models.Period, dates []time.Time, cause error) *Snapshot {
	if prev := sess.LastSnapshot(); prev != nil && prev.Period == p {
		prev.Stale = true
		prev.Error = cause.Error()
		return prev
	}
	charts := make([]models.ChartData, 0, len(chart.DashboardSlots()))
	for _, slot := range chart.DashboardSlots() {
		charts = append(charts, chart.Placeholder(slot, chart.SlotTitle(slot), cause))
	}
	return &Snapshot{
		SessionID:   sess.ID,
		Period:      p,
		Source:      uc.source,
		GeneratedAt: time.Now().UTC(),
		Dates:       dates,
		Cards:       []models.SummaryCard{},
		Charts:      charts,
		Error:       cause.Error(),
		Stale:       true,
	}
}
