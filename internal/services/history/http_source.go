package history

import (
	"context"
	"fmt"
	"time"

	"AdPulse/internal/domain/models"
	"AdPulse/internal/domain/repository"
	"AdPulse/internal/services/analytics"
	"AdPulse/pkg/util"
)

// HTTPSource reads daily records from the historical data endpoint. The
// endpoint may ignore the filters, so records are filtered again here.
//
// Records without a channel are account totals. They are reported under the
// aggregate channel only, so a total is never counted once per channel.
type HTTPSource struct {
	base      *analytics.HTTPServiceBase
	path      string
	aggregate models.Channel
}

var _ repository.HistorySource = (*HTTPSource)(nil)

// HTTPSourceOption configures HTTPSource.
type HTTPSourceOption func(*HTTPSource)

// WithAggregateChannel sets the channel that channel-less records belong to.
// Invalid channels are ignored.
func WithAggregateChannel(ch models.Channel) HTTPSourceOption {
	return func(s *HTTPSource) {
		if ch.Valid() {
			s.aggregate = ch
		}
	}
}

// NewHTTPSource reads from path under base (for example "/api/historical").
// Channel-less records go to the first dashboard channel unless
// WithAggregateChannel says otherwise.
func NewHTTPSource(base *analytics.HTTPServiceBase, path string, opts ...HTTPSourceOption) *HTTPSource {
	s := &HTTPSource{base: base, path: path, aggregate: models.Channels()[0]}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *HTTPSource) Records(ctx context.Context, ch models.Channel, from, to time.Time) ([]models.HistoricalRecord, error) {
	var raw []models.HistoricalRecord
	q := map[string][]string{
		"channel": {string(ch)},
		"from":    {util.FormatDay(from)},
		"to":      {util.FormatDay(to)},
	}
	if err := s.base.GetJSON(ctx, s.path, q, &raw); err != nil {
		return nil, fmt.Errorf("historical %s: %w", ch, err)
	}

	out := make([]models.HistoricalRecord, 0, len(raw))
	for _, r := range raw {
		day, err := r.Day()
		if err != nil {
			return nil, fmt.Errorf("historical %s: %w", ch, err)
		}
		owner := r.Channel
		if owner == "" {
			owner = s.aggregate
		}
		if owner != ch {
			continue
		}
		if day.Before(dayOf(from)) || !day.Before(dayOf(to)) {
			continue
		}
		if r.Impressions < 0 || r.Clicks < 0 || r.Conversions < 0 || r.Spend < 0 || r.Revenue < 0 {
			return nil, fmt.Errorf("%w: negative counter on %s", models.ErrMalformedResponse, r.Date)
		}
		r.Channel = ch
		out = append(out, r)
	}
	return out, nil
}

// dayOf drops the clock and zone so comparisons match the UTC dates the
// records parse to.
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
