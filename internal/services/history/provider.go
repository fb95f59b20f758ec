package history

import (
	"context"
	"fmt"
	"sort"
	"time"

	"AdPulse/internal/domain/models"
	"AdPulse/internal/domain/repository"
	"AdPulse/internal/services/period"
)

// Provider is the live SeriesProvider: it buckets daily historical records
// onto a resolved date sequence.
type Provider struct {
	src      repository.HistorySource
	channels []models.Channel
}

var _ repository.SeriesProvider = (*Provider)(nil)

func NewProvider(src repository.HistorySource) *Provider {
	return &Provider{src: src, channels: models.Channels()}
}

func (p *Provider) Provide(ctx context.Context, pd models.Period, dates []time.Time) (*models.MetricSet, error) {
	ms := &models.MetricSet{
		Period:   pd,
		Dates:    append([]time.Time(nil), dates...),
		Channels: make([]models.ChannelSeries, 0, len(p.channels)),
	}
	if len(dates) == 0 {
		for _, ch := range p.channels {
			ms.Channels = append(ms.Channels, models.NewChannelSeries(ch, 0))
		}
		return ms, nil
	}

	starts := make([]time.Time, len(dates))
	ends := make([]time.Time, len(dates))
	for i, d := range dates {
		starts[i] = dayOf(d)
		ends[i] = dayOf(period.BucketEnd(pd, d))
	}
	from, to := dates[0], period.BucketEnd(pd, dates[len(dates)-1])

	for _, ch := range p.channels {
		records, err := p.src.Records(ctx, ch, from, to)
		if err != nil {
			return nil, err
		}
		cs := models.NewChannelSeries(ch, len(dates))
		for _, r := range records {
			day, err := r.Day()
			if err != nil {
				return nil, err
			}
			i := sort.Search(len(ends), func(i int) bool { return ends[i].After(day) })
			if i == len(ends) || day.Before(starts[i]) {
				continue
			}
			cs.Values[models.MetricImpressions][i] += r.Impressions
			cs.Values[models.MetricClicks][i] += r.Clicks
			cs.Values[models.MetricConversions][i] += r.Conversions
			cs.Values[models.MetricSpend][i] += r.Spend
			cs.Values[models.MetricRevenue][i] += r.Revenue
		}
		ms.Channels = append(ms.Channels, cs)
	}
	return ms, nil
}

// Records returns the records of every channel in [from, to), oldest first.
// This is the payload sent to the prediction and training endpoints.
func (p *Provider) Records(ctx context.Context, from, to time.Time) ([]models.HistoricalRecord, error) {
	var out []models.HistoricalRecord
	for _, ch := range p.channels {
		rs, err := p.src.Records(ctx, ch, from, to)
		if err != nil {
			return nil, fmt.Errorf("records: %w", err)
		}
		out = append(out, rs...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}
