package series

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"AdPulse/internal/domain/models"
	"AdPulse/internal/domain/repository"
)

// SyntheticProvider fills a MetricSet from generated rate series.
type SyntheticProvider struct {
	mu       sync.Mutex
	gen      *Generator
	profiles []Profile
}

var _ repository.SeriesProvider = (*SyntheticProvider)(nil)

func NewSyntheticProvider(gen *Generator, profiles ...Profile) *SyntheticProvider {
	if gen == nil {
		gen = NewGenerator(nil)
	}
	if len(profiles) == 0 {
		profiles = DefaultProfiles()
	}
	return &SyntheticProvider{gen: gen, profiles: profiles}
}

func (p *SyntheticProvider) Provide(ctx context.Context, period models.Period, dates []time.Time) (*models.MetricSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	base, ok := periodRates[period]
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidPeriod, string(period))
	}

	// the generator is shared across requests
	p.mu.Lock()
	defer p.mu.Unlock()

	ms := &models.MetricSet{
		Period:   period,
		Dates:    append([]time.Time(nil), dates...),
		Channels: make([]models.ChannelSeries, 0, len(p.profiles)),
	}
	for _, prof := range p.profiles {
		ms.Channels = append(ms.Channels, p.channel(period, base, prof, len(dates)))
	}
	return ms, nil
}

func (p *SyntheticProvider) channel(period models.Period, base rates, prof Profile, n int) models.ChannelSeries {
	trend := prof.Trend
	if period == models.PeriodToday {
		trend = rates{}
	}

	ctr := p.gen.Series(n, base.CTR*prof.Multiplier.CTR, prof.Variance.CTR, trend.CTR)
	cr := p.gen.Series(n, base.CR*prof.Multiplier.CR, prof.Variance.CR, trend.CR)
	cpc := p.gen.Series(n, base.CPC*prof.Multiplier.CPC, prof.Variance.CPC, trend.CPC)

	cs := models.NewChannelSeries(prof.Channel, n)
	volume := prof.volume(period)
	for i := 0; i < n; i++ {
		jitter := p.gen.Uniform(prof.VolumeJitter[0], prof.VolumeJitter[1])
		clicks := round(volume * (1 + float64(i)*prof.Growth) * jitter)

		impressions := 0.0
		if ctr[i] > 0 {
			impressions = round(clicks / ctr[i])
		}
		conversions := round(clicks * cr[i])
		spend := round(clicks * cpc[i])
		revenue := round(conversions * p.gen.Uniform(prof.RevenuePerConversion[0], prof.RevenuePerConversion[1]))

		cs.Values[models.MetricImpressions][i] = impressions
		cs.Values[models.MetricClicks][i] = clicks
		cs.Values[models.MetricConversions][i] = conversions
		cs.Values[models.MetricSpend][i] = spend
		cs.Values[models.MetricRevenue][i] = revenue
	}
	return cs
}

func round(v float64) float64 {
	return decimal.NewFromFloat(v).Round(0).InexactFloat64()
}

// Records generates daily records for every channel in [from, to), oldest
// first. It stands in for the historical store when the dashboard runs on
// synthetic data, so prediction and training still receive a payload.
func (p *SyntheticProvider) Records(ctx context.Context, from, to time.Time) ([]models.HistoricalRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var days []time.Time
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	if len(days) == 0 {
		return []models.HistoricalRecord{}, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	base := periodRates[models.PeriodMonth]
	out := make([]models.HistoricalRecord, 0, len(days)*len(p.profiles))
	for _, prof := range p.profiles {
		cs := p.channel(models.PeriodMonth, base, prof, len(days))
		for i, d := range days {
			out = append(out, models.HistoricalRecord{
				Date:        d.Format(models.DateLayout),
				Channel:     prof.Channel,
				Impressions: cs.Values[models.MetricImpressions][i],
				Clicks:      cs.Values[models.MetricClicks][i],
				Conversions: cs.Values[models.MetricConversions][i],
				Spend:       cs.Values[models.MetricSpend][i],
				Revenue:     cs.Values[models.MetricRevenue][i],
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}
