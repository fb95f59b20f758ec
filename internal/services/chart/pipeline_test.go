package chart

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AdPulse/internal/domain/models"
	"AdPulse/internal/services/derive"
	"AdPulse/internal/services/period"
	"AdPulse/internal/services/series"
	"AdPulse/internal/services/trend"
)

func TestWeekPipeline(t *testing.T) {
	r := period.NewResolver(period.FixedClock{T: time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)}, time.UTC)
	dates, err := r.Resolve(models.PeriodWeek)
	require.NoError(t, err)
	require.Len(t, dates, 7)

	g := series.NewSeededGenerator(2025)
	rates := g.Series(len(dates), 0.03, 0.005, 0.001)

	cs := models.NewChannelSeries(models.ChannelWildberries, len(dates))
	for i, rate := range rates {
		clicks := 2000.0 + float64(i)*40
		cs.Values[models.MetricClicks][i] = clicks
		if rate > 0 {
			cs.Values[models.MetricImpressions][i] = math.Round(clicks / rate)
		}
	}
	require.NoError(t, derive.Apply(&cs))
	ms := &models.MetricSet{Period: models.PeriodWeek, Dates: dates, Channels: []models.ChannelSeries{cs}}
	require.NoError(t, ms.Validate())

	ctr := cs.Get(models.MetricCTR)
	require.Len(t, ctr, 7)
	for _, v := range ctr {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}

	d, err := trend.Compute(models.MetricCTR, ctr)
	require.NoError(t, err)
	want := (ctr[6] - ctr[5]) / ctr[5] * 100
	assert.InDelta(t, want, d.PercentChange, 1e-9)

	charts, err := DashboardCharts(ms)
	require.NoError(t, err)
	assert.Len(t, charts[0].Traces[0].Y, 7)
}
