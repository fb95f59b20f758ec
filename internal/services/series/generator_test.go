package series

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AdPulse/internal/domain/models"
)

func TestSeriesLengthAndClamp(t *testing.T) {
	g := NewSeededGenerator(42)
	tests := []struct {
		name                  string
		n                     int
		base, variance, trend float64
	}{
		{"week ctr", 7, 0.03, 0.005, 0.001},
		{"single bucket", 1, 0.03, 0.005, 0},
		{"huge variance", 30, 0.01, 50, 0},
		{"negative trend", 30, 1, 0.5, -0.5},
		{"negative base", 12, -10, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Series(tt.n, tt.base, tt.variance, tt.trend)
			require.Len(t, got, tt.n)
			for i, v := range got {
				assert.GreaterOrEqual(t, v, 0.0, "index %d", i)
				assert.False(t, math.IsNaN(v))
			}
		})
	}
}

func TestSeriesEmpty(t *testing.T) {
	g := NewSeededGenerator(1)
	assert.Empty(t, g.Series(0, 1, 1, 1))
	assert.Empty(t, g.Series(-3, 1, 1, 1))
}

func TestSeriesStaysWithinEnvelope(t *testing.T) {
	g := NewSeededGenerator(7)
	base, variance, trend := 100.0, 10.0, 2.0
	got := g.Series(60, base, variance, trend)
	for i, v := range got {
		center := base + trend*float64(i)
		// seasonal amplitude 0.3*variance plus noise 0.4*variance
		assert.InDelta(t, center, v, 0.7*variance+1e-9, "index %d", i)
	}
}

func TestSeriesDeterministicWithSeed(t *testing.T) {
	a := NewSeededGenerator(99).Series(30, 0.03, 0.005, 0.001)
	b := NewSeededGenerator(99).Series(30, 0.03, 0.005, 0.001)
	assert.Equal(t, a, b)
}

func TestSyntheticProviderShape(t *testing.T) {
	p := NewSyntheticProvider(NewSeededGenerator(3))
	dates := make([]time.Time, 7)
	for i := range dates {
		dates[i] = time.Date(2025, 3, 9+i, 0, 0, 0, 0, time.UTC)
	}

	ms, err := p.Provide(context.Background(), models.PeriodWeek, dates)
	require.NoError(t, err)
	require.NoError(t, ms.Validate())
	require.Len(t, ms.Channels, 2)

	for _, cs := range ms.Channels {
		for _, m := range models.PrimaryMetrics() {
			vals := cs.Get(m)
			require.Len(t, vals, 7, "%s/%s", cs.Channel, m)
			for _, v := range vals {
				assert.GreaterOrEqual(t, v, 0.0)
				assert.Equal(t, math.Round(v), v, "%s must be whole units", m)
			}
		}
		clicks, impressions := cs.Get(models.MetricClicks), cs.Get(models.MetricImpressions)
		for i := range clicks {
			assert.LessOrEqual(t, clicks[i], impressions[i])
		}
	}

	wb, ok := ms.Channel(models.ChannelWildberries)
	require.True(t, ok)
	assert.Greater(t, wb.Get(models.MetricClicks)[0], 1500.0)
}

func TestSyntheticProviderYearVolume(t *testing.T) {
	p := NewSyntheticProvider(NewSeededGenerator(5))
	dates := make([]time.Time, 12)
	for i := range dates {
		dates[i] = time.Date(2024, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC)
	}
	ms, err := p.Provide(context.Background(), models.PeriodYear, dates)
	require.NoError(t, err)
	oz, _ := ms.Channel(models.ChannelOzon)
	assert.Greater(t, oz.Get(models.MetricClicks)[0], 20000.0)
}

func TestSyntheticProviderRejectsInvalidPeriod(t *testing.T) {
	p := NewSyntheticProvider(NewSeededGenerator(5))
	_, err := p.Provide(context.Background(), models.Period("decade"), nil)
	assert.ErrorIs(t, err, models.ErrInvalidPeriod)
}

func TestSyntheticRecords(t *testing.T) {
	p := NewSyntheticProvider(NewSeededGenerator(9))
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	recs, err := p.Records(context.Background(), from, from.AddDate(0, 0, 10))
	require.NoError(t, err)
	require.Len(t, recs, 20)
	assert.Equal(t, "2025-01-01", recs[0].Date)
	assert.Equal(t, "2025-01-10", recs[len(recs)-1].Date)
	for i := 1; i < len(recs); i++ {
		assert.LessOrEqual(t, recs[i-1].Date, recs[i].Date)
	}

	empty, err := p.Records(context.Background(), from, from)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
