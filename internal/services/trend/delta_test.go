package trend

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AdPulse/internal/domain/models"
)

func TestComputeChanges(t *testing.T) {
	d, err := Compute(models.MetricRevenue, []float64{50, 100, 110})
	require.NoError(t, err)
	assert.Equal(t, 110.0, d.Current)
	assert.Equal(t, 100.0, d.Previous)
	assert.InDelta(t, 10, d.AbsoluteChange, 1e-12)
	assert.InDelta(t, 10, d.PercentChange, 1e-9)
	assert.Equal(t, models.PolarityFavorable, d.Polarity)
}

func TestComputeShortSeries(t *testing.T) {
	for _, vals := range [][]float64{nil, {42}} {
		d, err := Compute(models.MetricSpend, vals)
		require.NoError(t, err)
		assert.Zero(t, d.AbsoluteChange)
		assert.Zero(t, d.PercentChange)
		assert.Equal(t, models.PolarityFavorable, d.Polarity)
	}
}

func TestComputeZeroPrevious(t *testing.T) {
	d, err := Compute(models.MetricClicks, []float64{0, 25})
	require.NoError(t, err)
	assert.Equal(t, 25.0, d.AbsoluteChange)
	assert.Equal(t, 0.0, d.PercentChange)
	assert.False(t, math.IsNaN(d.PercentChange) || math.IsInf(d.PercentChange, 0))
}

func TestPolarityTable(t *testing.T) {
	tests := []struct {
		name   string
		metric models.Metric
		values []float64
		want   models.Polarity
	}{
		{"spend +10% is bad", models.MetricSpend, []float64{1000, 1100}, models.PolarityUnfavorable},
		{"revenue +10% is good", models.MetricRevenue, []float64{1000, 1100}, models.PolarityFavorable},
		{"cpc -5% is good", models.MetricCPC, []float64{20, 19}, models.PolarityFavorable},
		{"cpc +5% is bad", models.MetricCPC, []float64{20, 21}, models.PolarityUnfavorable},
		{"spend -10% is good", models.MetricSpend, []float64{1000, 900}, models.PolarityFavorable},
		{"cr drop is bad", models.MetricCR, []float64{0.03, 0.02}, models.PolarityUnfavorable},
		{"roi flat is good", models.MetricROI, []float64{1.5, 1.5}, models.PolarityFavorable},
		{"profit recovering from loss is good", models.MetricProfit, []float64{-100, -50}, models.PolarityFavorable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Compute(tt.metric, tt.values)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Polarity)
		})
	}
}

func TestUnknownMetric(t *testing.T) {
	_, err := Compute(models.Metric("bounce_rate"), []float64{1, 2})
	assert.ErrorIs(t, err, models.ErrUnknownMetric)
}

func TestCombine(t *testing.T) {
	sum, err := Combine(Sum, []float64{1, 2}, []float64{3, 4})
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 6}, sum)

	mean, err := Combine(Mean, []float64{1, 2}, []float64{3, 4})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3}, mean)

	_, err = Combine(Sum, []float64{1}, []float64{1, 2})
	assert.ErrorIs(t, err, models.ErrMisaligned)
}

func TestComputeAggregate(t *testing.T) {
	d, combined, err := ComputeAggregate(models.MetricSpend, Sum, []float64{100, 120}, []float64{100, 100})
	require.NoError(t, err)
	assert.Equal(t, []float64{200, 220}, combined)
	assert.InDelta(t, 10, d.PercentChange, 1e-9)
	assert.Equal(t, models.PolarityUnfavorable, d.Polarity)
}

func TestSummaryCards(t *testing.T) {
	ms := &models.MetricSet{Period: models.PeriodToday}
	for _, ch := range models.Channels() {
		cs := models.NewChannelSeries(ch, 2)
		cs.Values[models.MetricSpend] = []float64{100, 200}
		cs.Values[models.MetricRevenue] = []float64{300, 300}
		cs.Values[models.MetricProfit] = []float64{200, 100}
		cs.Values[models.MetricCTR] = []float64{0.02, 0.04}
		cs.Values[models.MetricCR] = []float64{0.01, 0.01}
		cs.Values[models.MetricCPC] = []float64{10, 12}
		ms.Channels = append(ms.Channels, cs)
	}

	cards, err := SummaryCards(ms)
	require.NoError(t, err)

	byMetric := map[models.Metric]models.SummaryCard{}
	for _, c := range cards {
		byMetric[c.Metric] = c
	}
	require.Len(t, byMetric, 7)

	assert.Equal(t, 600.0, byMetric[models.MetricSpend].Value)
	assert.Equal(t, models.PolarityUnfavorable, byMetric[models.MetricSpend].Delta.Polarity)
	assert.Equal(t, 0.04, byMetric[models.MetricCTR].Value)
	assert.Equal(t, models.PolarityUnfavorable, byMetric[models.MetricCPC].Delta.Polarity)

	roi := byMetric[models.MetricROI]
	assert.InDelta(t, 0.5, roi.Value, 1e-9)
	assert.InDelta(t, -1.5, roi.Delta.AbsoluteChange, 1e-9)
	assert.Equal(t, models.PolarityUnfavorable, roi.Delta.Polarity)
}
