package chart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AdPulse/internal/domain/models"
)

func f(v float64) *float64 { return &v }

func TestSynthesizeBand(t *testing.T) {
	lo, hi := SynthesizeBand(0.05, RateMargin)
	assert.InDelta(t, 0.045, lo, 1e-12)
	assert.InDelta(t, 0.055, hi, 1e-12)

	lo, hi = SynthesizeBand(1000, MonetaryMargin)
	assert.InDelta(t, 850, lo, 1e-9)
	assert.InDelta(t, 1150, hi, 1e-9)
}

func TestMarginFor(t *testing.T) {
	m, err := MarginFor(models.MetricCTR)
	require.NoError(t, err)
	assert.Equal(t, 0.10, m)

	m, err = MarginFor(models.MetricSpend)
	require.NoError(t, err)
	assert.Equal(t, 0.15, m)

	_, err = MarginFor(models.MetricClicks)
	assert.ErrorIs(t, err, models.ErrUnknownMetric)
}

func TestForecastChartSynthesizesMissingCTRBand(t *testing.T) {
	preds := []models.PredictionPoint{
		{Date: "2025-03-16", CTR: f(0.04), Spend: f(1000), SpendUpper: f(1300), SpendLower: f(900)},
		{Date: "2025-03-17", CTR: f(0.05), Spend: f(1100), SpendUpper: f(1400), SpendLower: f(950)},
	}

	cd, err := ForecastChart(models.MetricCTR, nil, preds)
	require.NoError(t, err)
	require.Len(t, cd.Traces, 2)

	band := cd.Traces[1]
	assert.Equal(t, models.RoleBand, band.Role)
	assert.Equal(t, models.BandSynthesized, band.BandSource)
	assert.True(t, band.Synthesized())
	assert.InDeltaSlice(t, []float64{0.036, 0.045}, band.Lower, 1e-12)
	assert.InDeltaSlice(t, []float64{0.044, 0.055}, band.Upper, 1e-12)

	spend, err := ForecastChart(models.MetricSpend, nil, preds)
	require.NoError(t, err)
	sb := spend.Traces[1]
	assert.Equal(t, models.BandFromModel, sb.BandSource)
	assert.False(t, sb.Synthesized())
	assert.Equal(t, []float64{900, 950}, sb.Lower)
	assert.Equal(t, []float64{1300, 1400}, sb.Upper)
}

func TestForecastChartMixedBand(t *testing.T) {
	preds := []models.PredictionPoint{
		{Date: "2025-03-16", Spend: f(1000), SpendUpper: f(1200), SpendLower: f(800)},
		{Date: "2025-03-17", Spend: f(1000), SpendUpper: f(1200)},
	}
	cd, err := ForecastChart(models.MetricSpend, nil, preds)
	require.NoError(t, err)
	band := cd.Traces[1]
	assert.Equal(t, models.BandMixed, band.BandSource)
	assert.True(t, band.Synthesized())
	assert.InDelta(t, 850, band.Lower[1], 1e-9)
}

func TestForecastChartHistory(t *testing.T) {
	history := []models.HistoricalRecord{
		{Date: "2025-03-15", Channel: models.ChannelOzon, Impressions: 1000, Clicks: 20, Spend: 400},
		{Date: "2025-03-14", Channel: models.ChannelOzon, Impressions: 0, Clicks: 5, Spend: 100},
		{Date: "2025-03-15", Channel: models.ChannelWildberries, Impressions: 1000, Clicks: 40, Spend: 800},
	}
	preds := []models.PredictionPoint{{Date: "2025-03-16"}, {Date: "2025-03-17", CTR: f(0.03)}}

	cd, err := ForecastChart(models.MetricCTR, history, preds)
	require.NoError(t, err)
	require.Len(t, cd.Traces, 3)

	hist := cd.Traces[0]
	assert.Equal(t, models.RoleHistory, hist.Role)
	require.Len(t, hist.X, 2)
	assert.True(t, hist.X[0].Before(hist.X[1]))
	assert.Equal(t, []float64{0, 0.03}, hist.Y)

	fc := cd.Traces[1]
	assert.Equal(t, models.RoleForecast, fc.Role)
	assert.Len(t, fc.X, 1, "points without an estimate are skipped")
}

func TestForecastChartRejectsBadDates(t *testing.T) {
	_, err := ForecastChart(models.MetricCTR, nil, []models.PredictionPoint{{Date: "16/03/2025", CTR: f(0.1)}})
	assert.ErrorIs(t, err, models.ErrMalformedResponse)

	_, err = ForecastChart(models.MetricCTR, []models.HistoricalRecord{{Date: ""}}, nil)
	assert.ErrorIs(t, err, models.ErrMalformedResponse)
}

func TestForecastChartEmptyIsPlaceholder(t *testing.T) {
	cd, err := ForecastChart(models.MetricSpend, nil, nil)
	require.NoError(t, err)
	assert.True(t, cd.NoData)
	assert.Empty(t, cd.Traces)
	assert.Equal(t, SlotSpendForecast, cd.Slot)
}

func TestDashboardCharts(t *testing.T) {
	dates := []time.Time{
		time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
	}
	ms := &models.MetricSet{Period: models.PeriodWeek, Dates: dates}
	for _, ch := range models.Channels() {
		cs := models.NewChannelSeries(ch, 2)
		for _, m := range models.DerivedMetrics() {
			cs.Values[m] = []float64{1, 2}
		}
		cs.Values[models.MetricSpend] = []float64{10, 30}
		ms.Channels = append(ms.Channels, cs)
	}

	charts, err := DashboardCharts(ms)
	require.NoError(t, err)
	require.Len(t, charts, 4)
	assert.Equal(t, DashboardSlots(), []string{charts[0].Slot, charts[1].Slot, charts[2].Slot, charts[3].Slot})

	sr := charts[1]
	require.Len(t, sr.Traces, 5)
	avg := sr.Traces[4]
	assert.Equal(t, []float64{20, 40}, avg.Y)
	for _, tr := range sr.Traces {
		assert.Len(t, tr.X, 2)
		assert.Equal(t, models.RoleHistory, tr.Role)
	}

	// mutating a trace must not leak back into the metric set
	charts[2].Traces[0].Y[0] = 99
	wb, _ := ms.Channel(models.ChannelWildberries)
	assert.Equal(t, 1.0, wb.Get(models.MetricROI)[0])
}

func TestDashboardChartsRequiresDerivedMetrics(t *testing.T) {
	ms := &models.MetricSet{Dates: []time.Time{time.Now()}}
	ms.Channels = append(ms.Channels, models.NewChannelSeries(models.ChannelOzon, 1))
	_, err := DashboardCharts(ms)
	assert.Error(t, err)
}

func TestSortedImportance(t *testing.T) {
	got := SortedImportance(map[string]float64{"ma_7": 0.2, "day_of_week": 0.5, "clicks": 0.2})
	require.Len(t, got, 3)
	assert.Equal(t, "day_of_week", got[0].Feature)
	assert.Equal(t, "clicks", got[1].Feature)
	assert.Equal(t, "ma_7", got[2].Feature)
}

func TestSlotTitle(t *testing.T) {
	assert.Equal(t, "ROI", SlotTitle(SlotROI))
	assert.Equal(t, "spend forecast", SlotTitle(SlotSpendForecast))
	assert.Equal(t, "unknown", SlotTitle("unknown"))
}
