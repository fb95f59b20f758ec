package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AdPulse/internal/domain/models"
	"AdPulse/internal/services/chart"
	"AdPulse/internal/services/period"
)

func newForecast(p *gatedPredictor, h HistoryLoader, m *recordingMetrics) *ForecastUseCase {
	return NewForecastUseCase(p, nil, h, 30, period.FixedClock{T: testNow}, nil, m, nil)
}

func predictionAt(ctr, spend float64) models.PredictionResponse {
	return models.PredictionResponse{DaysAhead: 1, Predictions: []models.PredictionPoint{
		{Date: "2025-03-16", CTR: ptr(ctr), Spend: ptr(spend), SpendLower: ptr(spend - 10), SpendUpper: ptr(spend + 10)},
	}}
}

func forecastValue(t *testing.T, cd models.ChartData) float64 {
	t.Helper()
	for _, tr := range cd.Traces {
		if tr.Role == models.RoleForecast {
			require.NotEmpty(t, tr.Y)
			return tr.Y[0]
		}
	}
	t.Fatalf("no forecast trace in %s", cd.Slot)
	return 0
}

func TestForecastAssemblesSlots(t *testing.T) {
	p := newGatedPredictor(predictionAt(0.03, 1000))
	p.stats = models.ModelStats{ModelTrained: true, FeatureImportance: map[string]float64{"lag_1": 0.2, "dow": 0.5}}
	close(p.gates[0])

	res, err := newForecast(p, staticHistory{records: sampleHistory()}, newRecordingMetrics()).
		Forecast(context.Background(), NewSession(), 1)
	require.NoError(t, err)
	assert.Nil(t, res.Errors)
	require.Len(t, res.Charts, 2)
	require.NotNil(t, res.Stats)
	assert.Equal(t, "dow", res.FeatureImportance[0].Feature)
	assert.Len(t, res.Recommendations, 1)

	for _, cd := range res.Charts {
		var band *models.Trace
		for i := range cd.Traces {
			if cd.Traces[i].Role == models.RoleBand {
				band = &cd.Traces[i]
			}
		}
		require.NotNil(t, band, cd.Slot)
		switch cd.Slot {
		case chart.SlotCTRForecast:
			assert.Equal(t, models.BandSynthesized, band.BandSource)
			assert.InDelta(t, 0.027, band.Lower[0], 1e-9)
			assert.InDelta(t, 0.033, band.Upper[0], 1e-9)
		case chart.SlotSpendForecast:
			assert.Equal(t, models.BandFromModel, band.BandSource)
			assert.Equal(t, 990.0, band.Lower[0])
		}
	}
}

// A is issued before B; B resolves first and A resolves last. The chart
// must show B.
func TestForecastDiscardsStaleResponse(t *testing.T) {
	p := newGatedPredictor(predictionAt(0.01, 100), predictionAt(0.05, 500))
	m := newRecordingMetrics()
	uc := newForecast(p, staticHistory{records: sampleHistory()}, m)
	sess := NewSession()
	ctx := context.Background()

	resA := make(chan *ForecastResult, 1)
	go func() {
		r, _ := uc.Forecast(ctx, sess, 1)
		resA <- r
	}()
	require.Equal(t, 0, <-p.started)

	resB := make(chan *ForecastResult, 1)
	go func() {
		r, _ := uc.Forecast(ctx, sess, 1)
		resB <- r
	}()
	require.Equal(t, 1, <-p.started)

	close(p.gates[1])
	b := <-resB
	assert.Empty(t, b.Superseded)

	close(p.gates[0])
	a := <-resA

	cd, ok := sess.Chart(chart.SlotCTRForecast)
	require.True(t, ok)
	assert.Equal(t, 0.05, forecastValue(t, cd))

	spend, ok := sess.Chart(chart.SlotSpendForecast)
	require.True(t, ok)
	assert.Equal(t, 500.0, forecastValue(t, spend))

	assert.ElementsMatch(t, []string{chart.SlotCTRForecast, chart.SlotSpendForecast, SlotForecast}, a.Superseded)
	for _, c := range a.Charts {
		assert.NotEqual(t, 0.01, forecastValue(t, c), "late response must not surface")
	}
	assert.Equal(t, 1, m.discarded(chart.SlotCTRForecast))
	assert.Equal(t, b.GeneratedAt, sess.LastForecast().GeneratedAt)
}

func TestForecastPredictFailureKeepsPreviousChart(t *testing.T) {
	p := newGatedPredictor(predictionAt(0.04, 800))
	close(p.gates[0])
	m := newRecordingMetrics()
	uc := newForecast(p, staticHistory{records: sampleHistory()}, m)
	sess := NewSession()

	_, err := uc.Forecast(context.Background(), sess, 1)
	require.NoError(t, err)

	p.predictErr = errServiceDown
	res, err := uc.Forecast(context.Background(), sess, 1)
	require.NoError(t, err)
	assert.Contains(t, res.Errors["predict"], "connection refused")
	for _, cd := range res.Charts {
		assert.False(t, cd.NoData)
		assert.NotEmpty(t, cd.Error)
	}
	assert.Equal(t, 1, m.errors["network_failure"])

	fresh, err := uc.Forecast(context.Background(), NewSession(), 1)
	require.NoError(t, err)
	for _, cd := range fresh.Charts {
		assert.True(t, cd.NoData, "no previous chart means placeholder")
	}
}

func TestForecastHistoryFailure(t *testing.T) {
	p := newGatedPredictor(predictionAt(0.04, 800))
	res, err := newForecast(p, staticHistory{err: errServiceDown}, newRecordingMetrics()).
		Forecast(context.Background(), NewSession(), 3)
	require.NoError(t, err)
	assert.Contains(t, res.Errors, "history")
	assert.Len(t, res.Charts, 2)
	assert.Equal(t, 0, p.calls)
}

func TestForecastRejectsNonPositiveHorizon(t *testing.T) {
	uc := newForecast(newGatedPredictor(), staticHistory{}, newRecordingMetrics())
	_, err := uc.Forecast(context.Background(), NewSession(), 0)
	assert.Error(t, err)
}

func TestStatsCache(t *testing.T) {
	p := newGatedPredictor()
	p.stats = models.ModelStats{ModelTrained: true}
	sc := NewStatsCache(p, nil, testTTL, nil)
	ctx := context.Background()

	_, cached, err := sc.Get(ctx)
	require.NoError(t, err)
	assert.False(t, cached)
	st, cached, err := sc.Get(ctx)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.True(t, st.ModelTrained)
	assert.Equal(t, 1, p.statsCalls)

	require.NoError(t, sc.Invalidate(ctx))
	_, cached, _ = sc.Get(ctx)
	assert.False(t, cached)
	assert.Equal(t, 2, p.statsCalls)
}
