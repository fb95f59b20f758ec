package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AdPulse/internal/domain/models"
)

func days(n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = time.Date(2025, 3, 10+i, 0, 0, 0, 0, time.UTC)
	}
	return out
}

func TestPNGRendererDrawsAllRoles(t *testing.T) {
	traces := []models.Trace{
		{Name: "historical ctr", Role: models.RoleHistory, X: days(3), Y: []float64{0.03, 0.031, 0.029}},
		{Name: "predicted ctr", Role: models.RoleForecast, X: days(2), Y: []float64{0.03, 0.032}},
		{Name: "ctr band", Role: models.RoleBand, X: days(2), Lower: []float64{0.027, 0.029}, Upper: []float64{0.033, 0.035}, BandSource: models.BandSynthesized},
	}
	var buf bytes.Buffer
	err := PNGRenderer{}.Render(&buf, traces, models.RenderOptions{Title: "CTR", Width: 640, Height: 320})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestPNGRendererSinglePointAndFlat(t *testing.T) {
	traces := []models.Trace{{Name: "today", Role: models.RoleHistory, X: days(1), Y: []float64{0}}}
	var buf bytes.Buffer
	require.NoError(t, PNGRenderer{}.Render(&buf, traces, models.RenderOptions{Width: 300, Height: 200}))
	assert.NotZero(t, buf.Len())
}

func TestPNGRendererRejectsBadInput(t *testing.T) {
	var buf bytes.Buffer
	err := PNGRenderer{}.Render(&buf, nil, models.RenderOptions{})
	assert.True(t, errors.Is(err, ErrNoTraces))

	err = PNGRenderer{}.Render(&buf, []models.Trace{{Name: "x", X: days(2), Y: []float64{1}}}, models.RenderOptions{})
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestCardTable(t *testing.T) {
	color.NoColor = true
	cards := []models.SummaryCard{
		{Metric: models.MetricSpend, Value: 12000, Delta: models.TrendDelta{Previous: 1000, Current: 1100, AbsoluteChange: 100, PercentChange: 10, Polarity: models.PolarityUnfavorable}},
		{Metric: models.MetricCTR, Value: 0.0321, Delta: models.TrendDelta{Previous: 0.03, Current: 0.0321, AbsoluteChange: 0.0021, PercentChange: 7, Polarity: models.PolarityFavorable}},
	}
	var buf bytes.Buffer
	require.NoError(t, CardTable{Out: &buf}.Render(cards))

	out := buf.String()
	assert.Contains(t, out, "12000.00")
	assert.Contains(t, out, "+10.00%")
	assert.Contains(t, out, "3.21%")
	assert.Equal(t, 1, strings.Count(out, "+100.00"))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "2.50%", FormatValue(models.MetricCR, 0.025))
	assert.Equal(t, "1500", FormatValue(models.MetricClicks, 1500))
	assert.Equal(t, "-12.35", FormatValue(models.MetricProfit, -12.345))
}
