package trend

import (
	"fmt"

	"github.com/shopspring/decimal"

	"AdPulse/internal/domain/models"
	"AdPulse/internal/services/derive"
)

// Compute compares the last two values of a series. Fewer than two values
// mean no change.
func Compute(m models.Metric, values []float64) (models.TrendDelta, error) {
	d := models.TrendDelta{Metric: m}
	switch len(values) {
	case 0:
	case 1:
		d.Current = values[0]
		d.Previous = values[0]
	default:
		d.Current = values[len(values)-1]
		d.Previous = values[len(values)-2]
		d.AbsoluteChange = d.Current - d.Previous
		if d.Previous != 0 {
			d.PercentChange = d.AbsoluteChange / d.Previous * 100
		}
	}

	pol, err := Classify(m, d.AbsoluteChange)
	if err != nil {
		return models.TrendDelta{}, err
	}
	d.Polarity = pol
	return d, nil
}

// Mode selects how channel series are combined.
type Mode int

const (
	Sum Mode = iota
	Mean
)

// Combine merges index-aligned series bucket by bucket.
func Combine(mode Mode, series ...[]float64) ([]float64, error) {
	if len(series) == 0 {
		return []float64{}, nil
	}
	n := len(series[0])
	out := make([]float64, n)
	for _, s := range series {
		if len(s) != n {
			return nil, fmt.Errorf("%w: combine %d vs %d values", models.ErrMisaligned, len(s), n)
		}
		for i, v := range s {
			out[i] += v
		}
	}
	if mode == Mean {
		k := float64(len(series))
		for i := range out {
			out[i] /= k
		}
	}
	return out, nil
}

// ComputeAggregate is Compute over the combined channel series.
func ComputeAggregate(m models.Metric, mode Mode, series ...[]float64) (models.TrendDelta, []float64, error) {
	combined, err := Combine(mode, series...)
	if err != nil {
		return models.TrendDelta{}, nil, err
	}
	d, err := Compute(m, combined)
	return d, combined, err
}

type cardSpec struct {
	metric models.Metric
	mode   Mode
	total  bool // card value is the period total rather than the latest bucket
}

var cards = []cardSpec{
	{models.MetricCTR, Mean, false},
	{models.MetricCR, Mean, false},
	{models.MetricCPC, Mean, false},
	{models.MetricSpend, Sum, true},
	{models.MetricRevenue, Sum, true},
	{models.MetricProfit, Sum, true},
}

// SummaryCards builds the headline figures from a derived MetricSet.
func SummaryCards(ms *models.MetricSet) ([]models.SummaryCard, error) {
	out := make([]models.SummaryCard, 0, len(cards)+1)
	for _, card := range cards {
		d, combined, err := ComputeAggregate(card.metric, card.mode, channelSeries(ms, card.metric)...)
		if err != nil {
			return nil, err
		}
		value := d.Current
		if card.total {
			value = 0
			for _, v := range combined {
				value += v
			}
		}
		out = append(out, models.SummaryCard{Metric: card.metric, Value: roundCard(card.metric, value), Delta: d})
	}

	// ROI of the combined channels, not an average of per-channel ratios.
	revenue, err := Combine(Sum, channelSeries(ms, models.MetricRevenue)...)
	if err != nil {
		return nil, err
	}
	spend, err := Combine(Sum, channelSeries(ms, models.MetricSpend)...)
	if err != nil {
		return nil, err
	}
	roi := make([]float64, len(revenue))
	for i := range roi {
		roi[i] = derive.ROI(revenue[i], spend[i])
	}
	d, err := Compute(models.MetricROI, roi)
	if err != nil {
		return nil, err
	}
	out = append(out, models.SummaryCard{Metric: models.MetricROI, Value: roundCard(models.MetricROI, d.Current), Delta: d})
	return out, nil
}

func channelSeries(ms *models.MetricSet, m models.Metric) [][]float64 {
	out := make([][]float64, 0, len(ms.Channels))
	for _, cs := range ms.Channels {
		out = append(out, cs.Get(m))
	}
	return out
}

func roundCard(m models.Metric, v float64) float64 {
	places := int32(2)
	if m == models.MetricCTR || m == models.MetricCR {
		places = 4
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
