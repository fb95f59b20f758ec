// Package derive computes secondary metrics from primary counters. Every
// function is a pure per-bucket calculation; a zero denominator yields 0.
package derive

import (
	"fmt"

	"AdPulse/internal/domain/models"
)

// safeDiv divides by a count: nothing counted gives 0, and a partial count
// below one is treated as one.
func safeDiv(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / max(den, 1)
}

// CTR is clicks / impressions.
func CTR(clicks, impressions float64) float64 { return safeDiv(clicks, impressions) }

// ConversionRate is conversions / clicks.
func ConversionRate(conversions, clicks float64) float64 { return safeDiv(conversions, clicks) }

// CPC is spend / clicks.
func CPC(spend, clicks float64) float64 { return safeDiv(spend, clicks) }

// ROI is (revenue - spend) / spend, and 0 when nothing was spent.
func ROI(revenue, spend float64) float64 {
	if spend <= 0 {
		return 0
	}
	return (revenue - spend) / spend
}

func Profit(revenue, spend float64) float64 { return revenue - spend }

// Apply fills the derived metrics of cs from its primaries.
func Apply(cs *models.ChannelSeries) error {
	clicks := cs.Get(models.MetricClicks)
	impressions := cs.Get(models.MetricImpressions)
	conversions := cs.Get(models.MetricConversions)
	spend := cs.Get(models.MetricSpend)
	revenue := cs.Get(models.MetricRevenue)

	n := len(clicks)
	for m, s := range map[models.Metric][]float64{
		models.MetricImpressions: impressions,
		models.MetricConversions: conversions,
		models.MetricSpend:       spend,
		models.MetricRevenue:     revenue,
	} {
		if len(s) != n {
			return fmt.Errorf("%w: %s/%s has %d values, clicks has %d", models.ErrMisaligned, cs.Channel, m, len(s), n)
		}
	}

	ctr := make([]float64, n)
	cr := make([]float64, n)
	cpc := make([]float64, n)
	roi := make([]float64, n)
	profit := make([]float64, n)
	for i := 0; i < n; i++ {
		ctr[i] = CTR(clicks[i], impressions[i])
		cr[i] = ConversionRate(conversions[i], clicks[i])
		cpc[i] = CPC(spend[i], clicks[i])
		roi[i] = ROI(revenue[i], spend[i])
		profit[i] = Profit(revenue[i], spend[i])
	}

	if cs.Values == nil {
		cs.Values = make(map[models.Metric][]float64, 5)
	}
	cs.Values[models.MetricCTR] = ctr
	cs.Values[models.MetricCR] = cr
	cs.Values[models.MetricCPC] = cpc
	cs.Values[models.MetricROI] = roi
	cs.Values[models.MetricProfit] = profit
	return nil
}

// ApplySet derives metrics for every channel and checks date alignment.
func ApplySet(ms *models.MetricSet) error {
	for i := range ms.Channels {
		if err := Apply(&ms.Channels[i]); err != nil {
			return err
		}
	}
	return ms.Validate()
}

// RecordCTR is the click-through rate of a historical record.
func RecordCTR(r models.HistoricalRecord) float64 { return CTR(r.Clicks, r.Impressions) }
