package chart

import (
	"fmt"
	"math"

	"AdPulse/internal/domain/models"
)

// Relative half-widths of a synthesized confidence band.
const (
	RateMargin     = 0.10
	MonetaryMargin = 0.15
)

var margins = map[models.Metric]float64{
	models.MetricCTR: RateMargin,
	models.MetricCR:  RateMargin,
	models.MetricROI: RateMargin,

	models.MetricSpend:   MonetaryMargin,
	models.MetricRevenue: MonetaryMargin,
	models.MetricCPC:     MonetaryMargin,
	models.MetricProfit:  MonetaryMargin,
}

// MarginFor returns the fallback band margin for m.
func MarginFor(m models.Metric) (float64, error) {
	mg, ok := margins[m]
	if !ok {
		return 0, fmt.Errorf("%w: no band margin for %q", models.ErrUnknownMetric, string(m))
	}
	return mg, nil
}

// SynthesizeBand returns a symmetric band of relative half-width margin
// around value.
func SynthesizeBand(value, margin float64) (lower, upper float64) {
	d := math.Abs(value) * margin
	return value - d, value + d
}
