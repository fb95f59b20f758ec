package trend

import (
	"fmt"

	"AdPulse/internal/domain/models"
)

// orientation is the single source of truth for trend colouring.
var orientation = map[models.Metric]models.Orientation{
	models.MetricImpressions: models.HigherIsBetter,
	models.MetricClicks:      models.HigherIsBetter,
	models.MetricConversions: models.HigherIsBetter,
	models.MetricRevenue:     models.HigherIsBetter,
	models.MetricCTR:         models.HigherIsBetter,
	models.MetricCR:          models.HigherIsBetter,
	models.MetricROI:         models.HigherIsBetter,
	models.MetricProfit:      models.HigherIsBetter,

	models.MetricSpend: models.LowerIsBetter,
	models.MetricCPC:   models.LowerIsBetter,
}

// OrientationOf returns the polarity rule for m.
func OrientationOf(m models.Metric) (models.Orientation, error) {
	o, ok := orientation[m]
	if !ok {
		return 0, fmt.Errorf("%w: %q", models.ErrUnknownMetric, string(m))
	}
	return o, nil
}

// Classify decides whether an absolute change in m is good news.
func Classify(m models.Metric, change float64) (models.Polarity, error) {
	o, err := OrientationOf(m)
	if err != nil {
		return "", err
	}
	if (o == models.HigherIsBetter && change >= 0) || (o == models.LowerIsBetter && change <= 0) {
		return models.PolarityFavorable, nil
	}
	return models.PolarityUnfavorable, nil
}
