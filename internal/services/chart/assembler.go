package chart

import (
	"fmt"
	"sort"
	"time"

	"AdPulse/internal/domain/models"
	"AdPulse/internal/services/derive"
	"AdPulse/internal/services/features"
)

// Dashboard chart slots.
const (
	SlotCTRCR         = "ctr-cr"
	SlotSpendRevenue  = "spend-revenue"
	SlotROI           = "roi"
	SlotProfit        = "profit"
	SlotCTRForecast   = "ctr-forecast"
	SlotSpendForecast = "spend-forecast"
)

// smoothingWindow is the bucket count of the spend moving average.
const smoothingWindow = 7

type slotSpec struct {
	slot    string
	title   string
	metrics []models.Metric
}

var dashboardSlots = []slotSpec{
	{SlotCTRCR, "CTR and conversion rate", []models.Metric{models.MetricCTR, models.MetricCR}},
	{SlotSpendRevenue, "Spend and revenue", []models.Metric{models.MetricSpend, models.MetricRevenue}},
	{SlotROI, "ROI", []models.Metric{models.MetricROI}},
	{SlotProfit, "Profit", []models.Metric{models.MetricProfit}},
}

// DashboardSlots lists the slot ids DashboardCharts produces.
func DashboardSlots() []string {
	out := make([]string, 0, len(dashboardSlots))
	for _, s := range dashboardSlots {
		out = append(out, s.slot)
	}
	return out
}

// SlotTitle returns the display title of a known slot, or the slot id.
func SlotTitle(slot string) string {
	for _, s := range dashboardSlots {
		if s.slot == slot {
			return s.title
		}
	}
	for _, m := range ForecastMetrics() {
		if ForecastSlot(m) == slot {
			return forecastTitle(m)
		}
	}
	return slot
}

// ForecastMetrics lists the metrics with a forecast chart.
func ForecastMetrics() []models.Metric {
	return []models.Metric{models.MetricCTR, models.MetricSpend}
}

func forecastTitle(m models.Metric) string {
	return fmt.Sprintf("%s forecast", m)
}

// ForecastSlot maps a forecast metric to its chart slot.
func ForecastSlot(m models.Metric) string {
	return string(m) + "-forecast"
}

// Placeholder is the explicit "no data" content of a slot.
func Placeholder(slot, title string, cause error) models.ChartData {
	cd := models.ChartData{Slot: slot, Title: title, Traces: []models.Trace{}, NoData: true}
	if cause != nil {
		cd.Error = cause.Error()
	}
	return cd
}

// DashboardCharts turns a derived MetricSet into the history charts.
func DashboardCharts(ms *models.MetricSet) ([]models.ChartData, error) {
	if err := ms.Validate(); err != nil {
		return nil, err
	}
	out := make([]models.ChartData, 0, len(dashboardSlots))
	for _, def := range dashboardSlots {
		cd := models.ChartData{Slot: def.slot, Title: def.title}
		for _, m := range def.metrics {
			for _, cs := range ms.Channels {
				vals := cs.Get(m)
				if vals == nil {
					return nil, fmt.Errorf("%w: %s/%s not derived", models.ErrMisaligned, cs.Channel, m)
				}
				cd.Traces = append(cd.Traces, models.Trace{
					Name:    fmt.Sprintf("%s %s", cs.Channel, m),
					Role:    models.RoleHistory,
					Metric:  m,
					Channel: cs.Channel,
					X:       copyDates(ms.Dates),
					Y:       append([]float64(nil), vals...),
				})
			}
		}
		if def.slot == SlotSpendRevenue && len(ms.Dates) > 1 {
			total := make([]float64, len(ms.Dates))
			for _, cs := range ms.Channels {
				for i, v := range cs.Get(models.MetricSpend) {
					total[i] += v
				}
			}
			cd.Traces = append(cd.Traces, models.Trace{
				Name:   fmt.Sprintf("total spend (%d-bucket avg)", smoothingWindow),
				Role:   models.RoleHistory,
				Metric: models.MetricSpend,
				X:      copyDates(ms.Dates),
				Y:      features.MovingAverage(total, smoothingWindow),
			})
		}
		cd.NoData = len(ms.Dates) == 0
		out = append(out, cd)
	}
	return out, nil
}

// ForecastChart combines historical records with predictor output for one
// metric. Points without a point estimate are left out. The result is
// complete or an error is returned; there is no partial chart.
func ForecastChart(m models.Metric, history []models.HistoricalRecord, preds []models.PredictionPoint) (models.ChartData, error) {
	margin, err := MarginFor(m)
	if err != nil {
		return models.ChartData{}, err
	}
	slot := ForecastSlot(m)
	title := forecastTitle(m)

	hx, hy, err := historySeries(m, history)
	if err != nil {
		return models.ChartData{}, err
	}

	var fx []time.Time
	var fy, lo, hi []float64
	modelPts, synthPts := 0, 0
	for _, p := range preds {
		v := p.Value(m)
		if v == nil {
			continue
		}
		day, err := p.Day()
		if err != nil {
			return models.ChartData{}, err
		}
		l, u := p.Bounds(m)
		var lower, upper float64
		if l != nil && u != nil {
			lower, upper = *l, *u
			modelPts++
		} else {
			lower, upper = SynthesizeBand(*v, margin)
			synthPts++
		}
		fx = append(fx, day)
		fy = append(fy, *v)
		lo = append(lo, lower)
		hi = append(hi, upper)
	}

	if len(hx) == 0 && len(fx) == 0 {
		return Placeholder(slot, title, nil), nil
	}

	cd := models.ChartData{Slot: slot, Title: title}
	if len(hx) > 0 {
		cd.Traces = append(cd.Traces, models.Trace{
			Name: fmt.Sprintf("historical %s", m), Role: models.RoleHistory, Metric: m, X: hx, Y: hy,
		})
	}
	if len(fx) > 0 {
		src := models.BandMixed
		switch {
		case synthPts == 0:
			src = models.BandFromModel
		case modelPts == 0:
			src = models.BandSynthesized
		}
		cd.Traces = append(cd.Traces,
			models.Trace{Name: fmt.Sprintf("predicted %s", m), Role: models.RoleForecast, Metric: m, X: fx, Y: fy},
			models.Trace{
				Name: fmt.Sprintf("%s confidence band", m), Role: models.RoleBand, Metric: m,
				X: copyDates(fx), Lower: lo, Upper: hi, BandSource: src,
			},
		)
	}
	return cd, nil
}

// historySeries sums both channels per day and evaluates m on the totals.
func historySeries(m models.Metric, records []models.HistoricalRecord) ([]time.Time, []float64, error) {
	byDay := make(map[time.Time]*models.HistoricalRecord)
	for _, r := range records {
		day, err := r.Day()
		if err != nil {
			return nil, nil, err
		}
		acc, ok := byDay[day]
		if !ok {
			acc = &models.HistoricalRecord{Date: r.Date}
			byDay[day] = acc
		}
		acc.Impressions += r.Impressions
		acc.Clicks += r.Clicks
		acc.Conversions += r.Conversions
		acc.Spend += r.Spend
		acc.Revenue += r.Revenue
	}

	days := make([]time.Time, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	ys := make([]float64, 0, len(days))
	for _, d := range days {
		v, err := RecordValue(m, *byDay[d])
		if err != nil {
			return nil, nil, err
		}
		ys = append(ys, v)
	}
	return days, ys, nil
}

// RecordValue evaluates m on a single record.
func RecordValue(m models.Metric, r models.HistoricalRecord) (float64, error) {
	switch m {
	case models.MetricImpressions:
		return r.Impressions, nil
	case models.MetricClicks:
		return r.Clicks, nil
	case models.MetricConversions:
		return r.Conversions, nil
	case models.MetricSpend:
		return r.Spend, nil
	case models.MetricRevenue:
		return r.Revenue, nil
	case models.MetricCTR:
		return derive.CTR(r.Clicks, r.Impressions), nil
	case models.MetricCR:
		return derive.ConversionRate(r.Conversions, r.Clicks), nil
	case models.MetricCPC:
		return derive.CPC(r.Spend, r.Clicks), nil
	case models.MetricROI:
		return derive.ROI(r.Revenue, r.Spend), nil
	case models.MetricProfit:
		return derive.Profit(r.Revenue, r.Spend), nil
	default:
		return 0, fmt.Errorf("%w: %q", models.ErrUnknownMetric, string(m))
	}
}

// SortedImportance orders feature weights from most to least important.
func SortedImportance(fi map[string]float64) []models.FeatureWeight {
	out := make([]models.FeatureWeight, 0, len(fi))
	for k, v := range fi {
		out = append(out, models.FeatureWeight{Feature: k, Weight: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight == out[j].Weight {
			return out[i].Feature < out[j].Feature
		}
		return out[i].Weight > out[j].Weight
	})
	return out
}

func copyDates(in []time.Time) []time.Time {
	return append([]time.Time(nil), in...)
}
