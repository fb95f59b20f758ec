package models

import (
	"fmt"
	"time"
)

// Channel is a marketplace with its own metric series.
type Channel string

const (
	ChannelWildberries Channel = "wildberries"
	ChannelOzon        Channel = "ozon"
)

// Channels lists the two modelled channels in a fixed order.
func Channels() []Channel {
	return []Channel{ChannelWildberries, ChannelOzon}
}

func (c Channel) Valid() bool {
	return c == ChannelWildberries || c == ChannelOzon
}

// Metric names a primary counter or a derived ratio.
type Metric string

const (
	MetricImpressions Metric = "impressions"
	MetricClicks      Metric = "clicks"
	MetricConversions Metric = "conversions"
	MetricSpend       Metric = "spend"
	MetricRevenue     Metric = "revenue"

	MetricCTR    Metric = "ctr"
	MetricCR     Metric = "cr"
	MetricCPC    Metric = "cpc"
	MetricROI    Metric = "roi"
	MetricProfit Metric = "profit"
)

// PrimaryMetrics are the counters a series provider must fill.
func PrimaryMetrics() []Metric {
	return []Metric{MetricImpressions, MetricClicks, MetricConversions, MetricSpend, MetricRevenue}
}

// DerivedMetrics are computed from the primaries.
func DerivedMetrics() []Metric {
	return []Metric{MetricCTR, MetricCR, MetricCPC, MetricROI, MetricProfit}
}

// ChannelSeries maps metric names to values index-aligned with a date sequence.
type ChannelSeries struct {
	Channel Channel              `json:"channel"`
	Values  map[Metric][]float64 `json:"values"`
}

func NewChannelSeries(ch Channel, n int) ChannelSeries {
	cs := ChannelSeries{Channel: ch, Values: make(map[Metric][]float64, 10)}
	for _, m := range PrimaryMetrics() {
		cs.Values[m] = make([]float64, n)
	}
	return cs
}

// Get returns the series for m, or nil if absent.
func (cs ChannelSeries) Get(m Metric) []float64 {
	return cs.Values[m]
}

// MetricSet is the unit handed to the card builder and the chart assembler.
type MetricSet struct {
	Period   Period          `json:"period"`
	Dates    []time.Time     `json:"dates"`
	Channels []ChannelSeries `json:"channels"`
}

// Channel returns the series for ch.
func (ms *MetricSet) Channel(ch Channel) (ChannelSeries, bool) {
	for _, cs := range ms.Channels {
		if cs.Channel == ch {
			return cs, true
		}
	}
	return ChannelSeries{}, false
}

// Validate checks that every series is index-aligned with Dates.
func (ms *MetricSet) Validate() error {
	n := len(ms.Dates)
	for _, cs := range ms.Channels {
		for m, vals := range cs.Values {
			if len(vals) != n {
				return fmt.Errorf("%w: %s/%s has %d values, want %d", ErrMisaligned, cs.Channel, m, len(vals), n)
			}
		}
	}
	return nil
}

// HistoricalRecord is one day of counters as exchanged with the historical
// source and the prediction service.
type HistoricalRecord struct {
	Date        string  `json:"date"`
	Channel     Channel `json:"channel,omitempty"`
	Impressions float64 `json:"impressions"`
	Clicks      float64 `json:"clicks"`
	Conversions float64 `json:"conversions"`
	Spend       float64 `json:"spend"`
	Revenue     float64 `json:"revenue"`
}

// DateLayout is the wire format of record and prediction dates.
const DateLayout = "2006-01-02"

// Day parses the record date.
func (r HistoricalRecord) Day() (time.Time, error) {
	t, err := time.Parse(DateLayout, r.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: record date %q", ErrMalformedResponse, r.Date)
	}
	return t, nil
}
