package models

// Orientation says which direction of change is good for a metric.
type Orientation int

const (
	HigherIsBetter Orientation = iota + 1
	LowerIsBetter
)

type Polarity string

const (
	PolarityFavorable   Polarity = "favorable"
	PolarityUnfavorable Polarity = "unfavorable"
)

type TrendDelta struct {
	Metric         Metric   `json:"metric"`
	Current        float64  `json:"current"`
	Previous       float64  `json:"previous"`
	AbsoluteChange float64  `json:"absolute_change"`
	PercentChange  float64  `json:"percent_change"`
	Polarity       Polarity `json:"polarity"`
}

// SummaryCard is one headline figure on the dashboard.
type SummaryCard struct {
	Metric Metric     `json:"metric"`
	Value  float64    `json:"value"`
	Delta  TrendDelta `json:"delta"`
}
