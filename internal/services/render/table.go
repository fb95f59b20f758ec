package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/shopspring/decimal"

	"AdPulse/internal/domain/models"
)

// CardTable prints summary cards as a coloured terminal table.
type CardTable struct {
	Out io.Writer
}

// Render writes one row per card. Deltas are green when favorable and red
// otherwise, whatever their sign.
func (t CardTable) Render(cards []models.SummaryCard) error {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	table := tablewriter.NewWriter(t.Out)
	table.Header([]string{"Metric", "Value", "Previous", "Latest", "Change", "Change %"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(cards))
	for _, c := range cards {
		paint := green
		if c.Delta.Polarity == models.PolarityUnfavorable {
			paint = red
		}
		data = append(data, []string{
			string(c.Metric),
			FormatValue(c.Metric, c.Value),
			FormatValue(c.Metric, c.Delta.Previous),
			FormatValue(c.Metric, c.Delta.Current),
			paint(signed(c.Delta.AbsoluteChange, places(c.Metric))),
			paint(signed(c.Delta.PercentChange, 2) + "%"),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// FormatValue renders rates as percentages and everything else with two
// decimals.
func FormatValue(m models.Metric, v float64) string {
	switch m {
	case models.MetricCTR, models.MetricCR:
		return decimal.NewFromFloat(v*100).StringFixed(2) + "%"
	case models.MetricImpressions, models.MetricClicks, models.MetricConversions:
		return decimal.NewFromFloat(v).StringFixed(0)
	default:
		return decimal.NewFromFloat(v).StringFixed(2)
	}
}

func places(m models.Metric) int32 {
	if m == models.MetricCTR || m == models.MetricCR {
		return 4
	}
	return 2
}

func signed(v float64, places int32) string {
	s := decimal.NewFromFloat(v).StringFixed(places)
	if v > 0 {
		return fmt.Sprintf("+%s", s)
	}
	return s
}
