package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"AdPulse/internal/domain/models"
	domsvc "AdPulse/internal/domain/service"
)

// ErrNoTraces is returned when there is nothing to draw.
var ErrNoTraces = errors.New("no traces to render")

var palette = []drawing.Color{
	chart.ColorBlue,
	chart.ColorGreen,
	chart.ColorOrange,
	chart.ColorRed,
	chart.ColorCyan,
}

// PNGRenderer draws traces as a PNG line chart.
type PNGRenderer struct{}

var _ domsvc.Renderer = PNGRenderer{}

func (PNGRenderer) Render(w io.Writer, traces []models.Trace, opts models.RenderOptions) error {
	if len(traces) == 0 {
		return ErrNoTraces
	}
	layout := opts.DateFormat
	if layout == "" {
		layout = "01-02"
	}

	var series []chart.Series
	lo, hi := math.Inf(1), math.Inf(-1)
	colour := 0
	for _, tr := range traces {
		switch tr.Role {
		case models.RoleBand:
			if len(tr.X) == 0 || len(tr.Lower) != len(tr.X) || len(tr.Upper) != len(tr.X) {
				return fmt.Errorf("band %q: misaligned bounds", tr.Name)
			}
			st := chart.Style{StrokeColor: chart.ColorAlternateGray, StrokeWidth: 1, StrokeDashArray: []float64{2, 3}}
			name := tr.Name
			if tr.Synthesized() {
				name += " (estimated)"
			}
			series = append(series,
				timeSeries(name+" upper", tr.X, tr.Upper, st),
				timeSeries(name+" lower", tr.X, tr.Lower, st),
			)
			lo, hi = extend(lo, hi, tr.Lower)
			lo, hi = extend(lo, hi, tr.Upper)
		default:
			if len(tr.X) == 0 || len(tr.Y) != len(tr.X) {
				return fmt.Errorf("trace %q: %d x values, %d y values", tr.Name, len(tr.X), len(tr.Y))
			}
			st := chart.Style{StrokeColor: palette[colour%len(palette)], StrokeWidth: 2}
			colour++
			if tr.Role == models.RoleForecast {
				st.StrokeDashArray = []float64{6, 4}
				st.DotWidth = 2
				st.DotColor = st.StrokeColor
			}
			series = append(series, timeSeries(tr.Name, tr.X, tr.Y, st))
			lo, hi = extend(lo, hi, tr.Y)
		}
	}

	yAxis := chart.YAxis{Name: opts.YAxisLabel}
	if lo == hi {
		yAxis.Range = &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}

	ch := chart.Chart{
		Title:      opts.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 24}},
		XAxis:      chart.XAxis{ValueFormatter: chart.TimeValueFormatterWithFormat(layout)},
		YAxis:      yAxis,
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render png: %w", err)
	}
	return nil
}

// timeSeries pads a single point to a flat segment; go-chart cannot draw a
// zero-width x range.
func timeSeries(name string, xs []time.Time, ys []float64, st chart.Style) chart.TimeSeries {
	if len(xs) == 1 {
		xs = []time.Time{xs[0], xs[0].Add(24 * time.Hour)}
		ys = []float64{ys[0], ys[0]}
	}
	return chart.TimeSeries{Name: name, XValues: xs, YValues: ys, Style: st}
}

func extend(lo, hi float64, vals []float64) (float64, float64) {
	for _, v := range vals {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
