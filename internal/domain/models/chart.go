package models

import "time"

// TraceRole tells the renderer how a trace should be drawn.
type TraceRole string

const (
	RoleHistory  TraceRole = "history"
	RoleForecast TraceRole = "forecast"
	RoleBand     TraceRole = "band"
)

// BandSource distinguishes model intervals from synthesized ones.
type BandSource string

const (
	BandFromModel   BandSource = "model"
	BandSynthesized BandSource = "synthesized"
	// BandMixed means some points carried model bounds and some did not.
	BandMixed BandSource = "mixed"
)

// Trace is one named x/y series for the rendering boundary. Band traces use
// Lower and Upper instead of Y.
type Trace struct {
	Name       string      `json:"name"`
	Role       TraceRole   `json:"role"`
	Metric     Metric      `json:"metric"`
	Channel    Channel     `json:"channel,omitempty"`
	X          []time.Time `json:"x"`
	Y          []float64   `json:"y,omitempty"`
	Lower      []float64   `json:"lower,omitempty"`
	Upper      []float64   `json:"upper,omitempty"`
	BandSource BandSource  `json:"band_source,omitempty"`
}

// Synthesized reports whether any point of a band trace was synthesized.
func (t Trace) Synthesized() bool {
	return t.BandSource == BandSynthesized || t.BandSource == BandMixed
}

// ChartData is the complete content of one chart slot.
type ChartData struct {
	Slot   string  `json:"slot"`
	Title  string  `json:"title"`
	Traces []Trace `json:"traces"`
	NoData bool    `json:"no_data"`
	Error  string  `json:"error,omitempty"`
}

// RenderOptions are presentation hints passed to a Renderer.
type RenderOptions struct {
	Title      string
	Width      int
	Height     int
	YAxisLabel string
	DateFormat string
}
