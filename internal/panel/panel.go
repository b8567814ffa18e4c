// Package panel renders the telemetry plot regions of the output frame.
// Each panel owns a bounded rolling window of snapshots and redraws its
// backing image from scratch every output tick.
package panel

import (
	"image"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/flight-viewer/flightsync/internal/flightlog"
)

// Rendering constants carried over from the recorded flights this tool was
// built around: a 100-point trail, 5 s angle and PID windows, a 10 s marker
// window, and fixed PID scale so magnitudes compare across frames.
const (
	trailLength = 100

	angleWindow = 5.0  // seconds of angle history
	pidWindow   = 5.0  // seconds of PID history
	markerWin   = 10.0 // seconds of marker-count history

	angleLead  = 0.5 // seconds of headroom ahead of the cursor
	markerLead = 1.0

	angleLimit = 5.0 // degrees, fixed angle scale
	pidLimit   = 0.1 // fixed PID scale
)

// Target is the reference position the vehicle is holding.
type Target struct {
	X float64 // meters
	Y float64 // meters
}

// Panel is one independently rendered region of the output frame, backed
// by its own rolling data window.
type Panel interface {
	// Update appends the current tick's snapshot to the panel's window.
	Update(s flightlog.Sample)

	// Render redraws the panel for output time now and returns its
	// backing image. The image is owned by the panel and reused across
	// ticks; callers must not retain it.
	Render(now float64) *image.RGBA
}

// windowCapacity sizes a time-window ring so it spans the trailing
// duration at the output frame rate.
func windowCapacity(seconds, fps float64) int {
	return int(seconds*fps) + 1
}

// renderInto rasterizes p over the full backing image. The plot background
// is opaque, so prior frame content is fully overwritten.
func renderInto(p *plot.Plot, img *image.RGBA) {
	c := vgimg.NewWith(vgimg.UseImage(img))
	p.Draw(draw.New(c))
}
