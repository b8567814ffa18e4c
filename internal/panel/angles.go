package panel

import (
	"image"
	"math"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/flight-viewer/flightsync/internal/flightlog"
)

// AnglesPanel plots a roll/pitch pair over a scrolling time window with a
// fixed degree scale and a zero-reference line. The commanded and feedback
// variants differ only in which fields they read.
type AnglesPanel struct {
	win   *Window
	img   *image.RGBA
	title string
	roll  func(flightlog.Sample) float64
	pitch func(flightlog.Sample) float64
}

// NewCommandedAnglesPanel plots the commanded roll/pitch references.
func NewCommandedAnglesPanel(w, h int, fps float64) *AnglesPanel {
	return &AnglesPanel{
		win:   NewWindow(windowCapacity(angleWindow, fps)),
		img:   image.NewRGBA(image.Rect(0, 0, w, h)),
		title: "Commanded Angles",
		roll:  func(s flightlog.Sample) float64 { return s.RollRef },
		pitch: func(s flightlog.Sample) float64 { return s.PitchRef },
	}
}

// NewFeedbackAnglesPanel plots the measured roll/pitch, converted from the
// radians the log records to the degrees the commanded panel uses.
func NewFeedbackAnglesPanel(w, h int, fps float64) *AnglesPanel {
	const degPerRad = 180 / math.Pi
	return &AnglesPanel{
		win:   NewWindow(windowCapacity(angleWindow, fps)),
		img:   image.NewRGBA(image.Rect(0, 0, w, h)),
		title: "Feedback Angles",
		roll:  func(s flightlog.Sample) float64 { return s.RollFb * degPerRad },
		pitch: func(s flightlog.Sample) float64 { return s.PitchFb * degPerRad },
	}
}

func (p *AnglesPanel) Update(s flightlog.Sample) { p.win.Push(s) }

func (p *AnglesPanel) Render(now float64) *image.RGBA {
	pl := newPlot(p.title)
	pl.X.Label.Text = "t (s)"
	pl.Y.Label.Text = "deg"
	pl.X.Min, pl.X.Max = now-angleWindow, now+angleLead
	pl.Y.Min, pl.Y.Max = -angleLimit, angleLimit

	pl.Add(zeroLine(pl.X.Min, pl.X.Max))

	if roll, err := plotter.NewLine(p.series(p.roll)); err == nil {
		roll.LineStyle.Color = colorCurrent
		roll.LineStyle.Width = vg.Points(1.5)
		pl.Add(roll)
		pl.Legend.Add("roll", roll)
	}
	if pitch, err := plotter.NewLine(p.series(p.pitch)); err == nil {
		pitch.LineStyle.Color = colorTrail
		pitch.LineStyle.Width = vg.Points(1.5)
		pl.Add(pitch)
		pl.Legend.Add("pitch", pitch)
	}

	renderInto(pl, p.img)
	return p.img
}

func (p *AnglesPanel) series(value func(flightlog.Sample) float64) plotter.XYs {
	xys := make(plotter.XYs, p.win.Len())
	for i := range xys {
		s := p.win.At(i)
		xys[i] = plotter.XY{X: s.Elapsed, Y: value(s)}
	}
	return xys
}
