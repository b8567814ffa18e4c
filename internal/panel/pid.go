package panel

import (
	"image"
	"image/color"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/flight-viewer/flightsync/internal/flightlog"
)

// PIDPanel plots one axis' proportional/integral/derivative decomposition
// over a scrolling window. The y scale is fixed, never auto-fit, so term
// magnitudes stay comparable across frames and between the two axes.
type PIDPanel struct {
	win   *Window
	img   *image.RGBA
	title string
	terms func(flightlog.Sample) flightlog.PID
}

// NewPIDXPanel plots the X axis controller decomposition.
func NewPIDXPanel(w, h int, fps float64) *PIDPanel {
	return newPIDPanel(w, h, fps, "PID X", func(s flightlog.Sample) flightlog.PID { return s.PIDX })
}

// NewPIDYPanel plots the Y axis controller decomposition.
func NewPIDYPanel(w, h int, fps float64) *PIDPanel {
	return newPIDPanel(w, h, fps, "PID Y", func(s flightlog.Sample) flightlog.PID { return s.PIDY })
}

func newPIDPanel(w, h int, fps float64, title string, terms func(flightlog.Sample) flightlog.PID) *PIDPanel {
	return &PIDPanel{
		win:   NewWindow(windowCapacity(pidWindow, fps)),
		img:   image.NewRGBA(image.Rect(0, 0, w, h)),
		title: title,
		terms: terms,
	}
}

func (p *PIDPanel) Update(s flightlog.Sample) { p.win.Push(s) }

func (p *PIDPanel) Render(now float64) *image.RGBA {
	pl := newPlot(p.title)
	pl.X.Label.Text = "t (s)"
	pl.X.Min, pl.X.Max = now-pidWindow, now+angleLead
	pl.Y.Min, pl.Y.Max = -pidLimit, pidLimit

	pl.Add(zeroLine(pl.X.Min, pl.X.Max))

	for _, term := range []struct {
		name  string
		color color.RGBA
		value func(flightlog.PID) float64
	}{
		{"P", colorP, func(t flightlog.PID) float64 { return t.P }},
		{"I", colorI, func(t flightlog.PID) float64 { return t.I }},
		{"D", colorD, func(t flightlog.PID) float64 { return t.D }},
	} {
		xys := make(plotter.XYs, p.win.Len())
		for i := range xys {
			s := p.win.At(i)
			xys[i] = plotter.XY{X: s.Elapsed, Y: term.value(p.terms(s))}
		}

		line, err := plotter.NewLine(xys)
		if err != nil {
			continue
		}
		line.LineStyle.Color = term.color
		line.LineStyle.Width = vg.Points(1.5)
		pl.Add(line)
		pl.Legend.Add(term.name, line)
	}

	renderInto(pl, p.img)
	return p.img
}
