package panel

import (
	"image"
	"math"
	"strconv"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/flight-viewer/flightsync/internal/flightlog"
)

// MarkersPanel plots the tracked marker count as a filled area over the
// trailing window. The y axis follows the observed peak and the newest
// value is annotated next to the cursor.
type MarkersPanel struct {
	win *Window
	img *image.RGBA
}

// NewMarkersPanel creates a marker-count panel rendering into a w by h
// region.
func NewMarkersPanel(w, h int, fps float64) *MarkersPanel {
	return &MarkersPanel{
		win: NewWindow(windowCapacity(markerWin, fps)),
		img: image.NewRGBA(image.Rect(0, 0, w, h)),
	}
}

func (p *MarkersPanel) Update(s flightlog.Sample) { p.win.Push(s) }

func (p *MarkersPanel) Render(now float64) *image.RGBA {
	pl := newPlot("Tracked Markers")
	pl.X.Label.Text = "t (s)"
	pl.X.Min, pl.X.Max = now-markerWin, now+markerLead

	peak := 0.0
	xys := make(plotter.XYs, p.win.Len())
	for i := range xys {
		s := p.win.At(i)
		xys[i] = plotter.XY{X: s.Elapsed, Y: s.MarkerCount}
		peak = math.Max(peak, s.MarkerCount)
	}

	pl.Y.Min, pl.Y.Max = 0, headroom(peak)

	if line, err := plotter.NewLine(xys); err == nil {
		line.LineStyle.Color = colorMarker
		line.LineStyle.Width = vg.Points(1.5)
		line.FillColor = fade(colorMarker, 0x59)
		pl.Add(line)
	}

	if last, ok := p.win.Last(); ok {
		count := strconv.FormatFloat(math.Round(last.MarkerCount), 'f', -1, 64)
		labels, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    plotter.XYs{{X: last.Elapsed, Y: last.MarkerCount}},
			Labels: []string{count},
		})
		if err == nil {
			labels.TextStyle[0].Color = colorText
			labels.Offset = vg.Point{X: vg.Points(4), Y: vg.Points(4)}
			pl.Add(labels)
		}
	}

	renderInto(pl, p.img)
	return p.img
}
