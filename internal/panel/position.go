package panel

import (
	"image"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/flight-viewer/flightsync/internal/flightlog"
)

const (
	trailSegments  = 4
	positionMargin = 0.1  // axis margin fraction
	positionSpan   = 0.25 // minimum half-span in meters
)

// PositionPanel draws the recent flight path as a fading trail with the
// current position and the hold target marked.
type PositionPanel struct {
	win    *Window
	img    *image.RGBA
	target Target
}

// NewPositionPanel creates a position panel rendering into a w by h region.
func NewPositionPanel(w, h int, target Target) *PositionPanel {
	return &PositionPanel{
		win:    NewWindow(trailLength),
		img:    image.NewRGBA(image.Rect(0, 0, w, h)),
		target: target,
	}
}

func (p *PositionPanel) Update(s flightlog.Sample) { p.win.Push(s) }

func (p *PositionPanel) Render(now float64) *image.RGBA {
	pl := newPlot("Position")
	pl.X.Label.Text = "x (m)"
	pl.Y.Label.Text = "y (m)"

	n := p.win.Len()
	xs := make([]float64, 0, n+1)
	ys := make([]float64, 0, n+1)
	for i := 0; i < n; i++ {
		s := p.win.At(i)
		xs = append(xs, s.PosX)
		ys = append(ys, s.PosY)
	}
	xs = append(xs, p.target.X)
	ys = append(ys, p.target.Y)

	pl.X.Min, pl.X.Max = fitRange(floats.Min(xs), floats.Max(xs), positionMargin, positionSpan)
	pl.Y.Min, pl.Y.Max = fitRange(floats.Min(ys), floats.Max(ys), positionMargin, positionSpan)

	// Oldest segments are drawn faintest so the path reads as motion.
	for k := 0; k < trailSegments; k++ {
		lo := n * k / trailSegments
		hi := n * (k + 1) / trailSegments
		if k > 0 {
			lo-- // share a point so segments join
		}
		if hi-lo < 2 {
			continue
		}

		xys := make(plotter.XYs, 0, hi-lo)
		for i := lo; i < hi; i++ {
			s := p.win.At(i)
			xys = append(xys, plotter.XY{X: s.PosX, Y: s.PosY})
		}

		line, err := plotter.NewLine(xys)
		if err != nil {
			continue
		}
		line.LineStyle.Color = fade(colorTrail, uint8(255*(k+1)/trailSegments))
		line.LineStyle.Width = vg.Points(1.5)
		pl.Add(line)
	}

	if last, ok := p.win.Last(); ok {
		if cur, err := plotter.NewScatter(plotter.XYs{{X: last.PosX, Y: last.PosY}}); err == nil {
			cur.GlyphStyle = draw.GlyphStyle{Color: colorCurrent, Radius: vg.Points(4), Shape: draw.CircleGlyph{}}
			pl.Add(cur)
		}
	}

	if tgt, err := plotter.NewScatter(plotter.XYs{{X: p.target.X, Y: p.target.Y}}); err == nil {
		tgt.GlyphStyle = draw.GlyphStyle{Color: colorTarget, Radius: vg.Points(5), Shape: draw.CrossGlyph{}}
		pl.Add(tgt)
		pl.Legend.Add("target", tgt)
	}

	renderInto(pl, p.img)
	return p.img
}
