package panel

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Dark palette shared by every panel.
var (
	colorCanvas = color.RGBA{R: 0x1e, G: 0x1e, B: 0x1e, A: 0xff}
	colorPanel  = color.RGBA{R: 0x2e, G: 0x2e, B: 0x2e, A: 0xff}
	colorText   = color.RGBA{R: 0xc8, G: 0xc8, B: 0xc8, A: 0xff}
	colorGrid   = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x30}
	colorZero   = color.NRGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xc0}

	colorTrail   = color.RGBA{R: 0x34, G: 0x98, B: 0xdb, A: 0xff} // flight path, pitch
	colorCurrent = color.RGBA{R: 0xe7, G: 0x4c, B: 0x3c, A: 0xff} // current position, roll
	colorTarget  = color.RGBA{R: 0xf1, G: 0xc4, B: 0x0f, A: 0xff}
	colorMarker  = color.RGBA{R: 0x2e, G: 0xcc, B: 0x71, A: 0xff}

	colorP = color.RGBA{R: 0xff, G: 0x6b, B: 0x6b, A: 0xff}
	colorI = color.RGBA{R: 0x4e, G: 0xcd, B: 0xc4, A: 0xff}
	colorD = color.RGBA{R: 0x95, G: 0xe7, B: 0x7e, A: 0xff}
)

// CanvasBackground is the fill color behind and between panels.
func CanvasBackground() color.Color { return colorCanvas }

// newPlot builds an empty plot styled for the dark composite canvas.
func newPlot(title string) *plot.Plot {
	p := plot.New()
	p.BackgroundColor = colorPanel

	p.Title.Text = title
	p.Title.TextStyle.Color = colorText
	p.Title.TextStyle.Font.Size = vg.Points(11)

	for _, ax := range []*plot.Axis{&p.X, &p.Y} {
		ax.LineStyle.Color = colorText
		ax.Label.TextStyle.Color = colorText
		ax.Label.TextStyle.Font.Size = vg.Points(9)
		ax.Tick.LineStyle.Color = colorText
		ax.Tick.Label.Color = colorText
		ax.Tick.Label.Font.Size = vg.Points(8)
	}

	p.Legend.TextStyle.Color = colorText
	p.Legend.TextStyle.Font.Size = vg.Points(8)
	p.Legend.Top = true
	p.Legend.Left = true

	grid := plotter.NewGrid()
	grid.Vertical.Color = colorGrid
	grid.Horizontal.Color = colorGrid
	p.Add(grid)

	return p
}

// zeroLine marks y = 0 across the visible time window.
func zeroLine(xMin, xMax float64) *plotter.Line {
	line, _ := plotter.NewLine(plotter.XYs{{X: xMin, Y: 0}, {X: xMax, Y: 0}})
	line.LineStyle.Color = colorZero
	line.LineStyle.Width = vg.Points(1)
	line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	return line
}

// fade returns c with its opacity scaled onto the panel background.
func fade(c color.RGBA, alpha uint8) color.Color {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: alpha}
}
