package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/flight-viewer/flightsync/internal/flightlog"
)

const (
	plotWidth  = 8 * vg.Inch
	plotHeight = 5 * vg.Inch
)

// SavePlots writes static PNG charts of the recorded flight into dir,
// creating it if needed. Returns the files written.
func SavePlots(series *flightlog.Series, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating plot directory: %w", err)
	}

	idx := strideIndices(series.Len())

	plots := []struct {
		name  string
		build func() (*plot.Plot, error)
	}{
		{"position.png", func() (*plot.Plot, error) { return positionPlot(series, idx) }},
		{"angles.png", func() (*plot.Plot, error) { return anglesPlot(series, idx) }},
		{"pid_x.png", func() (*plot.Plot, error) {
			return pidPlot(series, idx, "PID X", func(s flightlog.Sample) flightlog.PID { return s.PIDX })
		}},
		{"pid_y.png", func() (*plot.Plot, error) {
			return pidPlot(series, idx, "PID Y", func(s flightlog.Sample) flightlog.PID { return s.PIDY })
		}},
		{"markers.png", func() (*plot.Plot, error) { return markersPlot(series, idx) }},
	}

	var written []string
	for _, pl := range plots {
		p, err := pl.build()
		if err != nil {
			return written, fmt.Errorf("building %s: %w", pl.name, err)
		}

		path := filepath.Join(dir, pl.name)
		if err := p.Save(plotWidth, plotHeight, path); err != nil {
			return written, fmt.Errorf("saving %s: %w", pl.name, err)
		}
		written = append(written, path)
	}

	return written, nil
}

func timeSeries(series *flightlog.Series, idx []int, value func(flightlog.Sample) float64) plotter.XYs {
	xys := make(plotter.XYs, len(idx))
	for k, i := range idx {
		s := series.At(i)
		xys[k] = plotter.XY{X: s.Elapsed, Y: value(s)}
	}
	return xys
}

func addLine(p *plot.Plot, name string, xys plotter.XYs) error {
	line, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}
	p.Add(line)
	p.Legend.Add(name, line)
	return nil
}

func positionPlot(series *flightlog.Series, idx []int) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Flight Path"
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"

	xys := make(plotter.XYs, len(idx))
	for k, i := range idx {
		s := series.At(i)
		xys[k] = plotter.XY{X: s.PosX, Y: s.PosY}
	}

	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, err
	}
	p.Add(line)
	return p, nil
}

func anglesPlot(series *flightlog.Series, idx []int) (*plot.Plot, error) {
	const degPerRad = 180 / math.Pi

	p := plot.New()
	p.Title.Text = "Angles"
	p.X.Label.Text = "t (s)"
	p.Y.Label.Text = "deg"

	lines := []struct {
		name  string
		value func(flightlog.Sample) float64
	}{
		{"roll cmd", func(s flightlog.Sample) float64 { return s.RollRef }},
		{"pitch cmd", func(s flightlog.Sample) float64 { return s.PitchRef }},
		{"roll fb", func(s flightlog.Sample) float64 { return s.RollFb * degPerRad }},
		{"pitch fb", func(s flightlog.Sample) float64 { return s.PitchFb * degPerRad }},
	}
	for _, l := range lines {
		if err := addLine(p, l.name, timeSeries(series, idx, l.value)); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func pidPlot(series *flightlog.Series, idx []int, title string, terms func(flightlog.Sample) flightlog.PID) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "t (s)"

	lines := []struct {
		name  string
		value func(flightlog.Sample) float64
	}{
		{"P", func(s flightlog.Sample) float64 { return terms(s).P }},
		{"I", func(s flightlog.Sample) float64 { return terms(s).I }},
		{"D", func(s flightlog.Sample) float64 { return terms(s).D }},
	}
	for _, l := range lines {
		if err := addLine(p, l.name, timeSeries(series, idx, l.value)); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func markersPlot(series *flightlog.Series, idx []int) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Tracked Markers"
	p.X.Label.Text = "t (s)"
	p.Y.Label.Text = "count"
	p.Y.Min = 0

	if err := addLine(p, "markers", timeSeries(series, idx, func(s flightlog.Sample) float64 { return s.MarkerCount })); err != nil {
		return nil, err
	}
	return p, nil
}
