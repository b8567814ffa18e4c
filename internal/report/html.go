package report

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/flight-viewer/flightsync/internal/flightlog"
)

// maxChartPoints caps the number of samples embedded per chart; a 100 Hz
// log of a long flight would otherwise bloat the page into the tens of
// megabytes.
const maxChartPoints = 2000

// WriteHTML renders an interactive flight report to w.
func WriteHTML(w io.Writer, series *flightlog.Series, summary Summary, title string) error {
	idx := strideIndices(series.Len())

	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(
		positionChart(series, idx, summary),
		anglesChart(series, idx),
		pidChart(series, idx, "PID X", func(s flightlog.Sample) flightlog.PID { return s.PIDX }),
		pidChart(series, idx, "PID Y", func(s flightlog.Sample) flightlog.PID { return s.PIDY }),
		markersChart(series, idx),
		errorChart(series, idx),
	)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("rendering flight report: %w", err)
	}
	return nil
}

// strideIndices downsamples [0, n) to at most maxChartPoints indices,
// always keeping the final sample.
func strideIndices(n int) []int {
	stride := 1
	if n > maxChartPoints {
		stride = int(math.Ceil(float64(n) / float64(maxChartPoints)))
	}

	idx := make([]int, 0, n/stride+1)
	for i := 0; i < n; i += stride {
		idx = append(idx, i)
	}
	if last := n - 1; idx[len(idx)-1] != last {
		idx = append(idx, last)
	}
	return idx
}

func chartOptions(title, subtitle, xName, yName string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeChalk, Width: "1200px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: xName}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	}
}

func timeAxis(series *flightlog.Series, idx []int) []string {
	axis := make([]string, len(idx))
	for k, i := range idx {
		axis[k] = fmt.Sprintf("%.2f", series.At(i).Elapsed)
	}
	return axis
}

func lineData(series *flightlog.Series, idx []int, value func(flightlog.Sample) float64) []opts.LineData {
	data := make([]opts.LineData, len(idx))
	for k, i := range idx {
		data[k] = opts.LineData{Value: value(series.At(i))}
	}
	return data
}

func positionChart(series *flightlog.Series, idx []int, summary Summary) components.Charter {
	data := make([]opts.ScatterData, len(idx))
	for k, i := range idx {
		s := series.At(i)
		data[k] = opts.ScatterData{Value: []interface{}{s.PosX, s.PosY}}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(chartOptions(
		"Flight Path",
		fmt.Sprintf("%d samples over %.1f s", summary.Samples, summary.Duration),
		"x (m)", "y (m)")...)
	scatter.AddSeries("position", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))
	return scatter
}

func anglesChart(series *flightlog.Series, idx []int) components.Charter {
	const degPerRad = 180 / math.Pi

	line := charts.NewLine()
	line.SetGlobalOptions(chartOptions("Angles", "commanded vs feedback", "t (s)", "deg")...)
	line.SetXAxis(timeAxis(series, idx)).
		AddSeries("roll cmd", lineData(series, idx, func(s flightlog.Sample) float64 { return s.RollRef })).
		AddSeries("pitch cmd", lineData(series, idx, func(s flightlog.Sample) float64 { return s.PitchRef })).
		AddSeries("roll fb", lineData(series, idx, func(s flightlog.Sample) float64 { return s.RollFb * degPerRad })).
		AddSeries("pitch fb", lineData(series, idx, func(s flightlog.Sample) float64 { return s.PitchFb * degPerRad }))
	return line
}

func pidChart(series *flightlog.Series, idx []int, title string, terms func(flightlog.Sample) flightlog.PID) components.Charter {
	line := charts.NewLine()
	line.SetGlobalOptions(chartOptions(title, "controller decomposition", "t (s)", "")...)
	line.SetXAxis(timeAxis(series, idx)).
		AddSeries("P", lineData(series, idx, func(s flightlog.Sample) float64 { return terms(s).P })).
		AddSeries("I", lineData(series, idx, func(s flightlog.Sample) float64 { return terms(s).I })).
		AddSeries("D", lineData(series, idx, func(s flightlog.Sample) float64 { return terms(s).D }))
	return line
}

func markersChart(series *flightlog.Series, idx []int) components.Charter {
	line := charts.NewLine()
	line.SetGlobalOptions(chartOptions("Tracked Markers", "", "t (s)", "count")...)
	line.SetXAxis(timeAxis(series, idx)).
		AddSeries("markers", lineData(series, idx, func(s flightlog.Sample) float64 { return s.MarkerCount }),
			charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: opts.Float(0.3)}))
	return line
}

func errorChart(series *flightlog.Series, idx []int) components.Charter {
	line := charts.NewLine()
	line.SetGlobalOptions(chartOptions("Position Error", "error vector magnitude", "t (s)", "m")...)
	line.SetXAxis(timeAxis(series, idx)).
		AddSeries("error", lineData(series, idx, func(s flightlog.Sample) float64 { return math.Hypot(s.ErrX, s.ErrY) }))
	return line
}
