// Package report derives flight statistics and offline charts from a
// telemetry series: a numeric summary, an interactive HTML report and
// optional static PNG plots.
package report

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/flight-viewer/flightsync/internal/flightlog"
)

// Summary condenses a recorded flight into headline figures.
type Summary struct {
	Duration   float64 // seconds covered by the recording
	Samples    int
	SampleRate float64 // mean samples per second

	MeanError float64 // mean positional error magnitude, meters
	MaxError  float64 // worst positional error magnitude, meters

	MeanLoopPeriod float64 // seconds
	MaxMarkers     float64

	TrackingRatio float64 // fraction of samples with valid tracking
	ControlRatio  float64 // fraction of samples with the controller active
}

// Summarize computes flight statistics over every recorded sample.
func Summarize(series *flightlog.Series) Summary {
	n := series.Len()

	errs := make([]float64, n)
	periods := make([]float64, n)
	markers := make([]float64, n)
	tracking, control := 0, 0
	for i := 0; i < n; i++ {
		s := series.At(i)
		errs[i] = math.Hypot(s.ErrX, s.ErrY)
		periods[i] = s.LoopPeriod
		markers[i] = s.MarkerCount
		if s.TrackingValid {
			tracking++
		}
		if s.ControlActive {
			control++
		}
	}

	_, duration := series.RangeBounds()

	sum := Summary{
		Duration:       duration,
		Samples:        n,
		MeanError:      stat.Mean(errs, nil),
		MaxError:       floats.Max(errs),
		MeanLoopPeriod: stat.Mean(periods, nil),
		MaxMarkers:     floats.Max(markers),
		TrackingRatio:  float64(tracking) / float64(n),
		ControlRatio:   float64(control) / float64(n),
	}
	if duration > 0 {
		sum.SampleRate = float64(n-1) / duration
	}

	return sum
}
