// Package flightlog loads recorded flight telemetry and exposes it as an
// ordered, zero-based time series for resampling and rendering.
package flightlog

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrMalformedInput indicates the telemetry log is missing required
	// columns or contains rows that cannot be parsed.
	ErrMalformedInput = errors.New("malformed telemetry log")

	// ErrSeriesTooShort indicates fewer than two usable samples, which
	// leaves interpolation undefined.
	ErrSeriesTooShort = errors.New("telemetry series has fewer than two samples")
)

// PID holds one axis' controller output decomposition
type PID struct {
	P float64 // Proportional term
	I float64 // Integral term
	D float64 // Derivative term
}

// Sample is one recorded telemetry row
type Sample struct {
	Elapsed       float64 // Seconds since the start of the recording
	PosX          float64 // Filtered X position in meters
	PosY          float64 // Filtered Y position in meters
	RawX          float64 // Raw X position in meters
	RawY          float64 // Raw Y position in meters
	ErrX          float64 // X position error in meters
	ErrY          float64 // Y position error in meters
	RollRef       float64 // Commanded roll angle in degrees
	PitchRef      float64 // Commanded pitch angle in degrees
	RollFb        float64 // Feedback roll angle in radians
	PitchFb       float64 // Feedback pitch angle in radians
	PIDX          PID     // X axis controller decomposition
	PIDY          PID     // Y axis controller decomposition
	MarkerCount   float64 // Tracked marker count
	TrackingValid bool    // Marker tracking health
	ControlActive bool    // Whether the controller was commanding
	LoopPeriod    float64 // Control loop period in seconds
}

// Series is an ordered telemetry recording. The time axis is strictly
// increasing and starts at zero; samples are immutable after construction.
type Series struct {
	samples []Sample
}

// NewSeries builds a Series from samples in recorded order. Consecutive
// rows with an identical timestamp collapse to the later row, a decreasing
// timestamp is rejected, and the first sample defines the time origin.
func NewSeries(samples []Sample) (*Series, error) {
	kept := make([]Sample, 0, len(samples))
	for _, s := range samples {
		if n := len(kept); n > 0 {
			switch {
			case s.Elapsed == kept[n-1].Elapsed:
				kept[n-1] = s // last write wins
				continue
			case s.Elapsed < kept[n-1].Elapsed:
				return nil, fmt.Errorf("%w: timestamps decrease at t=%g", ErrMalformedInput, s.Elapsed)
			}
		}
		kept = append(kept, s)
	}

	if len(kept) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrSeriesTooShort, len(kept))
	}

	if origin := kept[0].Elapsed; origin != 0 {
		for i := range kept {
			kept[i].Elapsed -= origin
		}
	}

	return &Series{kept}, nil
}

// Len returns the number of samples.
func (s *Series) Len() int { return len(s.samples) }

// At returns the i-th sample.
func (s *Series) At(i int) Sample { return s.samples[i] }

// First returns the earliest sample.
func (s *Series) First() Sample { return s.samples[0] }

// Last returns the latest sample.
func (s *Series) Last() Sample { return s.samples[len(s.samples)-1] }

// RangeBounds returns the first and last timestamps of the series.
func (s *Series) RangeBounds() (tMin, tMax float64) {
	return s.First().Elapsed, s.Last().Elapsed
}

// NearestPair returns the two samples bracketing t. Queries at or beyond
// either end of the recording return that endpoint twice.
func (s *Series) NearestPair(t float64) (before, after Sample) {
	tMin, tMax := s.RangeBounds()
	switch {
	case t <= tMin:
		return s.First(), s.First()
	case t >= tMax:
		return s.Last(), s.Last()
	}

	i := sort.Search(len(s.samples), func(i int) bool {
		return s.samples[i].Elapsed > t
	})

	return s.samples[i-1], s.samples[i]
}
