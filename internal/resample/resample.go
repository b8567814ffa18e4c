// Package resample synthesizes telemetry snapshots on the output frame
// schedule from a recorded series sampled at a different rate.
package resample

import (
	"github.com/flight-viewer/flightsync/internal/flightlog"
)

// Resampler answers point-in-time queries against a telemetry series by
// linear interpolation between the two bracketing samples.
type Resampler struct {
	series *flightlog.Series
}

// New creates a Resampler over series.
func New(series *flightlog.Series) *Resampler {
	return &Resampler{series}
}

// At returns the telemetry state at time t. Outside the recorded range the
// nearest endpoint sample is returned unchanged. Numeric fields interpolate
// linearly; marker count stays continuous rather than being rounded to
// whole markers. Boolean flags are never averaged: they take the nearer
// bracketing sample, and an exact tie takes the earlier one.
func (r *Resampler) At(t float64) flightlog.Sample {
	a, b := r.series.NearestPair(t)
	if a.Elapsed == b.Elapsed {
		return a
	}

	f := (t - a.Elapsed) / (b.Elapsed - a.Elapsed)
	s := flightlog.Sample{
		Elapsed:     lerp(a.Elapsed, b.Elapsed, f),
		PosX:        lerp(a.PosX, b.PosX, f),
		PosY:        lerp(a.PosY, b.PosY, f),
		RawX:        lerp(a.RawX, b.RawX, f),
		RawY:        lerp(a.RawY, b.RawY, f),
		ErrX:        lerp(a.ErrX, b.ErrX, f),
		ErrY:        lerp(a.ErrY, b.ErrY, f),
		RollRef:     lerp(a.RollRef, b.RollRef, f),
		PitchRef:    lerp(a.PitchRef, b.PitchRef, f),
		RollFb:      lerp(a.RollFb, b.RollFb, f),
		PitchFb:     lerp(a.PitchFb, b.PitchFb, f),
		PIDX:        lerpPID(a.PIDX, b.PIDX, f),
		PIDY:        lerpPID(a.PIDY, b.PIDY, f),
		MarkerCount: lerp(a.MarkerCount, b.MarkerCount, f),
		LoopPeriod:  lerp(a.LoopPeriod, b.LoopPeriod, f),
	}

	near := a
	if f > 0.5 {
		near = b
	}
	s.TrackingValid = near.TrackingValid
	s.ControlActive = near.ControlActive

	return s
}

func lerp(a, b, f float64) float64 {
	return a + f*(b-a)
}

func lerpPID(a, b flightlog.PID, f float64) flightlog.PID {
	return flightlog.PID{
		P: lerp(a.P, b.P, f),
		I: lerp(a.I, b.I, f),
		D: lerp(a.D, b.D, f),
	}
}
