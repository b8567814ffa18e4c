package panel

import "math"

// fitRange widens [lo, hi] by a margin fraction and enforces a minimum
// half-span, keeping the scale usable while the vehicle hovers in place.
func fitRange(lo, hi, margin, minHalfSpan float64) (float64, float64) {
	if lo > hi {
		lo, hi = hi, lo
	}

	mid := (lo + hi) / 2
	half := (hi - lo) / 2 * (1 + margin)
	if half < minHalfSpan {
		half = minHalfSpan
	}

	return mid - half, mid + half
}

// headroom returns a tidy y ceiling one count step above the observed
// peak, never below a single marker.
func headroom(peak float64) float64 {
	if peak < 1 {
		peak = 1
	}
	return math.Ceil(peak * 1.1)
}
