package panel

import (
	"github.com/flight-viewer/flightsync/internal/flightlog"
)

// Window is a fixed-capacity FIFO of recent snapshots. Appending beyond
// capacity evicts the oldest entry, so memory stays constant regardless of
// output duration.
type Window struct {
	buf  []flightlog.Sample
	head int // index of the oldest entry
	size int
}

// NewWindow creates a window holding at most capacity snapshots.
func NewWindow(capacity int) *Window {
	if capacity < 1 {
		capacity = 1
	}
	return &Window{buf: make([]flightlog.Sample, capacity)}
}

// Push appends a snapshot, evicting the oldest once the window is full.
func (w *Window) Push(s flightlog.Sample) {
	if w.size < len(w.buf) {
		w.buf[(w.head+w.size)%len(w.buf)] = s
		w.size++
		return
	}
	w.buf[w.head] = s
	w.head = (w.head + 1) % len(w.buf)
}

// Len returns the number of snapshots currently held.
func (w *Window) Len() int { return w.size }

// Cap returns the window capacity.
func (w *Window) Cap() int { return len(w.buf) }

// At returns the i-th snapshot in arrival order, 0 being the oldest.
func (w *Window) At(i int) flightlog.Sample {
	return w.buf[(w.head+i)%len(w.buf)]
}

// Last returns the most recent snapshot, if any.
func (w *Window) Last() (flightlog.Sample, bool) {
	if w.size == 0 {
		return flightlog.Sample{}, false
	}
	return w.At(w.size - 1), true
}
