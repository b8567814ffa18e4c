// Package sequence drives the frame-by-frame synchronization loop: one
// telemetry snapshot and one video frame per output tick, composed and
// handed to the encoder in strict order.
package sequence

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"math"
	"time"

	"github.com/flight-viewer/flightsync/internal/flightlog"
)

const progressEvery = 30 // frames between progress reports

// TotalFrames returns the number of output frames covering a recording
// whose last sample is at lastElapsed seconds.
func TotalFrames(lastElapsed, fps float64) int {
	return int(math.Floor(lastElapsed*fps)) + 1
}

// Snapshotter answers point-in-time telemetry queries.
type Snapshotter interface {
	At(t float64) flightlog.Sample
}

// FrameSource yields the video frame covering an output time.
type FrameSource interface {
	FrameAt(t float64) (*image.RGBA, error)
}

// Composer merges one video frame and one snapshot into an output frame.
type Composer interface {
	Compose(videoFrame *image.RGBA, snap flightlog.Sample, now float64) (*image.RGBA, error)
}

// Sink consumes composed frames in presentation order.
type Sink interface {
	WriteFrame(img *image.RGBA) error
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithLogger sets the progress logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sequencer) {
		s.logger = logger
	}
}

// Sequencer owns the output clock. Window state inside the composer
// mutates in frame order, so the loop is strictly sequential: a frame is
// fully composed and submitted before the next tick begins.
type Sequencer struct {
	snapshots Snapshotter
	frames    FrameSource
	composer  Composer
	sink      Sink

	fps    float64
	total  int
	logger *slog.Logger
}

// New creates a Sequencer producing TotalFrames(lastElapsed, fps) frames.
func New(snapshots Snapshotter, frames FrameSource, composer Composer, sink Sink, lastElapsed, fps float64, opts ...Option) *Sequencer {
	s := &Sequencer{
		snapshots: snapshots,
		frames:    frames,
		composer:  composer,
		sink:      sink,
		fps:       fps,
		total:     TotalFrames(lastElapsed, fps),
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Total returns the number of output frames the run will produce.
func (s *Sequencer) Total() int { return s.total }

// Run executes the loop and returns the number of frames submitted to the
// sink. Cancellation is honored between frame boundaries; frames already
// submitted remain valid partial output.
func (s *Sequencer) Run(ctx context.Context) (int, error) {
	start := time.Now()

	for i := 0; i < s.total; i++ {
		if err := ctx.Err(); err != nil {
			return i, err
		}

		t := float64(i) / s.fps
		snap := s.snapshots.At(t)

		frame, err := s.frames.FrameAt(t)
		if err != nil {
			return i, fmt.Errorf("frame %d: %w", i, err)
		}

		out, err := s.composer.Compose(frame, snap, t)
		if err != nil {
			return i, fmt.Errorf("composing frame %d: %w", i, err)
		}

		if err := s.sink.WriteFrame(out); err != nil {
			return i, fmt.Errorf("encoding frame %d: %w", i, err)
		}

		if done := i + 1; done%progressEvery == 0 || done == s.total {
			s.logger.Info("rendering",
				slog.Int("frame", done),
				slog.Int("total", s.total),
				slog.String("progress", fmt.Sprintf("%.1f%%", 100*float64(done)/float64(s.total))),
				slog.Duration("elapsed", time.Since(start).Round(time.Millisecond)))
		}
	}

	return s.total, nil
}
