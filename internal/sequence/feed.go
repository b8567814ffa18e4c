package sequence

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"

	"github.com/flight-viewer/flightsync/internal/video"
)

// FrameReader is the decode side of the feed, satisfied by video.Decoder.
type FrameReader interface {
	ReadFrame() (*image.RGBA, error)
}

// Feed adapts a source-rate frame stream to the output clock. Video frames
// are never interpolated: the source frame whose index is floor(t *
// sourceFPS) covers output time t, so a slower source holds frames and a
// faster one drops them. Once the source ends, or fails mid-run, the last
// good frame is held for the rest of the run.
type Feed struct {
	reader    FrameReader
	sourceFPS float64
	logger    *slog.Logger

	held      *image.RGBA
	decoded   int
	exhausted bool
}

// NewFeed wraps reader, whose native rate callers obtain from Probe.
func NewFeed(reader FrameReader, sourceFPS float64, logger *slog.Logger) *Feed {
	if logger == nil {
		logger = slog.Default()
	}
	return &Feed{reader: reader, sourceFPS: sourceFPS, logger: logger}
}

// FrameAt returns the source frame covering output time t, decoding as
// many new frames as the cadence requires. It fails only when the source
// never produced a single frame; later decode errors degrade to holding.
func (f *Feed) FrameAt(t float64) (*image.RGBA, error) {
	// Tick times come from frame_index / output_fps, so the product can
	// land one ulp under a frame boundary; the epsilon keeps the floor
	// from dropping a frame there.
	want := int(t*f.sourceFPS+1e-9) + 1

	for !f.exhausted && f.decoded < want {
		img, err := f.reader.ReadFrame()
		if err != nil {
			f.exhausted = true
			switch {
			case errors.Is(err, io.EOF):
				f.logger.Debug("video source exhausted, holding last frame",
					slog.Int("decoded", f.decoded))
			case f.decoded == 0:
				return nil, fmt.Errorf("%w: source produced no frames: %v", video.ErrDecodeFailed, err)
			default:
				f.logger.Warn("video decode failed mid-run, holding last frame",
					slog.Int("decoded", f.decoded),
					slog.String("error", err.Error()))
			}
			break
		}

		f.held = img
		f.decoded++
	}

	if f.held == nil {
		return nil, fmt.Errorf("%w: source produced no frames", video.ErrDecodeFailed)
	}

	return f.held, nil
}

// Decoded returns the number of source frames consumed so far.
func (f *Feed) Decoded() int { return f.decoded }
