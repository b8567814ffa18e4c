package video

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os/exec"
)

// Decoder streams a video file as raw RGBA frames from an ffmpeg child
// process. Frames arrive at the source's native rate and resolution; each
// call allocates a fresh frame so held frames remain valid after the next
// read.
type Decoder struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	reader *bufio.Reader
	stderr *stderrBuffer

	width  int
	height int
	frames int // successfully decoded so far
}

// NewDecoder starts decoding path at the given source resolution, which
// callers obtain from Probe.
func NewDecoder(ctx context.Context, path string, width, height int) (*Decoder, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid source resolution %dx%d", ErrDecodeFailed, width, height)
	}

	binPath, err := FindRuntime(runtimeFFmpeg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	stderr := newStderrBuffer(4 << 10)
	cmd := exec.CommandContext(ctx, binPath, decodeArgs(path)...)
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: starting %s: %v", ErrDecodeFailed, runtimeFFmpeg, err)
	}

	return &Decoder{
		cmd:    cmd,
		stdout: stdout,
		reader: bufio.NewReaderSize(stdout, 1<<20),
		stderr: stderr,
		width:  width,
		height: height,
	}, nil
}

func decodeArgs(path string) []string {
	return []string{
		"-v", "error",
		"-i", path,
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-",
	}
}

// ReadFrame returns the next decoded frame, or io.EOF once the source is
// exhausted. A source that never produces a single frame reports a decode
// failure instead of EOF.
func (d *Decoder) ReadFrame() (*image.RGBA, error) {
	pix := make([]byte, d.width*d.height*4)
	_, err := io.ReadFull(d.reader, pix)
	switch {
	case errors.Is(err, io.EOF):
		if d.frames == 0 {
			return nil, d.failure("no frames decoded")
		}
		return nil, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		return nil, d.failure("truncated frame")
	case err != nil:
		return nil, d.failure(err.Error())
	}

	d.frames++
	return &image.RGBA{
		Pix:    pix,
		Stride: d.width * 4,
		Rect:   image.Rect(0, 0, d.width, d.height),
	}, nil
}

// Frames returns the number of frames decoded so far.
func (d *Decoder) Frames() int { return d.frames }

// Close stops the child process and reaps it. Stopping before the source
// is exhausted is routine, so the child's exit status is not an error.
func (d *Decoder) Close() error {
	d.stdout.Close()

	var exitErr *exec.ExitError
	if err := d.cmd.Wait(); err != nil && !errors.As(err, &exitErr) {
		return fmt.Errorf("waiting for %s: %w", runtimeFFmpeg, err)
	}

	return nil
}

func (d *Decoder) failure(msg string) error {
	if tail := d.stderr.String(); tail != "" {
		return fmt.Errorf("%w: %s: %s", ErrDecodeFailed, msg, tail)
	}
	return fmt.Errorf("%w: %s", ErrDecodeFailed, msg)
}
