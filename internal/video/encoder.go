package video

import (
	"context"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strconv"
)

// EncoderConfig controls the output stream. Zero values fall back to the
// standard 30 fps, 8000k H.264 profile the tool produces.
type EncoderConfig struct {
	Width   int
	Height  int
	FPS     float64
	Bitrate string
	Title   string // optional container metadata
}

func (c *EncoderConfig) setDefaults() {
	if c.FPS <= 0 {
		c.FPS = 30
	}
	if c.Bitrate == "" {
		c.Bitrate = "8000k"
	}
}

// Encoder feeds raw RGBA frames to an ffmpeg child encoding H.264 with
// 4:2:0 chroma and no audio track. Frames must arrive in presentation
// order; the encoder assigns timestamps from arrival order alone.
type Encoder struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr *stderrBuffer

	width  int
	height int
	frames int
}

// NewEncoder starts an encode to path. The file is overwritten if present.
func NewEncoder(ctx context.Context, path string, cfg EncoderConfig) (*Encoder, error) {
	cfg.setDefaults()
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: invalid output resolution %dx%d", ErrEncodeFailed, cfg.Width, cfg.Height)
	}

	binPath, err := FindRuntime(runtimeFFmpeg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeFailed, err)
	}

	stderr := newStderrBuffer(4 << 10)
	cmd := exec.CommandContext(ctx, binPath, encodeArgs(path, cfg)...)
	cmd.Stderr = stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeFailed, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: starting %s: %v", ErrEncodeFailed, runtimeFFmpeg, err)
	}

	return &Encoder{
		cmd:    cmd,
		stdin:  stdin,
		stderr: stderr,
		width:  cfg.Width,
		height: cfg.Height,
	}, nil
}

func encodeArgs(path string, cfg EncoderConfig) []string {
	args := []string{
		"-v", "error",
		"-y",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"-r", strconv.FormatFloat(cfg.FPS, 'g', -1, 64),
		"-i", "-",
		"-c:v", "libx264",
		"-b:v", cfg.Bitrate,
		"-pix_fmt", "yuv420p",
		"-an",
	}
	if cfg.Title != "" {
		args = append(args, "-metadata", "title="+cfg.Title)
	}

	return append(args, path)
}

// WriteFrame submits the next frame. The image must match the configured
// resolution exactly and use a packed stride.
func (e *Encoder) WriteFrame(img *image.RGBA) error {
	b := img.Bounds()
	if b.Dx() != e.width || b.Dy() != e.height {
		return fmt.Errorf("%w: frame is %dx%d, output is %dx%d", ErrEncodeFailed, b.Dx(), b.Dy(), e.width, e.height)
	}
	if img.Stride != e.width*4 {
		return fmt.Errorf("%w: frame stride %d, want %d", ErrEncodeFailed, img.Stride, e.width*4)
	}

	if _, err := e.stdin.Write(img.Pix); err != nil {
		return e.failure(err.Error())
	}

	e.frames++
	return nil
}

// Frames returns the number of frames submitted so far.
func (e *Encoder) Frames() int { return e.frames }

// Close finalizes the stream and waits for the encoder to exit. A failed
// finalization leaves partial output on disk with no validity guarantee.
func (e *Encoder) Close() error {
	if err := e.stdin.Close(); err != nil {
		return e.failure(err.Error())
	}
	if err := e.cmd.Wait(); err != nil {
		return e.failure(fmt.Sprintf("finalizing output: %v", err))
	}

	return nil
}

func (e *Encoder) failure(msg string) error {
	if tail := e.stderr.String(); tail != "" {
		return fmt.Errorf("%w: %s: %s", ErrEncodeFailed, msg, tail)
	}
	return fmt.Errorf("%w: %s", ErrEncodeFailed, msg)
}
