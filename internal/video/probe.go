package video

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Metadata describes the decodable properties of a source video.
type Metadata struct {
	Width      int
	Height     int
	FPS        float64 // native frame rate
	FrameCount int     // 0 when the container does not report it
	Duration   float64 // seconds, 0 when unreported
}

type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

type probeStream struct {
	CodecType  string `json:"codec_type"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	RFrameRate string `json:"r_frame_rate"`
	NbFrames   string `json:"nb_frames"`
}

type probeFormat struct {
	Duration string `json:"duration"`
}

// Probe inspects a video file with ffprobe and returns its metadata.
func Probe(ctx context.Context, path string) (Metadata, error) {
	binPath, err := FindRuntime(runtimeFFprobe)
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	cmd := exec.CommandContext(ctx, binPath, probeArgs(path)...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return Metadata{}, fmt.Errorf("%w: probing %s: %s", ErrDecodeFailed, path, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return Metadata{}, fmt.Errorf("%w: probing %s: %v", ErrDecodeFailed, path, err)
	}

	return parseProbe(out, path)
}

func probeArgs(path string) []string {
	return []string{
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}
}

func parseProbe(out []byte, path string) (Metadata, error) {
	var probed probeOutput
	if err := json.Unmarshal(out, &probed); err != nil {
		return Metadata{}, fmt.Errorf("%w: parsing probe output: %v", ErrDecodeFailed, err)
	}

	for _, s := range probed.Streams {
		if s.CodecType != "video" {
			continue
		}
		if s.Width <= 0 || s.Height <= 0 {
			return Metadata{}, fmt.Errorf("%w: %s: video stream reports %dx%d", ErrDecodeFailed, path, s.Width, s.Height)
		}

		fps, err := parseRate(s.RFrameRate)
		if err != nil {
			return Metadata{}, fmt.Errorf("%w: %s: %v", ErrDecodeFailed, path, err)
		}

		m := Metadata{Width: s.Width, Height: s.Height, FPS: fps}
		m.FrameCount, _ = strconv.Atoi(s.NbFrames)
		if probed.Format.Duration != "" {
			m.Duration, _ = strconv.ParseFloat(probed.Format.Duration, 64)
		}

		return m, nil
	}

	return Metadata{}, fmt.Errorf("%w: %s has no video stream", ErrDecodeFailed, path)
}

// parseRate converts an ffprobe rational like "30000/1001" to frames per
// second.
func parseRate(rate string) (float64, error) {
	num, den, ok := strings.Cut(rate, "/")
	if !ok {
		v, err := strconv.ParseFloat(rate, 64)
		if err != nil || v <= 0 {
			return 0, fmt.Errorf("invalid frame rate %q", rate)
		}
		return v, nil
	}

	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid frame rate %q", rate)
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 || n <= 0 {
		return 0, fmt.Errorf("invalid frame rate %q", rate)
	}

	return n / d, nil
}
