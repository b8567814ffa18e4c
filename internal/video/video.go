// Package video decodes and encodes flight footage by driving ffmpeg and
// ffprobe as child processes over raw-video pipes.
package video

import (
	"errors"
	"fmt"
	"os/exec"
	"sync"
)

const (
	runtimeFFmpeg  = "ffmpeg"
	runtimeFFprobe = "ffprobe"
)

var (
	// ErrDecodeFailed indicates the source video could not be opened or a
	// frame could not be decoded.
	ErrDecodeFailed = errors.New("video decode failed")

	// ErrEncodeFailed indicates the output sink rejected a frame or could
	// not be finalized.
	ErrEncodeFailed = errors.New("video encode failed")
)

// FindRuntime locates an external media binary on PATH.
func FindRuntime(runtime string) (string, error) {
	binPath, err := exec.LookPath(runtime)
	if err != nil {
		return "", fmt.Errorf("failed to find binary %q: %w", runtime, err)
	}

	return binPath, nil
}

// stderrBuffer keeps the head of a child's stderr for error reporting.
// exec copies stderr from a separate goroutine, hence the lock.
type stderrBuffer struct {
	mu  sync.Mutex
	buf []byte
	max int
}

func newStderrBuffer(max int) *stderrBuffer {
	return &stderrBuffer{max: max}
}

func (b *stderrBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if room := b.max - len(b.buf); room > 0 {
		if room > len(p) {
			room = len(p)
		}
		b.buf = append(b.buf, p[:room]...)
	}

	return len(p), nil
}

func (b *stderrBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}
