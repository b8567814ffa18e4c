package video

import (
	"bufio"
	"bytes"
	"errors"
	"image"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseRate(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"30/1", 30, false},
		{"30000/1001", 30000.0 / 1001.0, false},
		{"25", 25, false},
		{"0/0", 0, true},
		{"30/0", 0, true},
		{"-30/1", 0, true},
		{"", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseRate(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseRate(%q) error = %v, wantErr %t", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseRate(%q) = %g, want %g", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseProbe(t *testing.T) {
	out := []byte(`{
		"streams": [
			{"codec_type": "audio", "r_frame_rate": "0/0"},
			{"codec_type": "video", "width": 1280, "height": 720,
			 "r_frame_rate": "30000/1001", "nb_frames": "902"}
		],
		"format": {"duration": "30.080000"}
	}`)

	got, err := parseProbe(out, "flight.mp4")
	if err != nil {
		t.Fatalf("parseProbe() error = %v", err)
	}

	want := Metadata{
		Width:      1280,
		Height:     720,
		FPS:        30000.0 / 1001.0,
		FrameCount: 902,
		Duration:   30.08,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseProbe() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseProbeErrors(t *testing.T) {
	tests := []struct {
		name string
		out  string
	}{
		{"no video stream", `{"streams": [{"codec_type": "audio"}]}`},
		{"zero resolution", `{"streams": [{"codec_type": "video", "width": 0, "height": 0, "r_frame_rate": "30/1"}]}`},
		{"bad frame rate", `{"streams": [{"codec_type": "video", "width": 64, "height": 64, "r_frame_rate": "x"}]}`},
		{"not json", `ffprobe: command not found`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseProbe([]byte(tt.out), "flight.mp4"); !errors.Is(err, ErrDecodeFailed) {
				t.Errorf("parseProbe() error = %v, want ErrDecodeFailed", err)
			}
		})
	}
}

func TestDecodeArgs(t *testing.T) {
	want := []string{"-v", "error", "-i", "in.mp4", "-f", "rawvideo", "-pix_fmt", "rgba", "-"}
	if diff := cmp.Diff(want, decodeArgs("in.mp4")); diff != "" {
		t.Errorf("decodeArgs() mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeArgs(t *testing.T) {
	cfg := EncoderConfig{Width: 1920, Height: 1080, Title: "Flight Data Visualization"}
	cfg.setDefaults()

	want := []string{
		"-v", "error", "-y",
		"-f", "rawvideo", "-pix_fmt", "rgba",
		"-s", "1920x1080", "-r", "30", "-i", "-",
		"-c:v", "libx264", "-b:v", "8000k", "-pix_fmt", "yuv420p", "-an",
		"-metadata", "title=Flight Data Visualization",
		"out.mp4",
	}
	if diff := cmp.Diff(want, encodeArgs("out.mp4", cfg)); diff != "" {
		t.Errorf("encodeArgs() mismatch (-want +got):\n%s", diff)
	}
}

func testDecoder(data []byte, w, h int) *Decoder {
	return &Decoder{
		reader: bufio.NewReader(bytes.NewReader(data)),
		stderr: newStderrBuffer(64),
		width:  w,
		height: h,
	}
}

func TestDecoderFraming(t *testing.T) {
	// Two 2x2 RGBA frames back to back.
	data := make([]byte, 32)
	for i := range data {
		data[i] = byte(i)
	}

	d := testDecoder(data, 2, 2)

	first, err := d.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() #1 error = %v", err)
	}
	if !bytes.Equal(first.Pix, data[:16]) {
		t.Errorf("frame 1 pix = %v, want %v", first.Pix, data[:16])
	}
	if got := first.Bounds(); got.Dx() != 2 || got.Dy() != 2 {
		t.Errorf("frame bounds = %v, want 2x2", got)
	}

	second, err := d.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() #2 error = %v", err)
	}
	if !bytes.Equal(second.Pix, data[16:]) {
		t.Errorf("frame 2 pix = %v, want %v", second.Pix, data[16:])
	}
	if bytes.Equal(first.Pix, second.Pix) {
		t.Error("frames share pixel storage; each read must allocate")
	}

	if _, err := d.ReadFrame(); !errors.Is(err, io.EOF) {
		t.Errorf("ReadFrame() past end error = %v, want io.EOF", err)
	}
	if d.Frames() != 2 {
		t.Errorf("Frames() = %d, want 2", d.Frames())
	}
}

func TestDecoderTruncatedFrame(t *testing.T) {
	d := testDecoder(make([]byte, 10), 2, 2) // 10 of 16 bytes

	if _, err := d.ReadFrame(); !errors.Is(err, ErrDecodeFailed) {
		t.Errorf("ReadFrame() error = %v, want ErrDecodeFailed", err)
	}
}

func TestDecoderEmptySourceIsFailure(t *testing.T) {
	d := testDecoder(nil, 2, 2)

	if _, err := d.ReadFrame(); !errors.Is(err, ErrDecodeFailed) {
		t.Errorf("ReadFrame() on empty stream error = %v, want ErrDecodeFailed", err)
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func TestEncoderWriteFrame(t *testing.T) {
	var sink bytes.Buffer
	e := &Encoder{
		stdin:  nopWriteCloser{&sink},
		stderr: newStderrBuffer(64),
		width:  4,
		height: 2,
	}

	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for i := range img.Pix {
		img.Pix[i] = byte(i)
	}

	if err := e.WriteFrame(img); err != nil {
		t.Fatalf("WriteFrame() error = %v", err)
	}
	if !bytes.Equal(sink.Bytes(), img.Pix) {
		t.Error("WriteFrame() did not pass pixels through unchanged")
	}
	if e.Frames() != 1 {
		t.Errorf("Frames() = %d, want 1", e.Frames())
	}

	wrong := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if err := e.WriteFrame(wrong); !errors.Is(err, ErrEncodeFailed) {
		t.Errorf("WriteFrame() with wrong size error = %v, want ErrEncodeFailed", err)
	}
}

func TestStderrBufferBounds(t *testing.T) {
	b := newStderrBuffer(8)
	for i := 0; i < 10; i++ {
		if _, err := b.Write([]byte("0123456789")); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	if got := b.String(); got != "01234567" {
		t.Errorf("String() = %q, want first 8 bytes", got)
	}
}
