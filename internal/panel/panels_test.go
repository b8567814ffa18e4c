package panel

import (
	"image"
	"math"
	"testing"

	"github.com/flight-viewer/flightsync/internal/flightlog"
)

func flightSample(i int) flightlog.Sample {
	t := float64(i) / 30
	return flightlog.Sample{
		Elapsed:       t,
		PosX:          0.5 * math.Sin(t),
		PosY:          0.5 * math.Cos(t),
		RollRef:       3 * math.Sin(2*t),
		PitchRef:      3 * math.Cos(2*t),
		RollFb:        0.05 * math.Sin(2*t),
		PitchFb:       0.05 * math.Cos(2*t),
		PIDX:          flightlog.PID{P: 0.05 * math.Sin(t), I: 0.02, D: -0.01},
		PIDY:          flightlog.PID{P: -0.05 * math.Sin(t), I: -0.02, D: 0.01},
		MarkerCount:   3 + math.Sin(t),
		TrackingValid: true,
		ControlActive: true,
		LoopPeriod:    0.01,
	}
}

// assertPainted checks the backing image was fully rasterized: opaque
// everywhere, and not a single flat color.
func assertPainted(t *testing.T, img *image.RGBA, wantW, wantH int) {
	t.Helper()

	b := img.Bounds()
	if b.Dx() != wantW || b.Dy() != wantH {
		t.Fatalf("bounds = %dx%d, want %dx%d", b.Dx(), b.Dy(), wantW, wantH)
	}

	first := img.RGBAAt(b.Min.X, b.Min.Y)
	varied := false
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			px := img.RGBAAt(x, y)
			if px.A != 0xff {
				t.Fatalf("pixel (%d,%d) not opaque: %+v", x, y, px)
			}
			if px != first {
				varied = true
			}
		}
	}
	if !varied {
		t.Fatal("image is a single flat color; nothing was drawn")
	}
}

func TestPanelsRender(t *testing.T) {
	const w, h = 240, 160

	panels := map[string]Panel{
		"position":  NewPositionPanel(w, h, Target{}),
		"commanded": NewCommandedAnglesPanel(w, h, 30),
		"feedback":  NewFeedbackAnglesPanel(w, h, 30),
		"pid_x":     NewPIDXPanel(w, h, 30),
		"pid_y":     NewPIDYPanel(w, h, 30),
		"markers":   NewMarkersPanel(w, h, 30),
	}

	for name, p := range panels {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 200; i++ {
				p.Update(flightSample(i))
			}

			img := p.Render(200.0 / 30)
			assertPainted(t, img, w, h)

			if again := p.Render(201.0 / 30); again != img {
				t.Error("Render() allocated a new backing image; want reuse")
			}
		})
	}
}

func TestPanelsRenderEmptyWindow(t *testing.T) {
	const w, h = 240, 160

	panels := map[string]Panel{
		"position":  NewPositionPanel(w, h, Target{X: 0.5, Y: -0.5}),
		"commanded": NewCommandedAnglesPanel(w, h, 30),
		"pid_x":     NewPIDXPanel(w, h, 30),
		"markers":   NewMarkersPanel(w, h, 30),
	}

	for name, p := range panels {
		t.Run(name, func(t *testing.T) {
			assertPainted(t, p.Render(0), w, h)
		})
	}
}

func TestPanelWindowsStayBounded(t *testing.T) {
	pos := NewPositionPanel(100, 100, Target{})
	ang := NewCommandedAnglesPanel(100, 100, 30)
	mk := NewMarkersPanel(100, 100, 30)

	for i := 0; i < 2000; i++ {
		s := flightSample(i)
		pos.Update(s)
		ang.Update(s)
		mk.Update(s)
	}

	if got := pos.win.Len(); got > trailLength {
		t.Errorf("position window = %d, want <= %d", got, trailLength)
	}
	if got, max := ang.win.Len(), windowCapacity(angleWindow, 30); got > max {
		t.Errorf("angles window = %d, want <= %d", got, max)
	}
	if got, max := mk.win.Len(), windowCapacity(markerWin, 30); got > max {
		t.Errorf("markers window = %d, want <= %d", got, max)
	}
}
