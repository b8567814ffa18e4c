// Package compositor assembles the composite output frame: decoded video,
// telemetry plot panels and a status HUD placed on one fixed-layout canvas.
package compositor

import (
	"fmt"
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/flight-viewer/flightsync/internal/flightlog"
	"github.com/flight-viewer/flightsync/internal/panel"
)

// Config parameterizes a Compositor. The zero Target holds at the origin.
type Config struct {
	Layout Layout
	Target panel.Target
	FPS    float64 // output frame rate, sizes the panel time windows
}

// Compositor owns the output canvas and the per-panel rolling state. It is
// not safe for concurrent use; one sequencer drives it frame by frame.
type Compositor struct {
	layout Layout
	canvas *image.RGBA
	hud    *HUD

	panels map[PanelKind]panel.Panel
	video  image.Rectangle
}

// New validates the layout and builds one panel per placement.
func New(cfg Config) (*Compositor, error) {
	if err := cfg.Layout.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}
	if cfg.FPS <= 0 {
		return nil, fmt.Errorf("invalid output frame rate %g", cfg.FPS)
	}

	hud, err := NewHUD()
	if err != nil {
		return nil, fmt.Errorf("creating HUD: %w", err)
	}

	c := &Compositor{
		layout: cfg.Layout,
		canvas: image.NewRGBA(image.Rect(0, 0, cfg.Layout.Width, cfg.Layout.Height)),
		hud:    hud,
		panels: make(map[PanelKind]panel.Panel, len(cfg.Layout.Placements)),
	}

	for _, p := range cfg.Layout.Placements {
		r := p.Region.Rect()
		w, h := r.Dx(), r.Dy()

		switch p.Kind {
		case KindVideo:
			c.video = r
		case KindPosition:
			c.panels[p.Kind] = panel.NewPositionPanel(w, h, cfg.Target)
		case KindAngles:
			c.panels[p.Kind] = panel.NewCommandedAnglesPanel(w, h, cfg.FPS)
		case KindAnglesFeedback:
			c.panels[p.Kind] = panel.NewFeedbackAnglesPanel(w, h, cfg.FPS)
		case KindPIDX:
			c.panels[p.Kind] = panel.NewPIDXPanel(w, h, cfg.FPS)
		case KindPIDY:
			c.panels[p.Kind] = panel.NewPIDYPanel(w, h, cfg.FPS)
		case KindMarkers:
			c.panels[p.Kind] = panel.NewMarkersPanel(w, h, cfg.FPS)
		}
	}

	draw.Draw(c.canvas, c.canvas.Bounds(), image.NewUniform(panel.CanvasBackground()), image.Point{}, draw.Src)

	return c, nil
}

// Size returns the output canvas dimensions.
func (c *Compositor) Size() (width, height int) {
	return c.layout.Width, c.layout.Height
}

// Compose builds the output frame for time now: every panel window absorbs
// snap and redraws, the video frame is fitted into its region, and the HUD
// is overlaid. videoFrame may be a held earlier frame but never nil. The
// returned image is the compositor's reused canvas; callers must consume
// it before the next Compose.
func (c *Compositor) Compose(videoFrame *image.RGBA, snap flightlog.Sample, now float64) (*image.RGBA, error) {
	if videoFrame == nil {
		return nil, fmt.Errorf("compose at t=%.3f: no video frame", now)
	}

	for _, p := range c.layout.Placements {
		pnl, ok := c.panels[p.Kind]
		if !ok {
			continue
		}
		pnl.Update(snap)

		img := pnl.Render(now)
		draw.Draw(c.canvas, p.Region.Rect(), img, img.Bounds().Min, draw.Src)
	}

	c.placeVideo(videoFrame)

	if err := c.hud.Draw(c.canvas, c.video, now, snap); err != nil {
		return nil, fmt.Errorf("drawing HUD: %w", err)
	}

	return c.canvas, nil
}

// placeVideo scales the frame into the video region preserving its aspect
// ratio, letterboxed on the canvas background.
func (c *Compositor) placeVideo(frame *image.RGBA) {
	src := frame.Bounds()
	if src.Dx() == c.video.Dx() && src.Dy() == c.video.Dy() {
		draw.Draw(c.canvas, c.video, frame, src.Min, draw.Src)
		return
	}

	draw.Draw(c.canvas, c.video, image.NewUniform(panel.CanvasBackground()), image.Point{}, draw.Src)
	xdraw.ApproxBiLinear.Scale(c.canvas, fitRect(src, c.video), frame, src, xdraw.Src, nil)
}

// Close releases the HUD's rendering context.
func (c *Compositor) Close() error {
	return c.hud.Close()
}

// fitRect centers src within bounds at the largest scale that preserves
// its aspect ratio.
func fitRect(src, bounds image.Rectangle) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	bw, bh := bounds.Dx(), bounds.Dy()

	w, h := bw, sh*bw/sw
	if h > bh {
		w, h = sw*bh/sh, bh
	}

	min := image.Pt(bounds.Min.X+(bw-w)/2, bounds.Min.Y+(bh-h)/2)
	return image.Rectangle{Min: min, Max: min.Add(image.Pt(w, h))}
}
