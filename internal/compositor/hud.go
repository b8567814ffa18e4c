package compositor

import (
	"fmt"
	"image"
	"image/color"

	"github.com/golang/freetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/flight-viewer/flightsync/internal/flightlog"
)

const (
	hudDPI      = 72
	hudFontSize = 18
	hudSpacing  = 1.2
	hudMargin   = 12
)

var (
	hudWhite = image.NewUniform(color.RGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff})
	hudGreen = image.NewUniform(color.RGBA{R: 0x2e, G: 0xcc, B: 0x71, A: 0xff})
	hudRed   = image.NewUniform(color.RGBA{R: 0xe7, G: 0x4c, B: 0x3c, A: 0xff})
	hudGray  = image.NewUniform(color.RGBA{R: 0xaa, G: 0xaa, B: 0xaa, A: 0xff})
)

// HUD draws the flight clock and tracking/control status over the video
// region. Fonts are process-wide resources, so the HUD has an explicit
// lifecycle: constructed once before sequencing starts, closed after.
type HUD struct {
	context *freetype.Context
}

// NewHUD parses the embedded typeface and prepares a drawing context.
func NewHUD() (*HUD, error) {
	parsedFont, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	context := freetype.NewContext()
	context.SetDPI(hudDPI)
	context.SetFont(parsedFont)
	context.SetFontSize(hudFontSize)
	context.SetHinting(font.HintingFull)

	return &HUD{context: context}, nil
}

// Draw overlays the telemetry status for output time now onto the video
// region of img.
func (h *HUD) Draw(img *image.RGBA, region image.Rectangle, now float64, s flightlog.Sample) error {
	if h.context == nil {
		return fmt.Errorf("hud is closed")
	}

	h.context.SetClip(region)
	h.context.SetDst(img)

	tracking := "TRACKING LOST"
	trackingColor := hudRed
	if s.TrackingValid {
		tracking = fmt.Sprintf("TRACKING (%d)", int(s.MarkerCount+0.5))
		trackingColor = hudGreen
	}

	control := "CTRL OFF"
	controlColor := hudGray
	if s.ControlActive {
		control = "CTRL ON"
		controlColor = hudGreen
	}

	lines := []struct {
		text string
		src  image.Image
	}{
		{fmt.Sprintf("t=%.2fs", now), hudWhite},
		{tracking, trackingColor},
		{control, controlColor},
	}

	pt := freetype.Pt(region.Min.X+hudMargin, region.Min.Y+hudMargin+int(hudFontSize))
	for _, line := range lines {
		h.context.SetSrc(line.src)
		if _, err := h.context.DrawString(line.text, pt); err != nil {
			return fmt.Errorf("drawing %q: %w", line.text, err)
		}
		pt.Y += h.context.PointToFixed(hudFontSize * hudSpacing)
	}

	return nil
}

// Close releases the drawing context. Draw calls after Close fail.
func (h *HUD) Close() error {
	h.context = nil
	return nil
}
