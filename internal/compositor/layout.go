package compositor

import (
	"fmt"
	"image"
	"os"

	"gopkg.in/yaml.v3"
)

// PanelKind identifies what a layout region displays.
type PanelKind string

const (
	KindVideo          PanelKind = "video"
	KindPosition       PanelKind = "position"
	KindAngles         PanelKind = "angles"
	KindAnglesFeedback PanelKind = "angles_feedback"
	KindPIDX           PanelKind = "pid_x"
	KindPIDY           PanelKind = "pid_y"
	KindMarkers        PanelKind = "markers"
)

var validKinds = map[PanelKind]struct{}{
	KindVideo:          {},
	KindPosition:       {},
	KindAngles:         {},
	KindAnglesFeedback: {},
	KindPIDX:           {},
	KindPIDY:           {},
	KindMarkers:        {},
}

// Region is one rectangular area of the output canvas.
type Region struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Rect converts the region to image coordinates.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Placement assigns a panel kind to a canvas region.
type Placement struct {
	Kind   PanelKind `yaml:"kind"`
	Region Region    `yaml:"region"`
}

// Layout is the static geometry of the composite frame: the canvas size
// plus one placement per panel. It is fixed for an entire run.
type Layout struct {
	Width      int         `yaml:"width"`
	Height     int         `yaml:"height"`
	Placements []Placement `yaml:"placements"`
}

// The built-in layouts mirror a 3x3 grid with 1.2:1:1 column ratios on a
// 1920x1080 canvas: columns of 720, 600 and 600 px over 360 px rows. The
// video spans the two upper-left cells and the position trail the upper
// right pair.
func builtinLayout(extended bool) Layout {
	l := Layout{
		Width:  1920,
		Height: 1080,
		Placements: []Placement{
			{KindVideo, Region{0, 0, 720, 720}},
			{KindPosition, Region{720, 0, 1200, 360}},
			{KindAngles, Region{720, 360, 600, 360}},
			{KindPIDX, Region{1320, 360, 600, 360}},
			{KindPIDY, Region{0, 720, 720, 360}},
		},
	}

	if extended {
		l.Placements = append(l.Placements,
			Placement{KindAnglesFeedback, Region{720, 720, 600, 360}},
			Placement{KindMarkers, Region{1320, 720, 600, 360}},
		)
	} else {
		l.Placements = append(l.Placements,
			Placement{KindMarkers, Region{720, 720, 1200, 360}},
		)
	}

	return l
}

// DefaultLayout returns the six-panel layout.
func DefaultLayout() Layout { return builtinLayout(false) }

// ExtendedLayout returns the seven-panel layout with the feedback-angle
// panel alongside a narrower marker panel.
func ExtendedLayout() Layout { return builtinLayout(true) }

// LoadLayout reads a layout override from a YAML file.
func LoadLayout(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("reading layout: %w", err)
	}

	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("parsing layout %s: %w", path, err)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, fmt.Errorf("layout %s: %w", path, err)
	}

	return l, nil
}

// Validate checks the layout is renderable: a positive canvas, every
// region inside it, no unknown or duplicate kinds, and a video region
// present.
func (l Layout) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("invalid canvas size %dx%d", l.Width, l.Height)
	}

	canvas := image.Rect(0, 0, l.Width, l.Height)
	seen := make(map[PanelKind]struct{}, len(l.Placements))
	for _, p := range l.Placements {
		if _, ok := validKinds[p.Kind]; !ok {
			return fmt.Errorf("unknown panel kind %q", p.Kind)
		}
		if _, ok := seen[p.Kind]; ok {
			return fmt.Errorf("panel kind %q placed twice", p.Kind)
		}
		seen[p.Kind] = struct{}{}

		r := p.Region.Rect()
		if r.Empty() {
			return fmt.Errorf("panel %q has an empty region", p.Kind)
		}
		if !r.In(canvas) {
			return fmt.Errorf("panel %q region %v exceeds the %dx%d canvas", p.Kind, r, l.Width, l.Height)
		}
	}

	if _, ok := seen[KindVideo]; !ok {
		return fmt.Errorf("layout has no %q region", KindVideo)
	}

	return nil
}

// Region returns the placement rectangle for a kind, if placed.
func (l Layout) Region(kind PanelKind) (image.Rectangle, bool) {
	for _, p := range l.Placements {
		if p.Kind == kind {
			return p.Region.Rect(), true
		}
	}
	return image.Rectangle{}, false
}
