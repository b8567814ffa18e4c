package compositor

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func TestBuiltinLayoutsValidate(t *testing.T) {
	tests := []struct {
		name   string
		layout Layout
		panels int
	}{
		{"default", DefaultLayout(), 6},
		{"extended", ExtendedLayout(), 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.layout.Validate(); err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if got := len(tt.layout.Placements); got != tt.panels {
				t.Errorf("placements = %d, want %d", got, tt.panels)
			}

			// Regions must tile without overlap.
			for i, a := range tt.layout.Placements {
				for _, b := range tt.layout.Placements[i+1:] {
					if a.Region.Rect().Overlaps(b.Region.Rect()) {
						t.Errorf("%q overlaps %q", a.Kind, b.Kind)
					}
				}
			}
		})
	}
}

func TestLayoutValidateErrors(t *testing.T) {
	video := Placement{KindVideo, Region{0, 0, 100, 100}}

	tests := []struct {
		name   string
		layout Layout
	}{
		{"zero canvas", Layout{Placements: []Placement{video}}},
		{"no video region", Layout{
			Width: 200, Height: 200,
			Placements: []Placement{{KindMarkers, Region{0, 0, 100, 100}}},
		}},
		{"unknown kind", Layout{
			Width: 200, Height: 200,
			Placements: []Placement{video, {PanelKind("altitude"), Region{100, 0, 100, 100}}},
		}},
		{"duplicate kind", Layout{
			Width: 200, Height: 200,
			Placements: []Placement{video, {KindVideo, Region{100, 0, 100, 100}}},
		}},
		{"empty region", Layout{
			Width: 200, Height: 200,
			Placements: []Placement{video, {KindMarkers, Region{100, 0, 0, 100}}},
		}},
		{"region outside canvas", Layout{
			Width: 200, Height: 200,
			Placements: []Placement{video, {KindMarkers, Region{150, 150, 100, 100}}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.layout.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestLayoutRegion(t *testing.T) {
	l := DefaultLayout()

	r, ok := l.Region(KindVideo)
	if !ok {
		t.Fatal("Region(video) not found")
	}
	if want := image.Rect(0, 0, 720, 720); r != want {
		t.Errorf("Region(video) = %v, want %v", r, want)
	}

	if _, ok := l.Region(KindAnglesFeedback); ok {
		t.Error("default layout should not place the feedback panel")
	}
}

func TestLoadLayout(t *testing.T) {
	want := ExtendedLayout()
	data, err := yaml.Marshal(want)
	if err != nil {
		t.Fatalf("marshaling layout: %v", err)
	}

	path := filepath.Join(t.TempDir(), "layout.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing layout: %v", err)
	}

	got, err := LoadLayout(path)
	if err != nil {
		t.Fatalf("LoadLayout() error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadLayout() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadLayoutRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yaml")
	content := "width: 100\nheight: 100\nplacements:\n  - kind: thrust\n    region: {x: 0, y: 0, width: 50, height: 50}\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing layout: %v", err)
	}

	if _, err := LoadLayout(path); err == nil {
		t.Error("LoadLayout() = nil, want error for unknown kind")
	}
}
