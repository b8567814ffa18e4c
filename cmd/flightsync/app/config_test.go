package app

import (
	"path/filepath"
	"testing"

	"github.com/flight-viewer/flightsync/internal/panel"
)

func TestNewConfigFromCLI(t *testing.T) {
	c, err := NewConfigFromCLI([]string{
		"-log", "flight.csv",
		"-video", "flight.mp4",
		"-target", "0.5,-0.25",
		"-extended",
	})
	if err != nil {
		t.Fatalf("NewConfigFromCLI() error = %v", err)
	}

	if c.LogPath != "flight.csv" || c.VideoPath != "flight.mp4" {
		t.Errorf("paths = %q, %q", c.LogPath, c.VideoPath)
	}
	if c.FPS != defaultFPS || c.Bitrate != defaultBitrate {
		t.Errorf("defaults not applied: fps=%g bitrate=%q", c.FPS, c.Bitrate)
	}
	if want := (panel.Target{X: 0.5, Y: -0.25}); c.Target != want {
		t.Errorf("Target = %+v, want %+v", c.Target, want)
	}
	if !c.Extended {
		t.Error("Extended = false, want true")
	}
	if want := filepath.Join(defaultOutDir, defaultHistoryFile); c.HistoryPath != want {
		t.Errorf("HistoryPath = %q, want %q", c.HistoryPath, want)
	}
}

func TestNewConfigFromCLIErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing log", []string{"-video", "flight.mp4"}},
		{"missing video", []string{"-log", "flight.csv"}},
		{"bad target", []string{"-log", "a.csv", "-video", "b.mp4", "-target", "north"}},
		{"bad target number", []string{"-log", "a.csv", "-video", "b.mp4", "-target", "1,up"}},
		{"zero fps", []string{"-log", "a.csv", "-video", "b.mp4", "-fps", "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewConfigFromCLI(tt.args); err == nil {
				t.Error("NewConfigFromCLI() = nil, want error")
			}
		})
	}
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in      string
		want    panel.Target
		wantErr bool
	}{
		{"0,0", panel.Target{}, false},
		{"1.5, -2", panel.Target{X: 1.5, Y: -2}, false},
		{" 0.25 , 0.75 ", panel.Target{X: 0.25, Y: 0.75}, false},
		{"1", panel.Target{}, true},
		{"a,b", panel.Target{}, true},
		{"", panel.Target{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTarget(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseTarget(%q) error = %v, wantErr %t", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseTarget(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}
