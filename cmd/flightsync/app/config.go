package app

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/flight-viewer/flightsync/internal/panel"
)

const (
	defaultOutDir      = "animation_results"
	defaultFPS         = 30
	defaultBitrate     = "8000k"
	defaultHistoryFile = "render_history.sqlite"
)

// Config holds the flightsync invocation settings.
type Config struct {
	LogPath   string
	VideoPath string

	OutDir     string
	OutputFile string // overrides the timestamped default when set
	FPS        float64
	Bitrate    string
	Target     panel.Target
	LayoutPath string
	Extended   bool

	ReportPath  string
	PlotsDir    string
	HistoryPath string
	NoHistory   bool
	Verbose     bool
}

// NewConfigFromCLI parses command line arguments into a Config.
func NewConfigFromCLI(args []string) (*Config, error) {
	c := &Config{}
	fs := flag.NewFlagSet("flightsync", flag.ContinueOnError)

	var target string
	fs.StringVar(&c.LogPath, "log", "", "Telemetry CSV path (required)")
	fs.StringVar(&c.VideoPath, "video", "", "Flight video path (required)")
	fs.StringVar(&c.OutDir, "out-dir", defaultOutDir, "Output directory")
	fs.StringVar(&c.OutputFile, "o", "", "Explicit output path, overrides the timestamped name")
	fs.Float64Var(&c.FPS, "fps", defaultFPS, "Output frame rate")
	fs.StringVar(&c.Bitrate, "bitrate", defaultBitrate, "Output H.264 bitrate")
	fs.StringVar(&target, "target", "0,0", "Target hold position as \"x,y\" in meters")
	fs.StringVar(&c.LayoutPath, "layout", "", "YAML layout override")
	fs.BoolVar(&c.Extended, "extended", false, "Seven-panel layout with the feedback-angle panel")
	fs.StringVar(&c.ReportPath, "report", "", "Also write an HTML flight report to this path")
	fs.StringVar(&c.PlotsDir, "plots", "", "Also write static PNG charts into this directory")
	fs.StringVar(&c.HistoryPath, "history", "", "Render-history database path (default <out-dir>/"+defaultHistoryFile+")")
	fs.BoolVar(&c.NoHistory, "no-history", false, "Disable the render-history store")
	fs.BoolVar(&c.Verbose, "v", false, "Enable debug logging")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	var err error
	switch {
	case c.LogPath == "":
		err = errors.New("telemetry log path is required")
	case c.VideoPath == "":
		err = errors.New("video path is required")
	case c.FPS <= 0:
		err = fmt.Errorf("invalid output frame rate %g", c.FPS)
	}
	if err == nil {
		c.Target, err = parseTarget(target)
	}
	if err != nil {
		fs.Usage()
		return nil, err
	}

	if c.HistoryPath == "" {
		c.HistoryPath = filepath.Join(c.OutDir, defaultHistoryFile)
	}

	return c, nil
}

// parseTarget reads an "x,y" coordinate pair.
func parseTarget(s string) (panel.Target, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return panel.Target{}, fmt.Errorf("invalid target %q, want \"x,y\"", s)
	}

	x, errX := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if errX != nil || errY != nil {
		return panel.Target{}, fmt.Errorf("invalid target %q, want \"x,y\"", s)
	}

	return panel.Target{X: x, Y: y}, nil
}
