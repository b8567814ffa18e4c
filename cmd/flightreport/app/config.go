package app

import (
	"errors"
	"flag"
)

// Config holds the flightreport invocation settings.
type Config struct {
	LogPath    string
	ReportPath string
	PlotsDir   string
	Verbose    bool
}

// NewConfigFromCLI parses command line arguments into a Config.
func NewConfigFromCLI(args []string) (*Config, error) {
	c := &Config{}
	fs := flag.NewFlagSet("flightreport", flag.ContinueOnError)

	fs.StringVar(&c.LogPath, "log", "", "Telemetry CSV path (required)")
	fs.StringVar(&c.ReportPath, "o", "", "HTML report output path")
	fs.StringVar(&c.PlotsDir, "plots", "", "Directory for static PNG charts")
	fs.BoolVar(&c.Verbose, "v", false, "Enable debug logging")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if c.LogPath == "" {
		fs.Usage()
		return nil, errors.New("telemetry log path is required")
	}

	return c, nil
}
