package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/flight-viewer/flightsync/internal/flightlog"
	"github.com/flight-viewer/flightsync/internal/report"
)

// Run summarizes a telemetry log and writes the requested report
// artifacts.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	series, err := flightlog.LoadFile(config.LogPath)
	if err != nil {
		return err
	}

	summary := report.Summarize(series)
	logger.Info("flight summary",
		slog.String("log", config.LogPath),
		slog.Group("flight",
			slog.String("duration", fmt.Sprintf("%.2fs", summary.Duration)),
			slog.Int("samples", summary.Samples),
			slog.String("sampleRate", fmt.Sprintf("%.1fHz", summary.SampleRate)),
		),
		slog.Group("tracking",
			slog.String("meanError", fmt.Sprintf("%.3fm", summary.MeanError)),
			slog.String("maxError", fmt.Sprintf("%.3fm", summary.MaxError)),
			slog.Float64("maxMarkers", summary.MaxMarkers),
			slog.String("trackingDuty", fmt.Sprintf("%.1f%%", 100*summary.TrackingRatio)),
			slog.String("controlDuty", fmt.Sprintf("%.1f%%", 100*summary.ControlRatio)),
		))

	if config.ReportPath != "" {
		if err := ctx.Err(); err != nil {
			return err
		}

		f, err := os.Create(config.ReportPath)
		if err != nil {
			return fmt.Errorf("creating report: %w", err)
		}

		err = report.WriteHTML(f, series, summary, "Flight Report")
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return err
		}

		logger.Info("flight report written", slog.String("path", config.ReportPath))
	}

	if config.PlotsDir != "" {
		written, err := report.SavePlots(series, config.PlotsDir)
		if err != nil {
			return err
		}
		logger.Info("charts written", slog.String("dir", config.PlotsDir), slog.Int("files", len(written)))
	}

	return nil
}
