package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/flight-viewer/flightsync/internal/compositor"
	"github.com/flight-viewer/flightsync/internal/flightlog"
	"github.com/flight-viewer/flightsync/internal/report"
	"github.com/flight-viewer/flightsync/internal/resample"
	"github.com/flight-viewer/flightsync/internal/runlog"
	"github.com/flight-viewer/flightsync/internal/sequence"
	"github.com/flight-viewer/flightsync/internal/video"
)

const outputNameFormat = "20060102_150405"

// Run synchronizes the telemetry log with the flight video and renders the
// composite output.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	series, err := flightlog.LoadFile(config.LogPath)
	if err != nil {
		return err
	}

	meta, err := video.Probe(ctx, config.VideoPath)
	if err != nil {
		return err
	}

	_, lastElapsed := series.RangeBounds()
	logger.Info("inputs loaded",
		slog.Group("telemetry",
			slog.String("path", config.LogPath),
			slog.Int("samples", series.Len()),
			slog.String("duration", fmt.Sprintf("%.2fs", lastElapsed)),
		),
		slog.Group("video",
			slog.String("path", config.VideoPath),
			slog.String("resolution", fmt.Sprintf("%dx%d", meta.Width, meta.Height)),
			slog.String("fps", fmt.Sprintf("%.2f", meta.FPS)),
		))

	layout, err := selectLayout(config)
	if err != nil {
		return err
	}

	outPath := config.OutputFile
	if outPath == "" {
		name := fmt.Sprintf("synchronized_flight_%s.mp4", time.Now().Format(outputNameFormat))
		outPath = filepath.Join(config.OutDir, name)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	frames, err := render(ctx, config, logger, series, meta, layout, outPath, lastElapsed)
	if err != nil {
		return err
	}

	if info, statErr := os.Stat(outPath); statErr == nil {
		logger.Info("render complete",
			slog.String("output", outPath),
			slog.String("frames", humanize.Comma(int64(frames))),
			slog.String("size", humanize.Bytes(uint64(info.Size()))))
	}

	return writeReports(config, logger, series)
}

func selectLayout(config *Config) (compositor.Layout, error) {
	if config.LayoutPath != "" {
		return compositor.LoadLayout(config.LayoutPath)
	}
	if config.Extended {
		return compositor.ExtendedLayout(), nil
	}
	return compositor.DefaultLayout(), nil
}

// render runs the sequencing pipeline and finalizes the encoder. The
// render-history record is best effort: its failures degrade to warnings.
func render(ctx context.Context, config *Config, logger *slog.Logger, series *flightlog.Series,
	meta video.Metadata, layout compositor.Layout, outPath string, lastElapsed float64) (int, error) {

	history := newHistory(ctx, config, logger, outPath, lastElapsed)

	decoder, err := video.NewDecoder(ctx, config.VideoPath, meta.Width, meta.Height)
	if err != nil {
		history.finish(0, err)
		return 0, err
	}
	defer decoder.Close()

	comp, err := compositor.New(compositor.Config{
		Layout: layout,
		Target: config.Target,
		FPS:    config.FPS,
	})
	if err != nil {
		history.finish(0, err)
		return 0, err
	}
	defer comp.Close()

	encoder, err := video.NewEncoder(ctx, outPath, video.EncoderConfig{
		Width:   layout.Width,
		Height:  layout.Height,
		FPS:     config.FPS,
		Bitrate: config.Bitrate,
		Title:   "synchronized flight " + filepath.Base(config.LogPath),
	})
	if err != nil {
		history.finish(0, err)
		return 0, err
	}

	feed := sequence.NewFeed(decoder, meta.FPS, logger)
	seq := sequence.New(resample.New(series), feed, comp, encoder, lastElapsed, config.FPS,
		sequence.WithLogger(logger))

	logger.Info("rendering composite video",
		slog.String("output", outPath),
		slog.Int("frames", seq.Total()),
		slog.String("fps", fmt.Sprintf("%g", config.FPS)))

	frames, runErr := seq.Run(ctx)
	if closeErr := encoder.Close(); runErr == nil {
		runErr = closeErr
	}

	history.finish(frames, runErr)
	return frames, runErr
}

func writeReports(config *Config, logger *slog.Logger, series *flightlog.Series) error {
	if config.ReportPath == "" && config.PlotsDir == "" {
		return nil
	}

	summary := report.Summarize(series)

	if config.ReportPath != "" {
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

// history wraps the optional run-history record so the render path stays
// linear. A nil receiver or failed Begin turns finish into a no-op.
type history struct {
	store  *runlog.Store
	id     int64
	logger *slog.Logger
}

func newHistory(ctx context.Context, config *Config, logger *slog.Logger, outPath string, lastElapsed float64) *history {
	if config.NoHistory {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(config.HistoryPath), 0o755); err != nil {
		logger.Warn("render history disabled", slog.String("error", err.Error()))
		return nil
	}

	store := runlog.NewStore(config.HistoryPath)
	id, err := store.Begin(ctx, runlog.Run{
		TelemetryPath: config.LogPath,
		VideoPath:     config.VideoPath,
		OutputPath:    outPath,
		Duration:      lastElapsed,
	})
	if err != nil {
		logger.Warn("render history disabled", slog.String("error", err.Error()))
		_ = store.Close()
		return nil
	}

	return &history{store: store, id: id, logger: logger}
}

func (h *history) finish(frames int, runErr error) {
	if h == nil {
		return
	}

	status, errMsg := runlog.StatusCompleted, ""
	if runErr != nil {
		status, errMsg = runlog.StatusFailed, runErr.Error()
	}

	// The run context may already be cancelled when recording a failure.
	if err := h.store.Finish(context.Background(), h.id, frames, status, errMsg); err != nil {
		h.logger.Warn("recording run history", slog.String("error", err.Error()))
	}
	_ = h.store.Close()
}
