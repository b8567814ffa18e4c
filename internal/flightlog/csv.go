package flightlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Column names the loader understands. Every required column must be
// present in the header; elapsed_time may be substituted by an absolute
// timestamp column, in which case elapsed seconds are derived from the
// first row.
const (
	colElapsed   = "elapsed_time"
	colTimestamp = "timestamp"
)

var requiredColumns = []string{
	"pos_x", "pos_y",
	"pos_x_raw", "pos_y_raw",
	"error_x", "error_y",
	"roll_ref_deg", "pitch_ref_deg",
	"roll_fb_rad", "pitch_fb_rad",
	"pid_x_p", "pid_x_i", "pid_x_d",
	"pid_y_p", "pid_y_i", "pid_y_d",
	"marker_count",
	"tracking_valid", "control_active",
	"loop_period",
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

// LoadFile reads a telemetry CSV log from disk.
func LoadFile(path string) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening telemetry log: %w", err)
	}
	defer f.Close()

	s, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}

// Read parses a telemetry CSV log. The header row names the columns;
// unknown columns are ignored. Rows must carry non-decreasing timestamps,
// and rows sharing a timestamp collapse to the last one.
func Read(r io.Reader) (*Series, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrMalformedInput)
		}
		return nil, fmt.Errorf("%w: reading header: %v", ErrMalformedInput, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	_, hasElapsed := cols[colElapsed]
	_, hasStamp := cols[colTimestamp]
	if !hasElapsed && !hasStamp {
		return nil, fmt.Errorf("%w: missing column %q", ErrMalformedInput, colElapsed)
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrMalformedInput, name)
		}
	}

	var (
		samples []Sample
		epoch   time.Time
	)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedInput, line, err)
		}

		row := rowReader{rec: rec, cols: cols}
		s := Sample{
			PosX:          row.float("pos_x"),
			PosY:          row.float("pos_y"),
			RawX:          row.float("pos_x_raw"),
			RawY:          row.float("pos_y_raw"),
			ErrX:          row.float("error_x"),
			ErrY:          row.float("error_y"),
			RollRef:       row.float("roll_ref_deg"),
			PitchRef:      row.float("pitch_ref_deg"),
			RollFb:        row.float("roll_fb_rad"),
			PitchFb:       row.float("pitch_fb_rad"),
			PIDX:          PID{row.float("pid_x_p"), row.float("pid_x_i"), row.float("pid_x_d")},
			PIDY:          PID{row.float("pid_y_p"), row.float("pid_y_i"), row.float("pid_y_d")},
			MarkerCount:   row.float("marker_count"),
			TrackingValid: row.bool("tracking_valid"),
			ControlActive: row.bool("control_active"),
			LoopPeriod:    row.float("loop_period"),
		}

		if hasElapsed {
			s.Elapsed = row.float(colElapsed)
		} else {
			ts := row.time(colTimestamp)
			if epoch.IsZero() {
				epoch = ts
			}
			s.Elapsed = ts.Sub(epoch).Seconds()
		}
		if row.err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedInput, line, row.err)
		}

		if n := len(samples); n > 0 && s.Elapsed < samples[n-1].Elapsed {
			return nil, fmt.Errorf("%w: line %d: timestamp decreases", ErrMalformedInput, line)
		}

		samples = append(samples, s)
	}

	return NewSeries(samples)
}

// rowReader pulls typed values out of one CSV record, remembering the
// first conversion error so callers check once per row.
type rowReader struct {
	rec  []string
	cols map[string]int
	err  error
}

func (r *rowReader) field(name string) string {
	i := r.cols[name]
	if i >= len(r.rec) {
		if r.err == nil {
			r.err = fmt.Errorf("column %q: row too short", name)
		}
		return ""
	}
	return strings.TrimSpace(r.rec[i])
}

func (r *rowReader) float(name string) float64 {
	if r.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(r.field(name), 64)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("column %q: %w", name, err)
	}
	return v
}

func (r *rowReader) bool(name string) bool {
	if r.err != nil {
		return false
	}
	switch strings.ToLower(r.field(name)) {
	case "1", "true":
		return true
	case "0", "false":
		return false
	}
	if r.err == nil {
		r.err = fmt.Errorf("column %q: not a boolean", name)
	}
	return false
}

func (r *rowReader) time(name string) time.Time {
	if r.err != nil {
		return time.Time{}
	}
	raw := r.field(name)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	if r.err == nil {
		r.err = fmt.Errorf("column %q: unrecognized timestamp %q", name, raw)
	}
	return time.Time{}
}
