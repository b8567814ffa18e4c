// Package runlog keeps a local history of render runs in an sqlite
// database, so past outputs can be traced back to the inputs and settings
// that produced them.
package runlog

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var initSchemaSQL string

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

const (
	insertRunSQL = `
INSERT INTO runs (run_uuid,
                  started_at,
                  telemetry_path,
                  video_path,
                  output_path,
                  duration_seconds)
VALUES (?, ?, ?, ?, ?, ?)`

	finishRunSQL = `
UPDATE runs
SET finished_at = ?,
    frames      = ?,
    status      = ?,
    error       = ?
WHERE id = ?`

	selectRunsSQL = `
SELECT id,
       run_uuid,
       started_at,
       finished_at,
       telemetry_path,
       video_path,
       output_path,
       frames,
       duration_seconds,
       status,
       error
FROM runs
ORDER BY started_at DESC`
)

// Run is one render-history record.
type Run struct {
	ID            int64
	UUID          string
	StartedAt     time.Time
	FinishedAt    *time.Time
	TelemetryPath string
	VideoPath     string
	OutputPath    string
	Frames        int
	Duration      float64 // telemetry-derived output duration, seconds
	Status        string
	Error         string
}

// Store records render runs. The database is opened lazily on first use.
type Store struct {
	dbPath string

	db     *sql.DB
	dbOnce sync.Once
	dbErr  error
}

// NewStore creates a store backed by the sqlite database at dbPath.
func NewStore(dbPath string) *Store {
	return &Store{dbPath: dbPath}
}

func (s *Store) getDB() (*sql.DB, error) {
	s.dbOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL"))
		if err != nil {
			s.dbErr = fmt.Errorf("opening run history: %w", err)
			return
		}

		if _, err = db.Exec(initSchemaSQL); err != nil {
			_ = db.Close()
			s.dbErr = fmt.Errorf("initializing run history schema: %w", err)
			return
		}

		s.db = db
	})

	return s.db, s.dbErr
}

// Begin records the start of a render and returns its row ID. The record's
// UUID and start time are assigned here.
func (s *Store) Begin(ctx context.Context, run Run) (id int64, err error) {
	db, err := s.getDB()
	if err != nil {
		return 0, err
	}

	stmt, err := db.PrepareContext(ctx, insertRunSQL)
	if err != nil {
		return 0, fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	result, err := stmt.ExecContext(ctx,
		uuid.NewString(),
		time.Now().UTC(),
		run.TelemetryPath,
		run.VideoPath,
		run.OutputPath,
		run.Duration)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}

	id, err = result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting run ID: %w", err)
	}
	return id, nil
}

// Finish closes out a run record with its final frame count and status.
func (s *Store) Finish(ctx context.Context, id int64, frames int, status, errMsg string) (err error) {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	stmt, err := db.PrepareContext(ctx, finishRunSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	var errText sql.NullString
	if errMsg != "" {
		errText = sql.NullString{String: errMsg, Valid: true}
	}

	if _, err = stmt.ExecContext(ctx, time.Now().UTC(), frames, status, errText, id); err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	return nil
}

// Runs returns all recorded runs, most recent first.
func (s *Store) Runs(ctx context.Context) (runs []Run, err error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, selectRunsSQL)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var (
			run      Run
			finished sql.NullTime
			errText  sql.NullString
		)
		if err = rows.Scan(&run.ID, &run.UUID, &run.StartedAt, &finished,
			&run.TelemetryPath, &run.VideoPath, &run.OutputPath,
			&run.Frames, &run.Duration, &run.Status, &errText); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}

		if finished.Valid {
			t := finished.Time
			run.FinishedAt = &t
		}
		run.Error = errText.String

		runs = append(runs, run)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("reading runs: %w", err)
	}

	return runs, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}
