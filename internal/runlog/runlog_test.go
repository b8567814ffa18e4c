package runlog

import (
	"context"
	"path/filepath"
	"testing"
)

func TestStoreRoundtrip(t *testing.T) {
	ctx := context.Background()
	store := NewStore(filepath.Join(t.TempDir(), "history.sqlite"))
	defer store.Close()

	id, err := store.Begin(ctx, Run{
		TelemetryPath: "flight.csv",
		VideoPath:     "flight.mp4",
		OutputPath:    "out/synchronized_flight.mp4",
		Duration:      12.5,
	})
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}

	if err := store.Finish(ctx, id, 376, StatusCompleted, ""); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}

	runs, err := store.Runs(ctx)
	if err != nil {
		t.Fatalf("Runs() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("Runs() = %d records, want 1", len(runs))
	}

	got := runs[0]
	if got.ID != id {
		t.Errorf("ID = %d, want %d", got.ID, id)
	}
	if got.UUID == "" {
		t.Error("UUID is empty")
	}
	if got.Status != StatusCompleted {
		t.Errorf("Status = %q, want %q", got.Status, StatusCompleted)
	}
	if got.Frames != 376 {
		t.Errorf("Frames = %d, want 376", got.Frames)
	}
	if got.Duration != 12.5 {
		t.Errorf("Duration = %g, want 12.5", got.Duration)
	}
	if got.FinishedAt == nil {
		t.Error("FinishedAt is nil after Finish()")
	}
	if got.Error != "" {
		t.Errorf("Error = %q, want empty", got.Error)
	}
}

func TestStoreRecordsFailure(t *testing.T) {
	ctx := context.Background()
	store := NewStore(filepath.Join(t.TempDir(), "history.sqlite"))
	defer store.Close()

	id, err := store.Begin(ctx, Run{TelemetryPath: "a.csv", VideoPath: "b.mp4", OutputPath: "c.mp4"})
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if err := store.Finish(ctx, id, 9, StatusFailed, "video encode failed"); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}

	runs, err := store.Runs(ctx)
	if err != nil {
		t.Fatalf("Runs() error = %v", err)
	}
	if runs[0].Status != StatusFailed {
		t.Errorf("Status = %q, want %q", runs[0].Status, StatusFailed)
	}
	if runs[0].Error != "video encode failed" {
		t.Errorf("Error = %q, want recorded message", runs[0].Error)
	}
}

func TestStoreOrdersMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	store := NewStore(filepath.Join(t.TempDir(), "history.sqlite"))
	defer store.Close()

	var ids []int64
	for _, out := range []string{"first.mp4", "second.mp4"} {
		id, err := store.Begin(ctx, Run{TelemetryPath: "a.csv", VideoPath: "b.mp4", OutputPath: out})
		if err != nil {
			t.Fatalf("Begin() error = %v", err)
		}
		ids = append(ids, id)
	}

	runs, err := store.Runs(ctx)
	if err != nil {
		t.Fatalf("Runs() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Runs() = %d records, want 2", len(runs))
	}
	if runs[0].Status != StatusRunning || runs[1].Status != StatusRunning {
		t.Error("unfinished runs should report running status")
	}
	if runs[0].ID == runs[1].ID {
		t.Error("runs share an ID")
	}
}
