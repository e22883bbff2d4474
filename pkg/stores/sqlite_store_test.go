package stores

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

// setupTestStore creates a file-backed store in a temp directory
func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

// TestStoreLifecycle tests database initialization and closure
func TestStoreLifecycle(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("failed to close store: %v", err)
	}
}

// TestStoreRejectsEmptyPath tests that a store needs a database path
func TestStoreRejectsEmptyPath(t *testing.T) {
	if _, err := NewSQLiteStore(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

// TestRunRoundTrip tests creating, finishing, and listing runs
func TestRunRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	run := &Run{
		ID:        "run-1",
		Action:    "install",
		Version:   "6.4",
		Status:    RunStatusRunning,
		StartedAt: time.Now().Add(-time.Minute),
	}
	if err := store.CreateRun(ctx, run); err != nil {
		t.Fatalf("failed to create run: %v", err)
	}

	if err := store.FinishRun(ctx, "run-1", RunStatusCompleted, nil); err != nil {
		t.Fatalf("failed to finish run: %v", err)
	}

	runs, err := store.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].Status != RunStatusCompleted {
		t.Errorf("status: got %s", runs[0].Status)
	}
	if runs[0].CompletedAt == nil {
		t.Error("completed_at not set")
	}
}

// TestFinishUnknownRun tests that finishing a missing run is an error
func TestFinishUnknownRun(t *testing.T) {
	store := setupTestStore(t)
	if err := store.FinishRun(context.Background(), "nope", RunStatusFailed, nil); err == nil {
		t.Fatal("expected error for unknown run")
	}
}

// TestListRunsOrderAndLimit tests newest-first ordering and the limit
func TestListRunsOrderAndLimit(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"old", "mid", "new"} {
		run := &Run{
			ID:        id,
			Action:    "upgrade",
			Version:   "6.0",
			Status:    RunStatusCompleted,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.CreateRun(ctx, run); err != nil {
			t.Fatalf("failed to create run %s: %v", id, err)
		}
	}

	runs, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "new" || runs[1].ID != "mid" {
		t.Errorf("unexpected order: %s, %s", runs[0].ID, runs[1].ID)
	}
}

// TestStepRecords tests step insertion and sequence-ordered listing
func TestStepRecords(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	run := &Run{ID: "run-1", Action: "install", Version: "6.4", Status: RunStatusRunning, StartedAt: time.Now()}
	if err := store.CreateRun(ctx, run); err != nil {
		t.Fatalf("failed to create run: %v", err)
	}

	for seq, status := range map[int]StepStatus{
		2: StepStatusFailed,
		1: StepStatusCompleted,
	} {
		rec := &StepRecord{
			ID:        "step-" + string(rune('0'+seq)),
			RunID:     "run-1",
			Seq:       seq,
			Name:      "step",
			Status:    status,
			Output:    "output",
			CreatedAt: time.Now(),
		}
		if err := store.CreateStep(ctx, rec); err != nil {
			t.Fatalf("failed to create step %d: %v", seq, err)
		}
	}

	steps, err := store.ListSteps(ctx, "run-1")
	if err != nil {
		t.Fatalf("failed to list steps: %v", err)
	}
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	if steps[0].Seq != 1 || steps[1].Seq != 2 {
		t.Errorf("steps not in sequence order: %d, %d", steps[0].Seq, steps[1].Seq)
	}
	if steps[1].Status != StepStatusFailed {
		t.Errorf("status: got %s", steps[1].Status)
	}
}

// TestRunRecorder tests the recorder facade over the store
func TestRunRecorder(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	rec := NewRunRecorder(store)
	if err := rec.BeginRun(ctx, "upgrade", "6.4"); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if err := rec.RecordStep(ctx, 1, "create backup", StepStatusCompleted, "backup set at /tmp/x", 1500*time.Millisecond); err != nil {
		t.Fatalf("record step failed: %v", err)
	}
	if err := rec.FinishRun(ctx, errors.New("version mismatch")); err != nil {
		t.Fatalf("finish failed: %v", err)
	}

	runs, err := store.ListRuns(ctx, 1)
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].Status != RunStatusFailed {
		t.Errorf("status: got %s", runs[0].Status)
	}
	if runs[0].Error == nil || *runs[0].Error != "version mismatch" {
		t.Errorf("error not stored: %v", runs[0].Error)
	}

	steps, err := store.ListSteps(ctx, runs[0].ID)
	if err != nil {
		t.Fatalf("failed to list steps: %v", err)
	}
	if len(steps) != 1 || steps[0].DurationMS != 1500 {
		t.Errorf("unexpected steps: %+v", steps)
	}
}
