package stores

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RunRecorder writes run and step records for one lifecycle invocation.
type RunRecorder struct {
	store *SQLiteStore
	runID string
}

// NewRunRecorder creates a recorder backed by the given store.
func NewRunRecorder(store *SQLiteStore) *RunRecorder {
	return &RunRecorder{store: store}
}

// BeginRun opens a run record.
func (r *RunRecorder) BeginRun(ctx context.Context, action, version string) error {
	r.runID = uuid.New().String()
	return r.store.CreateRun(ctx, &Run{
		ID:        r.runID,
		Action:    action,
		Version:   version,
		Status:    RunStatusRunning,
		StartedAt: time.Now(),
	})
}

// RecordStep writes one step outcome.
func (r *RunRecorder) RecordStep(ctx context.Context, seq int, name string, status StepStatus, output string, duration time.Duration) error {
	if r.runID == "" {
		return nil
	}
	return r.store.CreateStep(ctx, &StepRecord{
		ID:         uuid.New().String(),
		RunID:      r.runID,
		Seq:        seq,
		Name:       name,
		Status:     status,
		Output:     output,
		DurationMS: duration.Milliseconds(),
		CreatedAt:  time.Now(),
	})
}

// FinishRun closes the run record with its final status.
func (r *RunRecorder) FinishRun(ctx context.Context, runErr error) error {
	if r.runID == "" {
		return nil
	}
	status := RunStatusCompleted
	var errMsg *string
	if runErr != nil {
		status = RunStatusFailed
		msg := runErr.Error()
		errMsg = &msg
	}
	return r.store.FinishRun(ctx, r.runID, status, errMsg)
}
