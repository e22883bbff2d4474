package stores

import "time"

// RunStatus represents the status of a recorded run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// StepStatus represents the outcome of a single step.
type StepStatus string

const (
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
	StepStatusSkipped   StepStatus = "skipped"
)

// Run represents one invocation of a lifecycle action.
type Run struct {
	ID          string     `json:"id"`
	Action      string     `json:"action"`
	Version     string     `json:"version"`
	Status      RunStatus  `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       *string    `json:"error,omitempty"`
}

// StepRecord represents the outcome of one step within a run.
type StepRecord struct {
	ID         string     `json:"id"`
	RunID      string     `json:"run_id"`
	Seq        int        `json:"seq"`
	Name       string     `json:"name"`
	Status     StepStatus `json:"status"`
	Output     string     `json:"output"`
	DurationMS int64      `json:"duration_ms"`
	CreatedAt  time.Time  `json:"created_at"`
}
