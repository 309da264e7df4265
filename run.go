package pars

import (
	"context"
	"time"
)

// RunStatus is the persisted status of a run.
type RunStatus string

// Persisted run statuses.
const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
	RunStopped   RunStatus = "stopped"
)

// StatusFor maps a terminal run state to its persisted status.
func StatusFor(state RunState) RunStatus {
	switch state {
	case StateCompleted:
		return RunCompleted
	case StateStopped:
		return RunStopped
	case StateFailed:
		return RunFailed
	default:
		return RunRunning
	}
}

// Run is the persisted record of one extraction run.
type Run struct {
	ID          string     `json:"id"`
	URL         string     `json:"url"`
	Mode        Mode       `json:"mode"`
	Status      RunStatus  `json:"status"`
	ProxyURL    string     `json:"proxyUrl,omitempty"`
	ResultCount int        `json:"resultCount"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "run URL required")
	}
	return r.Mode.Validate()
}

// RunService persists runs and their results. The extraction core never
// calls it; embedding applications do.
type RunService interface {
	// CreateRun stores a new run with status running and assigns its ID.
	CreateRun(ctx context.Context, run *Run) error

	// AppendResults stores records for a run. Records whose identity key
	// was already stored for the run are ignored.
	// Returns ENOTFOUND if the run does not exist.
	AppendResults(ctx context.Context, runID string, records []Record) error

	// CloseRun sets the final status and result count of a run.
	// Returns ENOTFOUND if the run does not exist.
	CloseRun(ctx context.Context, runID string, status RunStatus, resultCount int) error

	// FindRunByID retrieves a run by ID.
	// Returns ENOTFOUND if the run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindResults retrieves the stored results of a run in insertion order.
	FindResults(ctx context.Context, runID string) ([]RecordView, error)

	// FindRuns retrieves runs matching the filter, newest first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	URL    *string
	Mode   *Mode
	Status *RunStatus

	Offset int
	Limit  int
}
