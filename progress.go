package pars

import (
	"context"
	"time"
)

// Reporter accumulates progress for the active run.
type Reporter interface {
	// Log appends a human-readable line to the run log.
	Log(line string)

	// IncrementFound advances the found counter by one.
	IncrementFound()

	// SetEstimatedTotal records the approximate number of elements of
	// interest in the parsed document.
	SetEstimatedTotal(n int)

	// Tick advances the elapsed-seconds counter by one.
	Tick()
}

// RunState is a state of the run state machine.
type RunState string

// Run states.
const (
	StateIdle             RunState = "idle"
	StateFetching         RunState = "fetching"
	StateFetchingFallback RunState = "fetching-fallback"
	StateParsing          RunState = "parsing"
	StateExtracting       RunState = "extracting"
	StateCompleted        RunState = "completed"
	StateStopped          RunState = "stopped"
	StateFailed           RunState = "failed"
)

// Terminal reports whether no further transitions leave s.
func (s RunState) Terminal() bool {
	return s == StateCompleted || s == StateStopped || s == StateFailed
}

// Progress is a snapshot of a run's progress.
type Progress struct {
	Elapsed        int      `json:"elapsedSeconds"`
	Found          int      `json:"foundCount"`
	EstimatedTotal int      `json:"estimatedTotal,omitempty"`
	HasEstimate    bool     `json:"hasEstimate"`
	Strategy       Strategy `json:"activeStrategy,omitempty"`
	State          RunState `json:"state"`
	Log            []string `json:"log"`
}

// Percent returns min(Found/EstimatedTotal, 1). The second result is false
// when no estimate has been set.
func (p Progress) Percent() (float64, bool) {
	if !p.HasEstimate {
		return 0, false
	}
	if p.EstimatedTotal <= 0 {
		return 1, true
	}
	return min(float64(p.Found)/float64(p.EstimatedTotal), 1), true
}

// EventKind identifies what changed in an Event.
type EventKind string

// Event kinds.
const (
	EventLog      EventKind = "log"
	EventProgress EventKind = "progress"
	EventState    EventKind = "state"
)

// Event is pushed to the caller whenever the run log, counters or state
// change. Line is set for EventLog events.
type Event struct {
	Kind     EventKind
	Line     string
	Progress Progress
}

// EventFunc receives run events. It is called synchronously and must not
// block.
type EventFunc func(Event)

// RunResult is delivered once when a run reaches a terminal state.
type RunResult struct {
	// ID is the persisted run ID. It is empty unless the run was recorded.
	ID string

	URL      string
	Mode     Mode
	State    RunState
	Records  []Record
	Outcome  *FetchOutcome
	Progress Progress
	Duration time.Duration

	// Err is the terminal error for failed and stopped runs.
	Err error
}

// Runner executes extraction runs. Implementations allow one active run at
// a time and return ECONFLICT while a run is in progress.
type Runner interface {
	Run(ctx context.Context, url string, mode Mode, onEvent EventFunc) (*RunResult, error)
}
