package scrape

import (
	"slices"
	"sync"

	"github.com/IDGORRU/pars"
)

// Ensure Reporter implements pars.Reporter at compile time.
var _ pars.Reporter = (*Reporter)(nil)

// Reporter accumulates the progress of one run and pushes an event to the
// caller on every change. It is safe for concurrent use; the ticker and the
// run goroutine share it.
//
// Events are delivered while the Reporter's lock is held so that their order
// matches the order of changes. The EventFunc must not call back into the
// Reporter.
type Reporter struct {
	mu       sync.Mutex
	progress pars.Progress
	onEvent  pars.EventFunc
}

// NewReporter creates a Reporter in the idle state. onEvent may be nil.
func NewReporter(onEvent pars.EventFunc) *Reporter {
	return &Reporter{
		progress: pars.Progress{State: pars.StateIdle},
		onEvent:  onEvent,
	}
}

// Log appends a line to the run log.
func (r *Reporter) Log(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress.Log = append(r.progress.Log, line)
	r.emit(pars.Event{Kind: pars.EventLog, Line: line})
}

// IncrementFound advances the found counter.
func (r *Reporter) IncrementFound() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress.Found++
	r.emit(pars.Event{Kind: pars.EventProgress})
}

// SetEstimatedTotal records the estimated number of elements of interest.
func (r *Reporter) SetEstimatedTotal(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress.EstimatedTotal = n
	r.progress.HasEstimate = true
	r.emit(pars.Event{Kind: pars.EventProgress})
}

// Tick advances the elapsed-seconds counter.
func (r *Reporter) Tick() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress.Elapsed++
	r.emit(pars.Event{Kind: pars.EventProgress})
}

// SetStrategy records the strategy that retrieved the document.
func (r *Reporter) SetStrategy(s pars.Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress.Strategy = s
	r.emit(pars.Event{Kind: pars.EventProgress})
}

// SetState records a state transition.
func (r *Reporter) SetState(s pars.RunState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress.State = s
	r.emit(pars.Event{Kind: pars.EventState})
}

// Snapshot returns a copy of the current progress.
func (r *Reporter) Snapshot() pars.Progress {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

// resetCounts clears the found counter and estimate before the fallback
// pipeline starts over.
func (r *Reporter) resetCounts() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress.Found = 0
	r.progress.EstimatedTotal = 0
	r.progress.HasEstimate = false
	r.emit(pars.Event{Kind: pars.EventProgress})
}

func (r *Reporter) snapshot() pars.Progress {
	p := r.progress
	p.Log = slices.Clone(r.progress.Log)
	return p
}

func (r *Reporter) emit(e pars.Event) {
	if r.onEvent == nil {
		return
	}
	e.Progress = r.snapshot()
	r.onEvent(e)
}
