package scrape

import (
	"context"

	"github.com/IDGORRU/pars"
)

// Ensure RecordingRunner implements pars.Runner at compile time.
var _ pars.Runner = (*RecordingRunner)(nil)

// RecordingRunner persists every run it delegates: the run is created
// before it starts, its records are appended when it completes, and it is
// closed with its terminal status.
type RecordingRunner struct {
	next     pars.Runner
	runs     pars.RunService
	proxyURL string
}

// NewRecordingRunner wraps next so its runs are stored in runs. proxyURL
// is stored with each run.
func NewRecordingRunner(next pars.Runner, runs pars.RunService, proxyURL string) *RecordingRunner {
	return &RecordingRunner{next: next, runs: runs, proxyURL: proxyURL}
}

// Run creates the run record, delegates and stores the outcome. Storage
// errors after the run has started are returned alongside the result.
func (r *RecordingRunner) Run(ctx context.Context, url string, mode pars.Mode, onEvent pars.EventFunc) (*pars.RunResult, error) {
	run := &pars.Run{URL: url, Mode: mode, ProxyURL: r.proxyURL}
	if err := r.runs.CreateRun(ctx, run); err != nil {
		return nil, err
	}

	res, err := r.next.Run(ctx, url, mode, onEvent)
	if err != nil {
		// The run never started.
		_ = r.runs.CloseRun(context.WithoutCancel(ctx), run.ID, pars.RunFailed, 0)
		return nil, err
	}
	res.ID = run.ID

	// Results are stored even when the caller has gone away.
	storeCtx := context.WithoutCancel(ctx)
	if len(res.Records) > 0 {
		if err := r.runs.AppendResults(storeCtx, run.ID, res.Records); err != nil {
			return res, err
		}
	}
	return res, r.runs.CloseRun(storeCtx, run.ID, pars.StatusFor(res.State), len(res.Records))
}
