package mock

import (
	"context"

	"github.com/IDGORRU/pars"
)

var _ pars.Runner = (*Runner)(nil)

// Runner is a mock implementation of pars.Runner.
type Runner struct {
	RunFn func(ctx context.Context, url string, mode pars.Mode, onEvent pars.EventFunc) (*pars.RunResult, error)
}

func (r *Runner) Run(ctx context.Context, url string, mode pars.Mode, onEvent pars.EventFunc) (*pars.RunResult, error) {
	return r.RunFn(ctx, url, mode, onEvent)
}
