package mock

import (
	"context"

	"github.com/IDGORRU/pars"
)

var _ pars.RunService = (*RunService)(nil)

// RunService is a mock implementation of pars.RunService.
type RunService struct {
	CreateRunFn     func(ctx context.Context, run *pars.Run) error
	AppendResultsFn func(ctx context.Context, runID string, records []pars.Record) error
	CloseRunFn      func(ctx context.Context, runID string, status pars.RunStatus, resultCount int) error
	FindRunByIDFn   func(ctx context.Context, id string) (*pars.Run, error)
	FindResultsFn   func(ctx context.Context, runID string) ([]pars.RecordView, error)
	FindRunsFn      func(ctx context.Context, filter pars.RunFilter) ([]*pars.Run, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *pars.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) AppendResults(ctx context.Context, runID string, records []pars.Record) error {
	return s.AppendResultsFn(ctx, runID, records)
}

func (s *RunService) CloseRun(ctx context.Context, runID string, status pars.RunStatus, resultCount int) error {
	return s.CloseRunFn(ctx, runID, status, resultCount)
}

func (s *RunService) FindRunByID(ctx context.Context, id string) (*pars.Run, error) {
	return s.FindRunByIDFn(ctx, id)
}

func (s *RunService) FindResults(ctx context.Context, runID string) ([]pars.RecordView, error) {
	return s.FindResultsFn(ctx, runID)
}

func (s *RunService) FindRuns(ctx context.Context, filter pars.RunFilter) ([]*pars.Run, error) {
	return s.FindRunsFn(ctx, filter)
}
