package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/IDGORRU/pars"
)

// Ensure LoggingRunService implements pars.RunService.
var _ pars.RunService = (*LoggingRunService)(nil)

// LoggingRunService wraps a RunService with debug logging.
type LoggingRunService struct {
	next   pars.RunService
	logger *slog.Logger
}

// NewLoggingRunService creates a new LoggingRunService.
func NewLoggingRunService(next pars.RunService, logger *slog.Logger) *LoggingRunService {
	return &LoggingRunService{next: next, logger: logger}
}

func (s *LoggingRunService) CreateRun(ctx context.Context, run *pars.Run) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("create run",
			"id", run.ID,
			"url", run.URL,
			"mode", run.Mode,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateRun(ctx, run)
}

func (s *LoggingRunService) AppendResults(ctx context.Context, runID string, records []pars.Record) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("append results",
			"id", runID,
			"count", len(records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.AppendResults(ctx, runID, records)
}

func (s *LoggingRunService) CloseRun(ctx context.Context, runID string, status pars.RunStatus, resultCount int) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("close run",
			"id", runID,
			"status", status,
			"results", resultCount,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CloseRun(ctx, runID, status, resultCount)
}

func (s *LoggingRunService) FindRunByID(ctx context.Context, id string) (run *pars.Run, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find run",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindRunByID(ctx, id)
}

func (s *LoggingRunService) FindResults(ctx context.Context, runID string) (views []pars.RecordView, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find results",
			"id", runID,
			"count", len(views),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindResults(ctx, runID)
}

func (s *LoggingRunService) FindRuns(ctx context.Context, filter pars.RunFilter) (runs []*pars.Run, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find runs",
			"count", len(runs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindRuns(ctx, filter)
}
