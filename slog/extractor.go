package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/IDGORRU/pars"
)

// Ensure LoggingExtractor implements pars.Extractor.
var _ pars.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with debug logging.
type LoggingExtractor struct {
	next   pars.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next pars.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Mode delegates to the wrapped extractor.
func (e *LoggingExtractor) Mode() pars.Mode {
	return e.next.Mode()
}

// Extract logs the mode, record count and duration of an extraction.
func (e *LoggingExtractor) Extract(ctx context.Context, doc *pars.Document, r pars.Reporter) (records []pars.Record, err error) {
	defer func(begin time.Time) {
		e.logger.Info("extract",
			"mode", e.next.Mode(),
			"url", doc.BaseURL,
			"records", len(records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(ctx, doc, r)
}

// Ensure LoggingRegistry implements pars.ExtractorRegistry.
var _ pars.ExtractorRegistry = (*LoggingRegistry)(nil)

// LoggingRegistry wraps every extractor it returns in a LoggingExtractor.
type LoggingRegistry struct {
	next   pars.ExtractorRegistry
	logger *slog.Logger
}

// NewLoggingRegistry creates a new LoggingRegistry.
func NewLoggingRegistry(next pars.ExtractorRegistry, logger *slog.Logger) *LoggingRegistry {
	return &LoggingRegistry{next: next, logger: logger}
}

// Lookup delegates to the wrapped registry.
func (r *LoggingRegistry) Lookup(mode pars.Mode) (pars.Extractor, error) {
	e, err := r.next.Lookup(mode)
	if err != nil {
		r.logger.Info("extractor lookup", "mode", mode, "err", err)
		return nil, err
	}
	return NewLoggingExtractor(e, r.logger), nil
}
