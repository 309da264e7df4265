package mock

import (
	"context"

	"github.com/IDGORRU/pars"
)

var (
	_ pars.Extractor         = (*Extractor)(nil)
	_ pars.ExtractorRegistry = (*ExtractorRegistry)(nil)
)

// Extractor is a mock implementation of pars.Extractor.
type Extractor struct {
	ModeFn    func() pars.Mode
	ExtractFn func(ctx context.Context, doc *pars.Document, r pars.Reporter) ([]pars.Record, error)
}

func (e *Extractor) Mode() pars.Mode {
	return e.ModeFn()
}

func (e *Extractor) Extract(ctx context.Context, doc *pars.Document, r pars.Reporter) ([]pars.Record, error) {
	return e.ExtractFn(ctx, doc, r)
}

// ExtractorRegistry is a mock implementation of pars.ExtractorRegistry.
type ExtractorRegistry struct {
	LookupFn func(mode pars.Mode) (pars.Extractor, error)
}

func (r *ExtractorRegistry) Lookup(mode pars.Mode) (pars.Extractor, error) {
	return r.LookupFn(mode)
}
