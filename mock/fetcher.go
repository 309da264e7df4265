package mock

import (
	"context"

	"github.com/IDGORRU/pars"
)

var (
	_ pars.Fetcher         = (*Fetcher)(nil)
	_ pars.DocumentFetcher = (*DocumentFetcher)(nil)
)

// Fetcher is a mock implementation of pars.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

// DocumentFetcher is a mock implementation of pars.DocumentFetcher.
type DocumentFetcher struct {
	FetchDocumentFn func(ctx context.Context, url string, r pars.Reporter) *pars.FetchOutcome
}

func (f *DocumentFetcher) FetchDocument(ctx context.Context, url string, r pars.Reporter) *pars.FetchOutcome {
	return f.FetchDocumentFn(ctx, url, r)
}
