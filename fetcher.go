package pars

import "context"

// Fetcher retrieves raw markup from a URL using a single retrieval path.
type Fetcher interface {
	// Fetch retrieves the body at url.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (body string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// Strategy names a retrieval path in the strategy chain.
type Strategy string

// Retrieval strategies. The relays are tried in order before the direct
// request. StrategyFallback and StrategyBrowser name the fetchers of the
// fallback pipeline.
const (
	StrategyProxyA   Strategy = "proxy-a"
	StrategyProxyB   Strategy = "proxy-b"
	StrategyProxyC   Strategy = "proxy-c"
	StrategyDirect   Strategy = "direct"
	StrategyFallback Strategy = "fallback"
	StrategyBrowser  Strategy = "browser"
)

// FetchOutcome is the immutable result of one pass through a strategy chain.
type FetchOutcome struct {
	Succeeded bool
	Body      string
	Strategy  Strategy
	Title     string

	// Err is set when no strategy succeeded. Its code is EEXHAUSTED or
	// ECANCELED and it wraps the last underlying error.
	Err error
}

// DocumentFetcher resolves a URL to markup by trying an ordered list of
// strategies until one succeeds, reporting every attempt to r.
type DocumentFetcher interface {
	FetchDocument(ctx context.Context, url string, r Reporter) *FetchOutcome
}

// StrategyFetcher pairs a strategy with the fetcher that implements it.
type StrategyFetcher struct {
	Strategy Strategy
	Fetcher  Fetcher
}
