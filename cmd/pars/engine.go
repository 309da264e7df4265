package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"

	"github.com/IDGORRU/pars"
	"github.com/IDGORRU/pars/colly"
	"github.com/IDGORRU/pars/coregex"
	"github.com/IDGORRU/pars/extract"
	"github.com/IDGORRU/pars/goquery"
	parshttp "github.com/IDGORRU/pars/http"
	"github.com/IDGORRU/pars/rod"
	"github.com/IDGORRU/pars/scrape"
	parsslog "github.com/IDGORRU/pars/slog"
)

// browserRate caps headless browser launches per host, in attempts per second.
const browserRate = 0.2

// newCoordinator wires the fetch chains, tree builder and extractors. The
// returned func releases every fetcher.
func newCoordinator(flags EngineFlags, metrics *scrape.Metrics, logger *slog.Logger, stderr io.Writer) (*scrape.Coordinator, func(), error) {
	var proxy *url.URL
	if flags.Proxy != "" {
		u, err := parshttp.ParseProxy(flags.Proxy)
		if err != nil {
			return nil, nil, err
		}
		proxy = u
	}

	httpOpts := []parshttp.Option{parshttp.WithTimeout(flags.FetchTimeout)}
	collyOpts := []colly.Option{colly.WithTimeout(flags.FetchTimeout)}
	rodOpts := []rod.Option{rod.WithFetchTimeout(flags.FetchTimeout)}
	if proxy != nil {
		httpOpts = append(httpOpts, parshttp.WithProxy(proxy))
		collyOpts = append(collyOpts, colly.WithProxy(proxy))
		rodOpts = append(rodOpts, rod.WithProxy(proxy))
	}

	strategies := parshttp.Strategies(httpOpts...)
	for i := range strategies {
		strategies[i].Fetcher = parsslog.NewLoggingFetcher(strategies[i].Fetcher, string(strategies[i].Strategy), logger)
	}
	limiter := scrape.NewHostLimiter(scrape.DefaultRate,
		scrape.WithStrategyRate(pars.StrategyBrowser, browserRate))
	primary := scrape.NewChain(strategies,
		scrape.WithLimiter(limiter),
		scrape.WithMetrics(metrics),
		scrape.WithTitleFunc(parshttp.ExtractTitle),
	)

	fallbacks := []pars.StrategyFetcher{{
		Strategy: pars.StrategyFallback,
		Fetcher:  parsslog.NewLoggingFetcher(colly.NewFetcher(collyOpts...), string(pars.StrategyFallback), logger),
	}}
	if flags.Browser {
		browser, err := rod.NewFetcher(rodOpts...)
		if err != nil {
			_ = primary.Close()
			fmt.Fprintf(stderr, "Hint: --browser needs Chrome or Chromium installed\n")
			return nil, nil, fmt.Errorf("failed to start browser: %w", err)
		}
		fallbacks = append(fallbacks, pars.StrategyFetcher{
			Strategy: pars.StrategyBrowser,
			Fetcher:  parsslog.NewLoggingFetcher(browser, string(pars.StrategyBrowser), logger),
		})
	}
	fallback := scrape.NewChain(fallbacks,
		scrape.WithLimiter(limiter),
		scrape.WithMetrics(metrics),
		scrape.WithTitleFunc(parshttp.ExtractTitle),
	)

	closeFn := func() {
		_ = primary.Close()
		_ = fallback.Close()
	}

	lib, err := coregex.Default()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("failed to load pattern library: %w", err)
	}

	coord := &scrape.Coordinator{
		Fetcher:    primary,
		Fallback:   fallback,
		Trees:      goquery.NewBuilder(),
		Extractors: parsslog.NewLoggingRegistry(extract.NewRegistry(lib), logger),
		Metrics:    metrics,
	}
	if proxy != nil {
		coord.ProxyURL = proxy.String()
	}
	return coord, closeFn, nil
}
