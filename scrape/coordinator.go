package scrape

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/IDGORRU/pars"
	"golang.org/x/sync/errgroup"
)

// DefaultTickInterval is how often the elapsed-seconds counter advances.
const DefaultTickInterval = time.Second

// estimateTags are the content-bearing elements counted for the progress
// estimate.
var estimateTags = []string{"a", "p", "h1", "h2", "h3", "h4", "h5", "h6", "img", "input", "form", "script"}

// Ensure Coordinator implements pars.Runner at compile time.
var _ pars.Runner = (*Coordinator)(nil)

// Coordinator runs the fetch, parse and extract pipeline for one URL at a
// time. When the primary pipeline fails for any reason other than
// cancellation, the whole sequence is retried once with Fallback.
type Coordinator struct {
	Fetcher    pars.DocumentFetcher
	Fallback   pars.DocumentFetcher
	Trees      pars.TreeBuilder
	Extractors pars.ExtractorRegistry
	Metrics    *Metrics

	// ProxyURL is reported in the run banner when set.
	ProxyURL string

	// TickInterval defaults to DefaultTickInterval.
	TickInterval time.Duration

	active atomic.Bool
}

// Run executes one extraction run and blocks until it reaches a terminal
// state. Failed and stopped runs are described by the returned result; the
// error is non-nil only when the run could not start because another run
// is active (ECONFLICT).
func (c *Coordinator) Run(ctx context.Context, rawURL string, mode pars.Mode, onEvent pars.EventFunc) (*pars.RunResult, error) {
	if !c.active.CompareAndSwap(false, true) {
		return nil, pars.Errorf(pars.ECONFLICT, "another run is already active")
	}
	defer c.active.Store(false)

	begin := time.Now()
	rep := NewReporter(onEvent)
	res := &pars.RunResult{URL: rawURL, Mode: mode}

	rep.Log("Starting extraction run")
	rep.Log(fmt.Sprintf("Mode: %s", mode))
	rep.Log(fmt.Sprintf("Target URL: %s", rawURL))
	if c.ProxyURL != "" {
		rep.Log(fmt.Sprintf("Proxy: enabled (%s)", c.ProxyURL))
	} else {
		rep.Log("Proxy: disabled")
	}

	if err := validate(rawURL, mode); err != nil {
		return c.finish(res, rep, begin, pars.StateFailed, nil, err), nil
	}

	tickCtx, stopTicker := context.WithCancel(ctx)
	var g errgroup.Group
	g.Go(func() error {
		c.tick(tickCtx, rep)
		return nil
	})

	rep.SetState(pars.StateFetching)
	records, err := c.pipeline(ctx, c.Fetcher, rawURL, mode, rep, res)
	if err != nil && !canceled(ctx, err) && c.Fallback != nil {
		rep.Log(fmt.Sprintf("Primary pipeline failed: %s", pars.ErrorMessage(err)))
		rep.Log("Switching to fallback pipeline...")
		rep.resetCounts()
		rep.SetState(pars.StateFetchingFallback)
		records, err = c.pipeline(ctx, c.Fallback, rawURL, mode, rep, res)
	}

	stopTicker()
	_ = g.Wait()

	switch {
	case err == nil:
		return c.finish(res, rep, begin, pars.StateCompleted, records, nil), nil
	case canceled(ctx, err):
		return c.finish(res, rep, begin, pars.StateStopped, nil, pars.WrapError(pars.ECANCELED, err, "run stopped")), nil
	default:
		return c.finish(res, rep, begin, pars.StateFailed, nil, err), nil
	}
}

// pipeline fetches, parses and extracts once using f.
func (c *Coordinator) pipeline(ctx context.Context, f pars.DocumentFetcher, rawURL string, mode pars.Mode, rep *Reporter, res *pars.RunResult) ([]pars.Record, error) {
	outcome := f.FetchDocument(ctx, rawURL, rep)
	res.Outcome = outcome
	if !outcome.Succeeded {
		if outcome.Err == nil {
			return nil, pars.Errorf(pars.EEXHAUSTED, "fetch failed")
		}
		return nil, outcome.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rep.SetState(pars.StateParsing)
	tree, err := c.Trees.Parse(outcome.Body)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	n := tree.Count(estimateTags...)
	rep.SetEstimatedTotal(n)
	if n == 0 {
		rep.Log("Warning: document contains no elements of interest")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rep.SetState(pars.StateExtracting)
	e, err := c.Extractors.Lookup(mode)
	if err != nil {
		return nil, err
	}
	return e.Extract(ctx, &pars.Document{BaseURL: rawURL, Body: outcome.Body, Tree: tree}, rep)
}

func (c *Coordinator) finish(res *pars.RunResult, rep *Reporter, begin time.Time, state pars.RunState, records []pars.Record, err error) *pars.RunResult {
	switch state {
	case pars.StateCompleted:
		rep.Log(fmt.Sprintf("Extraction complete: %d result(s)", len(records)))
	case pars.StateStopped:
		rep.Log("Run stopped")
	default:
		rep.Log(fmt.Sprintf("Error: %s", pars.ErrorMessage(err)))
	}
	rep.SetState(state)

	res.State = state
	res.Records = records
	res.Err = err
	res.Progress = rep.Snapshot()
	res.Duration = time.Since(begin)
	c.Metrics.ObserveRun(res)
	return res
}

func (c *Coordinator) tick(ctx context.Context, rep *Reporter) {
	interval := c.TickInterval
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			rep.Tick()
		}
	}
}

// Active reports whether a run is in progress.
func (c *Coordinator) Active() bool {
	return c.active.Load()
}

func validate(rawURL string, mode pars.Mode) error {
	if err := mode.Validate(); err != nil {
		return err
	}
	_, err := ValidateURL(rawURL)
	return err
}

// ValidateURL checks that raw is an absolute http or https URL with a host.
func ValidateURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, pars.Errorf(pars.EINVALID, "target URL required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, pars.Errorf(pars.EINVALID, "invalid URL %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, pars.Errorf(pars.EINVALID, "URL must use http or https: %q", raw)
	}
	if u.Host == "" {
		return nil, pars.Errorf(pars.EINVALID, "URL must include a host: %q", raw)
	}
	return u, nil
}

func canceled(ctx context.Context, err error) bool {
	return ctx.Err() != nil ||
		pars.ErrorCode(err) == pars.ECANCELED ||
		errors.Is(err, context.Canceled)
}
