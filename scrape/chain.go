// Package scrape orchestrates extraction runs: the fetch strategy chain, the
// run state machine and progress reporting.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/IDGORRU/pars"
)

// Ensure Chain implements pars.DocumentFetcher at compile time.
var _ pars.DocumentFetcher = (*Chain)(nil)

// Chain tries retrieval strategies in order until one succeeds. Attempts are
// sequential and a failed strategy is never retried.
type Chain struct {
	strategies []pars.StrategyFetcher
	limiter    *HostLimiter
	metrics    *Metrics
	title      func(body string) string
}

// ChainOption configures a Chain.
type ChainOption func(*Chain)

// WithLimiter throttles attempts per strategy and target host.
func WithLimiter(l *HostLimiter) ChainOption {
	return func(c *Chain) {
		c.limiter = l
	}
}

// WithMetrics records every attempt.
func WithMetrics(m *Metrics) ChainOption {
	return func(c *Chain) {
		c.metrics = m
	}
}

// WithTitleFunc sets how the page title is read from a fetched body.
func WithTitleFunc(fn func(body string) string) ChainOption {
	return func(c *Chain) {
		c.title = fn
	}
}

// NewChain creates a Chain over strategies, tried in the given order.
func NewChain(strategies []pars.StrategyFetcher, opts ...ChainOption) *Chain {
	c := &Chain{strategies: strategies}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// strategySetter is implemented by reporters that track the active strategy.
type strategySetter interface {
	SetStrategy(s pars.Strategy)
}

// FetchDocument tries each strategy in turn. It logs a line when an attempt
// starts, one per failure and one on the first success.
func (c *Chain) FetchDocument(ctx context.Context, target string, r pars.Reporter) *pars.FetchOutcome {
	host := target
	if u, err := url.Parse(target); err == nil && u.Host != "" {
		host = u.Host
	}

	var lastErr error
	for _, s := range c.strategies {
		if err := ctx.Err(); err != nil {
			return &pars.FetchOutcome{Err: pars.WrapError(pars.ECANCELED, err, "fetch canceled")}
		}

		r.Log(fmt.Sprintf("Trying %s...", s.Strategy))
		begin := time.Now()
		body, err := c.attempt(ctx, s, host, target)
		c.metrics.ObserveFetch(s.Strategy, err, time.Since(begin))
		if err != nil {
			if ctx.Err() != nil {
				return &pars.FetchOutcome{Err: pars.WrapError(pars.ECANCELED, ctx.Err(), "fetch canceled")}
			}
			r.Log(fmt.Sprintf("%s failed: %v", s.Strategy, err))
			lastErr = err
			continue
		}

		r.Log(fmt.Sprintf("Fetched %d bytes via %s", len(body), s.Strategy))
		if ss, ok := r.(strategySetter); ok {
			ss.SetStrategy(s.Strategy)
		}
		outcome := &pars.FetchOutcome{Succeeded: true, Body: body, Strategy: s.Strategy}
		if c.title != nil {
			outcome.Title = c.title(body)
		}
		return outcome
	}

	if lastErr == nil {
		lastErr = errors.New("no retrieval strategies configured")
	}
	return &pars.FetchOutcome{Err: pars.WrapError(pars.EEXHAUSTED, lastErr, "all %d strategies failed", len(c.strategies))}
}

func (c *Chain) attempt(ctx context.Context, s pars.StrategyFetcher, host, target string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, s.Strategy, host); err != nil {
			return "", err
		}
	}
	return s.Fetcher.Fetch(ctx, target)
}

// Close closes every strategy fetcher and returns the first error.
func (c *Chain) Close() error {
	var first error
	for _, s := range c.strategies {
		if err := s.Fetcher.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
