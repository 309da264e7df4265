package scrape

import (
	"context"
	"strings"
	"sync"

	"github.com/IDGORRU/pars"
	"golang.org/x/time/rate"
)

// DefaultRate is the default number of attempts per second allowed for one
// strategy against one host.
const DefaultRate = 1.0

// attemptKey identifies a token bucket.
type attemptKey struct {
	strategy pars.Strategy
	host     string
}

// HostLimiter throttles fetch attempts. Every (strategy, host) pair owns a
// token bucket with a burst of 1, so a slow relay never delays the direct
// strategy against the same site.
type HostLimiter struct {
	mu      sync.Mutex
	buckets map[attemptKey]*rate.Limiter
	rps     float64
	rates   map[pars.Strategy]float64
}

// LimiterOption configures a HostLimiter.
type LimiterOption func(*HostLimiter)

// WithStrategyRate overrides the attempt rate of one strategy.
func WithStrategyRate(s pars.Strategy, rps float64) LimiterOption {
	return func(l *HostLimiter) {
		l.rates[s] = rps
	}
}

// NewHostLimiter creates a HostLimiter allowing rps attempts per second per
// strategy and host.
func NewHostLimiter(rps float64, opts ...LimiterOption) *HostLimiter {
	l := &HostLimiter{
		buckets: make(map[attemptKey]*rate.Limiter),
		rps:     rps,
		rates:   make(map[pars.Strategy]float64),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Wait blocks until strategy s may attempt host. Hosts compare
// case-insensitively. It returns the context error if ctx ends first.
func (l *HostLimiter) Wait(ctx context.Context, s pars.Strategy, host string) error {
	key := attemptKey{strategy: s, host: strings.ToLower(host)}

	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		rps, ok := l.rates[s]
		if !ok {
			rps = l.rps
		}
		b = rate.NewLimiter(rate.Limit(rps), 1)
		l.buckets[key] = b
	}
	l.mu.Unlock()

	return b.Wait(ctx)
}
