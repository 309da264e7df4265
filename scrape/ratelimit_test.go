package scrape_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/IDGORRU/pars"
	"github.com/IDGORRU/pars/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waited returns how long a second attempt had to wait after a first one.
func waited(t *testing.T, l *scrape.HostLimiter, first, second pars.Strategy, firstHost, secondHost string) time.Duration {
	t.Helper()
	require.NoError(t, l.Wait(context.Background(), first, firstHost))
	start := time.Now()
	require.NoError(t, l.Wait(context.Background(), second, secondHost))
	return time.Since(start)
}

func TestHostLimiter(t *testing.T) {
	t.Parallel()

	t.Run("first attempt does not wait", func(t *testing.T) {
		t.Parallel()

		l := scrape.NewHostLimiter(10)

		start := time.Now()
		require.NoError(t, l.Wait(context.Background(), pars.StrategyProxyA, "example.com"))
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("spaces attempts of one strategy on one host", func(t *testing.T) {
		t.Parallel()

		l := scrape.NewHostLimiter(10)

		d := waited(t, l, pars.StrategyDirect, pars.StrategyDirect, "example.com", "example.com")
		assert.GreaterOrEqual(t, d, 80*time.Millisecond)
	})

	t.Run("treats host names case-insensitively", func(t *testing.T) {
		t.Parallel()

		l := scrape.NewHostLimiter(10)

		d := waited(t, l, pars.StrategyDirect, pars.StrategyDirect, "Example.COM", "example.com")
		assert.GreaterOrEqual(t, d, 80*time.Millisecond)
	})

	t.Run("keeps strategies on the same host apart", func(t *testing.T) {
		t.Parallel()

		l := scrape.NewHostLimiter(1)

		d := waited(t, l, pars.StrategyProxyA, pars.StrategyDirect, "example.com", "example.com")
		assert.Less(t, d, 50*time.Millisecond)
	})

	t.Run("keeps hosts of the same strategy apart", func(t *testing.T) {
		t.Parallel()

		l := scrape.NewHostLimiter(1)

		d := waited(t, l, pars.StrategyProxyA, pars.StrategyProxyA, "example.com", "example.org")
		assert.Less(t, d, 50*time.Millisecond)
	})

	t.Run("applies a strategy rate override", func(t *testing.T) {
		t.Parallel()

		l := scrape.NewHostLimiter(1000, scrape.WithStrategyRate(pars.StrategyBrowser, 5))

		fast := waited(t, l, pars.StrategyDirect, pars.StrategyDirect, "example.com", "example.com")
		slow := waited(t, l, pars.StrategyBrowser, pars.StrategyBrowser, "example.com", "example.com")

		assert.Less(t, fast, 50*time.Millisecond)
		assert.GreaterOrEqual(t, slow, 150*time.Millisecond)
	})

	t.Run("returns when the context ends", func(t *testing.T) {
		t.Parallel()

		l := scrape.NewHostLimiter(1)
		require.NoError(t, l.Wait(context.Background(), pars.StrategyDirect, "example.com"))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		assert.Error(t, l.Wait(ctx, pars.StrategyDirect, "example.com"))
	})

	t.Run("serves concurrent callers", func(t *testing.T) {
		t.Parallel()

		l := scrape.NewHostLimiter(100)

		var wg sync.WaitGroup
		var completed atomic.Int32
		for range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := l.Wait(context.Background(), pars.StrategyDirect, "example.com"); err == nil {
					completed.Add(1)
				}
			}()
		}

		wg.Wait()
		assert.Equal(t, int32(5), completed.Load())
	})
}
