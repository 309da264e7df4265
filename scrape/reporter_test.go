package scrape_test

import (
	"sync"
	"testing"

	"github.com/IDGORRU/pars"
	"github.com/IDGORRU/pars/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporter(t *testing.T) {
	t.Parallel()

	t.Run("starts idle without an estimate", func(t *testing.T) {
		t.Parallel()

		p := scrape.NewReporter(nil).Snapshot()

		assert.Equal(t, pars.StateIdle, p.State)
		assert.False(t, p.HasEstimate)
		_, ok := p.Percent()
		assert.False(t, ok)
	})

	t.Run("pushes an event for every change", func(t *testing.T) {
		t.Parallel()

		var events []pars.Event
		rep := scrape.NewReporter(func(e pars.Event) { events = append(events, e) })

		rep.Log("hello")
		rep.SetEstimatedTotal(4)
		rep.IncrementFound()
		rep.Tick()
		rep.SetStrategy(pars.StrategyDirect)
		rep.SetState(pars.StateExtracting)

		require.Len(t, events, 6)
		assert.Equal(t, pars.EventLog, events[0].Kind)
		assert.Equal(t, "hello", events[0].Line)
		assert.Equal(t, []string{"hello"}, events[0].Progress.Log)
		assert.Equal(t, pars.EventProgress, events[2].Kind)
		assert.Equal(t, 1, events[2].Progress.Found)
		assert.Equal(t, pars.EventState, events[5].Kind)

		last := events[5].Progress
		assert.Equal(t, 1, last.Elapsed)
		assert.Equal(t, pars.StrategyDirect, last.Strategy)
		assert.Equal(t, pars.StateExtracting, last.State)
		pct, ok := last.Percent()
		assert.True(t, ok)
		assert.InDelta(t, 0.25, pct, 1e-9)
	})

	t.Run("snapshots do not share the log", func(t *testing.T) {
		t.Parallel()

		rep := scrape.NewReporter(nil)
		rep.Log("one")
		snap := rep.Snapshot()
		rep.Log("two")

		assert.Equal(t, []string{"one"}, snap.Log)
		assert.Equal(t, []string{"one", "two"}, rep.Snapshot().Log)
	})

	t.Run("found may exceed the estimate", func(t *testing.T) {
		t.Parallel()

		rep := scrape.NewReporter(nil)
		rep.SetEstimatedTotal(1)
		rep.IncrementFound()
		rep.IncrementFound()

		pct, ok := rep.Snapshot().Percent()
		assert.True(t, ok)
		assert.InDelta(t, 1.0, pct, 1e-9)
		assert.Equal(t, 2, rep.Snapshot().Found)
	})

	t.Run("is safe for concurrent use", func(t *testing.T) {
		t.Parallel()

		rep := scrape.NewReporter(func(pars.Event) {})

		var wg sync.WaitGroup
		for range 4 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 50 {
					rep.Tick()
					rep.IncrementFound()
				}
			}()
		}
		wg.Wait()

		p := rep.Snapshot()
		assert.Equal(t, 200, p.Elapsed)
		assert.Equal(t, 200, p.Found)
	})
}
