package mock

import "github.com/IDGORRU/pars"

var _ pars.Reporter = (*Reporter)(nil)

// Reporter is a mock implementation of pars.Reporter.
type Reporter struct {
	LogFn               func(line string)
	IncrementFoundFn    func()
	SetEstimatedTotalFn func(n int)
	TickFn              func()
}

func (r *Reporter) Log(line string) {
	r.LogFn(line)
}

func (r *Reporter) IncrementFound() {
	r.IncrementFoundFn()
}

func (r *Reporter) SetEstimatedTotal(n int) {
	r.SetEstimatedTotalFn(n)
}

func (r *Reporter) Tick() {
	r.TickFn()
}
