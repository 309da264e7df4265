package mock

import "github.com/IDGORRU/pars"

var _ pars.TreeBuilder = (*TreeBuilder)(nil)

// TreeBuilder is a mock implementation of pars.TreeBuilder.
type TreeBuilder struct {
	ParseFn func(body string) (pars.Tree, error)
}

func (b *TreeBuilder) Parse(body string) (pars.Tree, error) {
	return b.ParseFn(body)
}
