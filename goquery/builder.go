package goquery

import (
	"strings"

	"github.com/IDGORRU/pars"
	"github.com/PuerkitoBio/goquery"
	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of parsed trees kept by a Builder.
const DefaultCacheSize = 16

// Ensure Builder implements pars.TreeBuilder at compile time.
var _ pars.TreeBuilder = (*Builder)(nil)

// Builder parses markup into trees. Trees are memoised by a hash of the body
// so re-running extraction on the same document skips parsing.
type Builder struct {
	cacheSize int
	cache     *lru.Cache[uint64, *Tree]
}

// Option configures a Builder.
type Option func(*Builder)

// WithCacheSize sets how many parsed trees are kept. Zero disables caching.
func WithCacheSize(n int) Option {
	return func(b *Builder) {
		b.cacheSize = n
	}
}

// NewBuilder creates a new Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(b)
	}
	if b.cacheSize > 0 {
		// lru.New only fails for non-positive sizes.
		b.cache, _ = lru.New[uint64, *Tree](b.cacheSize)
	}
	return b
}

// Parse builds a tree from body. Malformed markup is recovered by the HTML5
// parsing algorithm and never causes an error.
func (b *Builder) Parse(body string) (pars.Tree, error) {
	var key uint64
	if b.cache != nil {
		key = xxhash.Sum64String(body)
		if t, ok := b.cache.Get(key); ok {
			return t, nil
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, pars.Errorf(pars.EINVALID, "failed to parse HTML: %v", err)
	}
	t := NewTree(doc)

	if b.cache != nil {
		b.cache.Add(key, t)
	}
	return t, nil
}
