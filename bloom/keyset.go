// Package bloom provides identity-key deduplication backed by Bloom filters.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// DefaultCapacity is the number of keys a KeySet is sized for when no
// better estimate is known.
const DefaultCapacity = 1024

// DefaultFalsePositiveRate is the target false positive rate of the filter.
const DefaultFalsePositiveRate = 0.01

// ConfirmFunc reports whether key is really present in the backing store
// of a KeySet.
type ConfirmFunc func(key string) bool

// KeySet tracks identity keys with a Bloom filter in front of an exact
// lookup owned by the caller. A negative filter answer settles "never seen"
// without touching the backing store; only filter positives are confirmed,
// so a false positive never drops a key.
//
// A KeySet is not safe for concurrent use.
type KeySet struct {
	f       *bloom.BloomFilter
	confirm ConfirmFunc
	n       int
}

// NewKeySet creates a KeySet sized for n expected keys with the given false
// positive rate. A zero n uses DefaultCapacity. confirm is called only when
// the filter reports a possible repeat.
func NewKeySet(n uint, fpRate float64, confirm ConfirmFunc) *KeySet {
	if n == 0 {
		n = DefaultCapacity
	}
	return &KeySet{
		f:       bloom.NewWithEstimates(n, fpRate),
		confirm: confirm,
	}
}

// Add records key and reports whether it was not seen before. Empty keys
// are never recorded. The caller stores key in its backing store when Add
// returns true.
func (s *KeySet) Add(key string) bool {
	if key == "" || s.Has(key) {
		return false
	}
	s.f.AddString(key)
	s.n++
	return true
}

// Has reports whether key was added.
func (s *KeySet) Has(key string) bool {
	return s.f.TestString(key) && s.confirm(key)
}

// Len returns the number of distinct keys added.
func (s *KeySet) Len() int {
	return s.n
}

// EstimatedCount returns the filter's approximation of the number of keys.
func (s *KeySet) EstimatedCount() uint {
	return uint(s.f.ApproximatedSize())
}
