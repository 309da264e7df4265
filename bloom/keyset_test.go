package bloom_test

import (
	"fmt"
	"testing"

	"github.com/IDGORRU/pars/bloom"
	"github.com/stretchr/testify/assert"
)

// store is an exact backing set that counts lookups.
type store struct {
	keys    map[string]bool
	lookups int
}

func newStore() *store { return &store{keys: make(map[string]bool)} }

func (s *store) has(key string) bool {
	s.lookups++
	return s.keys[key]
}

// add mirrors the caller contract: keep the key when the set reports it new.
func (s *store) add(ks *bloom.KeySet, key string) bool {
	if !ks.Add(key) {
		return false
	}
	s.keys[key] = true
	return true
}

func TestKeySet_Add(t *testing.T) {
	t.Parallel()

	t.Run("reports first occurrence only", func(t *testing.T) {
		t.Parallel()

		st := newStore()
		s := bloom.NewKeySet(100, 0.01, st.has)

		assert.True(t, st.add(s, "john@example.com"))
		assert.False(t, st.add(s, "john@example.com"))
		assert.True(t, st.add(s, "jane@example.com"))
		assert.Equal(t, 2, s.Len())
	})

	t.Run("ignores empty keys", func(t *testing.T) {
		t.Parallel()

		st := newStore()
		s := bloom.NewKeySet(100, 0.01, st.has)

		assert.False(t, st.add(s, ""))
		assert.Equal(t, 0, s.Len())
	})

	t.Run("keeps every distinct key despite false positives", func(t *testing.T) {
		t.Parallel()

		// A tiny filter saturates quickly and reports many false positives.
		st := newStore()
		s := bloom.NewKeySet(4, 0.5, st.has)

		for i := range 500 {
			assert.True(t, st.add(s, fmt.Sprintf("key-%d", i)))
		}
		assert.Equal(t, 500, s.Len())
		assert.Positive(t, st.lookups)
	})

	t.Run("skips the backing store for new keys", func(t *testing.T) {
		t.Parallel()

		st := newStore()
		s := bloom.NewKeySet(10000, 0.001, st.has)

		for i := range 1000 {
			st.add(s, fmt.Sprintf("user%d@example.com", i))
		}
		assert.Equal(t, 1000, s.Len())
		assert.Less(t, st.lookups, 20)

		before := st.lookups
		assert.False(t, st.add(s, "user7@example.com"))
		assert.Equal(t, before+1, st.lookups)
	})

	t.Run("uses default capacity for zero size", func(t *testing.T) {
		t.Parallel()

		st := newStore()
		s := bloom.NewKeySet(0, bloom.DefaultFalsePositiveRate, st.has)

		assert.True(t, st.add(s, "a"))
		assert.True(t, s.Has("a"))
		assert.False(t, s.Has("b"))
	})
}

func TestKeySet_EstimatedCount(t *testing.T) {
	t.Parallel()

	st := newStore()
	s := bloom.NewKeySet(1000, 0.01, st.has)
	assert.Equal(t, uint(0), s.EstimatedCount())

	for i := range 100 {
		st.add(s, fmt.Sprintf("https://example.com/page%d", i))
	}

	count := s.EstimatedCount()
	assert.GreaterOrEqual(t, count, uint(90))
	assert.LessOrEqual(t, count, uint(110))
}
