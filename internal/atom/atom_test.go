package atom_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purc-go/purc/internal/atom"
)

func TestAtomForInternsSameStringToSameID(t *testing.T) {
	tb := atom.New()
	a := tb.AtomFor("hvml")
	b := tb.AtomFor("hvml")
	assert.Equal(t, a, b)
}

func TestAtomForDistinctStringsGetDistinctIDs(t *testing.T) {
	tb := atom.New()
	a := tb.AtomFor("hvml")
	b := tb.AtomFor("body")
	assert.NotEqual(t, a, b)
}

func TestStrForRoundTrips(t *testing.T) {
	tb := atom.New()
	id := tb.AtomFor("observe")

	s, ok := tb.StrFor(id)
	require.True(t, ok)
	assert.Equal(t, "observe", s)
}

func TestStrForUnknownIDReturnsFalse(t *testing.T) {
	tb := atom.New()
	_, ok := tb.StrFor(12345)
	assert.False(t, ok)
}

func TestAtomForIsConcurrencySafe(t *testing.T) {
	tb := atom.New()
	var wg sync.WaitGroup
	ids := make([]uint32, 100)

	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = tb.AtomFor("concurrent")
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}
