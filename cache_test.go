package purc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purc-go/purc/vdom"
)

func TestDocumentCacheGetMissOnUnknownKey(t *testing.T) {
	c := newDocumentCache(DefaultCacheByteLimit)
	_, ok := c.get(cacheKey{1})
	assert.False(t, ok)
}

func TestDocumentCachePutThenGetHits(t *testing.T) {
	c := newDocumentCache(DefaultCacheByteLimit)
	doc := vdom.NewDocument()
	c.put(cacheKey{1}, doc, time.Hour, 10)

	got, ok := c.get(cacheKey{1})
	require.True(t, ok)
	assert.Same(t, doc, got)
}

func TestDocumentCacheExpiredEntryEvictedOnGet(t *testing.T) {
	c := newDocumentCache(DefaultCacheByteLimit)
	doc := vdom.NewDocument()
	c.put(cacheKey{1}, doc, -time.Second, 10)

	_, ok := c.get(cacheKey{1})
	assert.False(t, ok)
	assert.Zero(t, c.totalBytes, "an evicted entry's bytes must be released")
}

func TestDocumentCacheEvictsOldestWhenOverByteLimit(t *testing.T) {
	c := newDocumentCache(15)
	first := vdom.NewDocument()
	c.put(cacheKey{1}, first, time.Hour, 10)

	second := vdom.NewDocument()
	c.put(cacheKey{2}, second, time.Hour, 10)

	_, firstStillCached := c.get(cacheKey{1})
	assert.False(t, firstStillCached, "the oldest entry must be evicted once the byte limit is exceeded")

	got, ok := c.get(cacheKey{2})
	require.True(t, ok)
	assert.Same(t, second, got)
}

func TestDocumentCachePutOverwritesSameKeySize(t *testing.T) {
	c := newDocumentCache(DefaultCacheByteLimit)
	c.put(cacheKey{1}, vdom.NewDocument(), time.Hour, 100)
	c.put(cacheKey{1}, vdom.NewDocument(), time.Hour, 20)

	assert.Equal(t, 20, c.totalBytes, "re-putting the same key must not double-count its size")
}
