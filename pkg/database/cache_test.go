package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewCache[string, int](2, 0)
	c.Set("a", 1)
	c.Set("b", 2)

	_, ok := c.Get("a")
	assert.True(t, ok)

	c.Set("c", 3)

	_, ok = c.Get("b")
	assert.False(t, ok, "b was least recently used")
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, c.Len())
}

func TestCacheTTL(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	c := NewCache[string, string](10, time.Minute)
	c.now = clock.now

	c.Set("guild", "ma!")
	v, ok := c.Get("guild")
	assert.True(t, ok)
	assert.Equal(t, "ma!", v)

	clock.advance(2 * time.Minute)
	_, ok = c.Get("guild")
	assert.False(t, ok)

	stale, fresh, ok := c.GetStale("guild")
	assert.True(t, ok)
	assert.False(t, fresh)
	assert.Equal(t, "ma!", stale)

	c.Set("guild", "?")
	v, ok = c.Get("guild")
	assert.True(t, ok)
	assert.Equal(t, "?", v)
}

func TestCacheDeleteAndPurge(t *testing.T) {
	c := NewCache[string, int](0, 0)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Delete("a")
	_, _, ok := c.GetStale("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	c.Purge()
	assert.Equal(t, 0, c.Len())
}
