package cooldown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestAllowBurstThenRefuse(t *testing.T) {
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	l := Window(2, 10*time.Minute)
	l.now = c.now

	ok, _ := l.Allow("chan")
	assert.True(t, ok)
	ok, _ = l.Allow("chan")
	assert.True(t, ok)

	start := c.t
	ok, retryAt := l.Allow("chan")
	assert.False(t, ok)
	assert.WithinDuration(t, start.Add(10*time.Minute), retryAt, time.Millisecond)

	for _, at := range []time.Duration{5 * time.Minute, 9 * time.Minute, 10*time.Minute - time.Second} {
		c.t = start.Add(at)
		ok, _ = l.Allow("chan")
		assert.False(t, ok, "allowed at +%s", at)
	}

	c.t = start.Add(10*time.Minute + time.Millisecond)
	ok, _ = l.Allow("chan")
	assert.True(t, ok)
	ok, _ = l.Allow("chan")
	assert.False(t, ok)
}

func TestKeysAreIndependent(t *testing.T) {
	l := New(1, time.Hour)
	ok, _ := l.Allow("a")
	assert.True(t, ok)
	ok, _ = l.Allow("b")
	assert.True(t, ok)
	ok, _ = l.Allow("a")
	assert.False(t, ok)

	l.Reset("a")
	ok, _ = l.Allow("a")
	assert.True(t, ok)
}

func TestIdleKeysAreSwept(t *testing.T) {
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	l := New(1, time.Second)
	l.now = c.now

	l.Allow("a")
	l.Allow("b")
	assert.Equal(t, 2, l.Len())

	c.t = c.t.Add(time.Minute)
	l.Allow("c")
	assert.Equal(t, 1, l.Len())
}
