package prefix

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu       sync.Mutex
	prefixes map[string]string
	reads    atomic.Int32
	fail     atomic.Bool
	delay    time.Duration
	// when set, a read holds its value until release is closed
	held    chan struct{}
	release chan struct{}
}

func newMemStore() *memStore {
	return &memStore{prefixes: make(map[string]string)}
}

func (s *memStore) GuildPrefix(_ context.Context, guildID string) (string, error) {
	s.reads.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.fail.Load() {
		return "", errors.New("db down")
	}
	s.mu.Lock()
	p := s.prefixes[guildID]
	s.mu.Unlock()
	if s.release != nil {
		s.held <- struct{}{}
		<-s.release
	}
	return p, nil
}

func (s *memStore) SetGuildPrefix(_ context.Context, guildID, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefixes[guildID] = prefix
	return nil
}

func TestResolveDMUsesGlobal(t *testing.T) {
	store := newMemStore()
	r := NewResolver(store, "ma!", time.Minute)

	assert.Equal(t, "ma!", r.Resolve(context.Background(), ""))
	assert.Equal(t, int32(0), store.reads.Load())
}

func TestResolveUnsetFallsBackToGlobal(t *testing.T) {
	r := NewResolver(newMemStore(), "ma!", time.Minute)
	assert.Equal(t, "ma!", r.Resolve(context.Background(), "g1"))
}

func TestResolveIsCached(t *testing.T) {
	store := newMemStore()
	store.prefixes["g1"] = "?"
	r := NewResolver(store, "ma!", time.Minute)
	ctx := context.Background()

	assert.Equal(t, "?", r.Resolve(ctx, "g1"))
	assert.Equal(t, "?", r.Resolve(ctx, "g1"))
	assert.Equal(t, int32(1), store.reads.Load())
}

func TestSetInvalidates(t *testing.T) {
	store := newMemStore()
	r := NewResolver(store, "ma!", time.Hour)
	ctx := context.Background()

	assert.Equal(t, "ma!", r.Resolve(ctx, "g1"))
	require.NoError(t, r.Set(ctx, "g1", "!!"))
	assert.Equal(t, "!!", r.Resolve(ctx, "g1"))
}

func TestSetDuringLoadDoesNotKeepOldPrefix(t *testing.T) {
	store := newMemStore()
	store.prefixes["g1"] = "old!"
	store.held = make(chan struct{})
	store.release = make(chan struct{})
	r := NewResolver(store, "ma!", time.Hour)
	ctx := context.Background()

	done := make(chan string)
	go func() { done <- r.Resolve(ctx, "g1") }()
	<-store.held

	require.NoError(t, r.Set(ctx, "g1", "new!"))
	close(store.release)
	assert.Equal(t, "old!", <-done)

	store.release = nil
	assert.Equal(t, "new!", r.Resolve(ctx, "g1"))
}

func TestResolveStaleOnError(t *testing.T) {
	store := newMemStore()
	store.prefixes["g1"] = "?"
	r := NewResolver(store, "ma!", time.Nanosecond)
	ctx := context.Background()

	assert.Equal(t, "?", r.Resolve(ctx, "g1"))
	time.Sleep(time.Millisecond)

	store.fail.Store(true)
	assert.Equal(t, "?", r.Resolve(ctx, "g1"))
	assert.Equal(t, "ma!", r.Resolve(ctx, "g2"))
}

func TestResolveCollapsesConcurrentLoads(t *testing.T) {
	store := newMemStore()
	store.prefixes["g1"] = "$"
	store.delay = 20 * time.Millisecond
	r := NewResolver(store, "ma!", time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, "$", r.Resolve(context.Background(), "g1"))
		}()
	}
	wg.Wait()

	assert.Less(t, store.reads.Load(), int32(10))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("!"))
	assert.NoError(t, Validate("ma!"))
	assert.NoError(t, Validate("ñññññ"))
	assert.ErrorIs(t, Validate(""), ErrEmpty)
	assert.ErrorIs(t, Validate("abcdef"), ErrTooLong)
	assert.ErrorIs(t, Validate("a b"), ErrWhitespace)

	r := NewResolver(newMemStore(), "ma!", time.Minute)
	assert.ErrorIs(t, r.Set(context.Background(), "g1", "toolong"), ErrTooLong)
}
