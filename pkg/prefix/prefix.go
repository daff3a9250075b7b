// Package prefix resolves the text-command prefix of each guild.
package prefix

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/PancyStudios/MaBotGo/pkg/database"
	"github.com/PancyStudios/MaBotGo/pkg/logger"
	"golang.org/x/sync/singleflight"
)

// MaxLength is the longest prefix a guild may configure
const MaxLength = 5

var (
	ErrEmpty      = errors.New("prefix is empty")
	ErrTooLong    = fmt.Errorf("prefix is longer than %d characters", MaxLength)
	ErrWhitespace = errors.New("prefix contains whitespace")
)

// Store persists guild prefixes. An empty prefix means unset.
type Store interface {
	GuildPrefix(ctx context.Context, guildID string) (string, error)
	SetGuildPrefix(ctx context.Context, guildID, prefix string) error
}

// Resolver is a read-through cache of guild prefixes in front of a Store.
// Entries are invalidated on Set and refreshed after ttl. A load that was
// already running when its key was invalidated does not refill the cache.
type Resolver struct {
	store  Store
	global string
	cache  *database.Cache[string, string]
	group  singleflight.Group

	mu   sync.Mutex
	gens map[string]uint64
}

// NewResolver creates a resolver falling back to global
func NewResolver(store Store, global string, ttl time.Duration) *Resolver {
	return &Resolver{
		store:  store,
		global: global,
		cache:  database.NewCache[string, string](10000, ttl),
		gens:   make(map[string]uint64),
	}
}

// Global returns the default prefix
func (r *Resolver) Global() string {
	return r.global
}

// Resolve returns the prefix for a guild. DMs (empty guildID) use the global
// prefix. When the store fails, the last known value is used if any.
func (r *Resolver) Resolve(ctx context.Context, guildID string) string {
	if guildID == "" {
		return r.global
	}
	if p, ok := r.cache.Get(guildID); ok {
		return r.orGlobal(p)
	}

	v, err, _ := r.group.Do(guildID, func() (interface{}, error) {
		gen := r.generation(guildID)
		p, err := r.store.GuildPrefix(ctx, guildID)
		if err != nil {
			return "", err
		}
		r.fill(guildID, gen, p)
		return p, nil
	})
	if err != nil {
		if stale, _, ok := r.cache.GetStale(guildID); ok {
			logger.Warn(fmt.Sprintf("Usando prefijo en caché para %s: %v", guildID, err), "Prefix")
			return r.orGlobal(stale)
		}
		logger.Warn(fmt.Sprintf("No se pudo leer el prefijo de %s: %v", guildID, err), "Prefix")
		return r.global
	}
	return r.orGlobal(v.(string))
}

func (r *Resolver) orGlobal(p string) string {
	if p == "" {
		return r.global
	}
	return p
}

// Set validates and stores a guild prefix
func (r *Resolver) Set(ctx context.Context, guildID, prefix string) error {
	if err := Validate(prefix); err != nil {
		return err
	}
	defer r.Invalidate(guildID)
	return r.store.SetGuildPrefix(ctx, guildID, prefix)
}

// Invalidate drops the cached prefix of a guild. Loads in flight for it
// are detached so the next Resolve reads the store again.
func (r *Resolver) Invalidate(guildID string) {
	r.mu.Lock()
	r.gens[guildID]++
	r.cache.Delete(guildID)
	r.mu.Unlock()
	r.group.Forget(guildID)
}

func (r *Resolver) generation(guildID string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gens[guildID]
}

// fill caches p unless guildID was invalidated since gen was read
func (r *Resolver) fill(guildID string, gen uint64, p string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gens[guildID] != gen {
		return
	}
	r.cache.Set(guildID, p)
}

// Validate checks that a prefix is 1 to MaxLength characters without spaces
func Validate(prefix string) error {
	if prefix == "" {
		return ErrEmpty
	}
	if utf8.RuneCountInString(prefix) > MaxLength {
		return ErrTooLong
	}
	if strings.IndexFunc(prefix, unicode.IsSpace) >= 0 {
		return ErrWhitespace
	}
	return nil
}
