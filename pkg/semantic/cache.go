package semantic

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// CacheOption customises a Cache.
type CacheOption func(*Cache)

// WithLogger attaches a structured logger. Defaults to zerolog.Nop().
func WithLogger(logger zerolog.Logger) CacheOption {
	return func(c *Cache) {
		c.logger = logger
	}
}

// WithInterpreterFactory overrides interpreter selection.
func WithInterpreterFactory(factory InterpreterFactory) CacheOption {
	return func(c *Cache) {
		if factory != nil {
			c.factory = factory
		}
	}
}

// Cache memoises semantic models per type. Concurrent first access to the
// same type builds exactly once; unrelated types never wait on each other.
type Cache struct {
	entries sync.Map
	factory InterpreterFactory
	logger  zerolog.Logger
	builds  atomic.Int64
}

type cacheEntry struct {
	once  sync.Once
	model *Model
	err   error
}

// NewCache constructs an empty cache.
func NewCache(options ...CacheOption) *Cache {
	c := &Cache{
		factory: InterpreterFor,
		logger:  zerolog.Nop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Model returns the cached model for t, building it on first use. Definition
// errors are cached as well; a type that failed once fails the same way.
func (c *Cache) Model(t reflect.Type) (*Model, error) {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return Build(nil, nil)
	}

	raw, _ := c.entries.LoadOrStore(t, &cacheEntry{})
	entry := raw.(*cacheEntry)
	entry.once.Do(func() {
		c.builds.Add(1)
		entry.model, entry.err = Build(t, c.factory(t))
		if entry.err != nil {
			c.logger.Warn().Err(entry.err).Str("type", t.String()).Msg("semantic model build failed")
			return
		}
		c.logger.Debug().
			Str("type", t.String()).
			Str("variant", string(entry.model.Variant())).
			Int("properties", len(entry.model.props)).
			Msg("semantic model built")
	})
	return entry.model, entry.err
}

// Builds returns how many models were built (including failed builds).
func (c *Cache) Builds() int64 {
	return c.builds.Load()
}

// Of returns the cached model for T.
func Of[T any](c *Cache) (*Model, error) {
	return c.Model(reflect.TypeOf((*T)(nil)).Elem())
}
