package cache

import (
	"github.com/explore-flights/farefinder/common/concurrent"
	"time"
)

type entry[T any] struct {
	value   T
	expires time.Time
}

type options struct {
	now func() time.Time
}

type Option func(o *options)

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// Cache is a key/value store with per-entry expiry and no other eviction.
// If a clone func is given, values are copied on the way in and out.
type Cache[T any] struct {
	entries concurrent.Map[string, entry[T]]
	clone   func(T) T
	now     func() time.Time
}

func New[T any](clone func(T) T, opts ...Option) *Cache[T] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	return &Cache[T]{
		entries: concurrent.NewMap[string, entry[T]](),
		clone:   clone,
		now:     o.now,
	}
}

func (c *Cache[T]) Get(key string) (T, bool) {
	e, ok := c.entries.Load(key)
	if !ok {
		var zero T
		return zero, false
	}

	if !c.now().Before(e.expires) {
		c.entries.CompareAndDelete(key, func(v entry[T]) bool {
			return v.expires.Equal(e.expires)
		})

		var zero T
		return zero, false
	}

	return c.cloneValue(e.value), true
}

// Set stores value for ttl. A non-positive ttl removes the key.
func (c *Cache[T]) Set(key string, value T, ttl time.Duration) {
	if ttl <= 0 {
		c.entries.Delete(key)
		return
	}

	c.entries.Store(key, entry[T]{
		value:   c.cloneValue(value),
		expires: c.now().Add(ttl),
	})
}

// Sweep removes all expired entries and returns how many were removed.
func (c *Cache[T]) Sweep() int {
	now := c.now()
	return c.entries.DeleteFunc(func(_ string, e entry[T]) bool {
		return !now.Before(e.expires)
	})
}

func (c *Cache[T]) Len() int {
	return c.entries.Len()
}

func (c *Cache[T]) cloneValue(v T) T {
	if c.clone == nil {
		return v
	}

	return c.clone(v)
}
