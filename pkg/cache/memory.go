package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type entry[V any] struct {
	val       V
	expiresAt time.Time
}

// Memory is an in-process cache over a size-bounded expirable LRU.
type Memory[V any] struct {
	lru        *expirable.LRU[string, entry[V]]
	defaultTTL time.Duration
	closed     atomic.Bool
	now        func() time.Time
}

// MemoryOption configures a Memory cache.
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	maxEntries int
	defaultTTL time.Duration
	onEvict    func(key string)
}

// WithMaxEntries bounds the number of entries. Default: 1024.
func WithMaxEntries(n int) MemoryOption {
	return func(o *memoryOptions) {
		if n > 0 {
			o.maxEntries = n
		}
	}
}

// WithDefaultTTL sets the TTL applied on Set with zero TTL. Default: 1 hour.
func WithDefaultTTL(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		if d > 0 {
			o.defaultTTL = d
		}
	}
}

// WithEvictCallback is called with the key of every evicted or expired entry.
func WithEvictCallback(fn func(key string)) MemoryOption {
	return func(o *memoryOptions) {
		o.onEvict = fn
	}
}

// NewMemory creates an in-memory cache.
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	o := &memoryOptions{maxEntries: 1024, defaultTTL: time.Hour}
	for _, opt := range opts {
		opt(o)
	}

	var onEvict expirable.EvictCallback[string, entry[V]]
	if o.onEvict != nil {
		cb := o.onEvict
		onEvict = func(key string, _ entry[V]) { cb(key) }
	}

	return &Memory[V]{
		lru:        expirable.NewLRU(o.maxEntries, onEvict, o.defaultTTL),
		defaultTTL: o.defaultTTL,
		now:        time.Now,
	}
}

func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	var zero V
	if m.closed.Load() {
		return zero, ErrClosed
	}

	e, ok := m.lru.Get(key)
	if !ok {
		return zero, ErrNotFound
	}
	if !m.now().Before(e.expiresAt) {
		m.lru.Remove(key)
		return zero, ErrNotFound
	}
	return e.val, nil
}

// Set stores value. A TTL above the default is capped by the LRU expiry.
func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if ttl <= 0 {
		ttl = m.defaultTTL
	}
	m.lru.Add(key, entry[V]{val: value, expiresAt: m.now().Add(ttl)})
	return nil
}

func (m *Memory[V]) Delete(_ context.Context, key string) error {
	if m.closed.Load() {
		return ErrClosed
	}
	m.lru.Remove(key)
	return nil
}

// Len reports the number of entries, including ones not yet purged.
func (m *Memory[V]) Len() int {
	return m.lru.Len()
}

// Close purges all entries. Subsequent calls return ErrClosed.
func (m *Memory[V]) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	m.lru.Purge()
	return nil
}

var _ Cache[any] = (*Memory[any])(nil)
