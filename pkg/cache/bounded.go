package cache

// DefaultMaxSize is the entry limit used when a Bounded cache is created with
// a non-positive size.
const DefaultMaxSize = 50

// Bounded is an in-memory key→value map holding at most MaxSize entries.
// When an insert would exceed the limit the oldest inserted key is evicted
// first (first-in, first-out; lookups do not refresh an entry's age).
//
// A Bounded cache belongs to a single renderer and is not safe for concurrent
// use. Callers that render from several goroutines must serialize access.
type Bounded[K comparable, V any] struct {
	max     int
	entries map[K]V
	order   []K

	// OnEvict, if set, is called with each key removed to make room.
	OnEvict func(key K, value V)
}

// NewBounded creates a cache that holds at most max entries.
func NewBounded[K comparable, V any](max int) *Bounded[K, V] {
	if max <= 0 {
		max = DefaultMaxSize
	}
	return &Bounded[K, V]{
		max:     max,
		entries: make(map[K]V, max),
		order:   make([]K, 0, max),
	}
}

// Get returns the value stored under key.
func (c *Bounded[K, V]) Get(key K) (V, bool) {
	v, ok := c.entries[key]
	return v, ok
}

// Set stores value under key. Re-setting an existing key replaces the value
// but keeps its original insertion position.
func (c *Bounded[K, V]) Set(key K, value V) {
	if _, exists := c.entries[key]; exists {
		c.entries[key] = value
		return
	}
	c.entries[key] = value
	c.order = append(c.order, key)
	for len(c.order) > c.max {
		c.evictOldest()
	}
}

// Delete removes key from the cache. It reports whether the key was present.
func (c *Bounded[K, V]) Delete(key K) bool {
	if _, ok := c.entries[key]; !ok {
		return false
	}
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of cached entries.
func (c *Bounded[K, V]) Len() int { return len(c.entries) }

// MaxSize returns the entry limit.
func (c *Bounded[K, V]) MaxSize() int { return c.max }

// Keys returns the cached keys, oldest first.
func (c *Bounded[K, V]) Keys() []K {
	out := make([]K, len(c.order))
	copy(out, c.order)
	return out
}

// Clear drops every entry without calling OnEvict.
func (c *Bounded[K, V]) Clear() {
	clear(c.entries)
	c.order = c.order[:0]
}

func (c *Bounded[K, V]) evictOldest() {
	oldest := c.order[0]
	c.order = c.order[1:]
	v := c.entries[oldest]
	delete(c.entries, oldest)
	if c.OnEvict != nil {
		c.OnEvict(oldest, v)
	}
}
