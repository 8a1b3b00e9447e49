package selector

import (
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// DefaultCacheSize is the default capacity of each of the selector caches.
const DefaultCacheSize = 50

// fifo is a bounded map from selector text to V. Entries are evicted in the
// order of insertion: reads use Peek and therefore never refresh an entry.
type fifo[V any] struct {
	name string
	mu   sync.Mutex
	lru  *simplelru.LRU[string, V]
}

func newFIFO[V any](name string, size int) *fifo[V] {
	c := &fifo[V]{name: name}
	lru, err := simplelru.NewLRU[string, V](size, func(key string, _ V) {
		tracer().Debugf("%s cache evicts %q", name, key)
	})
	if err != nil { // size has been checked by the options
		panic(err)
	}
	c.lru = lru
	return c
}

func (c *fifo[V]) get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Peek(key)
}

// put stores v, unless an entry for key exists already, which is returned
// instead. This way concurrent compilations of the same selector text agree
// on a single instance.
func (c *fifo[V]) put(key string, v V) V {
	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.lru.Peek(key); ok {
		return old
	}
	c.lru.Add(key, v)
	return v
}

func (c *fifo[V]) contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Contains(key)
}

func (c *fifo[V]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

func (c *fifo[V]) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}
