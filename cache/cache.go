// Package cache memoizes compiled filters.  Compilation resolves names and
// builds evaluators; for workloads that run the same handful of filter
// expressions against a stream of contexts, caching the compiled form keeps
// that work off the per-request path.
package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sievedata/sieve"
	"github.com/sievedata/sieve/compiler"
	"github.com/sievedata/sieve/expr"
)

// A Cache holds compiled filters for one scheme, keyed by filter source
// text.  Compiled filters are immutable, so a cached filter may be shared by
// any number of concurrent executions.  Get is safe for concurrent use;
// concurrent misses on the same key may compile twice, with the last result
// kept.
type Cache struct {
	scheme *sieve.Scheme
	lru    *lru.Cache[string, *expr.Filter]
	hits   atomic.Int64
	misses atomic.Int64
}

func New(scheme *sieve.Scheme, size int) (*Cache, error) {
	c, err := lru.New[string, *expr.Filter](size)
	if err != nil {
		return nil, err
	}
	return &Cache{scheme: scheme, lru: c}, nil
}

func (c *Cache) Scheme() *sieve.Scheme { return c.scheme }

// Get returns the compiled form of src, compiling it on a miss.
func (c *Cache) Get(src string) (*expr.Filter, error) {
	if f, ok := c.lru.Get(src); ok {
		c.hits.Add(1)
		return f, nil
	}
	c.misses.Add(1)
	f, err := compiler.Compile(c.scheme, src)
	if err != nil {
		return nil, err
	}
	c.lru.Add(src, f)
	return f, nil
}

// Stats reports cumulative hit and miss counts and the number of filters
// currently cached.
func (c *Cache) Stats() (hits, misses int64, entries int) {
	return c.hits.Load(), c.misses.Load(), c.lru.Len()
}
