package query

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/spektr-org/pairplot/logger"
)

// DefaultCacheTTL is how long a query result stays cached.
const DefaultCacheTTL = 2 * time.Minute

// CachedExecutor memoizes results of an inner Executor by query text.
// Errors are never cached. Safe for concurrent use.
type CachedExecutor struct {
	inner  Executor
	cache  *cache.Cache
	hits   atomic.Int64
	misses atomic.Int64
}

// NewCachedExecutor wraps inner with a TTL cache. ttl <= 0 means
// DefaultCacheTTL.
func NewCachedExecutor(inner Executor, ttl time.Duration) *CachedExecutor {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedExecutor{
		inner: inner,
		cache: cache.New(ttl, 2*ttl),
	}
}

// Execute returns the cached result for q or runs it on the inner executor.
func (c *CachedExecutor) Execute(ctx context.Context, q string) (*Result, error) {
	key := strings.TrimSpace(q)

	if cached, found := c.cache.Get(key); found {
		c.hits.Add(1)
		logger.Named("query").Debugw("query cache hit", logger.FieldCacheHit, true)
		return cached.(*Result), nil
	}

	c.misses.Add(1)
	result, err := c.inner.Execute(ctx, q)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, result, cache.DefaultExpiration)
	return result, nil
}

// Stats returns cache hit and miss counts.
func (c *CachedExecutor) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
