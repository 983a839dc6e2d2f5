package server

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/1ou/danton/internal/search"
	pkgredis "github.com/1ou/danton/pkg/redis"
)

const cacheKeyPrefix = "search:"

// QueryCache caches ranked results in Redis keyed by the normalised query
// and limit. Concurrent misses for the same key are collapsed with
// singleflight so the engine runs each query once.
type QueryCache struct {
	client *pkgredis.Client
	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

// NewQueryCache wraps a Redis client as a query cache.
func NewQueryCache(client *pkgredis.Client, ttl time.Duration) *QueryCache {
	return &QueryCache{
		client: client,
		ttl:    ttl,
		logger: slog.Default().With("component", "query-cache"),
	}
}

// Get fetches a cached result; the second return reports a hit.
func (c *QueryCache) Get(ctx context.Context, query string, k int) (*search.Result, bool) {
	key := c.buildKey(query, k)
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.misses.Add(1)
		return nil, false
	}
	var result search.Result
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return &result, true
}

// Set stores a result under the query's key.
func (c *QueryCache) Set(ctx context.Context, query string, k int, result *search.Result) {
	key := c.buildKey(query, k)
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached result or computes and stores it. The
// bool reports whether the result came from the cache.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	query string,
	k int,
	computeFn func() (*search.Result, error),
) (*search.Result, bool, error) {
	if result, ok := c.Get(ctx, query, k); ok {
		return result, true, nil
	}
	key := c.buildKey(query, k)
	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		result, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, query, k, result)
		return result, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.(*search.Result), false, nil
}

// Invalidate drops every cached query result. Called after a rebuild, since
// scores from the old segment are stale.
func (c *QueryCache) Invalidate(ctx context.Context) error {
	deleted, err := c.client.FlushByPattern(ctx, cacheKeyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating query cache: %w", err)
	}
	c.logger.Info("query cache invalidated", "keys_deleted", deleted)
	return nil
}

// Stats returns cumulative hit and miss counts.
func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *QueryCache) buildKey(query string, k int) string {
	raw := fmt.Sprintf("%s:k=%d", normalizeQuery(query), k)
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%x", cacheKeyPrefix, hash[:16])
}

// normalizeQuery sorts the query's terms so term order, which cannot change
// a conjunctive result, does not fragment the cache. Case is preserved to
// match the whitespace tokenizer's behaviour.
func normalizeQuery(query string) string {
	terms := strings.Fields(query)
	sort.Strings(terms)
	return strings.Join(terms, " ")
}
