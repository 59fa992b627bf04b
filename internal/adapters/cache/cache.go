// Package cache fronts matrix cache reads with a rendezvous-hashed Redis
// layer. It depends on the minimal client surface actually used so the
// adapter stays testable without a live Redis.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dgryski/go-rendezvous"
	"github.com/redis/go-redis/v9"

	"github.com/orcalabs/kyogre/internal/domain/matrix"
	"github.com/orcalabs/kyogre/internal/infrastructure/config"
)

// RedisCmdable abstracts the minimal Redis surface the cache needs.
// github.com/redis/go-redis/v9's *redis.Client satisfies it directly.
type RedisCmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd
}

// Ring rendezvous-hashes a query key across the configured Redis node
// addresses so a given query always lands on the same node regardless of
// which other nodes are up, matching go-redis's own ring client philosophy
// but keeping the hashing decision visible to this package's callers.
type Ring struct {
	hash  *rendezvous.Rendezvous
	nodes map[string]RedisCmdable
}

// NewRing builds a rendezvous ring from a fixed node-name -> client map.
func NewRing(nodes map[string]RedisCmdable) *Ring {
	names := make([]string, 0, len(nodes))
	for name := range nodes {
		names = append(names, name)
	}
	return &Ring{
		hash:  rendezvous.New(names, xxhash.Sum64String),
		nodes: nodes,
	}
}

func (r *Ring) pick(key string) RedisCmdable {
	return r.nodes[r.hash.Lookup(key)]
}

// QueryCache wraps a matrix.Reader with a rendezvous-hashed Redis read
// cache. Cache misses and errors fall through to the underlying reader;
// a cache malfunction never blocks a query.
type QueryCache struct {
	ring   *Ring
	next   matrix.Reader
	prefix string
	ttl    time.Duration
}

// New builds a QueryCache in front of next using the given ring and
// config.CacheConfig's prefix/ttl.
func New(ring *Ring, next matrix.Reader, cfg *config.CacheConfig) *QueryCache {
	return &QueryCache{ring: ring, next: next, prefix: cfg.KeyPrefix, ttl: cfg.TTL}
}

// Query serves a matrix query from cache when present, otherwise delegates
// to the wrapped reader and populates the cache for next time.
func (c *QueryCache) Query(ctx context.Context, q matrix.Query) ([]matrix.Cell, error) {
	key := c.keyFor(q)
	client := c.ring.pick(key)

	if cached, ok := c.readThrough(ctx, client, key); ok {
		return cached, nil
	}

	cells, err := c.next.Query(ctx, q)
	if err != nil {
		return nil, err
	}

	c.writeThrough(ctx, client, key, cells)
	return cells, nil
}

func (c *QueryCache) readThrough(ctx context.Context, client RedisCmdable, key string) ([]matrix.Cell, bool) {
	raw, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var cells []matrix.Cell
	if err := json.Unmarshal(raw, &cells); err != nil {
		return nil, false
	}
	return cells, true
}

func (c *QueryCache) writeThrough(ctx context.Context, client RedisCmdable, key string, cells []matrix.Cell) {
	raw, err := json.Marshal(cells)
	if err != nil {
		return
	}
	// Best-effort: a failed cache write still leaves the caller with a
	// correct answer from the underlying reader.
	_ = client.Set(ctx, key, raw, c.ttl)
}

// keyFor derives a stable cache key from a query's full field set so two
// distinct queries never collide.
func (c *QueryCache) keyFor(q matrix.Query) string {
	raw, _ := json.Marshal(q)
	sum := sha256.Sum256(raw)
	return fmt.Sprintf("%s:matrix:%x", c.prefix, sum)
}
