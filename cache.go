// Package memo provides a generic, goroutine-safe memoizing lookup
// cache. Values are computed lazily by a caller-supplied function on
// the first miss for a key and kept for the lifetime of the cache.
// There is no eviction, expiry, or invalidation: once a key has been
// populated, later misses for the same key never overwrite it.
package memo

import (
	"context"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
)

// Supplier represents a function that computes the value for a single
// key. It is only invoked when a lookup misses.
type Supplier[T any] func(ctx context.Context) (T, error)

// BatchSupplier represents a function that computes the values for
// multiple ids at once. The returned map is keyed by id; ids that the
// supplier could not produce a value for are simply left out.
type BatchSupplier[T any] func(ctx context.Context, ids []string) (map[string]T, error)

// KeyFn is invoked for each id that takes part in a batch operation.
// It is used to create unique cache keys.
type KeyFn func(id string) string

// Config holds the configuration that is shared by every shard.
type Config struct {
	log             *zap.Logger
	metricsRecorder MetricsRecorder
}

// Cache is a sharded memoizing cache for values of type T.
type Cache[T any] struct {
	*Config
	shards []*shard[T]

	inFlightMutex      sync.Mutex
	inFlightMap        map[string]*inFlightCall[T]
	inFlightBatchMutex sync.Mutex
	inFlightBatchMap   map[string]*inFlightCall[map[string]T]
}

// New creates a new Cache instance with the specified configuration.
//
// `numShards` sets the number of shards that the keyspace is split
// across. Has to be greater than 0.
// `opts` allows for additional configurations to be applied.
func New[T any](numShards int, opts ...Option) *Cache[T] {
	validateArgs(numShards)

	cfg := &Config{
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	shards := make([]*shard[T], numShards)
	for i := 0; i < numShards; i++ {
		shards[i] = newShard[T]()
	}

	cache := &Cache[T]{
		Config:           cfg,
		shards:           shards,
		inFlightMap:      make(map[string]*inFlightCall[T]),
		inFlightBatchMap: make(map[string]*inFlightCall[map[string]T]),
	}

	if cfg.metricsRecorder != nil {
		cfg.metricsRecorder.ObserveCacheSize(cache.Size)
	}

	return cache
}

// Size returns the number of entries in the cache.
func (c *Cache[T]) Size() int {
	var sum int
	for _, shard := range c.shards {
		sum += shard.size()
	}
	return sum
}

// ScanKeys returns every key that is currently present in the cache.
func (c *Cache[T]) ScanKeys() []string {
	keys := make([]string, 0, c.Size())
	for _, shard := range c.shards {
		keys = append(keys, shard.keys()...)
	}
	return keys
}

// getShard returns the shard that should be used for the specified key.
func (c *Cache[T]) getShard(key string) *shard[T] {
	hash := xxhash.Sum64String(key)
	shardIndex := hash % uint64(len(c.shards))
	c.reportShardIndex(int(shardIndex))
	return c.shards[shardIndex]
}

// setIfAbsent writes a value for the key unless one is already
// present. It returns the value that is in the cache after the call,
// which is the first value that was ever stored for the key.
func (c *Cache[T]) setIfAbsent(key string, value T) T {
	shard := c.getShard(key)
	return shard.setIfAbsent(key, value)
}
