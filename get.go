package memo

import (
	"context"
	"maps"
)

// Get retrieves a value from the cache. The boolean indicates whether
// the key was present. Get has no side effects beyond metrics.
func (c *Cache[T]) Get(key string) (T, bool) {
	shard := c.getShard(key)
	value, ok := shard.get(key)
	c.reportCacheHits(ok)
	return value, ok
}

// groupIDs splits the ids for a batch operation into cache hits and
// cache misses.
func (c *Cache[T]) groupIDs(ids []string, keyFn KeyFn) (hits map[string]T, misses []string) {
	hits = make(map[string]T)
	misses = make([]string, 0)

	for _, id := range ids {
		value, ok := c.Get(keyFn(id))
		if !ok {
			misses = append(misses, id)
			continue
		}
		hits[id] = value
	}
	return hits, misses
}

// GetOrCompute attempts to retrieve the specified key from the cache.
// If the value is absent, it invokes the supplier to compute it and
// then stores the result before returning it. If the supplier fails,
// nothing is stored and the supplier's error is returned unmodified;
// the next call for the same key will invoke its supplier again.
//
// Concurrent calls for the same missing key share a single supplier
// invocation, so the supplier runs at most once per distinct key.
func (c *Cache[T]) GetOrCompute(ctx context.Context, key string, supplier Supplier[T]) (T, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}
	return callAndStore(ctx, c, key, supplier)
}

// GetOrComputeBatch attempts to retrieve the specified ids from the
// cache. If any of the values are absent, it invokes the supplier once
// for the missing ids and stores each record it returns. Ids that the
// supplier leaves out of its response map are not stored, and won't
// appear in the returned map either.
//
// If the supplier fails while some of the ids were served from the
// cache, the cached subset is returned together with ErrOnlyCached so
// that the caller can decide whether a partial result is usable. With
// no cached records, the supplier's error is returned unmodified.
func (c *Cache[T]) GetOrComputeBatch(ctx context.Context, ids []string, keyFn KeyFn, supplier BatchSupplier[T]) (map[string]T, error) {
	cachedRecords, cacheMisses := c.groupIDs(ids, keyFn)
	if len(cacheMisses) == 0 {
		return cachedRecords, nil
	}

	response, err := callAndStoreBatch(ctx, c, cacheMisses, keyFn, supplier)
	if err != nil {
		// The partial response can still hold records that were found
		// populated while the batch call was set up. Those are just as
		// cached as the hits from the first pass.
		maps.Copy(cachedRecords, response)
		if len(cachedRecords) > 0 {
			return cachedRecords, ErrOnlyCached
		}
		return cachedRecords, err
	}

	maps.Copy(cachedRecords, response)
	return cachedRecords, nil
}
