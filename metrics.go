package memo

type MetricsRecorder interface {
	// CacheHit is called for every key that results in a cache hit.
	CacheHit()
	// CacheMiss is called for every key that results in a cache miss.
	CacheMiss()
	// Computation is called every time a supplier produces a value.
	Computation()
	// ComputationFailure is called every time a supplier returns an error.
	ComputationFailure()
	// BatchComputationSize is called to report the number of ids that a
	// batch supplier was invoked with.
	BatchComputationSize(size int)
	// ShardIndex is called to report which shard it was that performed an operation.
	ShardIndex(int)
	// ObserveCacheSize is called to report the size of the cache.
	ObserveCacheSize(callback func() int)
}

// reportCacheHits is used to report cache hits and misses to the metrics recorder.
func (c *Cache[T]) reportCacheHits(cacheHit bool) {
	if c.metricsRecorder == nil {
		return
	}
	if !cacheHit {
		c.metricsRecorder.CacheMiss()
		return
	}
	c.metricsRecorder.CacheHit()
}

func (c *Cache[T]) reportComputation() {
	if c.metricsRecorder == nil {
		return
	}
	c.metricsRecorder.Computation()
}

func (c *Cache[T]) reportComputationFailure() {
	if c.metricsRecorder == nil {
		return
	}
	c.metricsRecorder.ComputationFailure()
}

func (c *Cache[T]) reportBatchComputationSize(n int) {
	if c.metricsRecorder == nil {
		return
	}
	c.metricsRecorder.BatchComputationSize(n)
}

func (c *Cache[T]) reportShardIndex(index int) {
	if c.metricsRecorder == nil {
		return
	}
	c.metricsRecorder.ShardIndex(index)
}
