package memo

import "errors"

// ErrOnlyCached is returned by Cache.GetOrComputeBatch when some of
// the requested records were available in the cache, but the supplier
// call for the remaining records failed. As the consumer, you can then
// decide whether to proceed with the cached records or if the entire
// batch is necessary.
var ErrOnlyCached = errors.New("memo: failed to compute the records that were not in the cache")
