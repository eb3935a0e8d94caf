package memo

import (
	"context"
	"maps"
	"sync"
)

type inFlightCall[T any] struct {
	sync.WaitGroup
	val T
	err error
}

// newFlight should be called with a lock.
func (c *Cache[T]) newFlight(key string) *inFlightCall[T] {
	call := new(inFlightCall[T])
	call.Add(1)
	c.inFlightMap[key] = call
	return call
}

// newBatchFlight should be called with a lock.
func (c *Cache[T]) newBatchFlight(ids []string, keyFn KeyFn) *inFlightCall[map[string]T] {
	call := new(inFlightCall[map[string]T])
	call.val = make(map[string]T, len(ids))
	call.Add(1)
	for _, id := range ids {
		c.inFlightBatchMap[keyFn(id)] = call
	}
	return call
}

func (c *Cache[T]) endFlight(call *inFlightCall[T], key string) {
	call.Done()
	c.inFlightMutex.Lock()
	delete(c.inFlightMap, key)
	c.inFlightMutex.Unlock()
}

func (c *Cache[T]) endBatchFlight(ids []string, keyFn KeyFn, call *inFlightCall[map[string]T]) {
	call.Done()
	c.inFlightBatchMutex.Lock()
	for _, id := range ids {
		delete(c.inFlightBatchMap, keyFn(id))
	}
	c.inFlightBatchMutex.Unlock()
}

func (c *Cache[T]) endErrorFlight(call *inFlightCall[T], key string, err error) error {
	call.err = err
	c.endFlight(call, key)
	return err
}

// callAndStore invokes the supplier for a key that missed, and stores
// the result on success. Failed computations store nothing, and the
// supplier's error surfaces unchanged. Concurrent callers for the same
// key wait for the first caller's supplier rather than invoking their
// own.
func callAndStore[T any](ctx context.Context, c *Cache[T], key string, supplier Supplier[T]) (T, error) {
	c.inFlightMutex.Lock()
	if call, ok := c.inFlightMap[key]; ok {
		c.inFlightMutex.Unlock()
		call.Wait()
		return call.val, call.err
	}

	// The key might have been populated between the caller's miss and
	// us taking the lock. A populated key is never recomputed.
	if value, ok := c.getShard(key).get(key); ok {
		c.inFlightMutex.Unlock()
		return value, nil
	}

	call := c.newFlight(key)
	c.inFlightMutex.Unlock()

	response, err := supplier(ctx)
	if err != nil {
		c.reportComputationFailure()
		return response, c.endErrorFlight(call, key, err)
	}
	c.reportComputation()

	// setIfAbsent keeps the first value that was ever stored for the
	// key, so waiters always observe the same value as readers.
	stored := c.setIfAbsent(key, response)
	call.val = stored
	call.err = nil
	c.endFlight(call, key)
	return stored, nil
}

type makeBatchCallOpts[T any] struct {
	ids      []string
	supplier BatchSupplier[T]
	keyFn    KeyFn
	call     *inFlightCall[map[string]T]
}

func makeBatchCall[T any](ctx context.Context, c *Cache[T], opts makeBatchCallOpts[T]) {
	c.reportBatchComputationSize(len(opts.ids))

	response, err := opts.supplier(ctx, opts.ids)
	if err != nil {
		c.reportComputationFailure()
		opts.call.err = err
		c.endBatchFlight(opts.ids, opts.keyFn, opts.call)
		return
	}
	c.reportComputation()

	// Store the records. Ids that are missing from the response are
	// not stored; a later batch will ask the supplier for them again.
	for id, record := range response {
		opts.call.val[id] = c.setIfAbsent(opts.keyFn(id), record)
	}
	c.endBatchFlight(opts.ids, opts.keyFn, opts.call)
}

// callAndStoreBatch invokes the batch supplier for the ids that
// missed, deduplicating against batch computations that are already in
// flight for any of the keys.
func callAndStoreBatch[T any](ctx context.Context, c *Cache[T], ids []string, keyFn KeyFn, supplier BatchSupplier[T]) (map[string]T, error) {
	c.inFlightBatchMutex.Lock()

	// We need to keep track of the specific ids we're after for a particular call.
	callIDs := make(map[*inFlightCall[map[string]T]][]string)
	uniqueIDs := make([]string, 0, len(ids))
	stored := make(map[string]T)
	for _, id := range ids {
		key := keyFn(id)
		// An id might have been populated between the caller's miss and
		// us taking the lock. A populated key is never recomputed.
		if value, ok := c.getShard(key).get(key); ok {
			stored[id] = value
			continue
		}
		if call, ok := c.inFlightBatchMap[key]; ok {
			callIDs[call] = append(callIDs[call], id)
			continue
		}
		uniqueIDs = append(uniqueIDs, id)
	}

	if len(uniqueIDs) > 0 {
		call := c.newBatchFlight(uniqueIDs, keyFn)
		callIDs[call] = append(callIDs[call], uniqueIDs...)

		safeGo(c.log, func() {
			makeBatchCall(ctx, c, makeBatchCallOpts[T]{
				ids:      uniqueIDs,
				supplier: supplier,
				keyFn:    keyFn,
				call:     call,
			})
		})
	}
	c.inFlightBatchMutex.Unlock()

	response := make(map[string]T, len(ids))
	maps.Copy(response, stored)
	for call, ids := range callIDs {
		call.Wait()
		if call.err != nil {
			return response, call.err
		}

		// Remember: we need to iterate through the ids we have for
		// this call. We might just need one id and the in-flight batch
		// could contain a hundred.
		for _, id := range ids {
			if v, ok := call.val[id]; ok {
				response[id] = v
			}
		}
	}

	return response, nil
}
