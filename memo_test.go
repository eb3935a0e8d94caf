package memo_test

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")

func randKey(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}

type TestMetricsRecorder struct {
	sync.Mutex
	cacheHits           int
	cacheMisses         int
	computations        int
	computationFailures int
	shards              map[int]int
	batchSizes          []int
}

func newTestMetricsRecorder(numShards int) *TestMetricsRecorder {
	return &TestMetricsRecorder{
		shards:     make(map[int]int, numShards),
		batchSizes: make([]int, 0),
	}
}

func (r *TestMetricsRecorder) CacheHit() {
	r.Lock()
	defer r.Unlock()
	r.cacheHits++
}

func (r *TestMetricsRecorder) CacheMiss() {
	r.Lock()
	defer r.Unlock()
	r.cacheMisses++
}

func (r *TestMetricsRecorder) Computation() {
	r.Lock()
	defer r.Unlock()
	r.computations++
}

func (r *TestMetricsRecorder) ComputationFailure() {
	r.Lock()
	defer r.Unlock()
	r.computationFailures++
}

func (r *TestMetricsRecorder) BatchComputationSize(n int) {
	r.Lock()
	defer r.Unlock()
	r.batchSizes = append(r.batchSizes, n)
}

func (r *TestMetricsRecorder) ShardIndex(index int) {
	r.Lock()
	defer r.Unlock()
	r.shards[index]++
}

func (r *TestMetricsRecorder) ObserveCacheSize(_ func() int) {}

type ComputeObserver struct {
	sync.Mutex
	computeCount     int
	requestedRecords []string
	response         string
	batchResponse    map[string]string
	err              error
	ComputeCompleted chan struct{}
}

func NewComputeObserver(bufferSize int) *ComputeObserver {
	return &ComputeObserver{
		requestedRecords: make([]string, 0),
		ComputeCompleted: make(chan struct{}, bufferSize),
	}
}

func (o *ComputeObserver) Response(id string) {
	o.Lock()
	defer o.Unlock()
	o.response = "value" + id
}

// BatchResponse adds a response to the response cache for each id in ids.
func (o *ComputeObserver) BatchResponse(ids []string) {
	o.Lock()
	defer o.Unlock()

	responseMap := make(map[string]string, len(ids))
	for _, id := range ids {
		responseMap[id] = "value" + id
	}
	o.batchResponse = responseMap
}

func (o *ComputeObserver) Err(err error) {
	o.Lock()
	defer o.Unlock()
	o.err = err
}

// Clear resets the responses, requested records, and error state.
func (o *ComputeObserver) Clear() {
	o.Lock()
	defer o.Unlock()

	o.response = ""
	o.batchResponse = make(map[string]string)
	o.requestedRecords = make([]string, 0)
	o.err = nil
}

func (o *ComputeObserver) Compute(_ context.Context) (string, error) {
	o.Lock()
	defer func() {
		o.ComputeCompleted <- struct{}{}
		o.Unlock()
	}()

	o.computeCount++
	return o.response, o.err
}

func (o *ComputeObserver) ComputeBatch(_ context.Context, ids []string) (map[string]string, error) {
	o.Lock()
	defer func() {
		o.ComputeCompleted <- struct{}{}
		o.Unlock()
	}()

	copiedIDs := make([]string, len(ids))
	copy(copiedIDs, ids)
	o.requestedRecords = copiedIDs
	o.computeCount++

	if o.err != nil {
		return nil, o.err
	}

	response := make(map[string]string)
	for _, id := range ids {
		if val, ok := o.batchResponse[id]; ok {
			response[id] = val
		}
	}

	return response, nil
}

func (o *ComputeObserver) AssertRequestedRecords(t *testing.T, ids []string) {
	t.Helper()
	o.Lock()
	defer o.Unlock()

	sort.Strings(ids)
	sort.Strings(o.requestedRecords)
	if !cmp.Equal(ids, o.requestedRecords) {
		t.Error(cmp.Diff(ids, o.requestedRecords))
	}
}

func (o *ComputeObserver) AssertComputeCount(t *testing.T, count int) {
	t.Helper()
	o.Lock()
	defer o.Unlock()

	if count != o.computeCount {
		t.Errorf("expected compute count %d, got %d", count, o.computeCount)
	}
}
