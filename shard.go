package memo

import "sync"

type shard[T any] struct {
	mu      sync.RWMutex
	entries map[string]T
}

func newShard[T any]() *shard[T] {
	return &shard[T]{
		entries: make(map[string]T),
	}
}

func (s *shard[T]) size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *shard[T]) keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	return keys
}

func (s *shard[T]) get(key string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.entries[key]
	return value, ok
}

// setIfAbsent writes a key-value pair to the shard unless the key is
// already populated. The first value that was stored for the key wins,
// and is the one that gets returned.
func (s *shard[T]) setIfAbsent(key string, value T) T {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.entries[key]; ok {
		return existing
	}

	s.entries[key] = value
	return value
}
