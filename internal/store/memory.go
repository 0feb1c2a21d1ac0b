package store

import (
	"context"
	"sync"
)

// MemoryStore is an in-process store, used for the ephemeral backend and
// in tests. An optional byte quota makes writes fail the way a full browser
// storage area does.
type MemoryStore struct {
	mu    sync.RWMutex
	data  map[string][]byte
	quota int
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithQuota limits the total size of keys plus values. 0 means unlimited.
func WithQuota(bytes int) MemoryOption {
	return func(s *MemoryStore) {
		s.quota = bytes
	}
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{data: make(map[string][]byte)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns a copy of the value under key.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateKey(key); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores value under key.
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	return s.Apply(ctx, Put(key, value))
}

// Delete removes key.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	return s.Apply(ctx, Remove(key))
}

// Apply commits ops against a staged copy so a quota failure changes nothing.
func (s *MemoryStore) Apply(ctx context.Context, ops ...Op) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateOps(ops); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	staged := make(map[string][]byte, len(s.data)+len(ops))
	for k, v := range s.data {
		staged[k] = v
	}
	for _, op := range ops {
		if op.Delete {
			delete(staged, op.Key)
			continue
		}
		staged[op.Key] = append([]byte(nil), op.Value...)
	}

	if s.quota > 0 && size(staged) > s.quota {
		return ErrQuotaExceeded
	}

	s.data = staged
	return nil
}

// Keys returns the number of stored keys
func (s *MemoryStore) Keys() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func size(m map[string][]byte) int {
	n := 0
	for k, v := range m {
		n += len(k) + len(v)
	}
	return n
}
