package cache

import (
	"context"
	"sync"
)

// MemoryStore is an in-process BlobStore. It backs the cache in tests and
// serves as the startup fallback when Redis is unreachable; entries then
// live only as long as the process.
type MemoryStore struct {
	mu   sync.RWMutex
	blob []byte
}

// NewMemoryStore creates an empty in-memory blob store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get returns the stored blob, or nil when nothing has been stored.
func (s *MemoryStore) Get(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.blob == nil {
		return nil, nil
	}
	out := make([]byte, len(s.blob))
	copy(out, s.blob)
	return out, nil
}

// Set stores a copy of the blob.
func (s *MemoryStore) Set(ctx context.Context, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blob = make([]byte, len(blob))
	copy(s.blob, blob)
	return nil
}

// Delete removes the blob.
func (s *MemoryStore) Delete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blob = nil
	return nil
}
