package state

import (
	"context"
	"sync"
)

// Store is the key-value persistence surface for the usage blob.
// Implemented by MemoryStore (dev) and RedisStore (prod).
type Store interface {
	// Load returns the raw blob, or found=false when no blob exists.
	Load(ctx context.Context) (data []byte, found bool, err error)
	// Save overwrites the blob.
	Save(ctx context.Context, data []byte) error
	// Delete removes the blob.
	Delete(ctx context.Context) error
}

// MemoryStore keeps the blob in process memory. State does not survive
// a restart; use the redis backend when it has to.
type MemoryStore struct {
	mu   sync.RWMutex
	data []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data == nil {
		return nil, false, nil
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, true, nil
}

func (s *MemoryStore) Save(_ context.Context, data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)

	s.mu.Lock()
	s.data = cp
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context) error {
	s.mu.Lock()
	s.data = nil
	s.mu.Unlock()
	return nil
}
