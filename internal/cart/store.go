package cart

import (
	"context"
	"sync"
)

// Store persists carts per session. Load returns an empty cart for unknown sessions.
type Store interface {
	Load(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, sessionID string, c *Cart) error
}

// MemoryStore keeps carts in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]*Cart
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		carts: make(map[string]*Cart),
	}
}

func (s *MemoryStore) Load(ctx context.Context, sessionID string) (*Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.carts[sessionID]
	if !ok {
		return New(), nil
	}
	return c.Clone(), nil
}

func (s *MemoryStore) Save(ctx context.Context, sessionID string, c *Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[sessionID] = c.Clone()
	return nil
}

var _ Store = (*MemoryStore)(nil)
