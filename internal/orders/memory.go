package orders

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryRepository keeps orders in process memory.
type MemoryRepository struct {
	mu     sync.RWMutex
	orders map[string]*Order
	byKey  map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		orders: make(map[string]*Order),
		byKey:  make(map[string]string),
	}
}

func (r *MemoryRepository) Save(ctx context.Context, order *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[order.ID]; exists {
		return fmt.Errorf("%w: id %s", ErrDuplicateOrder, order.ID)
	}
	if order.IdempotencyKey != "" {
		if _, exists := r.byKey[order.IdempotencyKey]; exists {
			return fmt.Errorf("%w: key %s", ErrDuplicateOrder, order.IdempotencyKey)
		}
		r.byKey[order.IdempotencyKey] = order.ID
	}

	stored := *order
	r.orders[order.ID] = &stored
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	out := *o
	return &out, nil
}

func (r *MemoryRepository) FindByIdempotencyKey(ctx context.Context, key string) (*Order, error) {
	r.mu.RLock()
	id, ok := r.byKey[key]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: key %s", ErrOrderNotFound, key)
	}
	return r.Get(ctx, id)
}

func (r *MemoryRepository) ListBySession(ctx context.Context, sessionID string) ([]*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Order
	for _, o := range r.orders {
		if o.SessionID == sessionID {
			c := *o
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PlacedAt.Before(out[j].PlacedAt)
	})
	return out, nil
}

var _ Repository = (*MemoryRepository)(nil)
