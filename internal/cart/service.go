package cart

import (
	"context"

	"go.uber.org/zap"

	"github.com/matthieukhl/naturemagic/internal/catalog"
)

// Service applies cart operations to session carts held in a Store.
// Every mutation is load, mutate, save, run under the session's lock so
// concurrent requests on one session never lose updates.
type Service struct {
	store   Store
	catalog *catalog.Catalog
	logger  *zap.Logger

	locks sessionLocks
	guard func(sessionID string) error
}

func NewService(store Store, cat *catalog.Catalog, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:   store,
		catalog: cat,
		logger:  logger.Named("cart"),
	}
}

// SetGuard installs a check run under the session lock before every mutation.
// A non-nil error rejects the mutation.
func (s *Service) SetGuard(guard func(sessionID string) error) {
	s.guard = guard
}

// WithSession runs fn while holding the session's lock, so no mutation can
// interleave with it. fn must not call the mutating methods of s.
func (s *Service) WithSession(sessionID string, fn func() error) error {
	unlock := s.locks.lock(sessionID)
	defer unlock()
	return fn()
}

// begin takes the session lock and runs the guard.
func (s *Service) begin(sessionID string) (func(), error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}
	unlock := s.locks.lock(sessionID)
	if s.guard != nil {
		if err := s.guard(sessionID); err != nil {
			unlock()
			return nil, err
		}
	}
	return unlock, nil
}

func (s *Service) Cart(ctx context.Context, sessionID string) (*Cart, error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}
	return s.store.Load(ctx, sessionID)
}

// Add resolves the product and variant in the catalog and adds one unit.
// It returns the updated cart and the index of the affected line.
func (s *Service) Add(ctx context.Context, sessionID, productID, variantID string) (*Cart, int, error) {
	product, variant, err := s.catalog.Variant(productID, variantID)
	if err != nil {
		return nil, -1, err
	}
	return s.AddProduct(ctx, sessionID, product, variant)
}

func (s *Service) AddProduct(ctx context.Context, sessionID string, product catalog.Product, variant catalog.Variant) (*Cart, int, error) {
	unlock, err := s.begin(sessionID)
	if err != nil {
		return nil, -1, err
	}
	defer unlock()

	c, err := s.Cart(ctx, sessionID)
	if err != nil {
		return nil, -1, err
	}

	index := c.Add(product, variant)
	if err := s.store.Save(ctx, sessionID, c); err != nil {
		return nil, -1, err
	}

	s.logger.Info("added item",
		zap.String("session_id", sessionID),
		zap.String("product_id", product.ID),
		zap.String("variant_id", variant.ID),
		zap.Int("quantity", c.Items[index].Quantity))
	return c, index, nil
}

func (s *Service) UpdateQuantity(ctx context.Context, sessionID string, index, quantity int) (*Cart, error) {
	unlock, err := s.begin(sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	c, err := s.Cart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := c.UpdateQuantity(index, quantity); err != nil {
		s.logger.Debug("rejected quantity update",
			zap.String("session_id", sessionID),
			zap.Int("index", index),
			zap.Int("quantity", quantity),
			zap.Error(err))
		return c, err
	}
	if err := s.store.Save(ctx, sessionID, c); err != nil {
		return nil, err
	}

	s.logger.Info("updated quantity",
		zap.String("session_id", sessionID),
		zap.Int("index", index),
		zap.Int("new_quantity", quantity))
	return c, nil
}

func (s *Service) Remove(ctx context.Context, sessionID string, index int) (*Cart, error) {
	unlock, err := s.begin(sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	c, err := s.Cart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := c.Remove(index); err != nil {
		return c, err
	}
	if err := s.store.Save(ctx, sessionID, c); err != nil {
		return nil, err
	}

	s.logger.Info("removed item", zap.String("session_id", sessionID), zap.Int("index", index))
	return c, nil
}
