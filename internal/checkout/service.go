package checkout

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/matthieukhl/naturemagic/internal/cart"
	"github.com/matthieukhl/naturemagic/internal/catalog"
	"github.com/matthieukhl/naturemagic/internal/orders"
)

// Service keeps one checkout Machine per session on top of the cart service.
type Service struct {
	carts   *cart.Service
	catalog *catalog.Catalog
	deps    Deps
	logger  *zap.Logger

	mu       sync.Mutex
	machines map[string]*Machine
}

func NewService(carts *cart.Service, cat *catalog.Catalog, deps Deps) *Service {
	deps = deps.withDefaults()
	s := &Service{
		carts:    carts,
		catalog:  cat,
		deps:     deps,
		logger:   deps.Logger.Named("checkout"),
		machines: make(map[string]*Machine),
	}
	carts.SetGuard(s.rejectWhileLocked)
	return s
}

// rejectWhileLocked runs under the cart session lock before every cart mutation.
func (s *Service) rejectWhileLocked(sessionID string) error {
	if s.Locked(sessionID) {
		return ErrCheckoutLocked
	}
	return nil
}

// Mount opens the checkout page for a session. An in-flight submission is kept;
// otherwise a fresh machine is mounted on the current cart.
func (s *Service) Mount(ctx context.Context, sessionID string) (View, error) {
	c, err := s.carts.Cart(ctx, sessionID)
	if err != nil {
		return View{}, err
	}

	s.mu.Lock()
	m, ok := s.machines[sessionID]
	if !ok || m.State() != StateProcessing {
		m = NewMachine(sessionID, c, s.deps)
		s.machines[sessionID] = m
	}
	s.mu.Unlock()

	return m.View(), nil
}

// machine returns the session's machine, mounting one if the page was never opened.
func (s *Service) machine(ctx context.Context, sessionID string) (*Machine, error) {
	s.mu.Lock()
	m, ok := s.machines[sessionID]
	s.mu.Unlock()
	if ok {
		return m, nil
	}

	if _, err := s.Mount(ctx, sessionID); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machines[sessionID], nil
}

func (s *Service) View(ctx context.Context, sessionID string) (View, error) {
	m, err := s.machine(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	return m.View(), nil
}

// Refresh pushes the session's current cart into its machine, if one is mounted.
func (s *Service) Refresh(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	m, ok := s.machines[sessionID]
	s.mu.Unlock()
	if !ok {
		return nil
	}

	c, err := s.carts.Cart(ctx, sessionID)
	if err != nil {
		return err
	}
	m.Refresh(c)
	return nil
}

// Locked reports whether cart edits must be rejected because an order is processing.
func (s *Service) Locked(sessionID string) bool {
	s.mu.Lock()
	m, ok := s.machines[sessionID]
	s.mu.Unlock()
	return ok && m.State() == StateProcessing
}

func (s *Service) Submit(ctx context.Context, sessionID, idempotencyKey string) (View, error) {
	m, err := s.machine(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	// The cart is frozen under its session lock so no edit lands between the
	// refresh and the transition to Processing.
	err = s.carts.WithSession(sessionID, func() error {
		if err := s.Refresh(ctx, sessionID); err != nil {
			return err
		}
		return m.Submit(ctx, idempotencyKey)
	})
	if err != nil {
		return m.View(), err
	}
	return m.View(), nil
}

func (s *Service) Cancel(ctx context.Context, sessionID string) (View, error) {
	m, err := s.machine(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	if err := m.Cancel(); err != nil {
		return m.View(), err
	}
	return m.View(), nil
}

// Wait blocks until the session's current submission settles.
func (s *Service) Wait(ctx context.Context, sessionID string) (*orders.Order, error) {
	m, err := s.machine(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return m.Wait(ctx)
}

// Upsells lists the recommendations shown next to the order summary.
func (s *Service) Upsells(ctx context.Context, sessionID string) ([]catalog.Product, error) {
	m, err := s.machine(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return m.Upsells(s.catalog), nil
}

// AcceptUpsell adds one unit of the product's first variant to the cart.
// The cart guard rejects it while the order is processing.
func (s *Service) AcceptUpsell(ctx context.Context, sessionID, productID string) (View, error) {
	product, err := s.catalog.Product(productID)
	if err != nil {
		return View{}, err
	}
	if _, _, err := s.carts.AddProduct(ctx, sessionID, product, product.DefaultVariant()); err != nil {
		return View{}, fmt.Errorf("failed to add upsell: %w", err)
	}

	m, err := s.machine(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	if err := s.Refresh(ctx, sessionID); err != nil {
		return View{}, err
	}
	s.logger.Info("accepted upsell", zap.String("session_id", sessionID), zap.String("product_id", productID))
	return m.View(), nil
}
