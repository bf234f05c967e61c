package checkout

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/matthieukhl/naturemagic/internal/cart"
	"github.com/matthieukhl/naturemagic/internal/catalog"
	"github.com/matthieukhl/naturemagic/internal/orders"
	"github.com/matthieukhl/naturemagic/internal/pricing"
)

// UpsellLimit is how many recommendations the checkout page shows.
const UpsellLimit = 2

type State int

const (
	StateEmpty State = iota
	StateReviewing
	StateProcessing
	StateSuccess
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateReviewing:
		return "reviewing"
	case StateProcessing:
		return "processing"
	case StateSuccess:
		return "success"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Deps are the collaborators a Machine needs.
type Deps struct {
	Policy    pricing.Policy
	Processor Processor
	IDs       IDGenerator
	Orders    orders.Repository
	// CancelWindow is how long after submit the payment call is held back
	// and the customer may still cancel. Zero sends immediately.
	CancelWindow time.Duration
	Logger       *zap.Logger
	Now          func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Processor == nil {
		d.Processor = SimulatedProcessor{Delay: DefaultProcessingDelay}
	}
	if d.IDs == nil {
		d.IDs = RandomIDs{}
	}
	if d.Orders == nil {
		d.Orders = orders.NewMemoryRepository()
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Policy.Currency == "" {
		d.Policy = pricing.DefaultPolicy()
	}
	return d
}

// View is what the checkout page renders.
type View struct {
	SessionID string           `json:"sessionId"`
	State     State            `json:"state"`
	Items     []cart.Item      `json:"items"`
	Pricing   pricing.Snapshot `json:"pricing"`
	Order     *orders.Order    `json:"order,omitempty"`
	Error     string           `json:"error,omitempty"`
	CanSubmit bool             `json:"canSubmit"`
	CanCancel bool             `json:"canCancel"`
}

// Machine drives one session's checkout through
// Empty/Reviewing -> Processing -> Success, or back to Reviewing on failure or cancel.
// Safe for concurrent use.
type Machine struct {
	deps      Deps
	sessionID string
	logger    *zap.Logger

	mu       sync.Mutex
	state    State
	live     *cart.Cart
	frozen   *cart.Cart
	snapshot pricing.Snapshot
	order    *orders.Order
	lastErr  error
	key      string
	sent     bool
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewMachine mounts a checkout for c: Empty when it has no items, Reviewing otherwise.
func NewMachine(sessionID string, c *cart.Cart, deps Deps) *Machine {
	deps = deps.withDefaults()
	if c == nil {
		c = cart.New()
	}
	m := &Machine{
		deps:      deps,
		sessionID: sessionID,
		logger:    deps.Logger.Named("checkout").With(zap.String("session_id", sessionID)),
		live:      c.Clone(),
		state:     StateReviewing,
	}
	if c.IsEmpty() {
		m.state = StateEmpty
	}
	return m
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Refresh makes the machine follow the live cart while the customer is still reviewing.
// It is ignored during Processing and after Success.
func (m *Machine) Refresh(c *cart.Cart) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateEmpty && m.state != StateReviewing {
		return
	}
	if c == nil {
		c = cart.New()
	}
	m.live = c.Clone()
	if m.live.IsEmpty() {
		m.state = StateEmpty
	} else {
		m.state = StateReviewing
	}
}

// Submit freezes the cart and its pricing, moves to Processing and runs the payment
// step in the background. A key that already placed an order for this session returns
// nil and moves the machine to Success with that order; another session's key is rejected.
func (m *Machine) Submit(ctx context.Context, idempotencyKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if idempotencyKey != "" {
		if m.key == idempotencyKey && (m.state == StateProcessing || m.state == StateSuccess) {
			return nil
		}
		placed, err := m.deps.Orders.FindByIdempotencyKey(ctx, idempotencyKey)
		switch {
		case err == nil && placed.SessionID != m.sessionID:
			m.logger.Warn("idempotency key belongs to another session", zap.String("order_id", placed.ID))
			return ErrKeyOtherSession
		case err == nil:
			m.logger.Info("idempotent submit returned existing order", zap.String("order_id", placed.ID))
			m.succeed(placed)
			return nil
		case !errors.Is(err, orders.ErrOrderNotFound):
			return err
		}
	}

	if m.state != StateReviewing {
		return ErrSubmitUnavailable
	}

	m.frozen = m.live.Clone()
	m.snapshot = pricing.ComputeCart(m.deps.Policy, m.frozen)
	m.key = idempotencyKey
	m.lastErr = nil
	m.state = StateProcessing
	m.sent = m.deps.CancelWindow <= 0
	m.done = make(chan struct{})

	bg, cancel := context.WithCancel(context.WithoutCancel(ctx))
	m.cancel = cancel

	draft := &orders.Order{
		IdempotencyKey: idempotencyKey,
		SessionID:      m.sessionID,
		Items:          m.frozen.Clone().Items,
		Pricing:        m.snapshot,
	}
	m.logger.Info("submitted order",
		zap.Int("item_count", m.snapshot.ItemCount),
		zap.String("total", m.snapshot.Total.StringFixed(2)))

	go m.process(bg, cancel, draft, m.done)
	return nil
}

func (m *Machine) process(ctx context.Context, cancel context.CancelFunc, draft *orders.Order, done chan struct{}) {
	defer close(done)
	defer cancel()

	if m.deps.CancelWindow > 0 {
		timer := time.NewTimer(m.deps.CancelWindow)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return
		}

		m.mu.Lock()
		if ctx.Err() != nil {
			m.mu.Unlock()
			return
		}
		m.sent = true
		m.mu.Unlock()
	}

	err := m.deps.Processor.Process(ctx, draft)
	if err == nil {
		draft.ID = m.deps.IDs.NewOrderID()
		draft.PlacedAt = m.deps.Now()
		err = m.deps.Orders.Save(ctx, draft)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.logger.Warn("order submission failed", zap.Error(err))
		m.state = StateReviewing
		m.lastErr = &SubmissionError{Err: err}
		return
	}
	m.logger.Info("order placed", zap.String("order_id", draft.ID))
	m.succeed(draft)
}

// succeed must be called with mu held.
func (m *Machine) succeed(order *orders.Order) {
	m.order = order
	m.key = order.IdempotencyKey
	m.frozen = &cart.Cart{Items: order.Items}
	m.snapshot = order.Pricing
	m.lastErr = nil
	m.state = StateSuccess
}

// Cancel aborts a submission whose payment call has not been sent yet.
func (m *Machine) Cancel() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateProcessing || m.sent {
		return ErrCancelUnavailable
	}
	m.cancel()
	m.state = StateReviewing
	m.lastErr = ErrSubmissionCancelled
	m.logger.Info("submission cancelled")
	return nil
}

// Wait blocks until the current submission settles. It returns the placed order, or
// the error that sent the machine back to Reviewing. With no submission in flight
// it reports the last outcome immediately.
func (m *Machine) Wait(ctx context.Context) (*orders.Order, error) {
	m.mu.Lock()
	done := m.done
	m.mu.Unlock()

	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateSuccess {
		return m.order, nil
	}
	return nil, m.lastErr
}

func (m *Machine) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := View{
		SessionID: m.sessionID,
		State:     m.state,
		Order:     m.order,
		CanSubmit: m.state == StateReviewing,
		CanCancel: m.state == StateProcessing && !m.sent,
	}
	switch m.state {
	case StateProcessing, StateSuccess:
		v.Items = m.frozen.Clone().Items
		v.Pricing = m.snapshot
	default:
		v.Items = m.live.Clone().Items
		v.Pricing = pricing.ComputeCart(m.deps.Policy, m.live)
	}
	if m.lastErr != nil {
		v.Error = m.lastErr.Error()
	}
	return v
}

// Upsells recommends up to UpsellLimit catalog products that are not in the live cart.
func (m *Machine) Upsells(cat *catalog.Catalog) []catalog.Product {
	m.mu.Lock()
	live := m.live.Clone()
	m.mu.Unlock()

	return cat.Recommend(live.Contains, UpsellLimit)
}
