package orders

import (
	"context"
	"time"

	"github.com/matthieukhl/naturemagic/internal/apperr"
	"github.com/matthieukhl/naturemagic/internal/cart"
	"github.com/matthieukhl/naturemagic/internal/pricing"
)

const (
	ErrMsgOrderNotFound  = "Order not found"
	ErrMsgDuplicateOrder = "Order already placed"
)

var (
	ErrOrderNotFound  = apperr.NotFound(ErrMsgOrderNotFound)
	ErrDuplicateOrder = apperr.Precondition(ErrMsgDuplicateOrder)
)

// Order is the frozen result of a successful checkout.
type Order struct {
	ID             string           `json:"id"`
	IdempotencyKey string           `json:"idempotencyKey,omitempty"`
	SessionID      string           `json:"sessionId"`
	Items          []cart.Item      `json:"items"`
	Pricing        pricing.Snapshot `json:"pricing"`
	PlacedAt       time.Time        `json:"placedAt"`
}

// Repository stores placed orders. Save rejects a second order with an already
// used id or idempotency key with ErrDuplicateOrder.
type Repository interface {
	Save(ctx context.Context, order *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*Order, error)
	ListBySession(ctx context.Context, sessionID string) ([]*Order, error)
}
