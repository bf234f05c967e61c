package checkout

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/matthieukhl/naturemagic/internal/orders"
)

// DefaultProcessingDelay is how long the simulated payment call takes.
const DefaultProcessingDelay = 2500 * time.Millisecond

// Processor performs the payment step for a frozen order draft.
type Processor interface {
	Process(ctx context.Context, draft *orders.Order) error
}

// SimulatedProcessor waits for Delay and always succeeds.
type SimulatedProcessor struct {
	Delay time.Duration
}

func (p SimulatedProcessor) Process(ctx context.Context, draft *orders.Order) error {
	if p.Delay <= 0 {
		return nil
	}
	timer := time.NewTimer(p.Delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx context.Context, draft *orders.Order) error

func (f ProcessorFunc) Process(ctx context.Context, draft *orders.Order) error {
	return f(ctx, draft)
}

// IDGenerator hands out order ids.
type IDGenerator interface {
	NewOrderID() string
}

// RandomIDs produces NM- followed by six digits in [100000, 999999].
// Collisions are possible; the repository rejects them.
type RandomIDs struct{}

func (RandomIDs) NewOrderID() string {
	return fmt.Sprintf("NM-%d", rand.IntN(900000)+100000)
}

// SequenceIDs produces NM-000001, NM-000002, ...
type SequenceIDs struct {
	next atomic.Int64
}

func (s *SequenceIDs) NewOrderID() string {
	return fmt.Sprintf("NM-%06d", s.next.Add(1))
}

// UUIDIDs produces NM- followed by a random UUID.
type UUIDIDs struct{}

func (UUIDIDs) NewOrderID() string {
	return "NM-" + uuid.NewString()
}

// NewIDGenerator maps a configured strategy name to a generator.
func NewIDGenerator(strategy string) (IDGenerator, error) {
	switch strategy {
	case "", "random":
		return RandomIDs{}, nil
	case "sequence":
		return &SequenceIDs{}, nil
	case "uuid":
		return UUIDIDs{}, nil
	default:
		return nil, fmt.Errorf("unknown order id strategy %q", strategy)
	}
}
