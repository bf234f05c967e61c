package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthieukhl/naturemagic/internal/apperr"
	"github.com/matthieukhl/naturemagic/internal/cart"
	"github.com/matthieukhl/naturemagic/internal/catalog"
	"github.com/matthieukhl/naturemagic/internal/orders"
	"github.com/matthieukhl/naturemagic/internal/pricing"
)

func filledCart(t *testing.T) *cart.Cart {
	t.Helper()
	p, err := catalog.Default().Product("dog-grain-salmon")
	require.NoError(t, err)
	c := cart.New()
	c.Add(p, p.Variants[0])
	return c
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestMachine_EmptyCartMountsEmpty(t *testing.T) {
	m := NewMachine("s1", cart.New(), Deps{})

	assert.Equal(t, StateEmpty, m.State())
	assert.True(t, errors.Is(m.Submit(context.Background(), ""), ErrSubmitUnavailable))
	assert.False(t, m.View().CanSubmit)
}

func TestMachine_SubmitProcessesThenSucceeds(t *testing.T) {
	ids := &SequenceIDs{}
	m := NewMachine("s1", filledCart(t), Deps{
		Processor: SimulatedProcessor{Delay: 50 * time.Millisecond},
		IDs:       ids,
	})
	require.Equal(t, StateReviewing, m.State())

	require.NoError(t, m.Submit(context.Background(), ""))
	assert.Equal(t, StateProcessing, m.State())
	assert.True(t, errors.Is(m.Submit(context.Background(), ""), ErrSubmitUnavailable))

	order, err := m.Wait(waitCtx(t))
	require.NoError(t, err)
	assert.Equal(t, "NM-000001", order.ID)
	assert.Equal(t, StateSuccess, m.State())

	v := m.View()
	assert.Equal(t, order.ID, v.Order.ID)
	assert.True(t, v.Pricing.Total.Equal(order.Pricing.Total))
}

func TestMachine_FrozenSnapshotIgnoresCartChanges(t *testing.T) {
	m := NewMachine("s1", filledCart(t), Deps{
		Processor: SimulatedProcessor{Delay: 50 * time.Millisecond},
	})
	before := m.View().Pricing.Total

	require.NoError(t, m.Submit(context.Background(), ""))
	bigger := filledCart(t)
	bigger.Items[0].Quantity = 10
	m.Refresh(bigger)

	assert.True(t, m.View().Pricing.Total.Equal(before))
	order, err := m.Wait(waitCtx(t))
	require.NoError(t, err)
	assert.Equal(t, 1, order.Items[0].Quantity)
}

func TestMachine_FailureReturnsToReviewing(t *testing.T) {
	declined := errors.New("card declined")
	m := NewMachine("s1", filledCart(t), Deps{
		Processor: ProcessorFunc(func(ctx context.Context, draft *orders.Order) error {
			return declined
		}),
	})

	require.NoError(t, m.Submit(context.Background(), ""))
	_, err := m.Wait(waitCtx(t))

	var subErr *SubmissionError
	require.True(t, errors.As(err, &subErr))
	assert.True(t, errors.Is(err, declined))
	assert.Equal(t, StateReviewing, m.State())
	assert.Contains(t, m.View().Error, "card declined")
	assert.True(t, m.View().CanSubmit)
}

func TestMachine_CancelWithinWindow(t *testing.T) {
	var calls atomic.Int32
	m := NewMachine("s1", filledCart(t), Deps{
		Processor: ProcessorFunc(func(ctx context.Context, draft *orders.Order) error {
			calls.Add(1)
			return nil
		}),
		CancelWindow: time.Minute,
	})

	require.NoError(t, m.Submit(context.Background(), ""))
	assert.True(t, m.View().CanCancel)
	require.NoError(t, m.Cancel())
	assert.Equal(t, StateReviewing, m.State())

	_, err := m.Wait(waitCtx(t))
	assert.True(t, errors.Is(err, ErrSubmissionCancelled))
	assert.Equal(t, int32(0), calls.Load())
}

func TestMachine_CancelAfterSendIsUnavailable(t *testing.T) {
	m := NewMachine("s1", filledCart(t), Deps{
		Processor: SimulatedProcessor{Delay: 50 * time.Millisecond},
	})

	assert.True(t, errors.Is(m.Cancel(), ErrCancelUnavailable))
	require.NoError(t, m.Submit(context.Background(), ""))
	assert.True(t, errors.Is(m.Cancel(), ErrCancelUnavailable))

	_, err := m.Wait(waitCtx(t))
	require.NoError(t, err)
}

func TestMachine_IdempotentSubmit(t *testing.T) {
	var calls atomic.Int32
	repo := orders.NewMemoryRepository()
	deps := Deps{
		Processor: ProcessorFunc(func(ctx context.Context, draft *orders.Order) error {
			calls.Add(1)
			return nil
		}),
		IDs:    &SequenceIDs{},
		Orders: repo,
	}

	m := NewMachine("s1", filledCart(t), deps)
	require.NoError(t, m.Submit(context.Background(), "key-1"))
	require.NoError(t, m.Submit(context.Background(), "key-1"))
	first, err := m.Wait(waitCtx(t))
	require.NoError(t, err)
	require.NoError(t, m.Submit(context.Background(), "key-1"))

	again := NewMachine("s1", filledCart(t), deps)
	require.NoError(t, again.Submit(context.Background(), "key-1"))
	assert.Equal(t, StateSuccess, again.State())
	second, err := again.Wait(waitCtx(t))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int32(1), calls.Load())
}

func TestMachine_RejectsOtherSessionsKey(t *testing.T) {
	repo := orders.NewMemoryRepository()
	deps := Deps{IDs: &SequenceIDs{}, Orders: repo}

	alice := NewMachine("alice", filledCart(t), deps)
	require.NoError(t, alice.Submit(context.Background(), "k1"))
	_, err := alice.Wait(waitCtx(t))
	require.NoError(t, err)

	bob := NewMachine("bob", cart.New(), deps)
	err = bob.Submit(context.Background(), "k1")
	assert.True(t, errors.Is(err, ErrKeyOtherSession))
	assert.Equal(t, StateEmpty, bob.State())
	assert.Nil(t, bob.View().Order)

	bob = NewMachine("bob", filledCart(t), deps)
	assert.True(t, errors.Is(bob.Submit(context.Background(), "k1"), ErrKeyOtherSession))
	assert.Equal(t, StateReviewing, bob.State())
}

func TestSubmissionError_Kind(t *testing.T) {
	err := fmt.Errorf("checkout: %w", &SubmissionError{Err: errors.New("card declined")})
	assert.Equal(t, apperr.KindPrecondition, apperr.KindOf(err))
	assert.Equal(t, apperr.KindPrecondition, apperr.KindOf(ErrKeyOtherSession))
}

func TestMachine_RefreshFollowsLiveCart(t *testing.T) {
	m := NewMachine("s1", cart.New(), Deps{})

	m.Refresh(filledCart(t))
	assert.Equal(t, StateReviewing, m.State())

	m.Refresh(cart.New())
	assert.Equal(t, StateEmpty, m.State())
}

func TestMachine_Upsells(t *testing.T) {
	m := NewMachine("s1", filledCart(t), Deps{})

	recs := m.Upsells(catalog.Default())
	require.Len(t, recs, UpsellLimit)
	for _, p := range recs {
		assert.NotEqual(t, "dog-grain-salmon", p.ID)
	}
	assert.Equal(t, "cat-joint-beef", recs[0].ID)
}

func TestMachine_UsesPolicy(t *testing.T) {
	policy := pricing.DefaultPolicy()
	policy.Currency = "MOP"
	m := NewMachine("s1", filledCart(t), Deps{Policy: policy})

	assert.Equal(t, "MOP", m.View().Pricing.Currency)
}

func TestIDGenerators(t *testing.T) {
	for i := 0; i < 50; i++ {
		id := RandomIDs{}.NewOrderID()
		require.Len(t, id, len("NM-123456"))
		assert.Regexp(t, `^NM-[1-9][0-9]{5}$`, id)
	}

	seq := &SequenceIDs{}
	assert.Equal(t, "NM-000001", seq.NewOrderID())
	assert.Equal(t, "NM-000002", seq.NewOrderID())

	assert.NotEqual(t, UUIDIDs{}.NewOrderID(), UUIDIDs{}.NewOrderID())

	_, err := NewIDGenerator("bogus")
	assert.Error(t, err)
}
