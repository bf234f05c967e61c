package checkout

import (
	"fmt"

	"github.com/matthieukhl/naturemagic/internal/apperr"
)

const (
	ErrMsgSubmitUnavailable = "Checkout can only be submitted while reviewing a non-empty cart"
	ErrMsgCancelUnavailable = "Checkout can no longer be cancelled"
	ErrMsgCheckoutLocked    = "Cart is locked while the order is processing"
	ErrMsgCancelled         = "Checkout was cancelled"
	ErrMsgKeyOtherSession   = "Idempotency key belongs to another session"
)

var (
	ErrSubmitUnavailable   = apperr.Precondition(ErrMsgSubmitUnavailable)
	ErrCancelUnavailable   = apperr.Precondition(ErrMsgCancelUnavailable)
	ErrCheckoutLocked      = apperr.Precondition(ErrMsgCheckoutLocked)
	ErrSubmissionCancelled = apperr.Precondition(ErrMsgCancelled)
	ErrKeyOtherSession     = apperr.Precondition(ErrMsgKeyOtherSession)
)

// SubmissionError reports a failed payment or order placement. The machine is
// back in Reviewing when one is recorded, so the customer can retry.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("order submission failed: %v", e.Err)
}

// ErrorKind is Precondition: the checkout is back in Reviewing and can be resubmitted.
func (e *SubmissionError) ErrorKind() apperr.Kind {
	return apperr.KindPrecondition
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
