package cart

import "github.com/matthieukhl/naturemagic/internal/apperr"

// Error message constants for the cart domain.
const (
	ErrMsgQuantityPositive = "Quantity must be at least 1"
	ErrMsgIndexOutOfRange  = "Line index out of range"
	ErrMsgSessionRequired  = "Session ID is required"
)

var (
	ErrInvalidQuantity = apperr.Validation(ErrMsgQuantityPositive)
	ErrIndexOutOfRange = apperr.Validation(ErrMsgIndexOutOfRange)
	ErrSessionRequired = apperr.Validation(ErrMsgSessionRequired)
)
