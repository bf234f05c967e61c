package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers that need to react to it (HTTP status, CLI exit).
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindPrecondition
	KindNotFound
	KindConfirmation
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION"
	case KindPrecondition:
		return "FAILED_PRECONDITION"
	case KindNotFound:
		return "NOT_FOUND"
	case KindConfirmation:
		return "CONFIRMATION_REQUIRED"
	default:
		return "INTERNAL"
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Validation(message string) *Error {
	return New(KindValidation, message)
}

func Precondition(message string) *Error {
	return New(KindPrecondition, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func Confirmation(message string) *Error {
	return New(KindConfirmation, message)
}

// Wrap attaches a kind to an underlying error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Kinded is implemented by errors that carry a Kind, including domain error types
// that do not wrap an *Error.
type Kinded interface {
	ErrorKind() Kind
}

func (e *Error) ErrorKind() Kind {
	return e.Kind
}

// KindOf returns the kind of the first Kinded error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var k Kinded
	if errors.As(err, &k) {
		return k.ErrorKind()
	}
	return KindInternal
}
