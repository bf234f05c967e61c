package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stepError struct{}

func (stepError) Error() string   { return "step failed" }
func (stepError) ErrorKind() Kind { return KindPrecondition }

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"plain", errors.New("boom"), KindInternal},
		{"nil", nil, KindInternal},
		{"app error", NotFound("missing"), KindNotFound},
		{"wrapped app error", fmt.Errorf("load: %w", Validation("bad")), KindValidation},
		{"wrap constructor", Wrap(KindConfirmation, "confirm", errors.New("x")), KindConfirmation},
		{"domain type", fmt.Errorf("submit: %w", stepError{}), KindPrecondition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}
