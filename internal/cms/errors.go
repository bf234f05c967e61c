package cms

import (
	"fmt"
	"strings"

	"github.com/matthieukhl/naturemagic/internal/apperr"
)

const (
	ErrMsgUnknownCategory      = "Unknown content category"
	ErrMsgContentNotFound      = "Content item not found"
	ErrMsgProductNotFound      = "Product not found"
	ErrMsgInvalidBackup        = "Invalid backup file"
	ErrMsgConfirmationRequired = "Confirmation required"
	ErrMsgVariantRequired      = "At least one variant is required"
)

var (
	ErrUnknownCategory      = apperr.Validation(ErrMsgUnknownCategory)
	ErrContentNotFound      = apperr.NotFound(ErrMsgContentNotFound)
	ErrProductNotFound      = apperr.NotFound(ErrMsgProductNotFound)
	ErrInvalidBackup        = apperr.Validation(ErrMsgInvalidBackup)
	ErrConfirmationRequired = apperr.Confirmation(ErrMsgConfirmationRequired)
	ErrVariantRequired      = apperr.Validation(ErrMsgVariantRequired)
)

// Derivation steps reported by DerivationMissError.
const (
	StepRecipe = "recipe"
	StepSeries = "series"
	StepPet    = "pet"
)

// DerivationMissError lists the derivation steps that found no matching content.
// It is informational: the product returned alongside it is still valid.
type DerivationMissError struct {
	Misses []string
}

func (e *DerivationMissError) ErrorKind() apperr.Kind {
	return apperr.KindNotFound
}

func (e *DerivationMissError) Error() string {
	return fmt.Sprintf("no content matched for: %s", strings.Join(e.Misses, ", "))
}
