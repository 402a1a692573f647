package service

import (
	"fmt"

	"github.com/GTDGit/gtd_jewel/internal/utils"
)

// PricingError reports invalid calculator input or an incomplete product
// price record. It is surfaced to callers as a validation failure.
type PricingError struct {
	Field  string
	Reason string
	kind   error
}

func (e *PricingError) Error() string {
	return fmt.Sprintf("pricing error: %s %s", e.Field, e.Reason)
}

// Unwrap exposes the sentinel kind for errors.Is.
func (e *PricingError) Unwrap() error {
	return e.kind
}

func invalidInput(field, reason string) *PricingError {
	return &PricingError{Field: field, Reason: reason, kind: utils.ErrInvalidPriceInput}
}

func missingPrice(field, reason string) *PricingError {
	return &PricingError{Field: field, Reason: reason, kind: utils.ErrMissingProductPrice}
}
