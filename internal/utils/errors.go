package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidToken         = errors.New("INVALID_TOKEN")
	ErrInvalidPriceInput    = errors.New("INVALID_PRICE_INPUT")
	ErrMissingProductPrice  = errors.New("MISSING_PRODUCT_PRICE")
	ErrProductNotFound      = errors.New("PRODUCT_NOT_FOUND")
	ErrInvalidMetalType     = errors.New("INVALID_METAL_TYPE")
	ErrEmptyLineItems       = errors.New("EMPTY_LINE_ITEMS")
	ErrRateSourceFailed     = errors.New("RATE_SOURCE_FAILED")
	ErrFxLookupFailed       = errors.New("FX_LOOKUP_FAILED")
	ErrAggregationExhausted = errors.New("AGGREGATION_EXHAUSTED")
)
