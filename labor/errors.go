/*
errors.go - Centralized error types

PURPOSE:
  The calculators never return errors: malformed input coerces to zero and
  inapplicable requests resolve to no-op results. Errors only exist at the
  boundary - decoding requests, loading statutory tables, reading drafts.
  Those layers share the sentinels below so HTTP handlers can map them with
  errors.Is / errors.As.

SEE ALSO:
  - statute/rates.go: ErrInvalidRates, ErrRatesNotFound
  - store/sqlite/sqlite.go, store/redis/redis.go: ErrDraftNotFound
  - api/handlers.go: error to HTTP status mapping
*/
package labor

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is returned by boundary decoders for shapes that cannot be
	// coerced (an unknown weekday name, an unknown pay type).
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidRates is returned when a statutory table fails validation.
	ErrInvalidRates = errors.New("invalid statutory rates")

	// ErrRatesNotFound is returned when no statutory table covers a date.
	ErrRatesNotFound = errors.New("statutory rates not found")

	// ErrDraftNotFound is returned when a wizard step has no staged draft.
	ErrDraftNotFound = errors.New("draft not found")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// FieldError names the offending field of a rejected input.
type FieldError struct {
	Field   string
	Message string
	Err     error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	if e.Err == nil {
		return ErrInvalidInput
	}
	return e.Err
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInvalidRates)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRatesNotFound) || errors.Is(err, ErrDraftNotFound)
}
