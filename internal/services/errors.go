package services

import (
	"errors"
	"fmt"

	"invoicely/internal/validation"
)

// Common service errors
var (
	// ErrNotFound is returned when a referenced invoice, client or
	// product does not exist in the store.
	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable is returned when the persistence collaborator
	// could not be reached. The caller surfaces it as a retryable
	// failure; nothing retries automatically.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError carries the full issue list produced by the submit
// gate. Issues are accumulated, never thrown one at a time for control
// flow; a non-empty list means no persistence call was made.
type ValidationError struct {
	Issues []validation.Issue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return fmt.Sprintf("invoice validation failed: %s: %s", e.Issues[0].Path, e.Issues[0].Message)
	}
	return fmt.Sprintf("invoice validation failed: %d issues", len(e.Issues))
}

// AsValidationError unwraps err into a *ValidationError when possible.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
