package ledger

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by engine operations. All engine failures are
// local and recoverable; nothing here should ever crash the host.
var (
	// ErrInvalidCardReference is returned when a card-tagged write names a
	// card the ledger does not know.
	ErrInvalidCardReference = errors.New("invalid card reference")

	// ErrNotFound is returned when an update or delete targets an unknown
	// id. Surfaced explicitly rather than treated as a no-op.
	ErrNotFound = errors.New("not found")
)

// ValidationError reports a missing or invalid required field on input
// crossing into the engine.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalidField(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
