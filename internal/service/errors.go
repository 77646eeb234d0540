package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the target record does not exist; the operation is
	// aborted and surfaced.
	ErrNotFound = errors.New("record not found")
	// ErrPermissionDenied means the caller does not own the record. No retry
	// makes sense.
	ErrPermissionDenied = errors.New("permission denied")
)

// ValidationError rejects bad input before anything is written. The caller
// re-prompts; no partial write happened.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
