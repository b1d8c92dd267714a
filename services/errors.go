package services

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the ledger, cashout and settlement
// services. Controllers translate these into HTTP responses.
var (
	ErrValidation           = errors.New("invalid input")
	ErrNotFound             = errors.New("record not found")
	ErrInsufficientBalance  = errors.New("insufficient wallet balance")
	ErrDuplicateExternalRef = errors.New("external reference already in use")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrMissingExternalRef   = errors.New("external reference is required")
	ErrPostUnavailable      = errors.New("post is no longer available")
)

// validationError wraps ErrValidation with a field-level detail so
// callers can match with errors.Is while surfacing the message as-is.
func validationError(format string, v ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, v...))
}
