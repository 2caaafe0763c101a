package service

import (
	"errors"
	"fmt"
)

// ErrValidationMismatch is returned by CompletePayment when the presented
// validation hash does not match the stored one. It is kept separate from
// AuthorizationError because the transport layer reports it as a failed
// validation handshake, not a missing privilege.
var ErrValidationMismatch = errors.New("validation hash mismatch")

// ValidationError means a request field is missing or malformed. The store
// is never touched when one of these is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %s: %s", e.Field, e.Reason)
}

// ConflictError means a state invariant would be violated, such as starting
// a second active session for the same vehicle at the same lot.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

// NotFoundError means a referenced resource does not exist.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// AuthorizationError means the caller lacks ownership or privilege for the
// requested operation.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return e.Reason
}
