package dto

import "errors"

// Failure taxonomy shared by the services and the delivery layers.
var (
	// ErrInvalidFormat marks malformed user input; the operation is
	// aborted with no state change.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrAlreadyRecorded marks a duplicate status transition. The caller
	// must not re-announce the event.
	ErrAlreadyRecorded = errors.New("already recorded")

	// ErrNotFound marks an operation referencing an unknown signal.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized marks a non-owner invoking an owner-only operation.
	ErrUnauthorized = errors.New("unauthorized")
)

// ErrorResponse represents a generic error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}
