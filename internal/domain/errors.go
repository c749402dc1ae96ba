package domain

import "errors"

var (
	// ErrValidation marks malformed input (non-positive amount, bad phone, etc.).
	ErrValidation = errors.New("validation failed")
	// ErrPrecondition marks a stage/status guard that was not met.
	ErrPrecondition = errors.New("precondition failed")
	// ErrUnauthorized marks an actor lacking permission for a transition.
	ErrUnauthorized = errors.New("actor not authorized")
	// ErrNotFound marks a missing ledger, contract or request.
	ErrNotFound = errors.New("entity not found")
	// ErrConflict marks a lost optimistic-concurrency race. Callers retry with
	// fresh state.
	ErrConflict = errors.New("concurrent transition conflict")
	// ErrExternalService marks a payment gateway failure. State is left
	// unchanged so the operation can be retried.
	ErrExternalService = errors.New("external service failed")
)
