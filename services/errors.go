package services

import "errors"

// Error kinds surfaced by the engine. Controllers translate these to
// HTTP statuses; everything else propagates as-is.
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrInvalidInput     = errors.New("invalid input")
	ErrCapacityExceeded = errors.New("capacity exceeded")
)
