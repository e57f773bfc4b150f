package domain

import "errors"

// Sentinel errors shared across repositories and services. The HTTP layer
// maps these to response statuses.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
)
