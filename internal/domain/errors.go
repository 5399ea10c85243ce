package domain

import "errors"

// Sentinel errors shared by every layer. Repositories and use cases wrap them
// with fmt.Errorf("...: %w", ...) so the delivery layer can map them to HTTP
// status codes with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrDuplicate    = errors.New("already exists")
)
