package services

import "errors"

// Service error taxonomy. Handlers translate these to HTTP responses.
// NotFound covers both "missing" and "not owned by the caller" so that
// ownership checks leak nothing about existence.
var (
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrNotFound           = errors.New("not found")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrValidation         = errors.New("validation failed")
	ErrServiceUnavailable = errors.New("service unavailable")
)
