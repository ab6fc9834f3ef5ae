package types

import "errors"

// Domain errors returned by the stores and services. Handlers translate
// these into HTTP statuses; anything wrapping ErrUnavailable is an
// infrastructure fault and safe to retry.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrForbidden           = errors.New("forbidden")
	ErrAlreadyApplied      = errors.New("already applied")
	ErrJobNotFound         = errors.New("job not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrNotificationFailed  = errors.New("notification failed")
	ErrUnavailable         = errors.New("service unavailable")
)
