package smoketest

import "errors"

// Error constants.
var (
	ErrInvalidConfig = errors.New("invalid smoke config")
	ErrUnhealthy     = errors.New("service unhealthy")
	ErrStatus        = errors.New("unexpected status")
	ErrInvariant     = errors.New("lesson invariant violated")
	ErrMismatch      = errors.New("lesson differs from local evaluation")
	ErrFailures      = errors.New("smoke run had failures")
)
