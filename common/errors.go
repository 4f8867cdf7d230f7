package common

import "errors"

// Error kinds shared by the generators, the tangent solver and the GPU upload path.
// Call sites wrap these with context using fmt.Errorf("...: %w", ...) so callers
// can classify failures with errors.Is.
var (
	// ErrInvalidParameter is returned when a caller-supplied size or radius is
	// non-positive or non-finite, or when an input buffer has an illegal shape.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrResourceLimitExceeded is returned when a request would produce more
	// geometry than the configured limits allow.
	ErrResourceLimitExceeded = errors.New("resource limit exceeded")

	// ErrNumericDegenerate is returned when a triangle's UV mapping is singular
	// and the active tangent policy refuses to continue.
	ErrNumericDegenerate = errors.New("numeric degenerate")
)
