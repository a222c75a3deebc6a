package boa

import "errors"

// Package-level sentinel errors, usable with errors.Is(). All of them are
// fatal to a run: partition refinement has no notion of partial success.
var (
	// ErrMalformedInput is returned when the byte stream violates the
	// encoding contract: an unknown operator type byte, a cursor that runs
	// past the buffer tail, or a state id that exceeds 2^30-1.
	ErrMalformedInput = errors.New("boa: malformed input")

	// ErrInvariantViolation is returned when an internal consistency check
	// fails (partition bookkeeping, backref accounting). It indicates a bug
	// in this package rather than bad input.
	ErrInvariantViolation = errors.New("boa: invariant violation")

	// ErrResourceExhaustion is returned when the naive driver's iteration
	// safeguard is exceeded, or when a coalgebra declares more states than
	// the 2^30 state-id space can address.
	ErrResourceExhaustion = errors.New("boa: resource exhaustion")
)
