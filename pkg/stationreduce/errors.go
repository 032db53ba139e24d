package stationreduce

import "errors"

// Sentinel errors for common error conditions
var (
	// Planning errors
	ErrInvalidWorkers = errors.New("worker count must be at least 1")

	// Executor errors
	ErrUnknownExecutor = errors.New("unknown executor")

	// Run errors, see the taxonomy in DESIGN.md
	ErrInputAccess = errors.New("input not accessible")
	ErrChunkRead   = errors.New("chunk read failed")
	ErrOutputWrite = errors.New("output write failed")

	// ErrFrozen is the panic value for mutating an aggregate after it was handed off.
	ErrFrozen = errors.New("aggregate is frozen")
)
