package lock

import "errors"

// Lock errors.
var (
	// ErrInterrupted indicates a blocking acquisition was abandoned because its
	// context was cancelled. The lock is not held when this is returned.
	ErrInterrupted = errors.New("lock: interrupted while waiting")

	// ErrUnknownMode indicates an unrecognized guard mode name.
	ErrUnknownMode = errors.New("lock: unknown guard mode")
)
