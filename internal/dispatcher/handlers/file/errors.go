package file

import "errors"

// Errors reported in handler results.
var (
	// ErrNoTarget indicates Save found neither a bound resource nor a chosen one.
	ErrNoTarget = errors.New("file: no save target")
)
