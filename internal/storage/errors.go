package storage

import "errors"

// Storage errors.
var (
	// ErrIO wraps every load or persist failure.
	ErrIO = errors.New("storage: i/o failure")

	// ErrEmptyResource is returned for an unset resource.
	ErrEmptyResource = errors.New("storage: empty resource")
)
