package ui

import "errors"

// Sentinel errors for the ui package.
var (
	// ErrAlreadyRunning is returned when Start is called on a running loop.
	ErrAlreadyRunning = errors.New("ui loop is already running")

	// ErrNotRunning is returned when work is posted to a loop that is not running.
	ErrNotRunning = errors.New("ui loop is not running")

	// ErrQueueFull is returned by Post when the queue is at capacity.
	ErrQueueFull = errors.New("ui queue is full")

	// ErrPanic is returned by Call when the callback panicked.
	ErrPanic = errors.New("ui callback panicked")
)
