package dispatcher

import "errors"

// Dispatcher errors.
var (
	// ErrDispatcherStopped indicates the dispatcher has been closed.
	ErrDispatcherStopped = errors.New("dispatcher: dispatcher is stopped")

	// ErrActionCancelled indicates the command was cancelled by a hook.
	ErrActionCancelled = errors.New("dispatcher: command cancelled by hook")

	// ErrPanic indicates the handler panicked.
	ErrPanic = errors.New("dispatcher: handler panic")

	// ErrDuplicateLabel indicates a handler is already registered for a label.
	ErrDuplicateLabel = errors.New("dispatcher: duplicate label")

	// ErrInvalidHandler indicates a nil handler or one with an empty label.
	ErrInvalidHandler = errors.New("dispatcher: invalid handler")

	// ErrUnknownMode indicates an unrecognized dispatch mode.
	ErrUnknownMode = errors.New("dispatcher: unknown mode")
)
