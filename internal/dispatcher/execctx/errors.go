package execctx

import "errors"

// Context validation errors.
var (
	// ErrMissingDocument indicates the document is required but not set.
	ErrMissingDocument = errors.New("execution context: document is required")

	// ErrMissingChooser indicates the resource chooser is required but not set.
	ErrMissingChooser = errors.New("execution context: chooser is required")

	// ErrMissingStore indicates the content store is required but not set.
	ErrMissingStore = errors.New("execution context: store is required")

	// ErrMissingWindow indicates the window is required but not set.
	ErrMissingWindow = errors.New("execution context: window is required")

	// ErrMissingUI indicates the UI loop is required but not set.
	ErrMissingUI = errors.New("execution context: UI loop is required")
)
