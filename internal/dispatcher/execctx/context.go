// Package execctx provides the execution context for command handlers.
package execctx

import (
	"context"

	"github.com/oklog/ulid/v2"

	"github.com/dshills/mirrorpad/internal/document"
	"github.com/dshills/mirrorpad/internal/logging"
)

// Chooser asks the user for a resource.
// ok is false when the user cancelled; that is not an error.
type Chooser interface {
	ChooseOpen(ctx context.Context) (r document.Resource, ok bool, err error)
	ChooseSave(ctx context.Context) (r document.Resource, ok bool, err error)
}

// Store loads and persists raw document content.
type Store interface {
	Load(ctx context.Context, r document.Resource) (string, error)
	Persist(ctx context.Context, r document.Resource, text string) error
}

// Window is the top-level resource of a pane.
type Window interface {
	// Dispose tears the window down. It is fire-and-forget.
	Dispose()
}

// UI runs callbacks on the UI-affine execution context.
type UI interface {
	// Call runs fn on the UI context and waits for it to return.
	Call(ctx context.Context, fn func()) error
}

// ExecutionContext provides context for one command invocation.
// It contains references to every collaborator a handler may need.
type ExecutionContext struct {
	// Command is the label being dispatched.
	Command string

	// InvocationID correlates log lines of one dispatch.
	InvocationID ulid.ULID

	// Document is the shared state the command acts on.
	Document *document.Document

	// Chooser provides resource selection.
	Chooser Chooser

	// Store provides content persistence.
	Store Store

	// Window is the pane's top-level resource.
	Window Window

	// UI is the UI-affine execution context.
	UI UI

	// Logger is scoped to the invocation.
	Logger *logging.Logger

	// Data holds handler-specific context data.
	Data map[string]interface{}
}

// New creates a new execution context for command.
func New(command string) *ExecutionContext {
	return &ExecutionContext{
		Command:      command,
		InvocationID: ulid.Make(),
		Logger:       logging.Nop(),
		Data:         make(map[string]interface{}),
	}
}

// WithDocument returns the context with the document set.
func (ec *ExecutionContext) WithDocument(doc *document.Document) *ExecutionContext {
	ec.Document = doc
	return ec
}

// WithChooser returns the context with the chooser set.
func (ec *ExecutionContext) WithChooser(c Chooser) *ExecutionContext {
	ec.Chooser = c
	return ec
}

// WithStore returns the context with the store set.
func (ec *ExecutionContext) WithStore(s Store) *ExecutionContext {
	ec.Store = s
	return ec
}

// WithWindow returns the context with the window set.
func (ec *ExecutionContext) WithWindow(w Window) *ExecutionContext {
	ec.Window = w
	return ec
}

// WithUI returns the context with the UI loop set.
func (ec *ExecutionContext) WithUI(ui UI) *ExecutionContext {
	ec.UI = ui
	return ec
}

// WithLogger returns the context with the logger set, scoped to this invocation.
func (ec *ExecutionContext) WithLogger(l *logging.Logger) *ExecutionContext {
	if l != nil {
		ec.Logger = l.WithFields(map[string]any{
			"command":    ec.Command,
			"invocation": ec.InvocationID.String(),
		})
	}
	return ec
}

// SetData sets a context data value.
func (ec *ExecutionContext) SetData(key string, value interface{}) {
	if ec.Data == nil {
		ec.Data = make(map[string]interface{})
	}
	ec.Data[key] = value
}

// GetData retrieves a context data value.
func (ec *ExecutionContext) GetData(key string) (interface{}, bool) {
	if ec.Data == nil {
		return nil, false
	}
	v, ok := ec.Data[key]
	return v, ok
}

// GetDataString retrieves a string value from context data.
func (ec *ExecutionContext) GetDataString(key string) string {
	if v, ok := ec.GetData(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Validate checks that the context has a document.
func (ec *ExecutionContext) Validate() error {
	if ec.Document == nil {
		return ErrMissingDocument
	}
	return nil
}

// ValidateForFile checks that the context can run file commands.
func (ec *ExecutionContext) ValidateForFile() error {
	if err := ec.Validate(); err != nil {
		return err
	}
	if ec.Chooser == nil {
		return ErrMissingChooser
	}
	if ec.Store == nil {
		return ErrMissingStore
	}
	return nil
}

// ValidateForHistory checks that the context can run history commands.
func (ec *ExecutionContext) ValidateForHistory() error {
	if err := ec.Validate(); err != nil {
		return err
	}
	if ec.UI == nil {
		return ErrMissingUI
	}
	return nil
}
