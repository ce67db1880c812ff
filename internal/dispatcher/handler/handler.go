// Package handler provides the handler interface and types for command dispatch.
package handler

import (
	"context"

	"github.com/dshills/mirrorpad/internal/dispatcher/execctx"
)

// Handler processes the single command label it claims.
type Handler interface {
	// Label returns the command label this handler claims.
	Label() string

	// Handle executes the command and returns a result.
	Handle(ctx context.Context, ec *execctx.ExecutionContext) Result
}

// HandlerFunc is a function adapter for the Handler interface.
type HandlerFunc struct {
	label string
	fn    func(ctx context.Context, ec *execctx.ExecutionContext) Result
}

// NewHandlerFunc creates a Handler claiming label from a function.
func NewHandlerFunc(label string, fn func(ctx context.Context, ec *execctx.ExecutionContext) Result) *HandlerFunc {
	return &HandlerFunc{label: label, fn: fn}
}

// Label implements Handler.Label.
func (f *HandlerFunc) Label() string {
	return f.label
}

// Handle implements Handler.Handle.
func (f *HandlerFunc) Handle(ctx context.Context, ec *execctx.ExecutionContext) Result {
	if f.fn == nil {
		return Errorf("handler function is nil")
	}
	return f.fn(ctx, ec)
}
