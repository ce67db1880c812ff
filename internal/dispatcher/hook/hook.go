package hook

import (
	"github.com/dshills/mirrorpad/internal/dispatcher/execctx"
	"github.com/dshills/mirrorpad/internal/dispatcher/handler"
)

// Hook is identified by name and ordered by priority.
type Hook interface {
	Name() string
	Priority() int
}

// PreDispatchHook runs before the handler. Returning false cancels the
// command.
type PreDispatchHook interface {
	Hook
	PreDispatch(ec *execctx.ExecutionContext) bool
}

// PostDispatchHook runs after the handler and may change the result.
type PostDispatchHook interface {
	Hook
	PostDispatch(ec *execctx.ExecutionContext, result *handler.Result)
}

type base struct {
	name     string
	priority int
}

func (b base) Name() string  { return b.name }
func (b base) Priority() int { return b.priority }

// PreDispatchFunc adapts a function to PreDispatchHook. A nil function
// lets every command through.
type PreDispatchFunc struct {
	base
	fn func(*execctx.ExecutionContext) bool
}

func NewPreDispatchFunc(name string, priority int, fn func(*execctx.ExecutionContext) bool) *PreDispatchFunc {
	return &PreDispatchFunc{base: base{name, priority}, fn: fn}
}

func (f *PreDispatchFunc) PreDispatch(ec *execctx.ExecutionContext) bool {
	return f.fn == nil || f.fn(ec)
}

// PostDispatchFunc adapts a function to PostDispatchHook.
type PostDispatchFunc struct {
	base
	fn func(*execctx.ExecutionContext, *handler.Result)
}

func NewPostDispatchFunc(name string, priority int, fn func(*execctx.ExecutionContext, *handler.Result)) *PostDispatchFunc {
	return &PostDispatchFunc{base: base{name, priority}, fn: fn}
}

func (f *PostDispatchFunc) PostDispatch(ec *execctx.ExecutionContext, result *handler.Result) {
	if f.fn != nil {
		f.fn(ec, result)
	}
}
