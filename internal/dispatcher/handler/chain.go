package handler

import (
	"context"

	"github.com/dshills/mirrorpad/internal/dispatcher/execctx"
)

// Link is one element of a chain of responsibility. It either claims a
// command or forwards it unchanged to the next link.
//
// A nil *Link is the terminal link: it drops every command.
type Link struct {
	handler Handler
	next    *Link
}

// NewLink creates a link that tries h and then forwards to next.
func NewLink(h Handler, next *Link) *Link {
	return &Link{handler: h, next: next}
}

// Chain builds a chain in which handlers are tried in argument order.
// The chain is assembled innermost first, so the last handler wraps the
// terminal link and the first handler becomes the head.
func Chain(handlers ...Handler) *Link {
	var head *Link
	for i := len(handlers) - 1; i >= 0; i-- {
		if handlers[i] == nil {
			continue
		}
		head = NewLink(handlers[i], head)
	}
	return head
}

// Handle routes label down the chain. It returns the claiming handler's
// result and true, or a NoOp result and false when no link claims the
// label.
func (l *Link) Handle(ctx context.Context, label string, ec *execctx.ExecutionContext) (Result, bool) {
	for link := l; link != nil; link = link.next {
		if link.handler.Label() == label {
			return link.handler.Handle(ctx, ec), true
		}
	}
	return NoOp(), false
}

// Resolve returns the handler that would claim label.
func (l *Link) Resolve(label string) (Handler, bool) {
	for link := l; link != nil; link = link.next {
		if link.handler.Label() == label {
			return link.handler, true
		}
	}
	return nil, false
}

// Labels returns the labels in the order they are tried.
func (l *Link) Labels() []string {
	var labels []string
	for link := l; link != nil; link = link.next {
		labels = append(labels, link.handler.Label())
	}
	return labels
}

// Len returns the number of links.
func (l *Link) Len() int {
	n := 0
	for link := l; link != nil; link = link.next {
		n++
	}
	return n
}
