// Package edit provides handlers for the history (Correction) menu.
//
// Previous and Following run on the UI loop rather than on a worker: the
// handler posts its body to execctx.UI and waits for it.
//
// Redo is single-slot. Previous snapshots the content before undoing, and
// Following restores that snapshot without consulting the undo stack, so
// only the most recent undo can be reversed.
package edit

import (
	"context"
	"errors"
	"fmt"

	"github.com/dshills/mirrorpad/internal/dispatcher/execctx"
	"github.com/dshills/mirrorpad/internal/dispatcher/handler"
	"github.com/dshills/mirrorpad/internal/document"
)

// Command labels for history operations.
const (
	LabelPrevious  = "Previous"
	LabelFollowing = "Following"
)

// Handlers returns the history handlers in menu order.
func Handlers() []handler.Handler {
	return []handler.Handler{PreviousHandler(), FollowingHandler()}
}

// Previous undoes the last edit.
type Previous struct{}

// PreviousHandler creates the Previous handler.
func PreviousHandler() *Previous { return &Previous{} }

// Label implements handler.Handler.
func (h *Previous) Label() string { return LabelPrevious }

// Handle snapshots the content and undoes the most recent history entry.
func (h *Previous) Handle(ctx context.Context, ec *execctx.ExecutionContext) handler.Result {
	if err := ec.ValidateForHistory(); err != nil {
		return handler.Error(err)
	}

	changed, err := onUI(ctx, ec, func(tx *document.Tx) error {
		return tx.Undo()
	})
	switch {
	case errors.Is(err, document.ErrNothingToUndo):
		return handler.NoOpWithMessage("nothing to undo")
	case errors.Is(err, document.ErrStaleHistory):
		ec.Logger.Warn("undo history discarded", "error", err)
		return handler.NoOpWithMessage("history no longer matches the text")
	case err != nil:
		ec.Logger.Error("undo failed", "error", err)
		return handler.Error(fmt.Errorf("%s: %w", ec.Command, err))
	}
	return handler.Success().WithMutation(changed)
}

// Following restores the pre-undo snapshot.
type Following struct{}

// FollowingHandler creates the Following handler.
func FollowingHandler() *Following { return &Following{} }

// Label implements handler.Handler.
func (h *Following) Label() string { return LabelFollowing }

// Handle restores the snapshot taken by the last Previous, if any.
func (h *Following) Handle(ctx context.Context, ec *execctx.ExecutionContext) handler.Result {
	if err := ec.ValidateForHistory(); err != nil {
		return handler.Error(err)
	}

	var had bool
	changed, err := onUI(ctx, ec, func(tx *document.Tx) error {
		var err error
		had, err = tx.Redo()
		return err
	})
	if err != nil {
		ec.Logger.Error("redo failed", "error", err)
		return handler.Error(fmt.Errorf("%s: %w", ec.Command, err))
	}
	if !had {
		return handler.NoOpWithMessage("nothing to restore")
	}
	return handler.Success().WithMutation(changed)
}

// onUI runs a document update on the UI loop and waits for it.
func onUI(ctx context.Context, ec *execctx.ExecutionContext, fn func(*document.Tx) error) (bool, error) {
	var changed bool
	var updateErr error
	err := ec.UI.Call(ctx, func() {
		changed, updateErr = ec.Document.Update(ctx, fn)
	})
	if err != nil {
		return false, err
	}
	return changed, updateErr
}
