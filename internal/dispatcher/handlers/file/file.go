package file

import (
	"context"
	"errors"
	"fmt"

	"github.com/dshills/mirrorpad/internal/dispatcher/execctx"
	"github.com/dshills/mirrorpad/internal/dispatcher/handler"
	"github.com/dshills/mirrorpad/internal/document"
)

// Command labels for file operations.
const (
	LabelNew    = "New"
	LabelOpen   = "Open"
	LabelSave   = "Save"
	LabelSaveAs = "Save as"
	LabelClose  = "Close"
)

// Handlers returns the file handlers in menu order.
func Handlers() []handler.Handler {
	return []handler.Handler{
		NewHandler(),
		OpenHandler(),
		SaveHandler(),
		SaveAsHandler(),
		CloseHandler(),
	}
}

// New clears the document.
type New struct{}

// NewHandler creates the New handler.
func NewHandler() *New { return &New{} }

// Label implements handler.Handler.
func (h *New) Label() string { return LabelNew }

// Handle clears the content and unbinds the resource.
func (h *New) Handle(ctx context.Context, ec *execctx.ExecutionContext) handler.Result {
	if err := ec.Validate(); err != nil {
		return handler.Error(err)
	}

	changed, err := ec.Document.Update(ctx, func(tx *document.Tx) error {
		if err := tx.Replace(LabelNew, ""); err != nil {
			return err
		}
		tx.Unbind()
		tx.MarkSaved()
		return nil
	})
	if err != nil {
		return failed(ec, "new failed", "", err)
	}
	return handler.Success().WithMutation(changed).WithMessage(document.Untitled)
}

// Open loads a chosen resource.
type Open struct{}

// OpenHandler creates the Open handler.
func OpenHandler() *Open { return &Open{} }

// Label implements handler.Handler.
func (h *Open) Label() string { return LabelOpen }

// Handle chooses a resource, loads it and replaces the content in full.
// A load failure leaves the document unchanged.
func (h *Open) Handle(ctx context.Context, ec *execctx.ExecutionContext) handler.Result {
	if err := ec.ValidateForFile(); err != nil {
		return handler.Error(err)
	}

	r, ok, err := ec.Chooser.ChooseOpen(ctx)
	if err != nil {
		return failed(ec, "choose failed", "", err)
	}
	if !ok {
		return handler.CancelledWithMessage("open cancelled")
	}

	changed, err := ec.Document.Update(ctx, func(tx *document.Tx) error {
		text, err := ec.Store.Load(ctx, r)
		if err != nil {
			return err
		}
		if err := tx.Replace(LabelOpen, text); err != nil {
			return err
		}
		tx.Bind(r)
		tx.MarkSaved()
		return nil
	})
	if err != nil {
		return failed(ec, "open failed", r, err)
	}
	return handler.Success().
		WithMutation(changed).
		WithData("resource", r.String()).
		WithMessage("Opened: " + r.Name())
}

// Save writes the content to the bound resource.
type Save struct{}

// SaveHandler creates the Save handler.
func SaveHandler() *Save { return &Save{} }

// Label implements handler.Handler.
func (h *Save) Label() string { return LabelSave }

// Handle persists to the bound resource. An unbound document first obtains
// a target from the chooser and binds it before writing; if the write then
// fails the document stays bound to a resource that was never written.
func (h *Save) Handle(ctx context.Context, ec *execctx.ExecutionContext) handler.Result {
	if err := ec.ValidateForFile(); err != nil {
		return handler.Error(err)
	}

	_, bound, err := ec.Document.Resource(ctx)
	if err != nil {
		return failed(ec, "save failed", "", err)
	}

	result := h.save(ctx, ec, bound)
	if errors.Is(result.Error, ErrNoTarget) {
		// Unbound by a concurrent New since the check: ask for a target.
		ec.Logger.Debug("save target cleared, choosing again")
		result = h.save(ctx, ec, false)
	}
	return result
}

func (h *Save) save(ctx context.Context, ec *execctx.ExecutionContext, bound bool) handler.Result {
	var chosen document.Resource
	if !bound {
		r, ok, err := ec.Chooser.ChooseSave(ctx)
		if err != nil {
			return failed(ec, "choose failed", "", err)
		}
		if !ok {
			return handler.CancelledWithMessage("save cancelled")
		}
		chosen = r
	}

	var target document.Resource
	_, err := ec.Document.Update(ctx, func(tx *document.Tx) error {
		r, ok := tx.Resource()
		if !ok {
			if chosen.IsZero() {
				return ErrNoTarget
			}
			r = chosen
			tx.Bind(r)
		}
		target = r
		return persist(ctx, ec, tx, r)
	})
	if errors.Is(err, ErrNoTarget) {
		return handler.Error(err)
	}
	if err != nil {
		return failed(ec, "save failed", target, err)
	}
	return saved(target)
}

// SaveAs writes the content to a freshly chosen resource.
type SaveAs struct{}

// SaveAsHandler creates the Save as handler.
func SaveAsHandler() *SaveAs { return &SaveAs{} }

// Label implements handler.Handler.
func (h *SaveAs) Label() string { return LabelSaveAs }

// Handle always chooses a target, rebinds to it and writes.
func (h *SaveAs) Handle(ctx context.Context, ec *execctx.ExecutionContext) handler.Result {
	if err := ec.ValidateForFile(); err != nil {
		return handler.Error(err)
	}

	r, ok, err := ec.Chooser.ChooseSave(ctx)
	if err != nil {
		return failed(ec, "choose failed", "", err)
	}
	if !ok {
		return handler.CancelledWithMessage("save as cancelled")
	}

	_, err = ec.Document.Update(ctx, func(tx *document.Tx) error {
		tx.Bind(r)
		return persist(ctx, ec, tx, r)
	})
	if err != nil {
		return failed(ec, "save as failed", r, err)
	}
	return saved(r)
}

// Close disposes of the pane's window.
type Close struct{}

// CloseHandler creates the Close handler.
func CloseHandler() *Close { return &Close{} }

// Label implements handler.Handler.
func (h *Close) Label() string { return LabelClose }

// Handle disposes of the window. The document is not touched.
func (h *Close) Handle(ctx context.Context, ec *execctx.ExecutionContext) handler.Result {
	if ec.Window == nil {
		return handler.Error(execctx.ErrMissingWindow)
	}
	ec.Window.Dispose()
	return handler.SuccessWithMessage("closed")
}

func persist(ctx context.Context, ec *execctx.ExecutionContext, tx *document.Tx, r document.Resource) error {
	if err := ec.Store.Persist(ctx, r, tx.Content()); err != nil {
		ec.Logger.Warn("bound to unwritten resource", "resource", r.String())
		return err
	}
	tx.MarkSaved()
	return nil
}

func saved(r document.Resource) handler.Result {
	return handler.Success().
		WithData("resource", r.String()).
		WithMessage("Saved: " + r.Name())
}

// failed logs err and turns it into an error result.
func failed(ec *execctx.ExecutionContext, msg string, r document.Resource, err error) handler.Result {
	ec.Logger.Error(msg, "resource", r.String(), "error", err)
	return handler.Error(fmt.Errorf("%s: %w", ec.Command, err)).
		WithData("resource", r.String())
}
