package document

import (
	"errors"
	"fmt"

	"github.com/dshills/mirrorpad/internal/engine/history"
)

// Tx is the write view of a document handed to Update.
// It must not be retained after the Update function returns.
type Tx struct {
	d       *Document
	changed bool
}

// Content returns the current content.
func (tx *Tx) Content() string {
	return tx.d.content
}

// Resource returns the bound resource and whether one is bound.
func (tx *Tx) Resource() (Resource, bool) {
	return tx.d.resource, !tx.d.resource.IsZero()
}

// Edit applies cmd to the content and records it in history.
func (tx *Tx) Edit(cmd history.Command) error {
	out, err := tx.d.history.Execute(cmd, tx.d.content)
	if err != nil {
		return err
	}
	tx.set(out)
	return nil
}

// Replace replaces the whole content, recording the change as one history entry.
// Replacing with identical text is a no-op.
func (tx *Tx) Replace(name, text string) error {
	if text == tx.d.content {
		return nil
	}
	return tx.Edit(history.NewReplaceCommand(name, text))
}

// Bind associates the document with r.
func (tx *Tx) Bind(r Resource) {
	tx.d.resource = r
}

// Unbind clears the bound resource.
func (tx *Tx) Unbind() {
	tx.d.resource = ""
}

// MarkSaved clears the modified flag.
func (tx *Tx) MarkSaved() {
	tx.d.modified = false
}

// Modified reports whether there are unsaved changes.
func (tx *Tx) Modified() bool {
	return tx.d.modified
}

// CanUndo reports whether history has an entry to undo.
func (tx *Tx) CanUndo() bool {
	return tx.d.history.CanUndo()
}

// Snapshot returns the single-slot pre-undo snapshot.
func (tx *Tx) Snapshot() (string, bool) {
	if tx.d.previous == nil {
		return "", false
	}
	return *tx.d.previous, true
}

// Undo records the current content as the pre-undo snapshot and then undoes
// the most recent history entry. With an empty history the snapshot is still
// taken and ErrNothingToUndo is returned. If the entry cannot be undone the
// earlier snapshot is kept; an entry that no longer matches the content
// clears the history and returns ErrStaleHistory.
func (tx *Tx) Undo() error {
	current := tx.d.content
	if !tx.d.history.CanUndo() {
		tx.d.previous = &current
		return ErrNothingToUndo
	}

	out, err := tx.d.history.Undo(current)
	switch {
	case errors.Is(err, history.ErrConflict), errors.Is(err, history.ErrOutOfRange):
		tx.d.history.Clear()
		return fmt.Errorf("%w: %v", ErrStaleHistory, err)
	case err != nil:
		return err
	}
	tx.d.previous = &current
	tx.set(out)
	return nil
}

// Redo restores the pre-undo snapshot without consulting the undo stack.
// Only the most recent undo can be reversed this way. The restore is recorded
// as an ordinary edit so it can itself be undone. It reports whether a
// snapshot was present.
func (tx *Tx) Redo() (bool, error) {
	if tx.d.previous == nil {
		return false, nil
	}
	return true, tx.Replace("Restore", *tx.d.previous)
}

// Changed reports whether the content changed in this transaction.
func (tx *Tx) Changed() bool {
	return tx.changed
}

func (tx *Tx) set(text string) {
	if text == tx.d.content {
		return
	}
	tx.d.content = text
	tx.d.modified = true
	if !tx.d.suppressed {
		tx.changed = true
		tx.d.seq++
		tx.d.seqOrigin = tx.d.id
	}
}
