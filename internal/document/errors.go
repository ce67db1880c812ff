package document

import "errors"

// Errors returned by document operations.
var (
	// ErrSelfSubscribe is returned when a document is attached to itself.
	ErrSelfSubscribe = errors.New("document: cannot subscribe a document to itself")

	// ErrNilSubscriber is returned when attaching a nil subscriber.
	ErrNilSubscriber = errors.New("document: nil subscriber")

	// ErrNothingToUndo is returned by Tx.Undo when the history is empty.
	ErrNothingToUndo = errors.New("document: nothing to undo")

	// ErrStaleHistory is returned by Tx.Undo when the newest history entry
	// no longer matches the content, after a replicated update replaced it.
	// The history is discarded.
	ErrStaleHistory = errors.New("document: history no longer matches the content")
)
