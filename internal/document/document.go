package document

import (
	"context"

	"github.com/google/uuid"

	"github.com/dshills/mirrorpad/internal/engine/history"
	"github.com/dshills/mirrorpad/internal/lock"
	"github.com/dshills/mirrorpad/internal/logging"
)

// DefaultHistorySize is the undo depth used when none is configured.
const DefaultHistorySize = 1000

// Document is the shared mutable state of one pane.
type Document struct {
	id      uuid.UUID
	guard   lock.Guard
	history *history.History
	logger  *logging.Logger

	// Guarded by guard.
	content    string
	resource   Resource
	modified   bool
	previous   *string
	suppressed bool
	seq        uint64    // version of content
	seqOrigin  uuid.UUID // document that produced content
	subs       []subscription
	nextSubID  uint64
}

// Option configures a Document.
type Option func(*Document)

// WithGuard sets the lock protecting the document.
func WithGuard(g lock.Guard) Option {
	return func(d *Document) {
		if g != nil {
			d.guard = g
		}
	}
}

// WithHistorySize sets the maximum undo depth.
func WithHistorySize(n int) Option {
	return func(d *Document) {
		d.history = history.NewHistory(n)
	}
}

// WithContent sets the initial content. It is not recorded in history.
func WithContent(text string) Option {
	return func(d *Document) {
		d.content = text
	}
}

// WithResource sets the initially bound resource.
func WithResource(r Resource) Option {
	return func(d *Document) {
		d.resource = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(d *Document) {
		if l != nil {
			d.logger = l
		}
	}
}

// New creates an empty, unbound document guarded by a writer-preferring RWLock.
func New(opts ...Option) *Document {
	d := &Document{
		id:      uuid.New(),
		guard:   &lock.RWLock{},
		history: history.NewHistory(DefaultHistorySize),
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.WithField("document", d.id.String())
	return d
}

// ID returns the origin identifier stamped on updates this document publishes.
func (d *Document) ID() uuid.UUID {
	return d.id
}

// Read runs fn with read access held.
func (d *Document) Read(ctx context.Context, fn func(State)) error {
	if err := d.guard.RLock(ctx); err != nil {
		return err
	}
	defer d.guard.RUnlock()

	fn(d.stateLocked())
	return nil
}

// State returns a consistent snapshot of the document.
func (d *Document) State(ctx context.Context) (State, error) {
	var s State
	err := d.Read(ctx, func(st State) { s = st })
	return s, err
}

// Text returns the current content.
func (d *Document) Text(ctx context.Context) (string, error) {
	s, err := d.State(ctx)
	return s.Content, err
}

// Resource returns the bound resource, if any.
func (d *Document) Resource(ctx context.Context) (Resource, bool, error) {
	s, err := d.State(ctx)
	return s.Resource, !s.Resource.IsZero(), err
}

func (d *Document) stateLocked() State {
	s := State{
		Content:     d.content,
		Resource:    d.resource,
		Modified:    d.modified,
		CanUndo:     d.history.CanUndo(),
		HasSnapshot: d.previous != nil,
		Subscribers: len(d.subs),
	}
	if info, ok := d.history.Peek(); ok {
		s.NextUndo = info.Description
	}
	return s
}

// Update runs fn with write access held and reports whether the content
// changed. Write access is released on every exit path, including a panic in fn.
//
// Changes made while the document is applying a replicated update are not
// reported.
func (d *Document) Update(ctx context.Context, fn func(*Tx) error) (bool, error) {
	if err := d.guard.Lock(ctx); err != nil {
		return false, err
	}
	defer d.guard.Unlock()

	tx := &Tx{d: d}
	err := fn(tx)
	return tx.changed, err
}

// SetText replaces the content as a user edit, records it in history and
// publishes the result to subscribers.
func (d *Document) SetText(ctx context.Context, text string) error {
	changed, err := d.Update(ctx, func(tx *Tx) error {
		return tx.Replace("Set text", text)
	})
	if err != nil {
		return err
	}
	if changed {
		return d.Publish(ctx)
	}
	return nil
}

// Insert inserts text at offset as a user edit and publishes the result.
func (d *Document) Insert(ctx context.Context, offset int, text string) error {
	return d.edit(ctx, history.NewInsertCommand(offset, text))
}

// Delete removes the byte range [start, end) as a user edit and publishes
// the result.
func (d *Document) Delete(ctx context.Context, start, end int) error {
	return d.edit(ctx, history.NewDeleteCommand(start, end))
}

func (d *Document) edit(ctx context.Context, cmd history.Command) error {
	changed, err := d.Update(ctx, func(tx *Tx) error {
		return tx.Edit(cmd)
	})
	if err != nil {
		return err
	}
	if changed {
		return d.Publish(ctx)
	}
	return nil
}
