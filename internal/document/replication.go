package document

import (
	"context"
	"errors"
	"fmt"
)

// Subscriber receives content updates published by a document.
type Subscriber interface {
	Apply(ctx context.Context, u Update) error
}

// SubscriberFunc adapts a function to Subscriber.
type SubscriberFunc func(ctx context.Context, u Update) error

// Apply calls f.
func (f SubscriberFunc) Apply(ctx context.Context, u Update) error {
	return f(ctx, u)
}

type subscription struct {
	id  uint64
	sub Subscriber
}

// Subscription is a handle to an attached subscriber.
type Subscription struct {
	doc *Document
	id  uint64
}

// Cancel detaches the subscriber. Cancelling twice is a no-op.
func (s Subscription) Cancel(ctx context.Context) error {
	if s.doc == nil {
		return nil
	}
	return s.doc.detach(ctx, s.id)
}

// Attach adds sub to the subscriber set under write access.
// Subscribers are notified in attach order.
func (d *Document) Attach(ctx context.Context, sub Subscriber) (Subscription, error) {
	if sub == nil {
		return Subscription{}, ErrNilSubscriber
	}
	if other, ok := sub.(*Document); ok && other == d {
		return Subscription{}, ErrSelfSubscribe
	}

	if err := d.guard.Lock(ctx); err != nil {
		return Subscription{}, err
	}
	defer d.guard.Unlock()

	d.nextSubID++
	d.subs = append(d.subs, subscription{id: d.nextSubID, sub: sub})
	return Subscription{doc: d, id: d.nextSubID}, nil
}

func (d *Document) detach(ctx context.Context, id uint64) error {
	if err := d.guard.Lock(ctx); err != nil {
		return err
	}
	defer d.guard.Unlock()

	for i, s := range d.subs {
		if s.id == id {
			// Copy so a concurrent Publish iterating the old slice is unaffected.
			subs := make([]subscription, 0, len(d.subs)-1)
			subs = append(subs, d.subs[:i]...)
			subs = append(subs, d.subs[i+1:]...)
			d.subs = subs
			return nil
		}
	}
	return nil
}

// Publish delivers the committed content to every subscriber.
//
// The content, its version and the subscriber set are captured under read
// access, and delivery happens after it is released, so subscribers observe
// only fully committed state and two documents publishing to each other
// cannot deadlock. A publish that is overtaken by a later one carries an
// older version and is dropped by the receivers.
// Delivery errors are joined and returned after every subscriber has been tried.
func (d *Document) Publish(ctx context.Context) error {
	if err := d.guard.RLock(ctx); err != nil {
		return err
	}
	u := Update{Origin: d.seqOrigin, Seq: d.seq, Content: d.content}
	subs := d.subs
	d.guard.RUnlock()

	var errs []error
	for _, s := range subs {
		if err := s.sub.Apply(ctx, u); err != nil {
			errs = append(errs, fmt.Errorf("subscriber %d: %w", s.id, err))
		}
	}
	if len(errs) > 0 {
		d.logger.Warn("publish failed", "subscribers", len(subs), "failed", len(errs))
	}
	return errors.Join(errs...)
}

// Apply installs a replicated update. Updates that originated here, and
// updates no newer than the content already held, are ignored. The
// suppression flag is raised for the duration of the write so that the
// change is not published again, and it is cleared on every exit path.
// Apply itself never publishes.
func (d *Document) Apply(ctx context.Context, u Update) error {
	if u.Origin == d.id {
		return nil
	}
	if err := d.guard.Lock(ctx); err != nil {
		return err
	}
	d.suppressed = true
	defer func() {
		d.suppressed = false
		d.guard.Unlock()
	}()

	if !u.newerThan(d.seq, d.seqOrigin) {
		d.logger.Debug("stale update dropped", "origin", u.Origin.String(), "seq", u.Seq, "have", d.seq)
		return nil
	}
	tx := &Tx{d: d}
	tx.set(u.Content)
	d.seq, d.seqOrigin = u.Seq, u.Origin
	d.logger.Debug("applied update", "origin", u.Origin.String(), "seq", u.Seq, "bytes", len(u.Content))
	return nil
}

// Suppressed reports whether an external update is being applied.
// It acquires write access because the flag is only meaningful under it.
func (d *Document) Suppressed(ctx context.Context) (bool, error) {
	if err := d.guard.Lock(ctx); err != nil {
		return false, err
	}
	defer d.guard.Unlock()
	return d.suppressed, nil
}

// Link is a two-way replication pairing between documents.
type Link struct {
	subs []Subscription
}

// Pair attaches a and b as each other's subscribers.
func Pair(ctx context.Context, a, b *Document) (*Link, error) {
	ab, err := a.Attach(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("pair: %w", err)
	}
	ba, err := b.Attach(ctx, a)
	if err != nil {
		_ = ab.Cancel(ctx)
		return nil, fmt.Errorf("pair: %w", err)
	}
	return &Link{subs: []Subscription{ab, ba}}, nil
}

// PairAll links every document with every other one.
func PairAll(ctx context.Context, docs ...*Document) ([]*Link, error) {
	var links []*Link
	for i := 0; i < len(docs); i++ {
		for j := i + 1; j < len(docs); j++ {
			l, err := Pair(ctx, docs[i], docs[j])
			if err != nil {
				for _, prev := range links {
					_ = prev.Close(ctx)
				}
				return nil, err
			}
			links = append(links, l)
		}
	}
	return links, nil
}

// Close detaches both directions of the link.
func (l *Link) Close(ctx context.Context) error {
	var errs []error
	for _, s := range l.subs {
		if err := s.Cancel(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
