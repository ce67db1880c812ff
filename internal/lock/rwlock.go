package lock

import (
	"context"
	"fmt"
	"sync"
)

// RWLock is a reader/writer lock that prefers writers.
//
// Readers share the lock; a writer holds it alone. A reader never acquires
// while a writer is pending or active.
//
// The zero value is an unlocked RWLock. An RWLock must not be copied after first use.
type RWLock struct {
	mu sync.Mutex

	readers      int  // active readers
	writers      int  // pending writers
	writerActive bool // a writer holds the lock

	// changed is closed and cleared whenever the state above changes,
	// waking every goroutine waiting on it.
	changed chan struct{}
}

// Stats is a point-in-time view of the lock state.
type Stats struct {
	Readers        int
	PendingWriters int
	WriterActive   bool
}

// RLock acquires shared access.
// It waits while a writer is pending or active.
func (l *RWLock) RLock(ctx context.Context) error {
	l.mu.Lock()
	for l.writers > 0 || l.writerActive {
		if err := l.wait(ctx); err != nil {
			return err
		}
	}
	l.readers++
	l.mu.Unlock()
	return nil
}

// RUnlock releases shared access.
// When the last reader leaves, all waiters are woken.
func (l *RWLock) RUnlock() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.readers <= 0 {
		panic("lock: RUnlock of unlocked RWLock")
	}
	l.readers--
	if l.readers == 0 {
		l.broadcast()
	}
}

// Lock acquires exclusive access.
//
// The caller is counted as a pending writer before it starts waiting, which
// blocks new readers. If ctx is cancelled while waiting, the pending count is
// withdrawn and ErrInterrupted is returned.
func (l *RWLock) Lock(ctx context.Context) error {
	l.mu.Lock()
	l.writers++
	for l.readers > 0 || l.writerActive {
		if err := l.wait(ctx); err != nil {
			l.mu.Lock()
			l.writers--
			l.broadcast()
			l.mu.Unlock()
			return err
		}
	}
	l.writerActive = true
	l.writers--
	l.mu.Unlock()
	return nil
}

// Unlock releases exclusive access and wakes all waiters.
func (l *RWLock) Unlock() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.writerActive {
		panic("lock: Unlock of unlocked RWLock")
	}
	l.writerActive = false
	l.broadcast()
}

// Stats returns the current lock state.
func (l *RWLock) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Stats{
		Readers:        l.readers,
		PendingWriters: l.writers,
		WriterActive:   l.writerActive,
	}
}

// wait blocks until the state changes or ctx is done.
// It must be called with l.mu held. On success l.mu is held again on return;
// on error l.mu is released.
func (l *RWLock) wait(ctx context.Context) error {
	if l.changed == nil {
		l.changed = make(chan struct{})
	}
	ch := l.changed
	l.mu.Unlock()

	select {
	case <-ch:
		l.mu.Lock()
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrInterrupted, ctx.Err())
	}
}

// broadcast wakes every waiter. Must be called with l.mu held.
func (l *RWLock) broadcast() {
	if l.changed != nil {
		close(l.changed)
		l.changed = nil
	}
}
