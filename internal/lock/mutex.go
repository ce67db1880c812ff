package lock

import (
	"context"
	"fmt"
	"sync"
)

// Mutex is an exclusive lock whose acquisition can be interrupted.
//
// The zero value is an unlocked Mutex. A Mutex must not be copied after first use.
type Mutex struct {
	once sync.Once
	sem  chan struct{}
}

func (m *Mutex) init() {
	m.once.Do(func() {
		m.sem = make(chan struct{}, 1)
	})
}

// Lock blocks until the mutex is free and then takes it.
// If ctx is cancelled first, Lock returns ErrInterrupted without holding the lock.
func (m *Mutex) Lock(ctx context.Context) error {
	m.init()

	// Prefer the lock over an already-cancelled context only when it is free.
	select {
	case m.sem <- struct{}{}:
		return nil
	default:
	}

	select {
	case m.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrInterrupted, ctx.Err())
	}
}

// TryLock takes the mutex if it is free and reports whether it did.
func (m *Mutex) TryLock() bool {
	m.init()
	select {
	case m.sem <- struct{}{}:
		return true
	default:
		return false
	}
}

// Unlock releases the mutex, letting one waiter proceed.
// Unlocking a mutex that is not held is a run-time error.
func (m *Mutex) Unlock() {
	m.init()
	select {
	case <-m.sem:
	default:
		panic("lock: unlock of unlocked Mutex")
	}
}

// Locked reports whether the mutex is currently held.
func (m *Mutex) Locked() bool {
	m.init()
	return len(m.sem) == 1
}
