// Package lock provides the mutual-exclusion primitives that guard a document.
//
// Two primitives are provided:
//
//   - Mutex: an exclusive lock. At most one holder at a time.
//   - RWLock: a shared/exclusive lock with writer preference.
//
// Both block without a timeout. A blocked acquisition can only be abandoned by
// cancelling the supplied context, in which case ErrInterrupted is returned and
// the lock is not held.
//
// # Writer Preference
//
// RWLock counts pending writers. A reader that arrives while any writer is
// pending waits, even if no writer is active yet:
//
//	rw.RLock(ctx)   // reader A holds the lock
//	rw.Lock(ctx)    // writer W registers as pending and waits for A
//	rw.RLock(ctx)   // reader B waits behind W, not beside A
//
// Continuous read traffic therefore cannot starve a writer.
//
// # Reentrancy
//
// Neither lock is reentrant. A goroutine that calls Lock twice on the same
// RWLock (or RLock while holding Lock) deadlocks until its context is
// cancelled.
//
// # Guard
//
// Guard is the interface a document uses. *RWLock satisfies it directly;
// Exclusive adapts a Mutex so that read access is exclusive as well.
package lock
