package lock

import (
	"context"
	"fmt"
)

// Guard mode names accepted by NewGuard.
const (
	ModeReadWrite = "rw"
	ModeExclusive = "exclusive"
)

// Guard provides read and write access to a shared resource.
type Guard interface {
	Lock(ctx context.Context) error
	Unlock()
	RLock(ctx context.Context) error
	RUnlock()
}

// exclusiveGuard serializes readers as well as writers.
type exclusiveGuard struct {
	m *Mutex
}

// Exclusive returns a Guard in which every access, read or write, is exclusive.
func Exclusive(m *Mutex) Guard {
	if m == nil {
		m = &Mutex{}
	}
	return exclusiveGuard{m: m}
}

func (g exclusiveGuard) Lock(ctx context.Context) error  { return g.m.Lock(ctx) }
func (g exclusiveGuard) Unlock()                         { g.m.Unlock() }
func (g exclusiveGuard) RLock(ctx context.Context) error { return g.m.Lock(ctx) }
func (g exclusiveGuard) RUnlock()                        { g.m.Unlock() }

// NewGuard returns a guard for the named mode.
// An empty mode selects ModeReadWrite.
func NewGuard(mode string) (Guard, error) {
	switch mode {
	case "", ModeReadWrite:
		return &RWLock{}, nil
	case ModeExclusive:
		return Exclusive(&Mutex{}), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}
