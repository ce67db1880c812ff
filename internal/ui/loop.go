// Package ui provides the UI-affine execution context.
//
// A Loop owns a single goroutine that runs posted callbacks one at a time in
// the order they were posted. Work that must observe and change visible
// state consistently (undo and redo) is funneled through it, while other
// commands run on worker goroutines.
//
// Calling Call from inside a callback deadlocks: the inner callback is queued
// behind the one waiting for it.
package ui

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/dshills/mirrorpad/internal/logging"
)

// DefaultQueueSize is the number of callbacks that may wait in the queue.
const DefaultQueueSize = 64

type task struct {
	fn   func()
	done chan error // nil for Post
}

// Loop runs callbacks on one goroutine.
type Loop struct {
	queueSize int
	logger    *logging.Logger

	mu       sync.Mutex
	queue    chan task
	stopping chan struct{}
	stopped  chan struct{}
	running  atomic.Bool

	processed atomic.Uint64
	panicked  atomic.Uint64
	dropped   atomic.Uint64
}

// Option configures a Loop.
type Option func(*Loop)

// WithQueueSize sets the queue capacity.
func WithQueueSize(size int) Option {
	return func(l *Loop) {
		if size > 0 {
			l.queueSize = size
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoop creates a stopped loop.
func NewLoop(opts ...Option) *Loop {
	l := &Loop{
		queueSize: DefaultQueueSize,
		logger:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.WithComponent("ui")
	return l
}

// Start starts the loop goroutine.
func (l *Loop) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running.Load() {
		return ErrAlreadyRunning
	}

	l.queue = make(chan task, l.queueSize)
	l.stopping = make(chan struct{})
	l.stopped = make(chan struct{})
	l.running.Store(true)

	go l.run(l.queue, l.stopping, l.stopped)
	return nil
}

// Run starts the loop and blocks until ctx is done, then stops it.
func (l *Loop) Run(ctx context.Context) error {
	if err := l.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	return l.Stop(context.Background())
}

// Stop stops the loop after the callbacks already queued have run.
// It waits for the loop goroutine to exit or for ctx to be done.
func (l *Loop) Stop(ctx context.Context) error {
	l.mu.Lock()
	if !l.running.Load() {
		l.mu.Unlock()
		return ErrNotRunning
	}
	l.running.Store(false)
	close(l.stopping)
	stopped := l.stopped
	l.mu.Unlock()

	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRunning returns true if the loop is running.
func (l *Loop) IsRunning() bool {
	return l.running.Load()
}

// Post queues fn without waiting for it to run.
// It returns ErrQueueFull instead of blocking when the queue is at capacity.
func (l *Loop) Post(fn func()) error {
	queue, stopping, _, err := l.channels()
	if err != nil {
		return err
	}

	select {
	case <-stopping:
		return ErrNotRunning
	default:
	}

	select {
	case queue <- task{fn: fn}:
		return nil
	default:
		l.dropped.Add(1)
		return ErrQueueFull
	}
}

// Call runs fn on the loop and waits for it to return.
// A panic in fn is recovered on the loop and returned wrapped in ErrPanic.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	queue, stopping, stopped, err := l.channels()
	if err != nil {
		return err
	}

	t := task{fn: fn, done: make(chan error, 1)}
	select {
	case queue <- t:
	case <-stopping:
		return ErrNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-t.done:
		return err
	case <-stopped:
		// The loop may have run the task while draining.
		select {
		case err := <-t.done:
			return err
		default:
			return ErrNotRunning
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns loop statistics.
func (l *Loop) Stats() Stats {
	depth := 0
	if queue, _, _, err := l.channels(); err == nil {
		depth = len(queue)
	}
	return Stats{
		Processed:  l.processed.Load(),
		Panicked:   l.panicked.Load(),
		Dropped:    l.dropped.Load(),
		QueueDepth: depth,
	}
}

// Stats contains loop statistics.
type Stats struct {
	Processed  uint64
	Panicked   uint64
	Dropped    uint64
	QueueDepth int
}

func (l *Loop) channels() (chan task, chan struct{}, chan struct{}, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.running.Load() {
		return nil, nil, nil, ErrNotRunning
	}
	return l.queue, l.stopping, l.stopped, nil
}

func (l *Loop) run(queue chan task, stopping, stopped chan struct{}) {
	defer close(stopped)

	for {
		select {
		case t := <-queue:
			l.execute(t)
		case <-stopping:
			for {
				select {
				case t := <-queue:
					l.execute(t)
				default:
					return
				}
			}
		}
	}
}

func (l *Loop) execute(t task) {
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				l.panicked.Add(1)
				l.logger.Error("callback panicked", "panic", r, "stack", string(debug.Stack()))
				err = fmt.Errorf("%w: %v", ErrPanic, r)
			}
		}()
		t.fn()
	}()
	l.processed.Add(1)

	if t.done != nil {
		t.done <- err
	}
}
