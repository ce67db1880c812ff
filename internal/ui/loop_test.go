package ui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startLoop(t *testing.T, opts ...Option) *Loop {
	t.Helper()
	l := NewLoop(opts...)
	require.NoError(t, l.Start())
	t.Cleanup(func() {
		if l.IsRunning() {
			_ = l.Stop(context.Background())
		}
	})
	return l
}

func TestCallRunsOnLoop(t *testing.T) {
	l := startLoop(t)

	ran := false
	require.NoError(t, l.Call(context.Background(), func() { ran = true }))
	assert.True(t, ran)
	assert.Equal(t, uint64(1), l.Stats().Processed)
}

func TestCallbacksRunInOrderOneAtATime(t *testing.T) {
	l := startLoop(t, WithQueueSize(128))

	var mu sync.Mutex
	var order []int
	inside := 0
	overlap := false

	for i := 0; i < 100; i++ {
		i := i
		require.NoError(t, l.Post(func() {
			mu.Lock()
			inside++
			if inside > 1 {
				overlap = true
			}
			order = append(order, i)
			mu.Unlock()

			mu.Lock()
			inside--
			mu.Unlock()
		}))
	}
	require.NoError(t, l.Call(context.Background(), func() {}))

	mu.Lock()
	defer mu.Unlock()
	assert.False(t, overlap)
	require.Len(t, order, 100)
	for i, v := range order {
		assert.Equal(t, i, v)
	}
}

func TestCallRecoversPanic(t *testing.T) {
	l := startLoop(t)

	err := l.Call(context.Background(), func() { panic("boom") })
	assert.True(t, errors.Is(err, ErrPanic))
	assert.Equal(t, uint64(1), l.Stats().Panicked)

	// The loop survives.
	require.NoError(t, l.Call(context.Background(), func() {}))
}

func TestPostQueueFull(t *testing.T) {
	l := startLoop(t, WithQueueSize(1))

	block := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, l.Post(func() {
		close(started)
		<-block
	}))
	<-started

	require.NoError(t, l.Post(func() {}))
	assert.ErrorIs(t, l.Post(func() {}), ErrQueueFull)
	assert.Equal(t, uint64(1), l.Stats().Dropped)
	close(block)
}

func TestNotRunning(t *testing.T) {
	l := NewLoop()

	assert.ErrorIs(t, l.Post(func() {}), ErrNotRunning)
	assert.ErrorIs(t, l.Call(context.Background(), func() {}), ErrNotRunning)
	assert.ErrorIs(t, l.Stop(context.Background()), ErrNotRunning)
}

func TestStartTwice(t *testing.T) {
	l := startLoop(t)
	assert.ErrorIs(t, l.Start(), ErrAlreadyRunning)
}

func TestStopDrainsQueue(t *testing.T) {
	l := NewLoop()
	require.NoError(t, l.Start())

	var mu sync.Mutex
	count := 0
	for i := 0; i < 10; i++ {
		require.NoError(t, l.Post(func() {
			mu.Lock()
			count++
			mu.Unlock()
		}))
	}
	require.NoError(t, l.Stop(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 10, count)
	assert.False(t, l.IsRunning())
}

func TestCallContextCancelled(t *testing.T) {
	l := startLoop(t)

	block := make(chan struct{})
	defer close(block)
	require.NoError(t, l.Post(func() { <-block }))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := l.Call(ctx, func() {})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunStopsOnContext(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	go func() { errc <- l.Run(ctx) }()

	require.Eventually(t, l.IsRunning, time.Second, time.Millisecond)
	require.NoError(t, l.Call(context.Background(), func() {}))
	cancel()

	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.False(t, l.IsRunning())
}

func TestRestart(t *testing.T) {
	l := NewLoop()
	require.NoError(t, l.Start())
	require.NoError(t, l.Stop(context.Background()))
	require.NoError(t, l.Start())
	require.NoError(t, l.Call(context.Background(), func() {}))
	require.NoError(t, l.Stop(context.Background()))
}
