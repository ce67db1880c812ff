package document

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/mirrorpad/internal/engine/history"
	"github.com/dshills/mirrorpad/internal/lock"
)

func TestNewDocument(t *testing.T) {
	d := New()
	s, err := d.State(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "", s.Content)
	assert.True(t, s.Resource.IsZero())
	assert.Equal(t, Untitled, s.Name())
	assert.False(t, s.Modified)
	assert.False(t, s.CanUndo)
}

func TestDocumentOptions(t *testing.T) {
	d := New(
		WithContent("hello"),
		WithResource("dir/notes.txt"),
		WithGuard(lock.Exclusive(nil)),
		WithHistorySize(2),
	)
	s, err := d.State(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "hello", s.Content)
	assert.Equal(t, Resource("dir/notes.txt"), s.Resource)
	assert.Equal(t, "notes.txt", s.Name())
	assert.False(t, s.CanUndo, "initial content is not history")
}

func TestUpdateReportsChange(t *testing.T) {
	ctx := context.Background()
	d := New()

	changed, err := d.Update(ctx, func(tx *Tx) error {
		return tx.Replace("edit", "abc")
	})
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = d.Update(ctx, func(tx *Tx) error {
		tx.Bind("a.txt")
		return tx.Replace("edit", "abc")
	})
	require.NoError(t, err)
	assert.False(t, changed, "binding and identical text is not a content change")

	r, ok, err := d.Resource(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Resource("a.txt"), r)
}

func TestUpdateReleasesOnError(t *testing.T) {
	ctx := context.Background()
	d := New()
	boom := errors.New("boom")

	_, err := d.Update(ctx, func(tx *Tx) error { return boom })
	assert.ErrorIs(t, err, boom)

	// The lock must be free again.
	tctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	_, err = d.Update(tctx, func(tx *Tx) error { return nil })
	require.NoError(t, err)
}

func TestUpdateReleasesOnPanic(t *testing.T) {
	ctx := context.Background()
	d := New()

	assert.Panics(t, func() {
		_, _ = d.Update(ctx, func(tx *Tx) error { panic("handler bug") })
	})

	tctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	_, err := d.State(tctx)
	require.NoError(t, err)
}

func TestUpdateInterrupted(t *testing.T) {
	d := New()
	held := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_, _ = d.Update(context.Background(), func(tx *Tx) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := d.Update(ctx, func(tx *Tx) error {
		t.Error("function ran without the lock")
		return nil
	})
	assert.ErrorIs(t, err, lock.ErrInterrupted)
}

func TestInsertRecordsHistory(t *testing.T) {
	ctx := context.Background()
	d := New(WithContent("ac"))

	require.NoError(t, d.Insert(ctx, 1, "b"))
	text, err := d.Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", text)

	s, err := d.State(ctx)
	require.NoError(t, err)
	assert.True(t, s.CanUndo)
	assert.True(t, s.Modified)
	assert.Equal(t, `Insert "b"`, s.NextUndo)
}

func TestDeleteRecordsHistory(t *testing.T) {
	ctx := context.Background()
	d := New(WithContent("hello world"))

	require.NoError(t, d.Delete(ctx, 5, 11))
	text, _ := d.Text(ctx)
	assert.Equal(t, "hello", text)

	s, _ := d.State(ctx)
	assert.Equal(t, "Delete 6 bytes", s.NextUndo)

	_, err := d.Update(ctx, func(tx *Tx) error { return tx.Undo() })
	require.NoError(t, err)
	text, _ = d.Text(ctx)
	assert.Equal(t, "hello world", text)

	err = d.Delete(ctx, 4, 40)
	assert.ErrorIs(t, err, history.ErrOutOfRange)
}

func TestUndoRedoSingleSnapshot(t *testing.T) {
	ctx := context.Background()
	d := New()
	require.NoError(t, d.SetText(ctx, "A"))
	require.NoError(t, d.SetText(ctx, "AB"))

	_, err := d.Update(ctx, func(tx *Tx) error { return tx.Undo() })
	require.NoError(t, err)
	text, _ := d.Text(ctx)
	assert.Equal(t, "A", text)

	var snap string
	_, err = d.Update(ctx, func(tx *Tx) error {
		snap, _ = tx.Snapshot()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "AB", snap)

	var had bool
	changed, err := d.Update(ctx, func(tx *Tx) error {
		var err error
		had, err = tx.Redo()
		return err
	})
	require.NoError(t, err)
	assert.True(t, had)
	assert.True(t, changed)
	text, _ = d.Text(ctx)
	assert.Equal(t, "AB", text)
}

func TestMultiStepUndoRestoresOnlyLastSnapshot(t *testing.T) {
	ctx := context.Background()
	d := New()
	for _, s := range []string{"A", "AB", "ABC"} {
		require.NoError(t, d.SetText(ctx, s))
	}

	for i := 0; i < 2; i++ {
		_, err := d.Update(ctx, func(tx *Tx) error { return tx.Undo() })
		require.NoError(t, err)
	}
	text, _ := d.Text(ctx)
	assert.Equal(t, "A", text)

	_, err := d.Update(ctx, func(tx *Tx) error {
		_, err := tx.Redo()
		return err
	})
	require.NoError(t, err)
	text, _ = d.Text(ctx)
	assert.Equal(t, "AB", text, "redo restores the most recent pre-undo snapshot only")
}

func TestUndoEmptyHistory(t *testing.T) {
	ctx := context.Background()
	d := New(WithContent("x"))

	changed, err := d.Update(ctx, func(tx *Tx) error { return tx.Undo() })
	assert.ErrorIs(t, err, ErrNothingToUndo)
	assert.False(t, changed)

	s, _ := d.State(ctx)
	assert.True(t, s.HasSnapshot)
	assert.Equal(t, "x", s.Content)
}

func TestRedoWithoutSnapshot(t *testing.T) {
	d := New(WithContent("x"))
	var had bool
	changed, err := d.Update(context.Background(), func(tx *Tx) error {
		var err error
		had, err = tx.Redo()
		return err
	})
	require.NoError(t, err)
	assert.False(t, had)
	assert.False(t, changed)
}

func TestConcurrentUpdatesSerialize(t *testing.T) {
	ctx := context.Background()
	d := New()

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := d.Update(ctx, func(tx *Tx) error {
				return tx.Edit(insertAtEnd(tx.Content(), "x"))
			})
			if err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	text, err := d.Text(ctx)
	require.NoError(t, err)
	assert.Len(t, text, writers)
}
