package chooser

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/mirrorpad/internal/document"
)

func TestQueueAnswersInOrder(t *testing.T) {
	ctx := context.Background()
	q := NewQueue(nil)
	q.PushOpen("a.txt", "b.txt")
	q.PushSave("c.txt")

	r, ok, err := q.ChooseOpen(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, document.Resource("a.txt"), r)

	open, save := q.Pending()
	assert.Equal(t, 1, open)
	assert.Equal(t, 1, save)

	r, ok, err = q.ChooseSave(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, document.Resource("c.txt"), r)
}

func TestQueueEmptyCancels(t *testing.T) {
	q := NewQueue(nil)

	_, ok, err := q.ChooseOpen(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	q.PushSave("")
	_, ok, err = q.ChooseSave(context.Background())
	require.NoError(t, err)
	assert.False(t, ok, "queued empty resource is a cancellation")
}

func TestQueueFallback(t *testing.T) {
	fallback := NewQueue(nil)
	fallback.PushOpen("fallback.txt")

	q := NewQueue(fallback)
	q.PushOpen("first.txt")

	r, _, _ := q.ChooseOpen(context.Background())
	assert.Equal(t, document.Resource("first.txt"), r)
	r, ok, _ := q.ChooseOpen(context.Background())
	assert.True(t, ok)
	assert.Equal(t, document.Resource("fallback.txt"), r)
}

func TestQueueReset(t *testing.T) {
	q := NewQueue(nil)
	q.PushOpen("a")
	q.PushSave("b")
	q.Reset()

	open, save := q.Pending()
	assert.Zero(t, open)
	assert.Zero(t, save)
}

func TestPrompt(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   document.Resource
		wantOK bool
	}{
		{"path", "notes.txt\n", "notes.txt", true},
		{"trimmed", "  spaced.txt \r\n", "spaced.txt", true},
		{"empty line cancels", "\n", "", false},
		{"eof cancels", "", "", false},
		{"last line without newline", "tail.txt", "tail.txt", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompt(bufio.NewReader(strings.NewReader(tt.input)), &out)

			r, ok, err := p.ChooseSave(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, r)
			assert.Equal(t, "Save to: ", out.String())
		})
	}
}

func TestPromptOpenLabel(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompt(bufio.NewReader(strings.NewReader("x\n")), &out)

	_, _, err := p.ChooseOpen(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Open file: ", out.String())
}

func TestPromptCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewPrompt(bufio.NewReader(strings.NewReader("x\n")), &bytes.Buffer{})

	_, ok, err := p.ChooseOpen(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ok)
}
