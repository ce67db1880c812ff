// Package chooser provides resource choice capabilities for file commands.
//
// A chooser answers "which resource?" for Open, Save and Save as. Returning
// ok == false means the user cancelled, which is not an error.
package chooser

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dshills/mirrorpad/internal/document"
)

// Chooser asks for a resource to open or save to.
type Chooser interface {
	ChooseOpen(ctx context.Context) (document.Resource, bool, error)
	ChooseSave(ctx context.Context) (document.Resource, bool, error)
}

// Queue answers from pre-loaded choices. When its queue for a purpose is
// empty it defers to the fallback, or reports cancellation if there is none.
//
// An empty resource in the queue is answered as a cancellation.
type Queue struct {
	mu       sync.Mutex
	open     []document.Resource
	save     []document.Resource
	fallback Chooser
}

// NewQueue creates a queue chooser with an optional fallback.
func NewQueue(fallback Chooser) *Queue {
	return &Queue{fallback: fallback}
}

// PushOpen queues answers for ChooseOpen.
func (q *Queue) PushOpen(rs ...document.Resource) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.open = append(q.open, rs...)
}

// PushSave queues answers for ChooseSave.
func (q *Queue) PushSave(rs ...document.Resource) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.save = append(q.save, rs...)
}

// Pending returns the number of queued open and save answers.
func (q *Queue) Pending() (open, save int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.open), len(q.save)
}

// Reset drops all queued answers.
func (q *Queue) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.open, q.save = nil, nil
}

// ChooseOpen implements Chooser.
func (q *Queue) ChooseOpen(ctx context.Context) (document.Resource, bool, error) {
	q.mu.Lock()
	if len(q.open) > 0 {
		r := q.open[0]
		q.open = q.open[1:]
		q.mu.Unlock()
		return r, !r.IsZero(), nil
	}
	q.mu.Unlock()

	if q.fallback != nil {
		return q.fallback.ChooseOpen(ctx)
	}
	return "", false, nil
}

// ChooseSave implements Chooser.
func (q *Queue) ChooseSave(ctx context.Context) (document.Resource, bool, error) {
	q.mu.Lock()
	if len(q.save) > 0 {
		r := q.save[0]
		q.save = q.save[1:]
		q.mu.Unlock()
		return r, !r.IsZero(), nil
	}
	q.mu.Unlock()

	if q.fallback != nil {
		return q.fallback.ChooseSave(ctx)
	}
	return "", false, nil
}

// Prompt asks for a path on a line-oriented terminal.
// An empty line or end of input cancels.
type Prompt struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

// NewPrompt creates a prompt chooser. The reader is shared with other
// consumers of the same input stream, so pass the same *bufio.Reader.
func NewPrompt(in *bufio.Reader, out io.Writer) *Prompt {
	return &Prompt{in: in, out: out}
}

// ChooseOpen implements Chooser.
func (p *Prompt) ChooseOpen(ctx context.Context) (document.Resource, bool, error) {
	return p.ask(ctx, "Open file: ")
}

// ChooseSave implements Chooser.
func (p *Prompt) ChooseSave(ctx context.Context) (document.Resource, bool, error) {
	return p.ask(ctx, "Save to: ")
}

func (p *Prompt) ask(ctx context.Context, label string) (document.Resource, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := fmt.Fprint(p.out, label); err != nil {
		return "", false, fmt.Errorf("prompt: %w", err)
	}
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, fmt.Errorf("prompt: %w", err)
	}
	path := strings.TrimSpace(line)
	if path == "" {
		return "", false, nil
	}
	return document.Resource(path), true, nil
}
