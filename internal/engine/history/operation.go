package history

import (
	"fmt"
	"time"
)

// Operation represents a single undoable edit.
// Start and End are byte offsets into the text the operation was applied to.
type Operation struct {
	Start   int
	End     int
	OldText string
	NewText string

	Timestamp time.Time
}

// NewOperation creates a new operation.
func NewOperation(start, end int, oldText, newText string) *Operation {
	return &Operation{
		Start:     start,
		End:       end,
		OldText:   oldText,
		NewText:   newText,
		Timestamp: time.Now(),
	}
}

// Apply performs the operation on text. The range [Start, End) must still
// hold OldText.
func (op *Operation) Apply(text string) (string, error) {
	if op.Start < 0 || op.End < op.Start || op.End > len(text) {
		return "", fmt.Errorf("%w: [%d,%d) in %d bytes", ErrOutOfRange, op.Start, op.End, len(text))
	}
	if got := text[op.Start:op.End]; got != op.OldText {
		return "", fmt.Errorf("%w: [%d,%d) holds %q, want %q", ErrConflict, op.Start, op.End, got, op.OldText)
	}
	return text[:op.Start] + op.NewText + text[op.End:], nil
}

// Invert returns an operation that undoes this one.
func (op *Operation) Invert() *Operation {
	return &Operation{
		Start:     op.Start,
		End:       op.Start + len(op.NewText),
		OldText:   op.NewText,
		NewText:   op.OldText,
		Timestamp: time.Now(),
	}
}

// OperationInfo describes a history entry for display.
type OperationInfo struct {
	Description string
	Timestamp   time.Time
}
