package history

import (
	"errors"
	"time"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrOutOfRange    = errors.New("offset out of range")
	// ErrConflict means the text an operation expects to replace is no
	// longer at its offsets, typically because the text was changed outside
	// this history.
	ErrConflict = errors.New("text changed since the edit")
)

// DefaultLimit is the depth used when NewHistory is given a non-positive limit.
const DefaultLimit = 1000

type entry struct {
	command Command
	at      time.Time
}

// History is a bounded stack of executed commands.
// It is not safe for concurrent use; the owning document serializes access.
type History struct {
	entries []entry
	limit   int
}

// NewHistory creates a history holding at most limit entries.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{limit: limit}
}

// Execute runs cmd against text and records it. It returns the new text.
// A failed command is not recorded.
func (h *History) Execute(cmd Command, text string) (string, error) {
	out, err := cmd.Execute(text)
	if err != nil {
		return "", err
	}
	h.Push(cmd)
	return out, nil
}

// Push records an already executed command, dropping the oldest entry when
// the limit is reached.
func (h *History) Push(cmd Command) {
	h.entries = append(h.entries, entry{command: cmd, at: time.Now()})
	if excess := len(h.entries) - h.limit; excess > 0 {
		h.entries = h.entries[excess:]
	}
}

// Undo reverses the newest command against text and returns the result.
// On failure the entry stays on the stack.
func (h *History) Undo(text string) (string, error) {
	if len(h.entries) == 0 {
		return "", ErrNothingToUndo
	}

	last := h.entries[len(h.entries)-1]
	out, err := last.command.Undo(text)
	if err != nil {
		return "", err
	}
	h.entries = h.entries[:len(h.entries)-1]
	return out, nil
}

// CanUndo reports whether there is an entry to undo.
func (h *History) CanUndo() bool {
	return len(h.entries) > 0
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Limit returns the maximum number of entries.
func (h *History) Limit() int {
	return h.limit
}

// Peek describes the entry Undo would reverse next.
func (h *History) Peek() (OperationInfo, bool) {
	if len(h.entries) == 0 {
		return OperationInfo{}, false
	}
	e := h.entries[len(h.entries)-1]
	return OperationInfo{Description: e.command.Description(), Timestamp: e.at}, true
}

// Clear drops every entry.
func (h *History) Clear() {
	h.entries = nil
}
