package history

import (
	"errors"
	"strings"
	"testing"
)

// Operation Tests

func TestOperationApply(t *testing.T) {
	tests := []struct {
		name string
		op   *Operation
		in   string
		want string
	}{
		{"insert", NewOperation(5, 5, "", " world"), "hello", "hello world"},
		{"delete", NewOperation(0, 6, "hello ", ""), "hello world", "world"},
		{"replace", NewOperation(0, 5, "hello", "howdy"), "hello world", "howdy world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op.Apply(tt.in)
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Apply() = %q, want %q", got, tt.want)
			}

			back, err := tt.op.Invert().Apply(got)
			if err != nil {
				t.Fatalf("Invert().Apply() error = %v", err)
			}
			if back != tt.in {
				t.Errorf("Invert().Apply() = %q, want %q", back, tt.in)
			}
		})
	}
}

func TestOperationOutOfRange(t *testing.T) {
	op := NewOperation(3, 10, "", "x")
	if _, err := op.Apply("abc"); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}

func TestOperationConflict(t *testing.T) {
	op := NewOperation(0, 3, "abc", "")
	if _, err := op.Apply("hello world"); !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestUndoAfterForeignChangeConflicts(t *testing.T) {
	h := NewHistory(10)
	if _, err := h.Execute(NewInsertCommand(0, "abc"), ""); err != nil {
		t.Fatal(err)
	}

	// The text was replaced without going through h.
	if _, err := h.Undo("hello world"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if h.Len() != 1 {
		t.Errorf("a failed undo must keep the entry, Len() = %d", h.Len())
	}
}

func TestHistoryExecuteUndo(t *testing.T) {
	h := NewHistory(10)

	text, err := h.Execute(NewInsertCommand(0, "hello"), "")
	if err != nil {
		t.Fatal(err)
	}
	text, err = h.Execute(NewInsertCommand(5, " world"), text)
	if err != nil {
		t.Fatal(err)
	}
	if text != "hello world" {
		t.Fatalf("text = %q", text)
	}
	if h.Len() != 2 {
		t.Errorf("Len() = %d, want 2", h.Len())
	}

	text, err = h.Undo(text)
	if err != nil {
		t.Fatal(err)
	}
	if text != "hello" {
		t.Errorf("after undo text = %q, want %q", text, "hello")
	}

	text, _ = h.Undo(text)
	if text != "" || h.CanUndo() {
		t.Errorf("after second undo text = %q, CanUndo = %v", text, h.CanUndo())
	}
}

func TestHistoryNothingToUndo(t *testing.T) {
	h := NewHistory(10)
	if _, err := h.Undo("x"); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("expected ErrNothingToUndo, got %v", err)
	}
}

func TestHistoryFailedCommandNotRecorded(t *testing.T) {
	h := NewHistory(10)
	if _, err := h.Execute(NewDeleteCommand(2, 9), "abc"); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if h.CanUndo() {
		t.Error("failed command should not be recorded")
	}
}

func TestHistoryDelete(t *testing.T) {
	h := NewHistory(10)
	text, err := h.Execute(NewDeleteCommand(0, 6), "hello world")
	if err != nil {
		t.Fatal(err)
	}
	if text != "world" {
		t.Errorf("text = %q, want %q", text, "world")
	}
	if text, _ = h.Undo(text); text != "hello world" {
		t.Errorf("undo = %q, want %q", text, "hello world")
	}
}

func TestHistoryLimit(t *testing.T) {
	h := NewHistory(3)
	text := ""
	for i := 0; i < 5; i++ {
		text, _ = h.Execute(NewInsertCommand(len(text), "x"), text)
	}
	if h.Len() != 3 {
		t.Errorf("Len() = %d, want 3", h.Len())
	}
	for h.CanUndo() {
		text, _ = h.Undo(text)
	}
	if text != "xx" {
		t.Errorf("oldest edits should be dropped, text = %q", text)
	}

	if NewHistory(0).Limit() != DefaultLimit {
		t.Error("non-positive limit should use DefaultLimit")
	}
}

func TestHistoryReplaceCommand(t *testing.T) {
	h := NewHistory(10)
	text, _ := h.Execute(NewReplaceCommand("", "A"), "")
	text, _ = h.Execute(NewReplaceCommand("", "AB"), text)

	text, err := h.Undo(text)
	if err != nil {
		t.Fatal(err)
	}
	if text != "A" {
		t.Errorf("undo = %q, want %q", text, "A")
	}
}

func TestReplaceUndoConflict(t *testing.T) {
	h := NewHistory(10)
	_, _ = h.Execute(NewReplaceCommand("", "A"), "")

	if _, err := h.Undo("B"); !errors.Is(err, ErrConflict) {
		t.Fatalf("Undo() error = %v, want ErrConflict", err)
	}
	if h.Len() != 1 {
		t.Errorf("Len() = %d, want 1", h.Len())
	}
}

func TestHistoryPeek(t *testing.T) {
	h := NewHistory(10)
	if _, ok := h.Peek(); ok {
		t.Error("empty history should have nothing to peek")
	}

	text, _ := h.Execute(NewReplaceCommand("Open", "a"), "")
	_, _ = h.Execute(NewInsertCommand(1, "b"), text)

	info, ok := h.Peek()
	if !ok || info.Description != `Insert "b"` {
		t.Errorf("Peek() = %+v, %v", info, ok)
	}

	h.Clear()
	if h.CanUndo() {
		t.Error("Clear should drop every entry")
	}
}

func TestCommandDescriptions(t *testing.T) {
	tests := []struct {
		cmd  Command
		want string
	}{
		{NewInsertCommand(0, "short"), `Insert "short"`},
		{NewInsertCommand(0, strings.Repeat("a", 25)), `Insert "aaaaaaaaaaaaaaaaaaaa"...`},
		{NewDeleteCommand(2, 5), "Delete 3 bytes"},
		{NewReplaceCommand("", "x"), "Replace"},
		{NewReplaceCommand("Set text", "x"), "Set text"},
	}
	for _, tt := range tests {
		if got := tt.cmd.Description(); got != tt.want {
			t.Errorf("Description() = %q, want %q", got, tt.want)
		}
	}
}
