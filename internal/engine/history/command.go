package history

import "fmt"

// Command represents a composable edit that can be executed and undone.
type Command interface {
	// Execute applies the command to text and returns the result.
	Execute(text string) (string, error)

	// Undo reverses the command on text and returns the result.
	Undo(text string) (string, error)

	// Description returns a human-readable description of the command.
	Description() string
}

// InsertCommand inserts text at a byte offset.
type InsertCommand struct {
	Offset int
	Text   string

	op *Operation
}

// NewInsertCommand creates a new insert command.
func NewInsertCommand(offset int, text string) *InsertCommand {
	return &InsertCommand{Offset: offset, Text: text}
}

// Execute inserts the text.
func (c *InsertCommand) Execute(text string) (string, error) {
	c.op = NewOperation(c.Offset, c.Offset, "", c.Text)
	out, err := c.op.Apply(text)
	if err != nil {
		return "", fmt.Errorf("insert at offset %d: %w", c.Offset, err)
	}
	return out, nil
}

// Undo removes the inserted text.
func (c *InsertCommand) Undo(text string) (string, error) {
	if c.op == nil {
		return text, nil
	}
	return c.op.Invert().Apply(text)
}

// Description returns a description of the insert.
func (c *InsertCommand) Description() string {
	if len(c.Text) > 20 {
		return fmt.Sprintf("Insert %q...", c.Text[:20])
	}
	return fmt.Sprintf("Insert %q", c.Text)
}

// DeleteCommand deletes the byte range [Start, End).
type DeleteCommand struct {
	Start int
	End   int

	op *Operation
}

// NewDeleteCommand creates a new delete command.
func NewDeleteCommand(start, end int) *DeleteCommand {
	return &DeleteCommand{Start: start, End: end}
}

// Execute deletes the range.
func (c *DeleteCommand) Execute(text string) (string, error) {
	if c.Start < 0 || c.End < c.Start || c.End > len(text) {
		return "", fmt.Errorf("delete [%d,%d): %w", c.Start, c.End, ErrOutOfRange)
	}
	c.op = NewOperation(c.Start, c.End, text[c.Start:c.End], "")
	return c.op.Apply(text)
}

// Undo restores the deleted text.
func (c *DeleteCommand) Undo(text string) (string, error) {
	if c.op == nil {
		return text, nil
	}
	return c.op.Invert().Apply(text)
}

// Description returns a description of the delete.
func (c *DeleteCommand) Description() string {
	return fmt.Sprintf("Delete %d bytes", c.End-c.Start)
}

// ReplaceCommand replaces the whole text.
type ReplaceCommand struct {
	Name string
	Text string

	old      string
	executed bool
}

// NewReplaceCommand creates a command that sets the text to text.
func NewReplaceCommand(name, text string) *ReplaceCommand {
	return &ReplaceCommand{Name: name, Text: text}
}

// Execute replaces the text, remembering the previous value.
func (c *ReplaceCommand) Execute(text string) (string, error) {
	c.old = text
	c.executed = true
	return c.Text, nil
}

// Undo returns the text as it was before Execute. It fails with ErrConflict
// if text is no longer what Execute produced.
func (c *ReplaceCommand) Undo(text string) (string, error) {
	if !c.executed {
		return text, nil
	}
	if text != c.Text {
		return "", fmt.Errorf("%w: replaced text was changed", ErrConflict)
	}
	return c.old, nil
}

// Description returns the command name.
func (c *ReplaceCommand) Description() string {
	if c.Name == "" {
		return "Replace"
	}
	return c.Name
}
