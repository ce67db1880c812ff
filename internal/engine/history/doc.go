// Package history provides the undo stack of a document.
//
// Edits are commands that take the current text and return the new text.
// Each command remembers what it needs to reverse itself:
//   - InsertCommand: insert text at a byte offset
//   - DeleteCommand: delete a byte range
//   - ReplaceCommand: replace the whole text
//
// History keeps the executed commands, newest last, up to a fixed depth:
//
//	h := NewHistory(1000)
//	text, err = h.Execute(NewInsertCommand(0, "hi"), text)
//	text, err = h.Undo(text)
//
// There is no redo stack. Redo in mirrorpad restores a single snapshot held
// by the document.
package history
