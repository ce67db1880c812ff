// Package file provides handlers for the File menu.
//
// Each handler claims exactly one label:
//   - New: clear the content and unbind the resource
//   - Open: choose a resource, load it, replace the content and bind
//   - Save: write to the bound resource, choosing one first if unbound
//   - Save as: always choose a resource, bind it and write
//   - Close: dispose of the pane's window
//
// The resource choice happens before write access is taken, so a user
// deliberating over a dialog never holds the document lock. Cancelling the
// choice leaves the document unchanged.
//
// I/O and lock failures are contained here: they are logged on the
// invocation logger and reported as an error result, never propagated.
package file
