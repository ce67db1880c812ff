package document

import (
	"bytes"
	"path/filepath"

	"github.com/google/uuid"
)

// Resource identifies a persisted location for document content.
// The zero value means "not bound".
type Resource string

// IsZero reports whether r is unset.
func (r Resource) IsZero() bool { return r == "" }

// Name returns the display name of the resource.
func (r Resource) Name() string {
	if r == "" {
		return Untitled
	}
	return filepath.Base(string(r))
}

// String implements fmt.Stringer.
func (r Resource) String() string { return string(r) }

// Untitled is the display name of a document with no bound resource.
const Untitled = "Untitled"

// Update is a replicated content change.
//
// Seq and Origin together version the content: a local edit stamps it with
// one more than the highest Seq its document has seen, and a receiver only
// installs an update whose (Seq, Origin) is greater than the version it
// holds. Late or reordered deliveries are therefore dropped, and paired
// documents settle on the same content.
type Update struct {
	// Origin is the ID of the document that produced the content.
	Origin uuid.UUID

	// Seq orders updates; see above.
	Seq uint64

	// Content is the full committed text.
	Content string
}

// newerThan reports whether u supersedes the version (seq, origin).
func (u Update) newerThan(seq uint64, origin uuid.UUID) bool {
	if u.Seq != seq {
		return u.Seq > seq
	}
	return bytes.Compare(u.Origin[:], origin[:]) > 0
}

// State is a consistent snapshot of a document taken under read access.
type State struct {
	Content     string
	Resource    Resource
	Modified    bool
	CanUndo     bool
	HasSnapshot bool
	Subscribers int

	// NextUndo describes the edit Previous would reverse, if any.
	NextUndo string
}

// Name returns the display name for the snapshot.
func (s State) Name() string { return s.Resource.Name() }
