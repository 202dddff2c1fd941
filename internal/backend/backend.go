// Package backend defines the index-backend capability contract: the
// minimal capability set {open-or-create, add_document, postlist iteration
// for a literal term, get_document by docid, read stored value by slot,
// sortable-serialise for timestamps}. Any backend satisfying this interface
// is admissible; internal/pebbleidx is this module's concrete choice.
package backend

import "time"

// DocID identifies a document within a single backend instance.
type DocID uint64

// Document is a committed document as read back from the backend.
type Document struct {
	ID       DocID
	Filename string
}

// NewDocument describes a document to be committed: its opaque payload, the
// literal prefixed terms it carries, and its stored values by slot.
type NewDocument struct {
	Filename string
	Terms    []string
	Values   map[int][]byte
}

// PostingIterator walks the posting list for a single literal term in
// whatever order the backend defines. Implementers must not rely on that
// order beyond determinism within a single corpus state.
type PostingIterator interface {
	// Next advances to the next document, returning false when exhausted
	// or on error (check Err after Next returns false).
	Next() bool
	DocID() DocID
	Err() error
	Close() error
}

// Index is the capability set a search-index backend must expose.
type Index interface {
	// PostingList returns an iterator over documents carrying term.
	PostingList(term string) (PostingIterator, error)

	// GetDocument reads back a committed document's filename by docid.
	GetDocument(id DocID) (Document, error)

	// ReadValue reads the stored value for (id, slot); nil if unset.
	ReadValue(id DocID, slot int) ([]byte, error)

	// Terms returns the literal term list recorded for id, used by the
	// query layer's tags cursor over label: terms.
	Terms(id DocID) ([]string, error)

	// SortableSerialise encodes t as a fixed-width lexicographic
	// representation of its POSIX timestamp, such that the encoding of
	// two timestamps sorts in the same order as the timestamps.
	SortableSerialise(t time.Time) []byte

	// NewBatch starts a batch: all writes staged on it become visible to
	// readers only on Commit, all at once.
	NewBatch() Batch

	Close() error
}

// Batch stages one document's worth of index effects so that they commit
// all-or-nothing, satisfying a single add_message call's atomicity.
type Batch interface {
	AddDocument(doc NewDocument) (DocID, error)
	Commit() error
	Close() error
}
