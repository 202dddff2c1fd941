// Package term builds the prefixed terms and stored values that make up a
// document under construction, per the schema's field/prefix/slot registry.
package term

import "github.com/jarrod-lowe/mailthread/internal/schema"

// MaxTermLength is the term length cap, inclusive of the prefix. Overlong
// terms are silently dropped, never truncated.
const MaxTermLength = 245

// Document is a document under construction. It is exclusively owned by its
// builder until committed; nothing about it is visible to readers until the
// backend commits it.
type Document struct {
	Filename string
	Terms    []string
	Values   map[int][]byte
}

// NewDocument starts a document whose opaque payload is filename.
func NewDocument(filename string) *Document {
	return &Document{Filename: filename, Values: make(map[int][]byte)}
}

// AddTerm computes prefix(field)+value and appends it to doc if it fits
// within MaxTermLength. A missing value is a no-op. This performs a literal
// prefixed insertion only: no normalization, no case folding, and no word
// splitting — callers are responsible for tokenizing values of tokenized
// fields into individual words before calling AddTerm once per word.
func AddTerm(doc *Document, field schema.Field, value string) {
	if value == "" {
		return
	}
	t := schema.Prefix(field) + value
	if len(t) > MaxTermLength {
		return
	}
	doc.Terms = append(doc.Terms, t)
}

// SetValue stores the value for a persisted slot on doc.
func SetValue(doc *Document, slot int, value []byte) {
	doc.Values[slot] = value
}
