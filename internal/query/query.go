// Package query implements the read-side Query Iterator contract (spec
// §4.7): query_create parses a query string, query_search_messages yields
// a cursor, and each yielded message exposes message_id, filename, date,
// header(name), and a tags cursor over label terms.
//
// Spec §4.7 explicitly defers the query grammar to the backend and performs
// no core-level validation. This module still needs *some* parseable
// string for the CLI's show <query> to be useful, so it reimplements a
// minimal notmuch-style grammar (field:value terms, space-separated,
// implicit AND) resolved through the schema (SPEC_FULL.md §5); this is
// additive surface, not a change to backend admissibility.
package query

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jarrod-lowe/mailthread/internal/backend"
	"github.com/jarrod-lowe/mailthread/internal/mimemsg"
	"github.com/jarrod-lowe/mailthread/internal/schema"
	"github.com/jarrod-lowe/mailthread/internal/tokenize"
)

type clause struct {
	term string
}

// Query is a parsed query string: a set of field:value clauses, ANDed.
type Query struct {
	clauses []clause
}

// Parse parses a space-separated sequence of field:value terms.
func Parse(queryString string) (*Query, error) {
	var clauses []clause
	for _, tok := range strings.Fields(queryString) {
		fieldName, value, ok := strings.Cut(tok, ":")
		if !ok {
			return nil, fmt.Errorf("invalid query term %q: expected field:value", tok)
		}
		field, ok := schema.Lookup(fieldName)
		if !ok {
			return nil, fmt.Errorf("unknown query field %q", fieldName)
		}
		if schema.Tokenized(field) {
			value = tokenize.Normalize(value)
		}
		clauses = append(clauses, clause{term: schema.Prefix(field) + value})
	}
	return &Query{clauses: clauses}, nil
}

// Search yields messages matching every clause (implicit AND), in the
// first clause's posting-list order.
func (q *Query) Search(idx backend.Index) (*Cursor, error) {
	if len(q.clauses) == 0 {
		return &Cursor{idx: idx}, nil
	}

	result, err := postingDocIDs(idx, q.clauses[0].term)
	if err != nil {
		return nil, err
	}
	for _, c := range q.clauses[1:] {
		ids, err := postingDocIDs(idx, c.term)
		if err != nil {
			return nil, err
		}
		set := make(map[backend.DocID]bool, len(ids))
		for _, id := range ids {
			set[id] = true
		}
		var next []backend.DocID
		for _, id := range result {
			if set[id] {
				next = append(next, id)
			}
		}
		result = next
	}

	return &Cursor{idx: idx, docIDs: result}, nil
}

func postingDocIDs(idx backend.Index, term string) ([]backend.DocID, error) {
	it, err := idx.PostingList(term)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var ids []backend.DocID
	for it.Next() {
		ids = append(ids, it.DocID())
	}
	return ids, it.Err()
}

// Cursor yields matching messages. Iteration is stable within one cursor
// but not guaranteed across cursors, per spec §4.7.
type Cursor struct {
	idx     backend.Index
	docIDs  []backend.DocID
	pos     int
	current backend.DocID
	started bool
}

func (c *Cursor) HasMore() bool {
	return c.pos < len(c.docIDs)
}

// Advance moves to the next message, returning false when exhausted.
func (c *Cursor) Advance() bool {
	if c.pos >= len(c.docIDs) {
		return false
	}
	c.current = c.docIDs[c.pos]
	c.pos++
	c.started = true
	return true
}

// Get returns the message at the cursor's current position. Advance must
// be called at least once first.
func (c *Cursor) Get() (*Message, error) {
	if !c.started {
		return nil, fmt.Errorf("query: Get called before Advance")
	}
	return &Message{idx: c.idx, id: c.current}, nil
}

// Message exposes one matched document's message_id, filename, date,
// arbitrary headers (re-read from the message file), and tags.
type Message struct {
	idx backend.Index
	id  backend.DocID
}

func (m *Message) MessageID() (string, error) {
	v, err := m.idx.ReadValue(m.id, schema.SlotMessageID)
	return string(v), err
}

func (m *Message) Filename() (string, error) {
	doc, err := m.idx.GetDocument(m.id)
	if err != nil {
		return "", err
	}
	return doc.Filename, nil
}

// Date decodes the sortable-serialised slot-2 value back into a time.Time.
func (m *Message) Date() (time.Time, error) {
	v, err := m.idx.ReadValue(m.id, schema.SlotDate)
	if err != nil {
		return time.Time{}, err
	}
	if len(v) == 0 {
		return time.Time{}, nil
	}
	unix, err := strconv.ParseInt(string(v), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("decode date slot: %w", err)
	}
	return time.Unix(unix, 0).UTC(), nil
}

// Header re-reads the message file and returns the named header's decoded
// value, or "" if absent.
func (m *Message) Header(name string) (string, error) {
	filename, err := m.Filename()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	return mimemsg.Header(data, name)
}

// Tags returns a cursor over this message's label: terms.
func (m *Message) Tags() (*TagCursor, error) {
	terms, err := m.idx.Terms(m.id)
	if err != nil {
		return nil, err
	}
	prefix := schema.Prefix(schema.FieldLabel)
	var tags []string
	for _, t := range terms {
		if strings.HasPrefix(t, prefix) {
			tags = append(tags, strings.TrimPrefix(t, prefix))
		}
	}
	return &TagCursor{tags: tags}, nil
}

// TagCursor yields a message's label terms.
type TagCursor struct {
	tags    []string
	pos     int
	current string
	started bool
}

func (c *TagCursor) HasMore() bool {
	return c.pos < len(c.tags)
}

func (c *TagCursor) Advance() bool {
	if c.pos >= len(c.tags) {
		return false
	}
	c.current = c.tags[c.pos]
	c.pos++
	c.started = true
	return true
}

func (c *TagCursor) Get() string {
	if !c.started {
		return ""
	}
	return c.current
}
