package query

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/pebble/vfs"

	"github.com/jarrod-lowe/mailthread/internal/backend"
	"github.com/jarrod-lowe/mailthread/internal/pebbleidx"
	"github.com/jarrod-lowe/mailthread/internal/schema"
)

func openTestIndex(t *testing.T) backend.Index {
	t.Helper()
	idx, err := pebbleidx.OpenWithFS("/index", vfs.NewMem())
	if err != nil {
		t.Fatalf("OpenWithFS: %v", err)
	}
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func commit(t *testing.T, idx backend.Index, filename string, terms []string, values map[int][]byte) backend.DocID {
	t.Helper()
	b := idx.NewBatch()
	id, err := b.AddDocument(backend.NewDocument{Filename: filename, Terms: terms, Values: values})
	if err != nil {
		t.Fatalf("AddDocument: %v", err)
	}
	if err := b.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return id
}

func TestParseRejectsMalformedTerm(t *testing.T) {
	if _, err := Parse("notafieldvaluepair"); err == nil {
		t.Fatalf("expected an error for a term without a colon")
	}
}

func TestParseRejectsUnknownField(t *testing.T) {
	if _, err := Parse("bogus:value"); err == nil {
		t.Fatalf("expected an error for an unknown field")
	}
}

func TestSearchSingleClause(t *testing.T) {
	idx := openTestIndex(t)
	commit(t, idx, "/mail/a", []string{schema.Prefix(schema.FieldMsgID) + "a@x"},
		map[int][]byte{schema.SlotMessageID: []byte("a@x")})

	q, err := Parse("msgid:a@x")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cur, err := q.Search(idx)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !cur.Advance() {
		t.Fatalf("expected one result")
	}
	msg, err := cur.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	id, err := msg.MessageID()
	if err != nil || id != "a@x" {
		t.Fatalf("MessageID = %q, err = %v", id, err)
	}
	if cur.Advance() {
		t.Fatalf("expected exactly one result")
	}
}

func TestSearchIntersectsClauses(t *testing.T) {
	idx := openTestIndex(t)
	thread := schema.Prefix(schema.FieldThread) + "t1"
	commit(t, idx, "/mail/a", []string{schema.Prefix(schema.FieldMsgID) + "a@x", thread}, nil)
	commit(t, idx, "/mail/b", []string{schema.Prefix(schema.FieldMsgID) + "b@x"}, nil)

	q, err := Parse("thread:t1 msgid:a@x")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cur, err := q.Search(idx)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	var got int
	for cur.Advance() {
		got++
	}
	if got != 1 {
		t.Fatalf("got %d results, want 1", got)
	}
}

func TestMessageDateRoundTrips(t *testing.T) {
	idx := openTestIndex(t)
	when := time.Unix(1000000, 0).UTC()
	serialised := idx.SortableSerialise(when)
	id := commit(t, idx, "/mail/a", []string{schema.Prefix(schema.FieldMsgID) + "a@x"},
		map[int][]byte{schema.SlotDate: serialised})

	msg := &Message{idx: idx, id: id}
	got, err := msg.Date()
	if err != nil {
		t.Fatalf("Date: %v", err)
	}
	if !got.Equal(when) {
		t.Fatalf("got %v, want %v", got, when)
	}
}

func TestMessageHeaderReReadsFile(t *testing.T) {
	idx := openTestIndex(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "a.eml")
	if err := os.WriteFile(path, []byte("Subject: hello\r\n\r\nbody\r\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	id := commit(t, idx, path, nil, nil)

	msg := &Message{idx: idx, id: id}
	got, err := msg.Header("Subject")
	if err != nil {
		t.Fatalf("Header: %v", err)
	}
	if got != "hello" {
		t.Fatalf("Header(Subject) = %q", got)
	}
}

func TestMessageTagsFiltersLabelTerms(t *testing.T) {
	idx := openTestIndex(t)
	id := commit(t, idx, "/mail/a", []string{
		schema.Prefix(schema.FieldLabel) + "inbox",
		schema.Prefix(schema.FieldLabel) + "starred",
		schema.Prefix(schema.FieldMsgID) + "a@x",
	}, nil)

	msg := &Message{idx: idx, id: id}
	tags, err := msg.Tags()
	if err != nil {
		t.Fatalf("Tags: %v", err)
	}
	var got []string
	for tags.Advance() {
		got = append(got, tags.Get())
	}
	if len(got) != 2 {
		t.Fatalf("got %v", got)
	}
}
