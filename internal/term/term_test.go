package term

import (
	"strings"
	"testing"

	"github.com/jarrod-lowe/mailthread/internal/schema"
)

func TestAddTermPrefixesValue(t *testing.T) {
	doc := NewDocument("/tmp/msg")
	AddTerm(doc, schema.FieldMsgID, "a@x")
	if len(doc.Terms) != 1 || doc.Terms[0] != "Qa@x" {
		t.Fatalf("got %v, want [Qa@x]", doc.Terms)
	}
}

func TestAddTermNoOpOnEmptyValue(t *testing.T) {
	doc := NewDocument("/tmp/msg")
	AddTerm(doc, schema.FieldMsgID, "")
	if len(doc.Terms) != 0 {
		t.Fatalf("expected no terms, got %v", doc.Terms)
	}
}

func TestAddTermDropsOverlongTerm(t *testing.T) {
	doc := NewDocument("/tmp/msg")
	long := strings.Repeat("x", 300) + "@example.com"
	AddTerm(doc, schema.FieldRef, long)
	if len(doc.Terms) != 0 {
		t.Fatalf("expected overlong term to be dropped, got %v", doc.Terms)
	}
}

func TestAddTermKeepsTermAtExactCap(t *testing.T) {
	doc := NewDocument("/tmp/msg")
	value := strings.Repeat("a", MaxTermLength-len(schema.Prefix(schema.FieldRef)))
	AddTerm(doc, schema.FieldRef, value)
	if len(doc.Terms) != 1 {
		t.Fatalf("expected term at exactly the cap to be kept, got %v", doc.Terms)
	}
	if len(doc.Terms[0]) != MaxTermLength {
		t.Fatalf("term length = %d, want %d", len(doc.Terms[0]), MaxTermLength)
	}
}

func TestSetValue(t *testing.T) {
	doc := NewDocument("/tmp/msg")
	SetValue(doc, schema.SlotMessageID, []byte("a@x"))
	if string(doc.Values[schema.SlotMessageID]) != "a@x" {
		t.Fatalf("got %q", doc.Values[schema.SlotMessageID])
	}
}
