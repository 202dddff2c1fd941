// Package schema is the closed registry mapping semantic fields to index
// term prefixes and to numeric value-slot identifiers. It is shared by the
// indexer and the query layer and never renumbers a slot once persisted.
package schema

// Field names a semantic attribute of an indexed message.
type Field string

const (
	FieldSubject Field = "subject"
	FieldBody    Field = "body"
	FieldFromName Field = "from_name"
	FieldToName   Field = "to_name"
	FieldName     Field = "name"
	FieldAttachment Field = "attachment"

	FieldType                Field = "type"
	FieldFromEmail           Field = "from_email"
	FieldToEmail             Field = "to_email"
	FieldEmail               Field = "email"
	FieldDate                Field = "date"
	FieldLabel               Field = "label"
	FieldSourceID            Field = "source_id"
	FieldAttachmentExtension Field = "attachment_extension"
	FieldMsgID               Field = "msgid"
	FieldThread              Field = "thread"
	FieldRef                 Field = "ref"
)

// tokenized fields have their value broken into words by the caller before
// AddTerm is invoked once per word; exact-match fields are inserted whole.
var tokenized = map[Field]bool{
	FieldSubject:    true,
	FieldBody:       true,
	FieldFromName:   true,
	FieldToName:     true,
	FieldName:       true,
	FieldAttachment: true,
}

var prefixes = map[Field]string{
	FieldSubject:    "S",
	FieldBody:       "B",
	FieldFromName:   "FN",
	FieldToName:     "TN",
	FieldName:       "N",
	FieldAttachment: "A",

	FieldType:                "K",
	FieldFromEmail:           "FE",
	FieldToEmail:             "TE",
	FieldEmail:               "E",
	FieldDate:                "D",
	FieldLabel:               "L",
	FieldSourceID:            "I",
	FieldAttachmentExtension: "O",
	FieldMsgID:               "Q",
	FieldThread:              "H",
	FieldRef:                 "R",
}

// fieldsByName supports the query layer's field:value syntax, which names
// fields by their schema key rather than their prefix.
var fieldsByName = func() map[string]Field {
	m := make(map[string]Field, len(prefixes))
	for f := range prefixes {
		m[string(f)] = f
	}
	return m
}()

// Prefix returns the term prefix for field, or the empty string if field is
// not registered. An empty prefix yields an unprefixed term if used; this
// fallback is permitted but produces low-quality terms and the core paths
// never exercise it.
func Prefix(field Field) string {
	return prefixes[field]
}

// Tokenized reports whether field's value is conventionally broken into
// words before each word is added as its own term.
func Tokenized(field Field) bool {
	return tokenized[field]
}

// Lookup resolves a field by its schema name, as used in query strings.
func Lookup(name string) (Field, bool) {
	f, ok := fieldsByName[name]
	return f, ok
}

// Persisted value slots. These numbers are part of the on-disk schema and
// must never be renumbered.
const (
	SlotMessageID = 0
	SlotThread    = 1
	SlotDate      = 2
)
