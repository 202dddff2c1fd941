// Package tokenize turns free-text field values (subject lines, address
// display names, attachment filenames, decoded body text) into the
// individual words the indexer feeds one-at-a-time into term.AddTerm for
// tokenized schema fields. Normalization is NFC plus casefold, the same
// scheme the teacher's address tokenizer used.
package tokenize

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize applies NFC normalization and lowercasing, the same
// normalization the query layer must apply to a literal query value before
// it can match a tokenized term.
func Normalize(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

// Words splits s on whitespace and normalizes each word, dropping empties
// and duplicates while preserving first-occurrence order.
func Words(s string) []string {
	seen := make(map[string]bool)
	var words []string
	for _, w := range strings.Fields(s) {
		w = Normalize(w)
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		words = append(words, w)
	}
	return words
}

// Address produces the display-name word tokens (for a tokenized field like
// from_name/to_name/name) and the single normalized email token (for an
// exact-match field like from_email/to_email/email) for one address. The
// email field is exact-match, so — unlike the teacher's TokenizeAddress,
// which also fuzzy-indexed the local part and domain as separate tokens —
// only the full address is produced here.
func Address(name, email string) (nameWords []string, emailToken string) {
	return Words(name), Normalize(email)
}

// Extension returns the lowercased, dot-stripped file extension of
// filename, or "" if it has none.
func Extension(filename string) string {
	ext := filepath.Ext(filename)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
