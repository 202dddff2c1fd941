package mimemsg

import (
	"mime"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

var (
	foldedWhitespace = regexp.MustCompile(`\r?\n[ \t]`)
	repeatedSpaces   = regexp.MustCompile(`  +`)
)

// parseText decodes RFC 2047 encoded words, unfolds whitespace, and
// normalizes to NFC.
func parseText(value string) string {
	if value == "" {
		return ""
	}

	dec := new(mime.WordDecoder)
	decoded, err := dec.DecodeHeader(value)
	if err != nil {
		decoded = value
	}

	decoded = foldedWhitespace.ReplaceAllString(decoded, " ")
	decoded = strings.ReplaceAll(decoded, "\t", " ")
	decoded = repeatedSpaces.ReplaceAllString(decoded, " ")
	decoded = strings.TrimSpace(decoded)

	return norm.NFC.String(decoded)
}

// parseAddressList parses a comma-separated address header into Addresses,
// falling back to a bare "contains @" reading when strict parsing fails.
func parseAddressList(value string) []Address {
	if value == "" {
		return nil
	}

	addrs, err := mail.ParseAddressList(value)
	if err != nil {
		value = strings.TrimSpace(value)
		if strings.Contains(value, "@") {
			return []Address{{Email: value}}
		}
		return nil
	}

	result := make([]Address, len(addrs))
	for i, a := range addrs {
		result[i] = Address{Name: a.Name, Email: a.Address}
	}
	return result
}

// parseMessageIDs splits a References/In-Reply-To/Message-Id header on
// whitespace and strips the surrounding angle brackets from each id.
func parseMessageIDs(value string) []string {
	if value == "" {
		return nil
	}
	var ids []string
	for _, part := range strings.Fields(value) {
		id := strings.TrimPrefix(part, "<")
		id = strings.TrimSuffix(id, ">")
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// parseDate parses a Date header, returning the zero time if absent or
// unparseable.
func parseDate(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := mail.ParseDate(value)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
