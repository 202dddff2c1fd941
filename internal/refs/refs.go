// Package refs implements the Reference Extractor (spec §4.3): it
// concatenates a message's declared parent ids from the References header
// and the In-Reply-To header into one ordered sequence. RFC 5322 msg-id
// syntax is delegated to the MIME collaborator (internal/mimemsg); this
// package only concatenates the two already-parsed lists.
package refs

// Extract returns references followed by inReplyTo, preserving header
// order and duplicates (the core does not deduplicate across the two
// headers).
func Extract(references, inReplyTo []string) []string {
	if len(references) == 0 && len(inReplyTo) == 0 {
		return nil
	}
	out := make([]string, 0, len(references)+len(inReplyTo))
	out = append(out, references...)
	out = append(out, inReplyTo...)
	return out
}
