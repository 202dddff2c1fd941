// Package mimemsg is the MIME collaborator: it parses a raw RFC 5322
// message into the headers, date, message-id, ordered parent references,
// and part list the Document Builder needs (spec §4.3, §4.5 step 1). Only
// its outputs are specified; this implementation walks the message with
// emersion/go-message's mail reader (the pattern nam-hle-task-management's
// IMAP client uses to split a raw message into inline and attachment
// parts) and reuses the teacher's own header-field decoding for Subject,
// From/To, Date, Message-ID, References, and In-Reply-To.
package mimemsg

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"

	"github.com/jarrod-lowe/mailthread/internal/charset"
	"github.com/jarrod-lowe/mailthread/internal/htmlstrip"
)

// Address is a decoded display-name/email pair from an address header.
type Address struct {
	Name  string
	Email string
}

// Attachment describes one non-inline MIME part. Only its filename is ever
// read; attachment content is never indexed.
type Attachment struct {
	Filename string
}

// Message is everything the Document Builder needs from a parsed message.
type Message struct {
	Subject     string
	From        []Address
	To          []Address
	Date        time.Time
	MessageID   string // empty if absent
	References  []string
	InReplyTo   []string
	Attachments []Attachment
	// BodyText is the decoded text/plain parts plus the stripped-to-text
	// text/html parts, concatenated, for the supplemented body: index.
	BodyText string
}

// Header re-parses data and returns the decoded value of the named header,
// for the Query Iterator contract's header(name) accessor. Returns "" if
// the header is absent.
func Header(data []byte, name string) (string, error) {
	mr, err := mail.CreateReader(strings.NewReader(string(data)))
	if err != nil {
		return "", fmt.Errorf("parse message: %w", err)
	}
	return parseText(mr.Header.Get(name)), nil
}

// Parse parses raw RFC 5322 message bytes.
func Parse(data []byte) (*Message, error) {
	mr, err := mail.CreateReader(strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("parse message: %w", err)
	}

	h := mr.Header

	msg := &Message{
		Subject:    parseText(h.Get("Subject")),
		From:       parseAddressList(h.Get("From")),
		To:         parseAddressList(h.Get("To")),
		Date:       parseDate(h.Get("Date")),
		References: parseMessageIDs(h.Get("References")),
		InReplyTo:  parseMessageIDs(h.Get("In-Reply-To")),
	}
	if ids := parseMessageIDs(h.Get("Message-Id")); len(ids) > 0 {
		msg.MessageID = ids[0]
	}

	var bodyParts []string
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("walk message parts: %w", err)
		}

		switch ph := p.Header.(type) {
		case *mail.AttachmentHeader:
			filename, _ := ph.Filename()
			_, _ = io.Copy(io.Discard, p.Body)
			if filename != "" {
				msg.Attachments = append(msg.Attachments, Attachment{Filename: filename})
			}

		case *mail.InlineHeader:
			ct, params, _ := ph.ContentType()
			switch ct {
			case "text/plain", "text/html", "":
				dr, _, err := charset.DecodeReader(p.Body, params["charset"])
				if err != nil {
					continue
				}
				b, err := io.ReadAll(dr)
				if err != nil {
					continue
				}
				if ct == "text/html" {
					text, err := io.ReadAll(htmlstrip.NewReader(strings.NewReader(string(b))))
					if err == nil {
						b = text
					}
				}
				if len(b) > 0 {
					bodyParts = append(bodyParts, string(b))
				}
			default:
				_, _ = io.Copy(io.Discard, p.Body)
			}
		}
	}
	msg.BodyText = strings.Join(bodyParts, "\n")

	return msg, nil
}
