package email

import (
	"bytes"
	"fmt"
	"strings"
)

// NoPlainBody is substituted when a message carries no plain-text part.
const NoPlainBody = "<no plain body found>"

// Message is an addressable in-memory email. Parsed messages keep the
// original transport bytes for archival; constructed messages have none.
type Message struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	Body    string

	// contentType and encoding come from the parsed headers and drive
	// plain-text extraction; constructed messages leave them empty.
	contentType string
	encoding    string
	raw         []byte
}

// NewMessage builds an outbound message with a plain-text body.
func NewMessage(from, to, subject, body string) *Message {
	return &Message{From: from, To: to, Subject: subject, Body: body}
}

// Raw returns the original transport bytes of a parsed message, or nil for
// a constructed one.
func (m *Message) Raw() []byte {
	return m.raw
}

// Render serializes the message with a fixed header order so that a given
// construction path always yields the same bytes: From, To, Reply-To,
// Subject, blank line, body.
func (m *Message) Render() []byte {
	var buf bytes.Buffer
	writeHeader(&buf, "From", m.From)
	writeHeader(&buf, "To", m.To)
	writeHeader(&buf, "Reply-To", m.ReplyTo)
	writeHeader(&buf, "Subject", m.Subject)
	buf.WriteString("\r\n")
	buf.WriteString(m.Body)
	return buf.Bytes()
}

func writeHeader(buf *bytes.Buffer, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(buf, "%s: %s\r\n", name, value)
}

// ProjectKey returns the local part of the To address, which identifies the
// target project. The From address names the external participant and is
// never consulted for routing.
func (m *Message) ProjectKey() (string, error) {
	addr := strings.TrimSpace(m.To)
	if addr == "" {
		return "", fmt.Errorf("no To address: %w", ErrMalformed)
	}
	local, _, ok := strings.Cut(addr, "@")
	if !ok || local == "" {
		return "", fmt.Errorf("To address %q has no local part: %w", addr, ErrMalformed)
	}
	return local, nil
}
