package email

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"
)

// Parse decodes transport-format bytes into a Message, retaining raw for
// archival. Syntactically invalid input fails with ErrMalformed.
func Parse(raw []byte) (*Message, error) {
	parsed, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	body, err := io.ReadAll(parsed.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrMalformed, err)
	}

	msg := &Message{
		Subject:     parsed.Header.Get("Subject"),
		Body:        string(body),
		contentType: parsed.Header.Get("Content-Type"),
		encoding:    parsed.Header.Get("Content-Transfer-Encoding"),
		raw:         raw,
	}

	if msg.From, err = headerAddress(parsed.Header, "From"); err != nil {
		return nil, err
	}
	if msg.To, err = headerAddress(parsed.Header, "To"); err != nil {
		return nil, err
	}
	if msg.ReplyTo, err = headerAddress(parsed.Header, "Reply-To"); err != nil {
		return nil, err
	}

	return msg, nil
}

// headerAddress returns the first address of a header, or empty if the
// header is absent.
func headerAddress(header mail.Header, name string) (string, error) {
	value := header.Get(name)
	if value == "" {
		return "", nil
	}
	addrs, err := mail.ParseAddressList(value)
	if err != nil || len(addrs) == 0 {
		return "", fmt.Errorf("%w: invalid %s header %q", ErrMalformed, name, value)
	}
	return addrs[0].Address, nil
}

// PlainText returns a best-effort plain-text body. Multipart messages are
// walked for their first text/plain part; a message with no plain-text part
// yields the NoPlainBody placeholder.
func (m *Message) PlainText() string {
	if m.contentType == "" {
		return m.Body
	}
	text, ok := extractPlain(m.contentType, m.encoding, m.Body)
	if !ok {
		return NoPlainBody
	}
	return text
}

func extractPlain(contentType, encoding, body string) (string, bool) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return body, true
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		boundary := params["boundary"]
		if boundary == "" {
			return "", false
		}
		reader := multipart.NewReader(strings.NewReader(body), boundary)
		for {
			part, err := reader.NextPart()
			if err != nil {
				return "", false
			}
			content, err := io.ReadAll(part)
			if err != nil {
				return "", false
			}
			partType := part.Header.Get("Content-Type")
			if partType == "" {
				partType = "text/plain"
			}
			if text, ok := extractPlain(partType, part.Header.Get("Content-Transfer-Encoding"), string(content)); ok {
				return text, true
			}
		}
	}

	if mediaType != "text/plain" {
		return "", false
	}
	return decodeTransferEncoding(encoding, body), true
}

func decodeTransferEncoding(encoding, body string) string {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "quoted-printable":
		decoded, err := io.ReadAll(quotedprintable.NewReader(strings.NewReader(body)))
		if err != nil {
			return body
		}
		return string(decoded)
	case "base64":
		compact := strings.NewReplacer("\r", "", "\n", "").Replace(body)
		decoded, err := base64.StdEncoding.DecodeString(compact)
		if err != nil {
			return body
		}
		return string(decoded)
	default:
		return body
	}
}
