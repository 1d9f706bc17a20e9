package notify

import (
	"bytes"
	"context"
	"fmt"
	"net/mail"
	"net/smtp"
)

// SMTPTransport opens plain SMTP sessions against a configured relay.
type SMTPTransport struct {
	addr string
}

// NewSMTPTransport creates a transport targeting addr (host:port).
func NewSMTPTransport(addr string) *SMTPTransport {
	return &SMTPTransport{addr: addr}
}

func (t *SMTPTransport) Open(ctx context.Context) (Session, error) {
	client, err := smtp.Dial(t.addr)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", t.addr, err)
	}
	return &smtpSession{client: client}, nil
}

type smtpSession struct {
	client *smtp.Client
}

// Transmit reads the envelope addresses out of the rendered message headers
// and relays the bytes as-is.
func (s *smtpSession) Transmit(data []byte) error {
	parsed, err := mail.ReadMessage(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("reading envelope headers: %w", err)
	}
	from, err := mail.ParseAddress(parsed.Header.Get("From"))
	if err != nil {
		return fmt.Errorf("parsing envelope sender: %w", err)
	}
	to, err := mail.ParseAddress(parsed.Header.Get("To"))
	if err != nil {
		return fmt.Errorf("parsing envelope recipient: %w", err)
	}

	if err := s.client.Mail(from.Address); err != nil {
		return fmt.Errorf("MAIL FROM: %w", err)
	}
	if err := s.client.Rcpt(to.Address); err != nil {
		return fmt.Errorf("RCPT TO: %w", err)
	}
	w, err := s.client.Data()
	if err != nil {
		return fmt.Errorf("DATA: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("writing message: %w", err)
	}
	return w.Close()
}

func (s *smtpSession) Close() error {
	return s.client.Quit()
}
