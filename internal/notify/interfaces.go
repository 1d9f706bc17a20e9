package notify

import "context"

// Session is one open connection to a mail relay.
type Session interface {
	// Transmit hands one rendered message to the relay.
	Transmit(data []byte) error
	Close() error
}

// MailTransport opens relay sessions, one per send.
type MailTransport interface {
	Open(ctx context.Context) (Session, error)
}
