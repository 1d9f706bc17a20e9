package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rpggio/mailroom/internal/email"
)

// DeliveryEvent describes one successfully transmitted notification.
type DeliveryEvent struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	Body    string
}

// EventSink receives delivery events. The sink is supplied by the caller at
// construction; a nil sink disables event emission.
type EventSink func(DeliveryEvent)

// LogSink returns a sink that records deliveries through the logger.
func LogSink(logger *slog.Logger) EventSink {
	return func(ev DeliveryEvent) {
		logger.Info("notification delivered",
			"from", ev.From,
			"to", ev.To,
			"reply_to", ev.ReplyTo,
			"subject", ev.Subject,
		)
	}
}

// Dispatcher transmits rendered messages over a mail transport.
type Dispatcher struct {
	transport MailTransport
	sink      EventSink
}

// NewDispatcher creates a dispatcher over the given transport.
func NewDispatcher(transport MailTransport, sink EventSink) *Dispatcher {
	return &Dispatcher{transport: transport, sink: sink}
}

// Send opens a session, transmits the rendered message, and emits a delivery
// event on success. The session is released on every exit path. Transport
// failures propagate to the caller; there is no retry.
func (d *Dispatcher) Send(ctx context.Context, msg *email.Message) error {
	session, err := d.transport.Open(ctx)
	if err != nil {
		return fmt.Errorf("opening mail session: %w", err)
	}
	defer session.Close()

	if err := session.Transmit(msg.Render()); err != nil {
		return fmt.Errorf("sending to %s: %w", msg.To, err)
	}

	if d.sink != nil {
		d.sink(DeliveryEvent{
			From:    msg.From,
			To:      msg.To,
			ReplyTo: msg.ReplyTo,
			Subject: msg.Subject,
			Body:    msg.Body,
		})
	}
	return nil
}
