package notify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/mailroom/internal/email"
	"github.com/rpggio/mailroom/internal/notify"
)

func TestSendTransmitsRenderedMessage(t *testing.T) {
	transport := &notify.RecordingTransport{}
	dispatcher := notify.NewDispatcher(transport, nil)

	msg := email.NewMessage("timeline@projects.example", "w@example.com", "hi", "body\n")
	require.NoError(t, dispatcher.Send(context.Background(), msg))

	require.Len(t, transport.Sent, 1)
	require.Equal(t, msg.Render(), transport.Sent[0])
	require.Zero(t, transport.OpenSessions(), "session released after send")
}

func TestSendEmitsDeliveryEvent(t *testing.T) {
	transport := &notify.RecordingTransport{}
	var events []notify.DeliveryEvent
	dispatcher := notify.NewDispatcher(transport, func(ev notify.DeliveryEvent) {
		events = append(events, ev)
	})

	msg := email.NewMessage("timeline@projects.example", "w@example.com", "hi", "body\n")
	msg.ReplyTo = "timeline+c1@projects.example"
	require.NoError(t, dispatcher.Send(context.Background(), msg))

	require.Equal(t, []notify.DeliveryEvent{{
		From:    "timeline@projects.example",
		To:      "w@example.com",
		ReplyTo: "timeline+c1@projects.example",
		Subject: "hi",
		Body:    "body\n",
	}}, events)
}

func TestSendTransmitFailure(t *testing.T) {
	transmitErr := errors.New("relay refused")
	transport := &notify.RecordingTransport{FailAt: 1, TransmitErr: transmitErr}
	var events []notify.DeliveryEvent
	dispatcher := notify.NewDispatcher(transport, func(ev notify.DeliveryEvent) {
		events = append(events, ev)
	})

	err := dispatcher.Send(context.Background(), email.NewMessage("a@x.example", "b@y.example", "s", "b"))
	require.ErrorIs(t, err, transmitErr)
	require.Empty(t, events, "no event for a failed delivery")
	require.Zero(t, transport.OpenSessions(), "session released on the failure path")
}

func TestSendOpenFailure(t *testing.T) {
	openErr := errors.New("relay unreachable")
	transport := &notify.RecordingTransport{OpenErr: openErr}
	dispatcher := notify.NewDispatcher(transport, nil)

	err := dispatcher.Send(context.Background(), email.NewMessage("a@x.example", "b@y.example", "s", "b"))
	require.ErrorIs(t, err, openErr)
	require.Empty(t, transport.Sent)
}
