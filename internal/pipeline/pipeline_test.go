package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/mailroom/internal/domain/project"
	"github.com/rpggio/mailroom/internal/email"
	"github.com/rpggio/mailroom/internal/notify"
	"github.com/rpggio/mailroom/internal/pipeline"
	"github.com/rpggio/mailroom/internal/storage"
)

type fixture struct {
	ingestor  *pipeline.Ingestor
	projects  *project.Repository
	transport *notify.RecordingTransport
	events    []notify.DeliveryEvent
	files     *storage.MemFileStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{transport: &notify.RecordingTransport{}}
	f.files = storage.NewMemFileStore()
	f.projects = project.NewRepository(storage.New(f.files, &storage.SequenceGenerator{}), nil)
	dispatcher := notify.NewDispatcher(f.transport, func(ev notify.DeliveryEvent) {
		f.events = append(f.events, ev)
	})
	f.ingestor = pipeline.NewIngestor(f.projects, dispatcher, "projects.example", nil)
	return f
}

func TestIngestFansOutToWatchers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.projects.Create(ctx, "timeline"))
	require.NoError(t, f.projects.AddWatcher(ctx, "timeline", "watcher1@example.com"))
	require.NoError(t, f.projects.AddWatcher(ctx, "timeline", "watcher2@example.com"))

	raw := []byte("From: user@example.com\r\nTo: timeline@projects.example\r\nSubject: Hello World!\r\n\r\nhello\n")
	require.NoError(t, f.ingestor.Process(ctx, raw))

	proj, err := f.projects.Load(ctx, "timeline")
	require.NoError(t, err)
	require.Len(t, proj.Conversations, 1)

	convID := proj.Conversations[0].ID
	conv, err := f.projects.LoadConversation(ctx, "timeline", convID)
	require.NoError(t, err)
	require.Equal(t, "Hello World!", conv.Subject)
	require.Len(t, conv.Entries, 1)

	require.Len(t, f.events, 2)
	for i, to := range []string{"watcher1@example.com", "watcher2@example.com"} {
		require.Equal(t, notify.DeliveryEvent{
			From:    "timeline@projects.example",
			To:      to,
			ReplyTo: "timeline+" + convID + "@projects.example",
			Subject: "Hello World!",
			Body:    "hello\n",
		}, f.events[i])
	}
	require.Len(t, f.transport.Sent, 2)
}

func TestIngestUnknownProject(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	raw := []byte("From: user@example.com\r\nTo: ghost@projects.example\r\nSubject: hi\r\n\r\nx\n")
	err := f.ingestor.Process(ctx, raw)
	require.ErrorIs(t, err, project.ErrProjectNotFound)

	require.Empty(t, f.files.Paths(), "no document writes before project resolution")
	require.Empty(t, f.transport.Sent)
	require.Empty(t, f.events)
}

func TestIngestNoWatchers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.projects.Create(ctx, "quiet"))

	raw := []byte("From: user@example.com\r\nTo: quiet@projects.example\r\nSubject: hi\r\n\r\nx\n")
	require.NoError(t, f.ingestor.Process(ctx, raw))

	proj, err := f.projects.Load(ctx, "quiet")
	require.NoError(t, err)
	require.Len(t, proj.Conversations, 1)
	require.Empty(t, f.transport.Sent)
}

func TestIngestMalformedEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	err := f.ingestor.Process(ctx, []byte("garbage"))
	require.ErrorIs(t, err, email.ErrMalformed)
	require.Empty(t, f.files.Paths())
}

func TestIngestSendFailureAbortsRemainingWatchers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	transmitErr := errors.New("relay refused")
	f.transport.FailAt = 2
	f.transport.TransmitErr = transmitErr

	require.NoError(t, f.projects.Create(ctx, "timeline"))
	for _, w := range []string{"w1@example.com", "w2@example.com", "w3@example.com"} {
		require.NoError(t, f.projects.AddWatcher(ctx, "timeline", w))
	}

	raw := []byte("From: user@example.com\r\nTo: timeline@projects.example\r\nSubject: hi\r\n\r\nx\n")
	err := f.ingestor.Process(ctx, raw)
	require.ErrorIs(t, err, transmitErr)

	// The first send already took effect; the third never happened.
	require.Len(t, f.transport.Sent, 1)
	require.Len(t, f.events, 1)
	require.Equal(t, "w1@example.com", f.events[0].To)

	// The conversation was created before fan-out and stays.
	proj, err := f.projects.Load(ctx, "timeline")
	require.NoError(t, err)
	require.Len(t, proj.Conversations, 1)
}

func TestIngestUsesHtmlPlaceholderBody(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.projects.Create(ctx, "timeline"))
	require.NoError(t, f.projects.AddWatcher(ctx, "timeline", "w@example.com"))

	raw := []byte("From: user@example.com\r\nTo: timeline@projects.example\r\nSubject: hi\r\n" +
		"Content-Type: text/html\r\n\r\n<p>hello</p>")
	require.NoError(t, f.ingestor.Process(ctx, raw))

	require.Len(t, f.events, 1)
	require.Equal(t, email.NoPlainBody, f.events[0].Body)
}

// Plus-addressed inbound mail is not special-cased: the full local part is
// the routing key, so replies to a conversation address route to a project
// that doesn't exist.
func TestIngestPlusAddressNotThreaded(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.projects.Create(ctx, "timeline"))

	raw := []byte("From: user@example.com\r\nTo: timeline+c1@projects.example\r\n\r\nx\n")
	err := f.ingestor.Process(ctx, raw)
	require.ErrorIs(t, err, project.ErrProjectNotFound)
}
