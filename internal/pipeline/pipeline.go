package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/rpggio/mailroom/internal/domain/project"
	"github.com/rpggio/mailroom/internal/email"
	"github.com/rpggio/mailroom/internal/notify"
)

// Ingestor runs the email ingestion pipeline: parse the inbound message,
// resolve the addressed project, thread the message into a new conversation,
// and fan the update out to the project's watchers.
type Ingestor struct {
	projects   *project.Repository
	dispatcher *notify.Dispatcher
	domain     string
	logger     *slog.Logger
}

// NewIngestor creates an ingestor. domain is used for outbound From and
// Reply-To addresses.
func NewIngestor(projects *project.Repository, dispatcher *notify.Dispatcher, domain string, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Ingestor{projects: projects, dispatcher: dispatcher, domain: domain, logger: logger}
}

// Process ingests one raw inbound email. The run is a single linear
// sequence with no persisted progress: a failure aborts the run and the
// error propagates to the caller. If the project doesn't exist, nothing is
// written and nothing is sent. Watcher sends happen strictly in stored
// order; a failed send aborts the remaining ones, but sends already made
// stay made.
func (in *Ingestor) Process(ctx context.Context, raw []byte) error {
	msg, err := email.Parse(raw)
	if err != nil {
		return err
	}

	key, err := msg.ProjectKey()
	if err != nil {
		return err
	}

	exists, err := in.projects.Exists(ctx, key)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%s: %w", key, project.ErrProjectNotFound)
	}

	convID, err := in.projects.CreateConversation(ctx, key, msg.Subject, raw)
	if err != nil {
		return err
	}

	proj, err := in.projects.Load(ctx, key)
	if err != nil {
		return err
	}

	in.logger.Info("email ingested",
		"project", key,
		"conversation", convID,
		"watchers", len(proj.Watchers),
	)

	body := msg.PlainText()
	for _, watcher := range proj.Watchers {
		notification := email.NewMessage(
			fmt.Sprintf("%s@%s", key, in.domain),
			watcher,
			msg.Subject,
			body,
		)
		// Replies carry the conversation id so they can be threaded back in.
		notification.ReplyTo = fmt.Sprintf("%s+%s@%s", key, convID, in.domain)

		if err := in.dispatcher.Send(ctx, notification); err != nil {
			return err
		}
	}

	return nil
}
