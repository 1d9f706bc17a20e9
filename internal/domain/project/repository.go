package project

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/rpggio/mailroom/internal/storage"
)

// Namespaces under which project documents live. Everything belonging to a
// project is scoped under the project's own namespace.
const projectsNamespace = "projects"

func conversationsNamespace(name string) string {
	return path.Join(projectsNamespace, name, "conversations")
}

func entriesNamespace(name string) string {
	return path.Join(projectsNamespace, name, "conversations", "entries")
}

func emailsNamespace(name string) string {
	return path.Join(projectsNamespace, name, "emails")
}

// Repository provides project persistence over the entity store.
type Repository struct {
	store  *storage.EntityStore
	logger *slog.Logger
}

// NewRepository creates a new project repository.
func NewRepository(store *storage.EntityStore, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Repository{store: store, logger: logger}
}

// Create creates an empty project using name itself as the id.
func (r *Repository) Create(ctx context.Context, name string) error {
	if err := r.store.CreateWithID(ctx, projectsNamespace, name, Project{}); err != nil {
		return fmt.Errorf("creating project: %w", err)
	}
	r.logger.Info("project created", "project", name)
	return nil
}

// Exists reports whether the project exists.
func (r *Repository) Exists(ctx context.Context, name string) (bool, error) {
	return r.store.Exists(ctx, projectsNamespace, name)
}

// Load returns a snapshot of the project document. Missing watcher and
// conversation fields decode as empty sequences.
func (r *Repository) Load(ctx context.Context, name string) (*Project, error) {
	var proj Project
	if err := r.store.Load(ctx, projectsNamespace, name, &proj); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", name, ErrProjectNotFound)
		}
		return nil, fmt.Errorf("loading project: %w", err)
	}
	return &proj, nil
}

// AddWatcher appends address to the project's watcher list. Duplicate
// addresses are kept; the list preserves insertion order.
func (r *Repository) AddWatcher(ctx context.Context, name, address string) error {
	if err := r.store.Append(ctx, projectsNamespace, name, "watchers", address); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", name, ErrProjectNotFound)
		}
		return fmt.Errorf("adding watcher: %w", err)
	}
	r.logger.Info("watcher added", "project", name, "watcher", address)
	return nil
}

// CreateConversation materializes a new conversation from one inbound email.
// It performs four dependent writes in order: the email archive, the entry
// referencing it, the conversation referencing the entry, and the append of
// the conversation onto the project. Each write needs the id produced by the
// one before it, so the sequence cannot be reordered. There is no rollback:
// if a later write fails, the earlier documents remain as orphans that
// nothing references.
func (r *Repository) CreateConversation(ctx context.Context, name, subject string, rawEmail []byte) (string, error) {
	record := EmailRecord{RawEmail: base64.StdEncoding.EncodeToString(rawEmail)}
	emailID, err := r.store.Create(ctx, emailsNamespace(name), record)
	if err != nil {
		return "", fmt.Errorf("archiving email: %w", err)
	}

	entryID, err := r.store.Create(ctx, entriesNamespace(name), Entry{SourceEmail: emailID})
	if err != nil {
		return "", fmt.Errorf("creating entry: %w", err)
	}

	conv := Conversation{Subject: subject, Entries: []Ref{{ID: entryID}}}
	convID, err := r.store.Create(ctx, conversationsNamespace(name), conv)
	if err != nil {
		return "", fmt.Errorf("creating conversation: %w", err)
	}

	if err := r.store.Append(ctx, projectsNamespace, name, "conversations", Ref{ID: convID}); err != nil {
		return "", fmt.Errorf("linking conversation: %w", err)
	}

	r.logger.Info("conversation created", "project", name, "conversation", convID)
	return convID, nil
}

// LoadConversation returns a stored conversation by id.
func (r *Repository) LoadConversation(ctx context.Context, name, id string) (*Conversation, error) {
	var conv Conversation
	if err := r.store.Load(ctx, conversationsNamespace(name), id, &conv); err != nil {
		return nil, fmt.Errorf("loading conversation: %w", err)
	}
	return &conv, nil
}
