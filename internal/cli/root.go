package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rpggio/mailroom/internal/config"
	"github.com/rpggio/mailroom/internal/domain/project"
	"github.com/rpggio/mailroom/internal/notify"
	"github.com/rpggio/mailroom/internal/pipeline"
	"github.com/rpggio/mailroom/internal/storage"
)

// NewRootCommand creates the root command for the mailroom CLI.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "mailroom",
		Short:         "Turn inbound email into project conversations",
		Long:          "Mailroom files inbound email into per-project conversation records and re-broadcasts updates to each project's watcher list.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewProcessEmailCommand())
	cmd.AddCommand(NewCreateProjectCommand())
	cmd.AddCommand(NewAddWatcherCommand())

	return cmd
}

// app bundles the assembled collaborators for one command run.
type app struct {
	projects *project.Repository
	ingestor *pipeline.Ingestor
}

// newApp loads configuration and wires the production implementations:
// filesystem document storage, UUID ids, and an SMTP relay transport.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	// Logs go to stderr so stdout stays clean for command output.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	store := storage.New(storage.NewOSFileStore(cfg.Storage.Dir), storage.UUIDGenerator{})
	projects := project.NewRepository(store, logger)
	dispatcher := notify.NewDispatcher(notify.NewSMTPTransport(cfg.Mail.Relay), notify.LogSink(logger))
	ingestor := pipeline.NewIngestor(projects, dispatcher, cfg.Mail.Domain, logger)

	return &app{projects: projects, ingestor: ingestor}, nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
