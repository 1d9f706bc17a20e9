package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewProcessEmailCommand creates the process_email command.
func NewProcessEmailCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "process_email",
		Short: "Ingest one raw email read from stdin",
		Long: `Read one full raw email message from standard input and run the
ingestion pipeline: resolve the addressed project, file the message into a
new conversation, and notify the project's watchers.

Intended to be invoked once per inbound message by a mail delivery agent:

  cat message.eml | mailroom process_email`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("reading message from stdin: %w", err)
			}
			return a.ingestor.Process(cmd.Context(), raw)
		},
	}
}
