package cli

import (
	"github.com/spf13/cobra"
)

// NewCreateProjectCommand creates the create_project command.
func NewCreateProjectCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "create_project <name>",
		Short:         "Create an empty project",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return a.projects.Create(cmd.Context(), args[0])
		},
	}
}

// NewAddWatcherCommand creates the add_watcher command.
func NewAddWatcherCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "add_watcher <project> <address>",
		Short:         "Subscribe an address to a project's updates",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return a.projects.AddWatcher(cmd.Context(), args[0], args[1])
		},
	}
}
