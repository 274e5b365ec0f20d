package commands

import (
	"github.com/spf13/cobra"

	"github.com/sekolahku/skdeploy/cmd/skdeploy/handlers"
)

// Status returns the command reporting the live state of the stack.
func Status() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stack's mode, containers and host tier",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Status(cmd.Context())
		},
	}
}
