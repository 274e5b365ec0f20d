package commands

import (
	"github.com/spf13/cobra"

	"github.com/sekolahku/skdeploy/cmd/skdeploy/handlers"
)

// Reset returns the command destroying a dev installation.
//
// Reset removes containers, named volumes and the app directory including
// credentials. It refuses to run on production or cloud installs; the
// profile recorded at install time is the authority.
func Reset() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Destroy a dev installation including all data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Reset(cmd.Context(), force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")

	return cmd
}
