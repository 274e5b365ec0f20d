package commands

import (
	"github.com/spf13/cobra"

	"github.com/sekolahku/skdeploy/cmd/skdeploy/handlers"
)

// Init returns the command for creating an installation config interactively.
func Init() *cobra.Command {
	var (
		output  string
		profile string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an installation config interactively",
		Long: `Create an installation config file through a guided wizard.

The wizard asks for the school's name and level, the domain, timezone and
the administrator account. The result is written owner-only because it may
contain a password.

Examples:
  # Write sekolahku.conf in the current directory
  skdeploy init

  # Prepare a dev-profile config under another name
  skdeploy init -o school.conf -p dev`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), output, profile)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "sekolahku.conf", "Where to write the config file")
	cmd.Flags().StringVarP(&profile, "profile", "p", "production", "Deployment profile: production, cloud or dev")

	return cmd
}
