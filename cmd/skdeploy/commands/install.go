package commands

import (
	"github.com/spf13/cobra"

	"github.com/sekolahku/skdeploy/cmd/skdeploy/handlers"
)

// Install returns the command for provisioning the full stack on this host.
//
// This command runs the complete installation pipeline: validating the
// configuration, checking host resources, installing system packages and
// Docker, generating credentials, rendering configs and starting the
// containers. It is safe to re-run; completed work is skipped.
//
// Optional flags:
//
//	--config, -c: Path to installation config file (default: sekolahku.conf)
//	--profile, -p: Deployment profile: production, cloud or dev (default: production)
func Install() *cobra.Command {
	var (
		configPath string
		profile    string
	)

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install the school portal on this host",
		Long: `Install the full Sekolahku stack on this host.

This command installs system dependencies, Docker and nginx, generates
credentials, renders all configuration and starts the containers. Re-running
it is safe: finished steps are skipped and secrets are never rotated.

Use 'skdeploy init' first to create a configuration file interactively.

Examples:
  # Install using sekolahku.conf in the current directory
  skdeploy install

  # Install a development instance from a specific config
  skdeploy install -c school.conf -p dev

  # Re-run after a failed step
  skdeploy install`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Install(cmd.Context(), configPath, profile)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "sekolahku.conf", "Path to installation config file")
	cmd.Flags().StringVarP(&profile, "profile", "p", "production", "Deployment profile: production, cloud or dev")

	return cmd
}
