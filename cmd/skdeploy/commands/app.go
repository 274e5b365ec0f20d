package commands

import (
	"github.com/spf13/cobra"

	"github.com/sekolahku/skdeploy/cmd/skdeploy/handlers"
)

// Artisan returns the command running application console commands.
func Artisan() *cobra.Command {
	return &cobra.Command{
		Use:   "artisan [args...]",
		Short: "Run an application console command in the app container",
		Example: `  skdeploy artisan cache:clear
  skdeploy artisan queue:retry all`,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Artisan(cmd.Context(), args)
		},
	}
}

// Shell returns the command opening a shell in the app container.
func Shell() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Open a shell inside the app container",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Shell(cmd.Context())
		},
	}
}

// Mysql returns the command opening the database console.
func Mysql() *cobra.Command {
	return &cobra.Command{
		Use:   "mysql",
		Short: "Open the database console",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Mysql(cmd.Context())
		},
	}
}
