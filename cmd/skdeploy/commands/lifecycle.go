package commands

import (
	"github.com/spf13/cobra"

	"github.com/sekolahku/skdeploy/cmd/skdeploy/handlers"
)

// Logs returns the command streaming container logs.
func Logs() *cobra.Command {
	return &cobra.Command{
		Use:   "logs [service...]",
		Short: "Stream container logs (all services by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Logs(cmd.Context(), args...)
		},
	}
}

// Restart returns the command restarting the stack's containers.
func Restart() *cobra.Command {
	return &cobra.Command{
		Use:   "restart",
		Short: "Restart all containers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Restart(cmd.Context())
		},
	}
}

// Stop returns the command stopping the stack without removing data.
func Stop() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the stack (data is kept)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Stop(cmd.Context())
		},
	}
}

// Start returns the command starting a stopped stack.
func Start() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the stack",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Start(cmd.Context())
		},
	}
}

// Update returns the command pulling current images and migrating.
func Update() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Pull current images, recreate containers and migrate",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Update(cmd.Context())
		},
	}
}
