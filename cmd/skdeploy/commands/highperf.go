package commands

import (
	"github.com/spf13/cobra"

	"github.com/sekolahku/skdeploy/cmd/skdeploy/handlers"
)

// HighPerf returns the command group for switching performance modes.
//
// High-performance mode trades memory for throughput: more PHP-FPM workers,
// a bigger database buffer pool and a larger cache. Switching is gated on
// live host resources and never touches data volumes.
func HighPerf() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "highperf",
		Short: "Switch between standard and high-performance mode",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Switch to high-performance mode",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.HighPerfUp(cmd.Context())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Switch back to standard mode",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.HighPerfDown(cmd.Context())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the active mode",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.HighPerfStatus(cmd.Context())
		},
	})

	return cmd
}
