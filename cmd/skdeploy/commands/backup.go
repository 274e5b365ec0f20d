package commands

import (
	"github.com/spf13/cobra"

	"github.com/sekolahku/skdeploy/cmd/skdeploy/handlers"
)

// Backup returns the command dumping the database into a local archive.
//
// Environment variables:
//
//	SKDEPLOY_S3_ENDPOINT, SKDEPLOY_S3_BUCKET, SKDEPLOY_S3_ACCESS_KEY,
//	SKDEPLOY_S3_SECRET_KEY: when all set, the archive is also uploaded
//	to S3-compatible offsite storage.
func Backup() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Back up the database (optionally offsite)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Backup(cmd.Context())
		},
	}
}

// Restore returns the command loading a backup archive into the database.
func Restore() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <archive>",
		Short: "Restore the database from a backup archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Restore(cmd.Context(), args[0])
		},
	}
}
