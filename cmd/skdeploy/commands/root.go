// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the skdeploy CLI.
//
// The root command serves as the entry point and parent for all subcommands.
// It provides basic CLI metadata and organizes the command hierarchy.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skdeploy",
		Short: "Install and manage a Sekolahku school portal on this host",
	}

	// Provisioning commands
	cmd.AddCommand(Init())
	cmd.AddCommand(Install())

	// Day-two commands
	cmd.AddCommand(Status())
	cmd.AddCommand(Logs())
	cmd.AddCommand(Restart())
	cmd.AddCommand(Stop())
	cmd.AddCommand(Start())
	cmd.AddCommand(Update())
	cmd.AddCommand(Backup())
	cmd.AddCommand(Restore())
	cmd.AddCommand(HighPerf())

	// Developer commands
	cmd.AddCommand(Artisan())
	cmd.AddCommand(Shell())
	cmd.AddCommand(Mysql())
	cmd.AddCommand(Reset())

	// Utility commands
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
