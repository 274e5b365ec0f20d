// Package main is the entry point for the skdeploy CLI.
//
// skdeploy installs and manages a Sekolahku school portal on a single
// host: system packages, Docker containers for the app, database, cache
// and workers, nginx, credentials and backups. One binary covers the
// initial installation and all day-two operations.
//
// Commands: init, install, status, logs, backup, restore, highperf.
//
// For detailed usage information, run:
//
//	skdeploy --help
package main

import (
	"fmt"
	"os"

	"github.com/sekolahku/skdeploy/cmd/skdeploy/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
