// Package handlers implements the business logic behind the CLI commands.
//
// Handlers are framework-agnostic: commands parse flags and delegate here.
// Collaborators are bound through package-level factory variables so tests
// can inject fakes without touching a real host.
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/sekolahku/skdeploy/internal/backup"
	"github.com/sekolahku/skdeploy/internal/compose"
	"github.com/sekolahku/skdeploy/internal/config"
	"github.com/sekolahku/skdeploy/internal/config/wizard"
	"github.com/sekolahku/skdeploy/internal/mode"
	"github.com/sekolahku/skdeploy/internal/platform/docker"
	"github.com/sekolahku/skdeploy/internal/platform/host"
	"github.com/sekolahku/skdeploy/internal/platform/s3"
	"github.com/sekolahku/skdeploy/internal/resources"
	"github.com/sekolahku/skdeploy/internal/ui/tui"
)

// Factory function variables - replaced in tests for dependency injection.
var (
	// newHost creates the host capability layer.
	newHost = func() host.Host { return host.NewLocal() }

	// stdout is where handlers print user-facing output.
	stdout io.Writer = os.Stdout

	// isTerminal reports whether stdout is an interactive terminal.
	isTerminal = func() bool { return isatty.IsTerminal(os.Stdout.Fd()) }

	// probeReadings measures host resources.
	probeReadings = resources.Probe

	// loadConfigFile loads the installation config.
	loadConfigFile = config.LoadFile

	// runWizard collects a config interactively.
	runWizard = wizard.Run

	// runProgress drives a pipeline under the TUI progress display.
	runProgress = tui.Run

	// confirm asks a yes/no question interactively.
	confirm = func(message string) (bool, error) {
		var ok bool
		err := huh.NewConfirm().Title(message).Value(&ok).Run()
		return ok, err
	}

	// offsiteSettings reads the offsite backup configuration.
	offsiteSettings = s3.FromEnv

	// newSwitcher builds the mode switcher.
	newSwitcher = func(client *docker.Client) *mode.Switcher {
		return mode.NewSwitcher(client, confirm)
	}

	// newStore builds the offsite backup client.
	newStore = func(ctx context.Context, settings s3.Settings) (backup.Store, error) {
		client, err := s3.NewClient(ctx, settings)
		if err != nil {
			return nil, err
		}
		if err := client.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return client, nil
	}
)

// installedProfile reads the deployment profile recorded in the rendered env
// file. It is the authority for profile-gated commands like reset.
func installedProfile(h host.Host) (config.Profile, error) {
	data, err := h.ReadFile(compose.EnvPath)
	if err != nil {
		return "", fmt.Errorf("no installation found at %s (run 'skdeploy install' first)", compose.AppDir)
	}
	for _, line := range strings.Split(string(data), "\n") {
		if value, found := strings.CutPrefix(line, "SKDEPLOY_PROFILE="); found {
			return config.ParseProfile(strings.TrimSpace(value))
		}
	}
	return "", fmt.Errorf("%s does not record a deployment profile", compose.EnvPath)
}

// activeComposeFile resolves the composition file matching the live mode,
// falling back to standard when nothing is running.
func activeComposeFile(ctx context.Context, client *docker.Client) (string, error) {
	m, running, err := mode.Current(ctx, client)
	if err != nil {
		return "", err
	}
	if !running {
		return compose.ComposeStandardPath, nil
	}
	return compose.ComposeFilePath(m), nil
}

// appContainer resolves the live application container for exec-style
// commands; the stack must be running.
func appContainer(ctx context.Context, client *docker.Client) (string, error) {
	m, running, err := mode.Current(ctx, client)
	if err != nil {
		return "", err
	}
	if !running {
		return "", fmt.Errorf("stack is not running; run 'skdeploy start' first")
	}
	if m == compose.ModeHighPerformance {
		return compose.ContainerAppHP, nil
	}
	return compose.ContainerApp, nil
}

// dbContainer resolves the live database container.
func dbContainer(ctx context.Context, client *docker.Client) (string, error) {
	m, running, err := mode.Current(ctx, client)
	if err != nil {
		return "", err
	}
	if !running {
		return "", fmt.Errorf("stack is not running; run 'skdeploy start' first")
	}
	if m == compose.ModeHighPerformance {
		return compose.ContainerDBHP, nil
	}
	return compose.ContainerDB, nil
}
