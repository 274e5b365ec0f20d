package handlers

import (
	"context"
	"fmt"

	"github.com/sekolahku/skdeploy/internal/compose"
	"github.com/sekolahku/skdeploy/internal/config"
	"github.com/sekolahku/skdeploy/internal/platform/docker"
)

// Reset destroys the installation: containers, named volumes and the app
// directory, credentials included. Available only on dev-profile installs;
// the profile recorded in the rendered env file is the authority, so a
// production install cannot be reset by passing a flag.
func Reset(ctx context.Context, force bool) error {
	h := newHost()
	client := docker.New(h)

	profile, err := installedProfile(h)
	if err != nil {
		return err
	}
	if profile != config.ProfileDev {
		return fmt.Errorf("reset is only available on dev installs; this host runs the %s profile", profile)
	}

	if !force {
		ok, err := confirm("This permanently deletes all containers, data volumes and credentials. Continue?")
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("reset aborted")
		}
	}

	// Tear down both compositions; whichever is not running is a no-op.
	// This is the only code path that removes named volumes.
	file, err := activeComposeFile(ctx, client)
	if err != nil {
		return err
	}
	if err := client.DestroyVolumes(ctx, file); err != nil {
		return err
	}

	if err := h.RemoveAll(compose.AppDir); err != nil {
		return fmt.Errorf("failed to remove %s: %w", compose.AppDir, err)
	}

	fmt.Fprintln(stdout, "Installation removed. Run 'skdeploy install' to start over.")
	return nil
}
