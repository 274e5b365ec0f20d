package handlers

import (
	"context"
	"fmt"

	"github.com/sekolahku/skdeploy/internal/install"
	"github.com/sekolahku/skdeploy/internal/platform/docker"
)

// Logs streams service logs; with no services, all of them.
func Logs(ctx context.Context, services ...string) error {
	client := docker.New(newHost())
	file, err := activeComposeFile(ctx, client)
	if err != nil {
		return err
	}
	return client.Logs(ctx, file, services...)
}

// Restart restarts the stack's containers in the active mode.
func Restart(ctx context.Context) error {
	client := docker.New(newHost())
	file, err := activeComposeFile(ctx, client)
	if err != nil {
		return err
	}
	if err := client.ComposeRestart(ctx, file); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "Stack restarted")
	return nil
}

// Stop stops the containers without removing them or their data.
func Stop(ctx context.Context) error {
	client := docker.New(newHost())
	file, err := activeComposeFile(ctx, client)
	if err != nil {
		return err
	}
	if err := client.ComposeStop(ctx, file); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "Stack stopped")
	return nil
}

// Start starts the stack in its last active configuration.
func Start(ctx context.Context) error {
	client := docker.New(newHost())
	file, err := activeComposeFile(ctx, client)
	if err != nil {
		return err
	}
	if err := client.ComposeUp(ctx, file); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "Stack started")
	return nil
}

// Update pulls current images, recreates containers, applies pending
// database migrations and rebuilds the application caches. Data volumes are
// untouched.
func Update(ctx context.Context) error {
	client := docker.New(newHost())
	file, err := activeComposeFile(ctx, client)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, "Pulling images...")
	if err := client.ComposePull(ctx, file); err != nil {
		return err
	}
	if err := client.ComposeUp(ctx, file); err != nil {
		return err
	}

	app, err := appContainer(ctx, client)
	if err != nil {
		return err
	}
	if res, err := client.Exec(ctx, app, "php", "artisan", "migrate", "--force"); err != nil {
		return fmt.Errorf("migration failed: %w\n%s", err, res.Combined())
	}

	// Caches compiled from the previous image are stale after a pull.
	for _, cache := range install.CacheCommands {
		if res, err := client.Exec(ctx, app, "php", "artisan", cache); err != nil {
			return fmt.Errorf("artisan %s failed: %w\n%s", cache, err, res.Combined())
		}
	}

	fmt.Fprintln(stdout, "Update complete")
	return nil
}
