package handlers

import (
	"context"
	"fmt"

	"github.com/sekolahku/skdeploy/internal/backup"
	"github.com/sekolahku/skdeploy/internal/platform/docker"
)

// Backup dumps the database into a local archive and, when SKDEPLOY_S3_* is
// configured, ships it offsite.
func Backup(ctx context.Context) error {
	h := newHost()
	archiver := backup.New(h, docker.New(h))

	if settings, ok := offsiteSettings(); ok {
		store, err := newStore(ctx, settings)
		if err != nil {
			return fmt.Errorf("offsite storage unavailable: %w", err)
		}
		archiver.Store = store
	}

	path, err := archiver.Create(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Backup written to %s\n", path)
	if archiver.Store != nil {
		fmt.Fprintln(stdout, "Backup uploaded offsite")
	}
	return nil
}

// Restore loads an archive into the database, replacing its current
// contents. Always confirmed interactively. With offsite storage configured
// an archive missing from the local directory is fetched from the store.
func Restore(ctx context.Context, file string) error {
	h := newHost()
	archiver := backup.New(h, docker.New(h))

	if settings, ok := offsiteSettings(); ok {
		store, err := newStore(ctx, settings)
		if err != nil {
			return fmt.Errorf("offsite storage unavailable: %w", err)
		}
		archiver.Store = store
	}

	ok, err := confirm(fmt.Sprintf("Restoring %s overwrites the current database. Continue?", file))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("restore aborted")
	}

	if err := archiver.Restore(ctx, file); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Restored %s\n", file)
	return nil
}
