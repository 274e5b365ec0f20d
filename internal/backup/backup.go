// Package backup creates and restores compressed database dumps, with a
// bounded local archive and optional offsite upload.
package backup

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/sekolahku/skdeploy/internal/compose"
	"github.com/sekolahku/skdeploy/internal/platform/docker"
	"github.com/sekolahku/skdeploy/internal/platform/host"
	"github.com/sekolahku/skdeploy/internal/util/retry"
)

// DefaultRetention is how many local archives survive a new backup.
const DefaultRetention = 7

const (
	archivePrefix = "sekolahku-"
	archiveSuffix = ".sql.gz"
	stampLayout   = "20060102-150405"
)

// The dump and load commands run inside the db container so the root
// password never appears on a host command line; the container's own
// environment supplies it.
const (
	dumpCommand = `exec mysqldump -uroot -p"$MARIADB_ROOT_PASSWORD" --single-transaction ` + compose.DatabaseName
	loadCommand = `exec mysql -uroot -p"$MARIADB_ROOT_PASSWORD" ` + compose.DatabaseName
)

// uploadRetry configures offsite upload retries; overridden in tests to
// avoid real backoff delays.
var uploadRetry []retry.Option

// Store keeps archives offsite. Nil means offsite backups are not
// configured. The retention policy applies to the store too, so offsite
// space stays bounded like the local directory.
type Store interface {
	Upload(ctx context.Context, key string, data []byte) error
	Download(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, key string) error
}

// Archiver creates, lists and restores database archives.
type Archiver struct {
	Host      host.Host
	Docker    *docker.Client
	Store     Store
	Retention int

	// Now stamps archive names; fixed in tests.
	Now func() time.Time
}

// New returns an Archiver with production defaults and no offsite upload.
func New(h host.Host, client *docker.Client) *Archiver {
	return &Archiver{
		Host:      h,
		Docker:    client,
		Retention: DefaultRetention,
		Now:       time.Now,
	}
}

// Create dumps the database, writes a timestamped gzip archive into the
// backup directory and prunes old archives down to the retention count.
// When a store is configured the new archive is shipped offsite with
// retries and the store is pruned to the same retention. Returns the
// archive path.
func (a *Archiver) Create(ctx context.Context) (string, error) {
	db, err := a.dbContainer(ctx)
	if err != nil {
		return "", err
	}

	res, err := a.Docker.Exec(ctx, db, "sh", "-c", dumpCommand)
	if err != nil {
		return "", fmt.Errorf("database dump failed: %w\n%s", err, res.Stderr)
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(res.Stdout)); err != nil {
		return "", fmt.Errorf("failed to compress dump: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("failed to compress dump: %w", err)
	}

	name := archivePrefix + a.Now().UTC().Format(stampLayout) + archiveSuffix
	path := filepath.Join(compose.BackupDir, name)
	if err := a.Host.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return "", fmt.Errorf("failed to write archive: %w", err)
	}

	if err := a.prune(); err != nil {
		return "", err
	}

	if a.Store != nil {
		err := retry.Do(ctx, func() error {
			return a.Store.Upload(ctx, name, buf.Bytes())
		}, uploadRetry...)
		if err != nil {
			return "", fmt.Errorf("offsite upload failed: %w", err)
		}
		if err := a.pruneOffsite(ctx); err != nil {
			return "", err
		}
	}

	return path, nil
}

// Restore feeds a gunzipped archive into the database. The stack must be
// running. An archive that is not on disk is fetched from the offsite
// store when one is configured, so a wiped host can restore straight from
// its last upload.
func (a *Archiver) Restore(ctx context.Context, path string) error {
	data, err := a.readArchive(ctx, path)
	if err != nil {
		return err
	}
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%s is not a valid archive: %w", path, err)
	}
	defer zr.Close()

	db, err := a.dbContainer(ctx)
	if err != nil {
		return err
	}

	res, err := a.Docker.ExecInput(ctx, zr, db, "sh", "-c", loadCommand)
	if err != nil {
		return fmt.Errorf("restore failed: %w\n%s", err, res.Stderr)
	}
	return nil
}

// List returns the local archive paths, newest first. The timestamp in the
// name makes lexicographic order chronological.
func (a *Archiver) List() ([]string, error) {
	paths, err := a.Host.Glob(filepath.Join(compose.BackupDir, archivePrefix+"*"+archiveSuffix))
	if err != nil {
		return nil, fmt.Errorf("failed to list archives: %w", err)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(paths)))
	return paths, nil
}

// readArchive loads the archive bytes, preferring the local copy.
func (a *Archiver) readArchive(ctx context.Context, path string) ([]byte, error) {
	if a.Host.FileExists(path) {
		data, err := a.Host.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return data, nil
	}
	if a.Store == nil {
		return nil, fmt.Errorf("backup file %s does not exist", path)
	}
	data, err := a.Store.Download(ctx, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("backup file %s is not on disk and the offsite fetch failed: %w", path, err)
	}
	return data, nil
}

func (a *Archiver) prune() error {
	archives, err := a.List()
	if err != nil {
		return err
	}
	for _, old := range archives[min(len(archives), a.Retention):] {
		if err := a.Host.Remove(old); err != nil {
			return fmt.Errorf("failed to prune %s: %w", old, err)
		}
	}
	return nil
}

// pruneOffsite applies the retention count to the store's archive keys.
func (a *Archiver) pruneOffsite(ctx context.Context) error {
	keys, err := a.Store.List(ctx, archivePrefix)
	if err != nil {
		return fmt.Errorf("failed to list offsite archives: %w", err)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	for _, old := range keys[min(len(keys), a.Retention):] {
		if err := a.Store.Delete(ctx, old); err != nil {
			return fmt.Errorf("failed to prune offsite archive %s: %w", old, err)
		}
	}
	return nil
}

// dbContainer resolves the live database container for the active mode.
func (a *Archiver) dbContainer(ctx context.Context) (string, error) {
	names, err := a.Docker.RunningContainers(ctx)
	if err != nil {
		return "", err
	}
	for _, n := range names {
		if n == compose.ContainerDBHP {
			return compose.ContainerDBHP, nil
		}
	}
	for _, n := range names {
		if n == compose.ContainerDB {
			return compose.ContainerDB, nil
		}
	}
	return "", fmt.Errorf("database container is not running; start the stack first")
}
