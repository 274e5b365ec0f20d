package handlers

import (
	"context"

	"github.com/sekolahku/skdeploy/internal/platform/docker"
)

// Artisan runs an application console command inside the app container with
// the caller's terminal attached.
func Artisan(ctx context.Context, args []string) error {
	client := docker.New(newHost())
	app, err := appContainer(ctx, client)
	if err != nil {
		return err
	}
	cmd := append([]string{"php", "artisan"}, args...)
	return client.ExecInteractive(ctx, app, cmd...)
}

// Shell opens an interactive shell inside the app container.
func Shell(ctx context.Context) error {
	client := docker.New(newHost())
	app, err := appContainer(ctx, client)
	if err != nil {
		return err
	}
	return client.ExecInteractive(ctx, app, "bash")
}

// Mysql opens the database console. The root password is resolved inside
// the container from its own environment, never on the host command line.
func Mysql(ctx context.Context) error {
	client := docker.New(newHost())
	db, err := dbContainer(ctx, client)
	if err != nil {
		return err
	}
	return client.ExecInteractive(ctx, db, "sh", "-c",
		`exec mysql -uroot -p"$MARIADB_ROOT_PASSWORD" sekolahku`)
}
