package install

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sekolahku/skdeploy/internal/compose"
	"github.com/sekolahku/skdeploy/internal/credentials"
	"github.com/sekolahku/skdeploy/internal/provisioning"
	"github.com/sekolahku/skdeploy/internal/readiness"
)

// Host-side nginx wiring and install markers.
const (
	nginxSiteLink = "/etc/nginx/sites-enabled/sekolahku.conf"
	nginxDefault  = "/etc/nginx/sites-enabled/default"
	seededMarker  = compose.AppDir + "/.seeded"

	// CLIPath is where the management binary is installed on the host.
	CLIPath = "/usr/local/bin/skdeploy"
)

// executablePath resolves the running binary; replaced in tests.
var executablePath = os.Executable

// CacheCommands are the artisan commands that rebuild the application's
// compiled caches. Run at the end of an install and after every update, so
// a new image never serves stale config or routes.
var CacheCommands = []string{"config:cache", "route:cache", "view:cache"}

func filesystemLayoutStep() provisioning.Step {
	return provisioning.Step{
		Name:   "filesystem-layout",
		Policy: provisioning.Fatal,
		Done: func(ctx *provisioning.Context) (bool, error) {
			return ctx.Host.FileExists(compose.BackupDir), nil
		},
		Run: func(ctx *provisioning.Context) error {
			dirs := []string{
				compose.AppDir,
				compose.BackupDir,
				filepath.Dir(compose.NginxConfPath),
				filepath.Dir(compose.FPMConfPath),
			}
			for _, dir := range dirs {
				if err := ctx.Host.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("failed to create %s: %w", dir, err)
				}
			}
			return nil
		},
	}
}

// generateCredentialsStep loads or creates the secrets artifact and makes the
// result available to every later step. The artifact itself is the
// idempotency marker: when it exists the secrets inside are reused verbatim.
func generateCredentialsStep() provisioning.Step {
	return provisioning.Step{
		Name:   "generate-credentials",
		Policy: provisioning.Fatal,
		Done: func(*provisioning.Context) (bool, error) {
			return false, nil
		},
		Run: func(ctx *provisioning.Context) error {
			creds, created, err := credentials.EnsureCredentials(ctx.Host, compose.CredentialsPath, ctx.Config)
			if err != nil {
				return err
			}
			ctx.Credentials = creds
			ctx.CredentialsCreated = created
			if created {
				ctx.Observer.Printf("generated fresh credentials at %s", compose.CredentialsPath)
			}
			return nil
		},
	}
}

// renderConfigsStep writes every configuration artifact and wires the
// reverse proxy. Always runs: rendering is deterministic, so a re-run
// rewrites identical bytes and reconciles any manual drift.
func renderConfigsStep() provisioning.Step {
	return provisioning.Step{
		Name:   "render-configs",
		Policy: provisioning.Fatal,
		Done: func(*provisioning.Context) (bool, error) {
			return false, nil
		},
		Run: func(ctx *provisioning.Context) error {
			composer := compose.New(ctx.Config, ctx.Resources, ctx.Credentials)
			if err := composer.RenderAll(ctx.Host); err != nil {
				return err
			}

			if res, err := ctx.Host.Run(ctx, "ln", "-sf", compose.NginxConfPath, nginxSiteLink); err != nil {
				return fmt.Errorf("failed to enable nginx site: %w\n%s", err, res.Combined())
			}
			// The distribution's placeholder site would shadow ours on port 80.
			_ = ctx.Host.Remove(nginxDefault)

			if res, err := ctx.Host.Run(ctx, "nginx", "-t"); err != nil {
				return fmt.Errorf("nginx config test failed: %w\n%s", err, res.Combined())
			}
			if res, err := ctx.Host.Run(ctx, "systemctl", "reload", "nginx"); err != nil {
				return fmt.Errorf("failed to reload nginx: %w\n%s", err, res.Combined())
			}
			return nil
		},
	}
}

func startContainersStep() provisioning.Step {
	return provisioning.Step{
		Name:   "start-containers",
		Policy: provisioning.Fatal,
		Done: func(ctx *provisioning.Context) (bool, error) {
			// Running in either mode counts; a re-run over a switched stack
			// must not drag it back to standard.
			running, err := runningSet(ctx)
			if err != nil {
				return false, err
			}
			return running[compose.ContainerApp] || running[compose.ContainerAppHP], nil
		},
		Run: func(ctx *provisioning.Context) error {
			return ctx.Docker.ComposeUp(ctx, compose.ComposeStandardPath)
		},
	}
}

func awaitDatabaseStep() provisioning.Step {
	return provisioning.Step{
		Name:   "await-database",
		Policy: provisioning.Fatal,
		Done: func(*provisioning.Context) (bool, error) {
			return false, nil
		},
		Run: func(ctx *provisioning.Context) error {
			db, err := activeContainer(ctx, compose.ContainerDB, compose.ContainerDBHP)
			if err != nil {
				return err
			}
			ep := readiness.Database(ctx.Docker, db)
			status, attempts, err := readiness.Probe(ctx, ep, ctx.ProbeInterval, ctx.ProbeMaxAttempts)
			if err != nil {
				return err
			}
			if status == readiness.TimedOut {
				return &readiness.TimeoutError{Endpoint: db, Attempts: attempts}
			}
			ctx.Observer.Printf("database healthy after %d attempt(s)", attempts)
			return nil
		},
	}
}

func migrateSeedStep() provisioning.Step {
	return provisioning.Step{
		Name:   "migrate-seed",
		Policy: provisioning.Fatal,
		Done: func(ctx *provisioning.Context) (bool, error) {
			return ctx.Host.FileExists(seededMarker), nil
		},
		Run: func(ctx *provisioning.Context) error {
			app, err := activeContainer(ctx, compose.ContainerApp, compose.ContainerAppHP)
			if err != nil {
				return err
			}

			if res, err := ctx.Docker.Exec(ctx, app, "php", "artisan", "migrate", "--force"); err != nil {
				return fmt.Errorf("migration failed: %w\n%s", err, res.Combined())
			}

			// Seed inputs travel as process environment for the one-shot
			// command; they are never written into the container image or a
			// world-readable file.
			env := []string{
				"SEED_ADMIN_USERNAME=" + ctx.Config.AdminUsername,
				"SEED_ADMIN_EMAIL=" + ctx.Config.AdminEmail,
				"SEED_ADMIN_PASSWORD=" + ctx.Credentials.AdminPassword,
			}
			if res, err := ctx.Docker.ExecEnv(ctx, app, env, "php", "artisan", "db:seed", "--force"); err != nil {
				return fmt.Errorf("seeding failed: %w\n%s", err, res.Combined())
			}

			return ctx.Host.WriteFile(seededMarker, []byte("seeded\n"), 0o644)
		},
	}
}

// issueCertificateStep obtains a TLS certificate. WARN policy: DNS that has
// not propagated yet must not abort an otherwise healthy installation; the
// operator re-runs install once the record resolves.
func issueCertificateStep() provisioning.Step {
	return provisioning.Step{
		Name:   "issue-certificate",
		Policy: provisioning.Warn,
		Done: func(ctx *provisioning.Context) (bool, error) {
			live := "/etc/letsencrypt/live/" + ctx.Config.Domain + "/fullchain.pem"
			return ctx.Host.FileExists(live), nil
		},
		Run: func(ctx *provisioning.Context) error {
			res, err := ctx.Host.Run(ctx, "certbot", "--nginx",
				"-d", ctx.Config.Domain,
				"--non-interactive", "--agree-tos", "--redirect",
				"-m", ctx.Config.AdminEmail)
			if err != nil {
				return fmt.Errorf("certificate issuance failed: %w\n%s", err, res.Combined())
			}
			return nil
		},
	}
}

func optimizeAppStep() provisioning.Step {
	return provisioning.Step{
		Name:   "optimize-app",
		Policy: provisioning.Warn,
		Done: func(*provisioning.Context) (bool, error) {
			return false, nil
		},
		Run: func(ctx *provisioning.Context) error {
			app, err := activeContainer(ctx, compose.ContainerApp, compose.ContainerAppHP)
			if err != nil {
				return err
			}
			for _, cache := range CacheCommands {
				if res, err := ctx.Docker.Exec(ctx, app, "php", "artisan", cache); err != nil {
					return fmt.Errorf("artisan %s failed: %w\n%s", cache, err, res.Combined())
				}
			}
			return nil
		},
	}
}

func installManagementCLIStep() provisioning.Step {
	return provisioning.Step{
		Name:   "install-management-cli",
		Policy: provisioning.Fatal,
		Done: func(ctx *provisioning.Context) (bool, error) {
			return ctx.Host.FileExists(CLIPath), nil
		},
		Run: func(ctx *provisioning.Context) error {
			self, err := executablePath()
			if err != nil {
				return fmt.Errorf("failed to locate running binary: %w", err)
			}
			data, err := ctx.Host.ReadFile(self)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", self, err)
			}
			return ctx.Host.WriteFile(CLIPath, data, 0o755)
		},
	}
}

// runningSet returns the running container names as a lookup set.
func runningSet(ctx *provisioning.Context) (map[string]bool, error) {
	names, err := ctx.Docker.RunningContainers(ctx)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set, nil
}

// activeContainer picks the live container for a service: the -hp variant
// when the high-performance stack is up, the standard name otherwise.
func activeContainer(ctx *provisioning.Context, standard, highperf string) (string, error) {
	running, err := runningSet(ctx)
	if err != nil {
		return "", err
	}
	if running[highperf] {
		return highperf, nil
	}
	return standard, nil
}
