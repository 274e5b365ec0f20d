package install

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sekolahku/skdeploy/internal/compose"
	"github.com/sekolahku/skdeploy/internal/config"
	"github.com/sekolahku/skdeploy/internal/platform/host"
	"github.com/sekolahku/skdeploy/internal/provisioning"
	"github.com/sekolahku/skdeploy/internal/readiness"
	"github.com/sekolahku/skdeploy/internal/resources"
	fakes "github.com/sekolahku/skdeploy/internal/testing"
	"github.com/sekolahku/skdeploy/internal/util/retry"
)

func TestMain(m *testing.M) {
	// No real backoff in tests.
	aptRetry = []retry.Option{retry.WithMaxRetries(1), retry.WithInitialDelay(time.Microsecond)}
	os.Exit(m.Run())
}

func stepNames(steps []provisioning.Step) []string {
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.Name
	}
	return names
}

func testConfig(profile config.Profile) *config.Config {
	cfg := &config.Config{
		Domain:        "sma1.sch.id",
		AdminUsername: "kepsek",
		AdminEmail:    "kepsek@sma1.sch.id",
		SchoolName:    "SMA Negeri 1",
		SchoolLevel:   config.LevelSMA,
		Profile:       profile,
	}
	cfg.ApplyDefaults()
	return cfg
}

func testContext(t *testing.T, profile config.Profile, h *fakes.FakeHost) *provisioning.Context {
	t.Helper()
	ctx := provisioning.NewContext(context.Background(),
		testConfig(profile),
		resources.NewProfile(resources.Readings{RAMMB: 8192, CPUCores: 4, FreeDiskGB: 50}),
		nil,
		h,
	)
	ctx.Observer = &provisioning.RecordingObserver{}
	ctx.ProbeInterval = time.Microsecond
	ctx.ProbeMaxAttempts = 3
	ctx.SettleDelay = 0
	return ctx
}

func stubSelf(t *testing.T, h *fakes.FakeHost) {
	t.Helper()
	orig := executablePath
	executablePath = func() (string, error) { return "/tmp/skdeploy-test", nil }
	t.Cleanup(func() { executablePath = orig })
	h.Files["/tmp/skdeploy-test"] = []byte("binary")
}

func TestPipeline_ProfileComposition(t *testing.T) {
	production := stepNames(Pipeline(config.ProfileProduction))
	cloud := stepNames(Pipeline(config.ProfileCloud))
	dev := stepNames(Pipeline(config.ProfileDev))

	assert.NotContains(t, production, "create-operator")
	assert.Contains(t, production, "install-certbot")
	assert.Contains(t, production, "configure-firewall")
	assert.Contains(t, production, "issue-certificate")

	assert.Equal(t, "create-operator", cloud[0])
	assert.Contains(t, cloud, "configure-firewall")

	assert.NotContains(t, dev, "create-operator")
	assert.NotContains(t, dev, "install-certbot")
	assert.NotContains(t, dev, "configure-firewall")
	assert.NotContains(t, dev, "issue-certificate")
	assert.Contains(t, dev, "migrate-seed")
}

func TestPipeline_EndsWithManagementCLI(t *testing.T) {
	for _, p := range []config.Profile{config.ProfileProduction, config.ProfileCloud, config.ProfileDev} {
		names := stepNames(Pipeline(p))
		assert.Equal(t, "install-management-cli", names[len(names)-1], string(p))
	}
}

func TestInstall_FreshProductionRun(t *testing.T) {
	h := fakes.NewFakeHost()
	h.Stub("dpkg -s", host.Result{}, errors.New("not installed"))
	stubSelf(t, h)

	ctx := testContext(t, config.ProfileProduction, h)
	require.NoError(t, provisioning.Run(ctx, Pipeline(config.ProfileProduction)))

	// Secrets were generated and persisted with restricted permissions.
	assert.True(t, ctx.CredentialsCreated)
	require.NotNil(t, ctx.Credentials)
	assert.Equal(t, os.FileMode(0o600), h.Perms[compose.CredentialsPath])

	// Every configuration artifact was rendered.
	for _, p := range []string{
		compose.EnvPath, compose.ComposeStandardPath, compose.ComposeHighPerfPath,
		compose.NginxConfPath, compose.FPMConfPath,
	} {
		assert.True(t, h.FileExists(p), p)
	}
	assert.Contains(t, string(h.Files[compose.EnvPath]), "APP_ENV=production")

	// Base system was provisioned.
	assert.NotEmpty(t, h.CommandsWithPrefix("apt-get install -y -q curl"))
	assert.NotEmpty(t, h.CommandsWithPrefix("sh -c curl -fsSL https://get.docker.com"))
	assert.NotEmpty(t, h.CommandsWithPrefix("ufw --force enable"))
	assert.NotEmpty(t, h.CommandsWithPrefix("docker compose -f "+compose.ComposeStandardPath+" up -d"))

	// Seeding ran once with the admin inputs as process environment.
	seeds := h.CommandsWithPrefix("docker exec -e SEED_ADMIN_USERNAME=kepsek")
	require.Len(t, seeds, 1)
	assert.Contains(t, seeds[0], "SEED_ADMIN_PASSWORD="+ctx.Credentials.AdminPassword)
	assert.Contains(t, seeds[0], "db:seed")
	assert.True(t, h.FileExists(seededMarker))

	// TLS certificate was requested for the configured domain.
	certbot := h.CommandsWithPrefix("certbot --nginx -d sma1.sch.id")
	assert.Len(t, certbot, 1)

	// The management binary was installed.
	assert.Equal(t, []byte("binary"), h.Files[CLIPath])
	assert.Equal(t, os.FileMode(0o755), h.Perms[CLIPath])
}

func TestInstall_SecondRunIsNonDestructive(t *testing.T) {
	h := fakes.NewFakeHost()
	h.Stub("dpkg -s", host.Result{}, errors.New("not installed"))
	stubSelf(t, h)

	ctx := testContext(t, config.ProfileProduction, h)
	require.NoError(t, provisioning.Run(ctx, Pipeline(config.ProfileProduction)))

	creds := h.Files[compose.CredentialsPath]
	env := h.Files[compose.EnvPath]

	// The host now reflects a finished install.
	h.Stub("dpkg -s", host.Result{}, nil)
	h.Binaries["docker"] = true
	h.Binaries["nginx"] = true
	h.Binaries["certbot"] = true
	h.Stub("ufw status", host.Result{Stdout: "Status: active\n"}, nil)
	h.Stub("docker ps", host.Result{Stdout: compose.ContainerApp+"\n"+compose.ContainerDB+"\n"}, nil)
	h.Files["/etc/letsencrypt/live/sma1.sch.id/fullchain.pem"] = []byte("cert")

	mark := len(h.Commands)
	ctx2 := testContext(t, config.ProfileProduction, h)
	require.NoError(t, provisioning.Run(ctx2, Pipeline(config.ProfileProduction)))

	// Secrets and rendered artifacts are byte-identical.
	assert.False(t, ctx2.CredentialsCreated)
	assert.Equal(t, creds, h.Files[compose.CredentialsPath])
	assert.Equal(t, env, h.Files[compose.EnvPath])

	// Nothing was reinstalled, restarted or reseeded.
	second := h.Commands[mark:]
	for _, c := range second {
		assert.NotContains(t, c, "apt-get install")
		assert.NotContains(t, c, "get.docker.com")
		assert.NotContains(t, c, "compose -f "+compose.ComposeStandardPath+" up")
		assert.NotContains(t, c, "db:seed")
		assert.NotContains(t, c, "certbot --nginx")
	}
}

func TestInstall_SecondRunRespectsHighPerformanceMode(t *testing.T) {
	h := fakes.NewFakeHost()
	stubSelf(t, h)
	h.Binaries["docker"] = true
	h.Binaries["nginx"] = true
	h.Stub("docker ps", host.Result{Stdout: compose.ContainerAppHP+"\n"+compose.ContainerDBHP+"\n"}, nil)
	h.Files[seededMarker] = []byte("seeded\n")

	ctx := testContext(t, config.ProfileDev, h)
	require.NoError(t, provisioning.Run(ctx, Pipeline(config.ProfileDev)))

	// start-containers was skipped: bringing up the standard composition
	// would fight the running high-performance stack.
	assert.Empty(t, h.CommandsWithPrefix("docker compose -f "+compose.ComposeStandardPath+" up"))

	// Probes and optimization address the -hp containers.
	assert.NotEmpty(t, h.CommandsWithPrefix("docker exec "+compose.ContainerDBHP+" mysqladmin ping"))
	assert.NotEmpty(t, h.CommandsWithPrefix("docker exec "+compose.ContainerAppHP+" php artisan config:cache"))
}

func TestInstall_CloudRunCreatesOperatorFirst(t *testing.T) {
	h := fakes.NewFakeHost()
	h.Stub("id "+OperatorUser, host.Result{}, errors.New("no such user"))
	stubSelf(t, h)

	ctx := testContext(t, config.ProfileCloud, h)
	require.NoError(t, provisioning.Run(ctx, Pipeline(config.ProfileCloud)))

	require.NotEmpty(t, h.CommandsWithPrefix("useradd -m -s /bin/bash "+OperatorUser))
	assert.NotEmpty(t, h.CommandsWithPrefix("usermod -aG sudo "+OperatorUser))

	authorized := h.Files["/home/"+OperatorUser+"/.ssh/authorized_keys"]
	assert.Contains(t, string(authorized), "ssh-rsa ")
	assert.Equal(t, os.FileMode(0o600), h.Perms["/home/"+OperatorUser+"/.ssh/authorized_keys"])

	key := h.Files[OperatorKeyPath]
	assert.Contains(t, string(key), "RSA PRIVATE KEY")
	assert.Equal(t, os.FileMode(0o600), h.Perms[OperatorKeyPath])

	// Account creation precedes every package operation.
	assert.Less(t, indexOfPrefix(h.Commands, "useradd"), indexOfPrefix(h.Commands, "apt-get"))
}

func TestInstall_DockerFailureAborts(t *testing.T) {
	h := fakes.NewFakeHost()
	h.Stub("sh -c curl -fsSL https://get.docker.com", host.Result{}, errors.New("exit 1"))

	ctx := testContext(t, config.ProfileDev, h)
	err := provisioning.Run(ctx, Pipeline(config.ProfileDev))

	var serr *provisioning.StepError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "install-docker", serr.Step)

	// No later step ran.
	assert.Empty(t, h.CommandsWithPrefix("apt-get install -y -q nginx"))
	assert.False(t, h.FileExists(compose.EnvPath))
}

func TestInstall_DatabaseTimeoutIsFatal(t *testing.T) {
	h := fakes.NewFakeHost()
	stubSelf(t, h)
	h.Binaries["docker"] = true
	h.Binaries["nginx"] = true
	h.Stub("docker exec "+compose.ContainerDB+" mysqladmin", host.Result{}, errors.New("connection refused"))

	ctx := testContext(t, config.ProfileDev, h)
	err := provisioning.Run(ctx, Pipeline(config.ProfileDev))

	var serr *provisioning.StepError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "await-database", serr.Step)

	var terr *readiness.TimeoutError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, 3, terr.Attempts)

	// Exactly maxAttempts liveness checks, then abort before seeding.
	assert.Len(t, h.CommandsWithPrefix("docker exec "+compose.ContainerDB+" mysqladmin"), 3)
	assert.Empty(t, h.CommandsWithPrefix("docker exec "+compose.ContainerApp+" php artisan migrate"))
}

func indexOfPrefix(commands []string, prefix string) int {
	for i, c := range commands {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			return i
		}
	}
	return -1
}
