package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sekolahku/skdeploy/internal/compose"
	"github.com/sekolahku/skdeploy/internal/config"
	"github.com/sekolahku/skdeploy/internal/install"
	"github.com/sekolahku/skdeploy/internal/platform/host"
	"github.com/sekolahku/skdeploy/internal/provisioning"
	"github.com/sekolahku/skdeploy/internal/resources"
)

func TestInstall_UnknownProfile(t *testing.T) {
	wireDefaults(t)
	err := Install(context.Background(), "sekolahku.conf", "staging")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown profile")
}

func TestInstall_ValidationAbortsBeforeSideEffects(t *testing.T) {
	h, _ := wireDefaults(t)
	cfg := validConfig(config.ProfileProduction)
	cfg.AdminUsername = "ab" // too short
	stubConfig(cfg)

	err := Install(context.Background(), "sekolahku.conf", "production")
	require.Error(t, err)

	var verr *config.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "ADMIN_USERNAME", verr.Field)
	assert.Empty(t, h.Commands, "no command may run on invalid input")
}

func TestInstall_ResourceGateAbortsBeforeSideEffects(t *testing.T) {
	h, _ := wireDefaults(t)
	stubConfig(validConfig(config.ProfileProduction))
	probeReadings = func(host.Host) (resources.Readings, error) {
		return resources.Readings{RAMMB: 1500, CPUCores: 2, FreeDiskGB: 50}, nil
	}

	err := Install(context.Background(), "sekolahku.conf", "production")
	var perr *resources.PreconditionError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "memory", perr.Resource)
	assert.Empty(t, h.Commands)
}

func TestInstall_DevAcceptsSmallerHosts(t *testing.T) {
	h, out := wireDefaults(t)
	stubConfig(validConfig(config.ProfileDev))
	probeReadings = func(host.Host) (resources.Readings, error) {
		return resources.Readings{RAMMB: 1500, CPUCores: 2, FreeDiskGB: 8}, nil
	}
	h.Files[install.CLIPath] = []byte("installed")
	h.Binaries["docker"] = true
	h.Binaries["nginx"] = true

	err := Install(context.Background(), "sekolahku.conf", "dev")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Installation complete")
}

func TestInstall_ShowsSecretsOnceThenRedacts(t *testing.T) {
	h, out := wireDefaults(t)
	stubConfig(validConfig(config.ProfileProduction))
	h.Files[install.CLIPath] = []byte("installed")
	h.Binaries["docker"] = true
	h.Binaries["nginx"] = true
	h.Binaries["certbot"] = true

	require.NoError(t, Install(context.Background(), "sekolahku.conf", "production"))

	creds := string(h.Files[compose.CredentialsPath])
	require.Contains(t, creds, "DB_PASSWORD=")
	first := out.String()
	assert.Contains(t, first, "Installation complete")
	assert.Contains(t, first, "only this once")

	// Re-run: same artifact, redacted output.
	out.Reset()
	require.NoError(t, Install(context.Background(), "sekolahku.conf", "production"))
	assert.Equal(t, creds, string(h.Files[compose.CredentialsPath]))
	assert.Contains(t, out.String(), "********")
	assert.NotContains(t, out.String(), "only this once")
}

func TestInstall_TTYUsesProgressDisplay(t *testing.T) {
	h, _ := wireDefaults(t)
	stubConfig(validConfig(config.ProfileDev))
	h.Files[install.CLIPath] = []byte("installed")
	h.Binaries["docker"] = true
	h.Binaries["nginx"] = true
	isTerminal = func() bool { return true }

	var gotSteps []string
	runProgress = func(_, _ string, stepNames []string, fn func(provisioning.Observer) error) error {
		gotSteps = stepNames
		return fn(nil)
	}

	require.NoError(t, Install(context.Background(), "sekolahku.conf", "dev"))
	assert.Contains(t, gotSteps, "render-configs")
	assert.Equal(t, "install-management-cli", gotSteps[len(gotSteps)-1])
}
