package handlers

import (
	"bytes"
	"context"
	"testing"

	"github.com/sekolahku/skdeploy/internal/backup"
	"github.com/sekolahku/skdeploy/internal/config"
	"github.com/sekolahku/skdeploy/internal/mode"
	"github.com/sekolahku/skdeploy/internal/platform/docker"
	"github.com/sekolahku/skdeploy/internal/platform/host"
	"github.com/sekolahku/skdeploy/internal/platform/s3"
	"github.com/sekolahku/skdeploy/internal/resources"
	fakes "github.com/sekolahku/skdeploy/internal/testing"
)

// saveAndRestoreFactories snapshots every injectable and restores it after
// the test, so tests can freely replace them.
func saveAndRestoreFactories(t *testing.T) {
	t.Helper()
	origNewHost := newHost
	origStdout := stdout
	origIsTerminal := isTerminal
	origProbe := probeReadings
	origLoad := loadConfigFile
	origWizard := runWizard
	origProgress := runProgress
	origConfirm := confirm
	origOffsite := offsiteSettings
	origStore := newStore
	origSwitcher := newSwitcher
	t.Cleanup(func() {
		newHost = origNewHost
		stdout = origStdout
		isTerminal = origIsTerminal
		probeReadings = origProbe
		loadConfigFile = origLoad
		runWizard = origWizard
		runProgress = origProgress
		confirm = origConfirm
		offsiteSettings = origOffsite
		newStore = origStore
		newSwitcher = origSwitcher
	})
}

// wireDefaults points the factories at a fake host and quiet defaults, and
// returns the fake plus the captured output.
func wireDefaults(t *testing.T) (*fakes.FakeHost, *bytes.Buffer) {
	t.Helper()
	saveAndRestoreFactories(t)

	h := fakes.NewFakeHost()
	out := &bytes.Buffer{}

	newHost = func() host.Host { return h }
	stdout = out
	isTerminal = func() bool { return false }
	probeReadings = func(host.Host) (resources.Readings, error) {
		return resources.Readings{RAMMB: 8192, CPUCores: 4, FreeDiskGB: 50}, nil
	}
	confirm = func(string) (bool, error) { return true, nil }
	offsiteSettings = func() (s3.Settings, bool) { return s3.Settings{}, false }
	newStore = func(context.Context, s3.Settings) (backup.Store, error) {
		t.Fatal("store must not be built when offsite storage is unconfigured")
		return nil, nil
	}
	newSwitcher = func(client *docker.Client) *mode.Switcher {
		s := mode.NewSwitcher(client, confirm)
		s.SettleDelay = 0
		return s
	}
	return h, out
}

func validConfig(profile config.Profile) *config.Config {
	cfg := &config.Config{
		Domain:        "sman1.sch.id",
		AdminUsername: "kepsek",
		AdminEmail:    "kepsek@sman1.sch.id",
		SchoolName:    "SMA Negeri 1",
		SchoolLevel:   config.LevelSMA,
		Profile:       profile,
	}
	cfg.ApplyDefaults()
	return cfg
}

// stubConfig routes loadConfigFile to a fixed config.
func stubConfig(cfg *config.Config) {
	loadConfigFile = func(_ string, profile config.Profile) (*config.Config, error) {
		c := *cfg
		c.Profile = profile
		return &c, nil
	}
}

// envFileFor seeds the rendered env file that records the profile.
func envFileFor(h *fakes.FakeHost, profile config.Profile) {
	h.Files["/opt/sekolahku/.env"] = []byte("APP_NAME=X\nSKDEPLOY_PROFILE=" + string(profile) + "\n")
}

// runningStandard makes docker ps report the standard stack.
func runningStandard(h *fakes.FakeHost) {
	h.Stub("docker ps", host.Result{Stdout: "sekolahku-app\nsekolahku-db\n"}, nil)
}
