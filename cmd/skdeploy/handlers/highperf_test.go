package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sekolahku/skdeploy/internal/compose"
	"github.com/sekolahku/skdeploy/internal/mode"
	"github.com/sekolahku/skdeploy/internal/platform/host"
	"github.com/sekolahku/skdeploy/internal/resources"
)

func TestHighPerfUp_SwitchesModes(t *testing.T) {
	h, out := wireDefaults(t)
	runningStandard(h)
	h.Stub("docker inspect", host.Result{Stdout: "running\n"}, nil)

	require.NoError(t, HighPerfUp(context.Background()))

	assert.Contains(t, h.Commands, "docker compose -f "+compose.ComposeStandardPath+" down")
	assert.Contains(t, h.Commands, "docker compose -f "+compose.ComposeHighPerfPath+" up -d")
	assert.NotContains(t, h.Commands, "docker compose -f "+compose.ComposeStandardPath+" down -v")
	assert.Contains(t, out.String(), "high-performance mode")
}

func TestHighPerfUp_RejectsSmallHost(t *testing.T) {
	h, _ := wireDefaults(t)
	runningStandard(h)
	probeReadings = func(host.Host) (resources.Readings, error) {
		return resources.Readings{RAMMB: 3000, CPUCores: 2, FreeDiskGB: 50}, nil
	}

	err := HighPerfUp(context.Background())
	var gerr *mode.GateError
	require.ErrorAs(t, err, &gerr)
	assert.Empty(t, h.CommandsWithPrefix("docker compose"))
}

func TestHighPerfUp_AlreadyHighPerf(t *testing.T) {
	h, out := wireDefaults(t)
	h.Stub("docker ps", host.Result{Stdout: "sekolahku-app-hp\n"}, nil)

	require.NoError(t, HighPerfUp(context.Background()))
	assert.Contains(t, out.String(), "Stack unchanged")
	assert.Empty(t, h.CommandsWithPrefix("docker compose"))
}

func TestHighPerfDown_SwitchesBack(t *testing.T) {
	h, out := wireDefaults(t)
	h.Stub("docker ps", host.Result{Stdout: "sekolahku-app-hp\n"}, nil)
	h.Stub("docker inspect", host.Result{Stdout: "running\n"}, nil)

	require.NoError(t, HighPerfDown(context.Background()))
	assert.Contains(t, h.Commands, "docker compose -f "+compose.ComposeHighPerfPath+" down")
	assert.Contains(t, h.Commands, "docker compose -f "+compose.ComposeStandardPath+" up -d")
	assert.Contains(t, out.String(), "standard mode")
}

func TestHighPerfStatus(t *testing.T) {
	h, out := wireDefaults(t)
	h.Stub("docker ps", host.Result{Stdout: "sekolahku-app-hp\n"}, nil)

	require.NoError(t, HighPerfStatus(context.Background()))
	assert.Contains(t, out.String(), "Mode: high-performance")
}

func TestHighPerfStatus_Stopped(t *testing.T) {
	_, out := wireDefaults(t)

	require.NoError(t, HighPerfStatus(context.Background()))
	assert.Contains(t, out.String(), "Stack is stopped")
}
