package mode

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sekolahku/skdeploy/internal/compose"
	"github.com/sekolahku/skdeploy/internal/platform/docker"
	"github.com/sekolahku/skdeploy/internal/platform/host"
	"github.com/sekolahku/skdeploy/internal/resources"
	fakes "github.com/sekolahku/skdeploy/internal/testing"
)

func stackRunning(h *fakes.FakeHost, names ...string) {
	out := ""
	for _, n := range names {
		out += n + "\n"
	}
	h.Stub("docker ps", host.Result{Stdout: out}, nil)
}

func newSwitcher(h *fakes.FakeHost, confirm func(string) (bool, error)) *Switcher {
	s := NewSwitcher(docker.New(h), confirm)
	s.SettleDelay = time.Microsecond
	return s
}

func confirmYes(string) (bool, error) { return true, nil }
func confirmNo(string) (bool, error)  { return false, nil }

func TestCurrent(t *testing.T) {
	tests := []struct {
		name    string
		running []string
		mode    compose.Mode
		up      bool
	}{
		{"standard stack", []string{compose.ContainerApp, compose.ContainerDB}, compose.ModeStandard, true},
		{"high-performance stack", []string{compose.ContainerAppHP, compose.ContainerDBHP}, compose.ModeHighPerformance, true},
		{"nothing running", nil, compose.Mode(""), false},
		{"unrelated containers only", []string{"some-other-app"}, compose.Mode(""), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := fakes.NewFakeHost()
			stackRunning(h, tt.running...)

			m, up, err := Current(context.Background(), docker.New(h))
			require.NoError(t, err)
			assert.Equal(t, tt.up, up)
			assert.Equal(t, tt.mode, m)
		})
	}
}

func TestUp_SwitchesStacks(t *testing.T) {
	h := fakes.NewFakeHost()
	stackRunning(h, compose.ContainerApp)
	h.Stub("docker inspect --format {{.State.Status}} "+compose.ContainerAppHP,
		host.Result{Stdout: "running\n"}, nil)

	s := newSwitcher(h, confirmYes)
	changed, err := s.Up(context.Background(), resources.Readings{RAMMB: 16000, CPUCores: 8})
	require.NoError(t, err)
	assert.True(t, changed)

	// Outgoing stack torn down without volumes, target brought up, verified.
	assert.Len(t, h.CommandsWithPrefix("docker compose -f "+compose.ComposeStandardPath+" down"), 1)
	assert.Len(t, h.CommandsWithPrefix("docker compose -f "+compose.ComposeHighPerfPath+" up -d"), 1)
	assert.Empty(t, h.CommandsWithPrefix("docker compose -f "+compose.ComposeStandardPath+" down -v"))
}

func TestUp_RejectsBelowHardMinimums(t *testing.T) {
	h := fakes.NewFakeHost()
	stackRunning(h, compose.ContainerApp)

	s := newSwitcher(h, confirmYes)
	changed, err := s.Up(context.Background(), resources.Readings{RAMMB: 3000, CPUCores: 2})
	assert.False(t, changed)

	var gerr *GateError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, 3000, gerr.RAMMB)

	// Refused before any container operation.
	assert.Empty(t, h.CommandsWithPrefix("docker compose"))
}

func TestUp_AboveRecommendedSkipsPrompt(t *testing.T) {
	h := fakes.NewFakeHost()
	stackRunning(h, compose.ContainerApp)
	h.Stub("docker inspect", host.Result{Stdout: "running\n"}, nil)

	prompted := false
	s := newSwitcher(h, func(string) (bool, error) { prompted = true; return true, nil })
	changed, err := s.Up(context.Background(), resources.Readings{RAMMB: 10000, CPUCores: 4})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.False(t, prompted, "no prompt when the host meets the recommendation")
}

func TestUp_BetweenGatesPromptsAndHonorsDecline(t *testing.T) {
	h := fakes.NewFakeHost()
	stackRunning(h, compose.ContainerApp)

	s := newSwitcher(h, confirmNo)
	changed, err := s.Up(context.Background(), resources.Readings{RAMMB: 5000, CPUCores: 3})
	require.NoError(t, err)
	assert.False(t, changed, "declining the prompt leaves the stack unchanged")
	assert.Empty(t, h.CommandsWithPrefix("docker compose"))
}

func TestUp_AlreadyHighPerformanceIsNoop(t *testing.T) {
	h := fakes.NewFakeHost()
	stackRunning(h, compose.ContainerAppHP)

	s := newSwitcher(h, confirmYes)
	changed, err := s.Up(context.Background(), resources.Readings{RAMMB: 16000, CPUCores: 8})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, h.CommandsWithPrefix("docker compose"))
}

func TestUp_StackNotRunning(t *testing.T) {
	h := fakes.NewFakeHost()
	stackRunning(h)

	s := newSwitcher(h, confirmYes)
	_, err := s.Up(context.Background(), resources.Readings{RAMMB: 16000, CPUCores: 8})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not running")
}

func TestUp_FailedVerification(t *testing.T) {
	h := fakes.NewFakeHost()
	stackRunning(h, compose.ContainerApp)
	h.Stub("docker inspect", host.Result{Stdout: "restarting\n"}, nil)

	s := newSwitcher(h, confirmYes)
	_, err := s.Up(context.Background(), resources.Readings{RAMMB: 16000, CPUCores: 8})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"restarting"`)
}

func TestDown_SwitchesBackWithoutGates(t *testing.T) {
	h := fakes.NewFakeHost()
	stackRunning(h, compose.ContainerAppHP)
	h.Stub("docker inspect --format {{.State.Status}} "+compose.ContainerApp,
		host.Result{Stdout: "running\n"}, nil)

	s := newSwitcher(h, confirmNo) // prompt must never fire on the way down
	changed, err := s.Down(context.Background())
	require.NoError(t, err)
	assert.True(t, changed)

	assert.Len(t, h.CommandsWithPrefix("docker compose -f "+compose.ComposeHighPerfPath+" down"), 1)
	assert.Len(t, h.CommandsWithPrefix("docker compose -f "+compose.ComposeStandardPath+" up -d"), 1)
}

func TestDown_AlreadyStandardIsNoop(t *testing.T) {
	h := fakes.NewFakeHost()
	stackRunning(h, compose.ContainerApp)

	s := newSwitcher(h, confirmNo)
	changed, err := s.Down(context.Background())
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, h.CommandsWithPrefix("docker compose"))
}
