// Package mode derives the active deployment mode from live container state
// and performs the switch between the standard and high-performance stacks.
//
// Mode is never read from a marker file: the running containers are the
// single source of truth, so a stack restarted by hand stays consistent with
// what the tool reports.
package mode

import (
	"context"
	"fmt"
	"time"

	"github.com/sekolahku/skdeploy/internal/compose"
	"github.com/sekolahku/skdeploy/internal/platform/docker"
	"github.com/sekolahku/skdeploy/internal/resources"
)

// Resource gates for the high-performance mode. Below the hard minimums the
// switch refuses outright; between hard and recommended it requires explicit
// confirmation.
const (
	HardMinRAMMB     = 4000
	HardMinCores     = 2
	RecommendedRAMMB = 8000
	RecommendedCores = 4
)

// DefaultSettleDelay is how long the switch waits after starting the target
// stack before verifying it, so crash-looping containers are caught.
const DefaultSettleDelay = 15 * time.Second

// GateError reports a host below the hard minimums for high-performance mode.
type GateError struct {
	RAMMB    int
	CPUCores int
}

func (e *GateError) Error() string {
	return fmt.Sprintf("high-performance mode requires %dMB RAM and %d cores; host has %dMB and %d",
		HardMinRAMMB, HardMinCores, e.RAMMB, e.CPUCores)
}

// Current derives the active mode from the running containers. The second
// return value reports whether the stack is running at all.
func Current(ctx context.Context, client *docker.Client) (compose.Mode, bool, error) {
	names, err := client.RunningContainers(ctx)
	if err != nil {
		return "", false, err
	}
	for _, n := range names {
		if n == compose.ContainerAppHP {
			return compose.ModeHighPerformance, true, nil
		}
	}
	for _, n := range names {
		if n == compose.ContainerApp {
			return compose.ModeStandard, true, nil
		}
	}
	return "", false, nil
}

// Switcher performs mode transitions. Confirm is consulted when the host
// meets the hard minimums but not the recommended ones; the CLI wires an
// interactive prompt, tests wire a canned answer.
type Switcher struct {
	Docker      *docker.Client
	Confirm     func(message string) (bool, error)
	SettleDelay time.Duration
}

// NewSwitcher returns a Switcher with the production settle delay.
func NewSwitcher(client *docker.Client, confirm func(string) (bool, error)) *Switcher {
	return &Switcher{Docker: client, Confirm: confirm, SettleDelay: DefaultSettleDelay}
}

// Up switches the stack from standard to high-performance mode. It returns
// false without error when nothing changed: the stack already runs in
// high-performance mode, or the operator declined the recommendation prompt.
func (s *Switcher) Up(ctx context.Context, r resources.Readings) (bool, error) {
	cur, running, err := Current(ctx, s.Docker)
	if err != nil {
		return false, err
	}
	if !running {
		return false, fmt.Errorf("stack is not running; start it before switching modes")
	}
	if cur == compose.ModeHighPerformance {
		return false, nil
	}

	if r.RAMMB < HardMinRAMMB || r.CPUCores < HardMinCores {
		return false, &GateError{RAMMB: r.RAMMB, CPUCores: r.CPUCores}
	}
	if r.RAMMB < RecommendedRAMMB || r.CPUCores < RecommendedCores {
		msg := fmt.Sprintf(
			"Host has %dMB RAM and %d cores; %dMB and %d are recommended for high-performance mode. Continue?",
			r.RAMMB, r.CPUCores, RecommendedRAMMB, RecommendedCores)
		ok, err := s.Confirm(msg)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}

	if err := s.transition(ctx, compose.ComposeStandardPath, compose.ComposeHighPerfPath, compose.ContainerAppHP); err != nil {
		return false, err
	}
	return true, nil
}

// Down switches the stack back to standard mode. No gates: standard mode is
// always safe. Returns false when the stack already runs standard.
func (s *Switcher) Down(ctx context.Context) (bool, error) {
	cur, running, err := Current(ctx, s.Docker)
	if err != nil {
		return false, err
	}
	if !running {
		return false, fmt.Errorf("stack is not running; start it before switching modes")
	}
	if cur == compose.ModeStandard {
		return false, nil
	}

	if err := s.transition(ctx, compose.ComposeHighPerfPath, compose.ComposeStandardPath, compose.ContainerApp); err != nil {
		return false, err
	}
	return true, nil
}

// transition tears the outgoing composition down (named volumes stay), brings
// the target up, waits for it to settle and verifies the app container.
func (s *Switcher) transition(ctx context.Context, from, to, verifyContainer string) error {
	if err := s.Docker.ComposeDown(ctx, from); err != nil {
		return err
	}
	if err := s.Docker.ComposeUp(ctx, to); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.SettleDelay):
	}

	state, err := s.Docker.ContainerState(ctx, verifyContainer)
	if err != nil {
		return fmt.Errorf("mode switch verification failed: %w", err)
	}
	if state != "running" {
		return fmt.Errorf("mode switch failed: %s is %q after settle period", verifyContainer, state)
	}
	return nil
}
