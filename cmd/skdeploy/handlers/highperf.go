package handlers

import (
	"context"
	"fmt"

	"github.com/sekolahku/skdeploy/internal/compose"
	"github.com/sekolahku/skdeploy/internal/mode"
	"github.com/sekolahku/skdeploy/internal/platform/docker"
)

// HighPerfUp switches the stack to high-performance mode, gated on live
// host resources.
func HighPerfUp(ctx context.Context) error {
	h := newHost()
	client := docker.New(h)

	readings, err := probeReadings(h)
	if err != nil {
		return fmt.Errorf("failed to measure host resources: %w", err)
	}

	switcher := newSwitcher(client)
	changed, err := switcher.Up(ctx, readings)
	if err != nil {
		return err
	}
	if !changed {
		fmt.Fprintln(stdout, "Stack unchanged")
		return nil
	}
	fmt.Fprintln(stdout, "Stack is now running in high-performance mode")
	return nil
}

// HighPerfDown switches the stack back to standard mode.
func HighPerfDown(ctx context.Context) error {
	client := docker.New(newHost())

	switcher := newSwitcher(client)
	changed, err := switcher.Down(ctx)
	if err != nil {
		return err
	}
	if !changed {
		fmt.Fprintln(stdout, "Stack already runs in standard mode")
		return nil
	}
	fmt.Fprintln(stdout, "Stack is back in standard mode")
	return nil
}

// HighPerfStatus reports the active mode, derived from live containers.
func HighPerfStatus(ctx context.Context) error {
	client := docker.New(newHost())
	m, running, err := mode.Current(ctx, client)
	if err != nil {
		return err
	}
	switch {
	case !running:
		fmt.Fprintln(stdout, "Stack is stopped")
	case m == compose.ModeHighPerformance:
		fmt.Fprintln(stdout, "Mode: high-performance")
	default:
		fmt.Fprintln(stdout, "Mode: standard")
	}
	return nil
}
